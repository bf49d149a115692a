// Package sat implements the separating axis test between a triangle and an
// axis-aligned box.
//
// Two convex shapes are disjoint if and only if there is an axis on which
// their projections do not overlap. For a triangle against an AABB, 13 axes
// are sufficient:
//   - 9 cross products between the box principal axes and the triangle edges
//   - the 3 box face normals (the principal axes)
//   - the triangle face normal
//
// The test is boundary inclusive and uses no epsilon: a triangle touching a
// box face, edge or corner intersects it.
//
// References:
//   - Akenine-Möller: "Fast 3D Triangle-Box Overlap Testing" (2001)
//   - Ericson: "Real-Time Collision Detection", section 5.2.9 (2005)
package sat

import (
	"math"

	"github.com/akmonengine/voxelizer/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// Intersects reports whether the triangle tri overlaps the axis-aligned box
// with the given center and half extents.
func Intersects(tri [3]mgl64.Vec3, center, halfExtents mgl64.Vec3) bool {
	// Move the box to the origin
	v0 := tri[0].Sub(center)
	v1 := tri[1].Sub(center)
	v2 := tri[2].Sub(center)

	f0 := v1.Sub(v0)
	f1 := v2.Sub(v1)
	f2 := v0.Sub(v2)

	// Box axes are unit vectors, so each cross product e_i x f_j is read off
	// the edge components directly.
	axes := [9]mgl64.Vec3{
		{0, -f0.Z(), f0.Y()},
		{0, -f1.Z(), f1.Y()},
		{0, -f2.Z(), f2.Y()},
		{f0.Z(), 0, -f0.X()},
		{f1.Z(), 0, -f1.X()},
		{f2.Z(), 0, -f2.X()},
		{-f0.Y(), f0.X(), 0},
		{-f1.Y(), f1.X(), 0},
		{-f2.Y(), f2.X(), 0},
	}
	for _, axis := range axes {
		if !axisOverlaps(v0, v1, v2, halfExtents, axis) {
			return false
		}
	}

	// Box face normals: the projection on a principal axis is the component itself
	for i := 0; i < 3; i++ {
		if min3(v0[i], v1[i], v2[i]) > halfExtents[i] || max3(v0[i], v1[i], v2[i]) < -halfExtents[i] {
			return false
		}
	}

	// Triangle face normal, left zero for a degenerate triangle: the plane test
	// then passes and the cells along the segment are kept
	n := f1.Cross(f0)
	if l := n.Len(); l > 0 {
		n = n.Mul(1 / l)
	}
	return PlaneIntersectsBox(n, n.Dot(tri[0]), center, halfExtents)
}

// IntersectsTriangle is Intersects for a prepared geometry.Triangle
func IntersectsTriangle(t geometry.Triangle, center, halfExtents mgl64.Vec3) bool {
	return Intersects(t.Vertices(), center, halfExtents)
}

// axisOverlaps projects a box-centered triangle and the box on axis and
// reports whether the two intervals overlap.
func axisOverlaps(v0, v1, v2, halfExtents, axis mgl64.Vec3) bool {
	p0 := v0.Dot(axis)
	p1 := v1.Dot(axis)
	p2 := v2.Dot(axis)

	// The box is centered at the origin: its projection is [-r, r]
	r := halfExtents.X()*math.Abs(axis.X()) +
		halfExtents.Y()*math.Abs(axis.Y()) +
		halfExtents.Z()*math.Abs(axis.Z())

	return !(min3(p0, p1, p2) > r || max3(p0, p1, p2) < -r)
}

// PlaneIntersectsBox tests the plane dot(normal, p) = distance against the
// box. normal must be unit length or zero; a zero normal always intersects.
func PlaneIntersectsBox(normal mgl64.Vec3, distance float64, center, halfExtents mgl64.Vec3) bool {
	r := halfExtents.X()*math.Abs(normal.X()) +
		halfExtents.Y()*math.Abs(normal.Y()) +
		halfExtents.Z()*math.Abs(normal.Z())

	s := normal.Dot(center) - distance
	return math.Abs(s) <= r
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
