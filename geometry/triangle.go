// Package geometry holds the small value types shared by the grid builder,
// the classifier and the voxelizer: boxes, triangles and rigid transforms.
package geometry

import "github.com/go-gl/mathgl/mgl64"

// Forward is the default reference direction used to classify triangles as
// front or back facing.
var Forward = mgl64.Vec3{0, 0, 1}

// Triangle is one mesh face together with the data derived from it once:
// its orientation relative to a reference direction and its bounds.
type Triangle struct {
	A, B, C mgl64.Vec3
	// Front is true when the face normal points against the reference
	// direction (dot(normal, dir) <= 0).
	Front  bool
	Bounds AABB
}

// NewTriangle builds a Triangle and classifies it against frontDir.
// A degenerate triangle has a zero normal and is therefore always front.
func NewTriangle(a, b, c, frontDir mgl64.Vec3) Triangle {
	n := b.Sub(a).Cross(c.Sub(a))
	return Triangle{
		A:      a,
		B:      b,
		C:      c,
		Front:  n.Dot(frontDir) <= 0,
		Bounds: BoundsOf(a, b, c),
	}
}

// Vertices returns the three corners in winding order
func (t Triangle) Vertices() [3]mgl64.Vec3 {
	return [3]mgl64.Vec3{t.A, t.B, t.C}
}

// Edges returns B-A, C-B and A-C
func (t Triangle) Edges() [3]mgl64.Vec3 {
	return [3]mgl64.Vec3{t.B.Sub(t.A), t.C.Sub(t.B), t.A.Sub(t.C)}
}

// Normal returns the unit normal following the CCW winding. It is NaN for a
// degenerate triangle.
func (t Triangle) Normal() mgl64.Vec3 {
	n := t.B.Sub(t.A).Cross(t.C.Sub(t.B))
	return n.Mul(1 / n.Len())
}

// Centroid returns the mean of the three vertices
func (t Triangle) Centroid() mgl64.Vec3 {
	return t.A.Add(t.B).Add(t.C).Mul(1.0 / 3.0)
}
