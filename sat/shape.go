package sat

import (
	"math"

	"github.com/akmonengine/voxelizer/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// ShapeKind tags the variant held by a Shape
type ShapeKind uint8

const (
	KindTriangle ShapeKind = iota
	KindBox
)

var principalAxes = [3]mgl64.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

// Shape is a convex primitive usable by the generic separating axis test.
// Only the field matching Kind is meaningful.
type Shape struct {
	Kind     ShapeKind
	Triangle [3]mgl64.Vec3
	Box      geometry.AABB
}

// TriangleShape wraps three vertices
func TriangleShape(a, b, c mgl64.Vec3) Shape {
	return Shape{Kind: KindTriangle, Triangle: [3]mgl64.Vec3{a, b, c}}
}

// BoxShape wraps an axis-aligned box
func BoxShape(box geometry.AABB) Shape {
	return Shape{Kind: KindBox, Box: box}
}

// Project returns the interval covered by the shape on axis
func (s Shape) Project(axis mgl64.Vec3) (min, max float64) {
	switch s.Kind {
	case KindTriangle:
		p0 := s.Triangle[0].Dot(axis)
		p1 := s.Triangle[1].Dot(axis)
		p2 := s.Triangle[2].Dot(axis)
		return min3(p0, p1, p2), max3(p0, p1, p2)
	case KindBox:
		c := s.Box.Center().Dot(axis)
		e := s.Box.Extents()
		r := e.X()*math.Abs(axis.X()) + e.Y()*math.Abs(axis.Y()) + e.Z()*math.Abs(axis.Z())
		return c - r, c + r
	default:
		panic("sat: unknown shape kind")
	}
}

// Normals returns the face normals the shape contributes as candidate axes
func (s Shape) Normals() []mgl64.Vec3 {
	switch s.Kind {
	case KindTriangle:
		t := s.Triangle
		return []mgl64.Vec3{t[1].Sub(t[0]).Cross(t[2].Sub(t[1]))}
	case KindBox:
		return principalAxes[:]
	default:
		panic("sat: unknown shape kind")
	}
}

// Edges returns the edge directions used to build cross product axes
func (s Shape) Edges() []mgl64.Vec3 {
	switch s.Kind {
	case KindTriangle:
		t := s.Triangle
		return []mgl64.Vec3{t[1].Sub(t[0]), t[2].Sub(t[1]), t[0].Sub(t[2])}
	case KindBox:
		return principalAxes[:]
	default:
		panic("sat: unknown shape kind")
	}
}

// Overlap runs the generic separating axis test between two shapes: every
// face normal of both shapes and every cross product of their edges. It is
// slower than Intersects and serves as an independent reference for it.
func Overlap(a, b Shape) bool {
	for _, axis := range a.Normals() {
		if separates(a, b, axis) {
			return false
		}
	}
	for _, axis := range b.Normals() {
		if separates(a, b, axis) {
			return false
		}
	}
	for _, ea := range a.Edges() {
		for _, eb := range b.Edges() {
			if separates(a, b, ea.Cross(eb)) {
				return false
			}
		}
	}
	return true
}

func separates(a, b Shape, axis mgl64.Vec3) bool {
	aMin, aMax := a.Project(axis)
	bMin, bMax := b.Project(axis)
	return aMin > bMax || aMax < bMin
}
