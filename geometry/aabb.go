package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// EmptyAABB returns an inverted box that any Include call will collapse onto
// the included point.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: mgl64.Vec3{inf, inf, inf},
		Max: mgl64.Vec3{-inf, -inf, -inf},
	}
}

// BoundsOf returns the componentwise min/max of the given points.
func BoundsOf(points ...mgl64.Vec3) AABB {
	b := EmptyAABB()
	for _, p := range points {
		b = b.Include(p)
	}
	return b
}

// NewCenteredAABB builds a box from its center and half extents.
func NewCenteredAABB(center, halfExtents mgl64.Vec3) AABB {
	return AABB{Min: center.Sub(halfExtents), Max: center.Add(halfExtents)}
}

// IsEmpty reports whether the box is inverted on any axis.
func (a AABB) IsEmpty() bool {
	return a.Min.X() > a.Max.X() || a.Min.Y() > a.Max.Y() || a.Min.Z() > a.Max.Z()
}

// Include returns a box enlarged to contain point
func (a AABB) Include(point mgl64.Vec3) AABB {
	return AABB{
		Min: mgl64.Vec3{
			math.Min(a.Min[0], point[0]),
			math.Min(a.Min[1], point[1]),
			math.Min(a.Min[2], point[2]),
		},
		Max: mgl64.Vec3{
			math.Max(a.Max[0], point[0]),
			math.Max(a.Max[1], point[1]),
			math.Max(a.Max[2], point[2]),
		},
	}
}

// Expand grows the box by d on every face
func (a AABB) Expand(d float64) AABB {
	v := mgl64.Vec3{d, d, d}
	return AABB{Min: a.Min.Sub(v), Max: a.Max.Add(v)}
}

// Size returns the edge lengths of the box
func (a AABB) Size() mgl64.Vec3 {
	return a.Max.Sub(a.Min)
}

// Center returns the center of the box
func (a AABB) Center() mgl64.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

// Extents returns the half size of the box
func (a AABB) Extents() mgl64.Vec3 {
	return a.Size().Mul(0.5)
}

// MaxExtent returns the largest of the three edge lengths
func (a AABB) MaxExtent() float64 {
	s := a.Size()
	return math.Max(s.X(), math.Max(s.Y(), s.Z()))
}

// ContainsPoint checks if a point is inside the AABB
func (a AABB) ContainsPoint(point mgl64.Vec3) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y() &&
		point.Z() >= a.Min.Z() && point.Z() <= a.Max.Z()
}

// Overlaps checks if two AABBs overlap
func (a AABB) Overlaps(other AABB) bool {
	// AABBs overlap if they overlap on all three axes
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y() &&
		a.Max.Z() >= other.Min.Z() && a.Min.Z() <= other.Max.Z()
}
