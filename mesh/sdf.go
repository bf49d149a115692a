package mesh

import (
	"fmt"
	"math"

	"github.com/akmonengine/voxelizer/geometry"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"
)

// FromSDF tessellates a signed distance solid with uniform marching cubes,
// cells being the number of cubes along the longest side of its bounding box.
// Triangles are wound counter-clockwise seen from outside the solid.
func FromSDF(s sdf.SDF3, cells int) (*Mesh, error) {
	if cells <= 0 {
		return nil, fmt.Errorf("mesh: marching cubes needs a positive cell count, got %d", cells)
	}

	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s, renderer)
	if len(triangles) == 0 {
		return nil, ErrNoTriangles
	}

	bb := s.BoundingBox()
	size := math.Max(bb.Max.X-bb.Min.X, math.Max(bb.Max.Y-bb.Min.Y, bb.Max.Z-bb.Min.Z))
	probe := size / float64(cells) * 1e-2

	soup := make([][3]mgl64.Vec3, 0, len(triangles))
	for _, tri := range triangles {
		var t [3]mgl64.Vec3
		for j := 0; j < 3; j++ {
			v := tri[j]
			t[j] = mgl64.Vec3{v.X, v.Y, v.Z}
		}
		if inward(s, t, probe) {
			t[1], t[2] = t[2], t[1]
		}
		soup = append(soup, t)
	}

	// Vertices shared by neighbouring cubes may differ in the last bits
	return Weld(soup, size*1e-9), nil
}

// inward reports whether the winding normal of t points into the solid: the
// distance decreases when stepping along it.
func inward(s sdf.SDF3, t [3]mgl64.Vec3, probe float64) bool {
	tri := geometry.Triangle{A: t[0], B: t[1], C: t[2]}
	n := tri.Normal()
	if math.IsNaN(n.X()) {
		return false
	}
	n = n.Mul(probe)
	c := tri.Centroid()

	out := c.Add(n)
	in := c.Sub(n)
	return s.Evaluate(v3.Vec{X: out.X(), Y: out.Y(), Z: out.Z()}) < s.Evaluate(v3.Vec{X: in.X(), Y: in.Y(), Z: in.Z()})
}
