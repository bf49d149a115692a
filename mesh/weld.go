package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Weld builds an indexed mesh from a triangle soup, sharing vertices closer
// than tol on every axis. tol <= 0 shares exactly equal vertices only.
func Weld(triangles [][3]mgl64.Vec3, tol float64) *Mesh {
	m := &Mesh{
		Vertices: make([]mgl64.Vec3, 0, len(triangles)),
		Indices:  make([]int, 0, 3*len(triangles)),
	}

	// vertex index cache
	cache := make(map[[3]int64]int)
	exact := make(map[mgl64.Vec3]int)
	for _, tri := range triangles {
		for _, v := range tri {
			var idx int
			var ok bool
			if tol > 0 {
				key := quantize(v, 1/tol)
				if idx, ok = cache[key]; !ok {
					idx = len(m.Vertices)
					cache[key] = idx
				}
			} else {
				if idx, ok = exact[v]; !ok {
					idx = len(m.Vertices)
					exact[v] = idx
				}
			}
			if !ok {
				m.Vertices = append(m.Vertices, v)
			}
			m.Indices = append(m.Indices, idx)
		}
	}
	return m
}

// quantize scales v to integer tolerance space
func quantize(v mgl64.Vec3, inv float64) [3]int64 {
	return [3]int64{
		int64(math.Round(v.X() * inv)),
		int64(math.Round(v.Y() * inv)),
		int64(math.Round(v.Z() * inv)),
	}
}

// Soup returns the triangles of m, one entry per index triple
func (m *Mesh) Soup() [][3]mgl64.Vec3 {
	soup := make([][3]mgl64.Vec3, m.TriangleCount())
	for i := range soup {
		soup[i] = m.Triangle(i)
	}
	return soup
}
