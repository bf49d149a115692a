package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Cube returns an axis-aligned cube of edge size: 8 vertices, 12 triangles,
// counter-clockwise seen from outside.
func Cube(center mgl64.Vec3, size float64) *Mesh {
	h := size * 0.5
	corners := [8]mgl64.Vec3{
		{-h, -h, -h}, {h, -h, -h}, {h, h, -h}, {-h, h, -h},
		{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h},
	}

	m := &Mesh{Vertices: make([]mgl64.Vec3, 0, 8)}
	for _, c := range corners {
		m.Vertices = append(m.Vertices, center.Add(c))
	}
	m.Indices = []int{
		0, 2, 1, 0, 3, 2, // -z
		4, 5, 6, 4, 6, 7, // +z
		0, 1, 5, 0, 5, 4, // -y
		3, 7, 6, 3, 6, 2, // +y
		0, 4, 7, 0, 7, 3, // -x
		1, 2, 6, 1, 6, 5, // +x
	}
	return m
}

// Icosphere approximates a sphere by subdividing an icosahedron subdiv times,
// every vertex lying at radius from center. It has 20*4^subdiv triangles,
// counter-clockwise seen from outside.
func Icosphere(center mgl64.Vec3, radius float64, subdiv int) *Mesh {
	t := (1 + math.Sqrt(5)) / 2
	unit := []mgl64.Vec3{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
	for i := range unit {
		unit[i] = unit[i].Normalize()
	}
	faces := []int{
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}

	for range subdiv {
		midpoints := make(map[[2]int]int)
		midpoint := func(a, b int) int {
			key := [2]int{min(a, b), max(a, b)}
			if idx, ok := midpoints[key]; ok {
				return idx
			}
			idx := len(unit)
			unit = append(unit, unit[a].Add(unit[b]).Normalize())
			midpoints[key] = idx
			return idx
		}

		next := make([]int, 0, 4*len(faces))
		for i := 0; i < len(faces); i += 3 {
			a, b, c := faces[i], faces[i+1], faces[i+2]
			ab, bc, ca := midpoint(a, b), midpoint(b, c), midpoint(c, a)
			next = append(next,
				a, ab, ca,
				b, bc, ab,
				c, ca, bc,
				ab, bc, ca,
			)
		}
		faces = next
	}

	m := &Mesh{Vertices: make([]mgl64.Vec3, len(unit)), Indices: faces}
	for i, v := range unit {
		m.Vertices[i] = center.Add(v.Mul(radius))
	}
	return m
}
