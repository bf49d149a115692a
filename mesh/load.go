package mesh

import (
	"fmt"

	"github.com/fogleman/fauxgl"
	"github.com/go-gl/mathgl/mgl64"
)

// Load reads a mesh file. The format is picked from the extension: .stl
// (ascii or binary), .obj, .ply or .3ds. Vertices are welded exactly.
func Load(path string) (*Mesh, error) {
	fm, err := fauxgl.LoadMesh(path)
	if err != nil {
		return nil, fmt.Errorf("mesh: loading %s: %w", path, err)
	}

	m := FromFauxgl(fm, 0)
	if m.IsEmpty() {
		return nil, fmt.Errorf("mesh: loading %s: %w", path, ErrNoTriangles)
	}
	return m, nil
}

// FromFauxgl converts a fauxgl mesh, keeping the triangle winding.
func FromFauxgl(fm *fauxgl.Mesh, tol float64) *Mesh {
	soup := make([][3]mgl64.Vec3, 0, len(fm.Triangles))
	for _, t := range fm.Triangles {
		soup = append(soup, [3]mgl64.Vec3{
			fromFauxgl(t.V1.Position),
			fromFauxgl(t.V2.Position),
			fromFauxgl(t.V3.Position),
		})
	}
	return Weld(soup, tol)
}

func fromFauxgl(v fauxgl.Vector) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}
