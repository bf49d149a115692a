package mesh

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"
)

// TriangleReader streams triangles into dst and returns io.EOF once
// exhausted, like the renderers of the sdf rendering packages.
type TriangleReader interface {
	ReadTriangles(dst []r3.Triangle) (int, error)
}

const readBufferSize = 1 << 12

// ReadAll drains r into a welded mesh
func ReadAll(r TriangleReader, tol float64) (*Mesh, error) {
	var soup [][3]mgl64.Vec3
	buf := make([]r3.Triangle, readBufferSize)
	for {
		n, err := r.ReadTriangles(buf)
		for _, t := range buf[:n] {
			soup = append(soup, fromR3(t))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("mesh: reading triangles: %w", err)
		}
	}

	if len(soup) == 0 {
		return nil, ErrNoTriangles
	}
	return Weld(soup, tol), nil
}

// FromTriangles welds a slice of gonum triangles
func FromTriangles(triangles []r3.Triangle, tol float64) *Mesh {
	soup := make([][3]mgl64.Vec3, len(triangles))
	for i, t := range triangles {
		soup[i] = fromR3(t)
	}
	return Weld(soup, tol)
}

// Triangles returns m as gonum triangles
func (m *Mesh) Triangles() []r3.Triangle {
	out := make([]r3.Triangle, m.TriangleCount())
	for i := range out {
		t := m.Triangle(i)
		for j := range t {
			out[i][j] = r3.Vec{X: t[j].X(), Y: t[j].Y(), Z: t[j].Z()}
		}
	}
	return out
}

func fromR3(t r3.Triangle) [3]mgl64.Vec3 {
	return [3]mgl64.Vec3{
		{t[0].X, t[0].Y, t[0].Z},
		{t[1].X, t[1].Y, t[1].Z},
		{t[2].X, t[2].Y, t[2].Z},
	}
}
