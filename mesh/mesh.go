// Package mesh provides the indexed triangle meshes fed to the voxelizer and
// the ways to obtain them: mesh files, signed distance functions, triangle
// streams and a few procedural primitives.
package mesh

import (
	"errors"
	"fmt"

	"github.com/akmonengine/voxelizer/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrIndexOutOfRange = errors.New("mesh: index out of range")
	ErrIndexCount      = errors.New("mesh: index count is not a multiple of 3")
	ErrNoTriangles     = errors.New("mesh: no triangles")
)

// Mesh is a triangle list: Indices are read by triples, each naming three
// entries of Vertices.
type Mesh struct {
	Vertices []mgl64.Vec3
	Indices  []int
}

// TriangleCount returns the number of complete index triples
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// IsEmpty reports whether the mesh has no triangle
func (m *Mesh) IsEmpty() bool {
	return m.TriangleCount() == 0
}

// Bounds returns the bounds of all vertices, referenced or not
func (m *Mesh) Bounds() geometry.AABB {
	return geometry.BoundsOf(m.Vertices...)
}

// Triangle returns the three corners of the i-th triangle
func (m *Mesh) Triangle(i int) [3]mgl64.Vec3 {
	return [3]mgl64.Vec3{
		m.Vertices[m.Indices[3*i]],
		m.Vertices[m.Indices[3*i+1]],
		m.Vertices[m.Indices[3*i+2]],
	}
}

// Validate checks that indices come in triples and address existing vertices.
func (m *Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices", ErrIndexCount, len(m.Indices))
	}
	for i, idx := range m.Indices {
		if idx < 0 || idx >= len(m.Vertices) {
			return fmt.Errorf("%w: indices[%d] = %d with %d vertices", ErrIndexOutOfRange, i, idx, len(m.Vertices))
		}
	}
	return nil
}

// Append adds the triangles of other to m
func (m *Mesh) Append(other *Mesh) {
	offset := len(m.Vertices)
	m.Vertices = append(m.Vertices, other.Vertices...)
	for _, idx := range other.Indices {
		m.Indices = append(m.Indices, idx+offset)
	}
}

// Transform applies the affine matrix to every vertex in place
func (m *Mesh) Transform(mat mgl64.Mat4) {
	for i, v := range m.Vertices {
		m.Vertices[i] = mgl64.TransformCoordinate(v, mat)
	}
}
