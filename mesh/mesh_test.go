package mesh

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	"github.com/fogleman/fauxgl"
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"
)

// assertClosedOutward checks that every edge is shared by exactly two
// triangles walking it in opposite directions, and that every triangle faces
// away from center.
func assertClosedOutward(t *testing.T, m *Mesh, center mgl64.Vec3) {
	t.Helper()

	edges := make(map[[2]int]int)
	for i := 0; i < m.TriangleCount(); i++ {
		a, b, c := m.Indices[3*i], m.Indices[3*i+1], m.Indices[3*i+2]
		edges[[2]int{a, b}]++
		edges[[2]int{b, c}]++
		edges[[2]int{c, a}]++

		tri := m.Triangle(i)
		n := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0]))
		centroid := tri[0].Add(tri[1]).Add(tri[2]).Mul(1.0 / 3.0)
		if n.Dot(centroid.Sub(center)) <= 0 {
			t.Fatalf("triangle %d faces inward", i)
		}
	}

	for e, count := range edges {
		if count != 1 {
			t.Fatalf("directed edge %v used %d times", e, count)
		}
		if edges[[2]int{e[1], e[0]}] != 1 {
			t.Fatalf("edge %v has no opposite", e)
		}
	}
}

// ============================================================================
// Mesh
// ============================================================================

func TestValidate(t *testing.T) {
	vertices := []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}

	tests := []struct {
		name    string
		indices []int
		wantErr error
	}{
		{"valid", []int{0, 1, 2}, nil},
		{"empty", nil, nil},
		{"partial triple", []int{0, 1, 2, 0}, ErrIndexCount},
		{"index too large", []int{0, 1, 3}, ErrIndexOutOfRange},
		{"negative index", []int{0, -1, 2}, ErrIndexOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: vertices, Indices: tt.indices}
			err := m.Validate()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAppend(t *testing.T) {
	a := Cube(mgl64.Vec3{}, 1)
	b := Cube(mgl64.Vec3{5, 0, 0}, 1)
	a.Append(b)

	if a.VertexCount() != 16 || a.TriangleCount() != 24 {
		t.Fatalf("got %d vertices, %d triangles; want 16, 24", a.VertexCount(), a.TriangleCount())
	}
	if err := a.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if got := a.Triangle(12)[0]; got != (mgl64.Vec3{4.5, -0.5, -0.5}) {
		t.Errorf("first appended triangle starts at %v", got)
	}
}

func TestTransform(t *testing.T) {
	m := Cube(mgl64.Vec3{}, 2)
	m.Transform(mgl64.Translate3D(1, 2, 3).Mul4(mgl64.Scale3D(2, 2, 2)))

	b := m.Bounds()
	if !b.Min.ApproxEqual(mgl64.Vec3{-1, 0, 1}) || !b.Max.ApproxEqual(mgl64.Vec3{3, 4, 5}) {
		t.Errorf("Bounds() = %v, want [(-1,0,1), (3,4,5)]", b)
	}
}

// ============================================================================
// Primitives
// ============================================================================

func TestCube(t *testing.T) {
	center := mgl64.Vec3{1, -1, 0.5}
	m := Cube(center, 2)

	if m.VertexCount() != 8 || m.TriangleCount() != 12 {
		t.Fatalf("got %d vertices, %d triangles; want 8, 12", m.VertexCount(), m.TriangleCount())
	}
	b := m.Bounds()
	if b.Min != (mgl64.Vec3{0, -2, -0.5}) || b.Max != (mgl64.Vec3{2, 0, 1.5}) {
		t.Errorf("Bounds() = %v", b)
	}
	assertClosedOutward(t, m, center)
}

func TestIcosphere(t *testing.T) {
	center := mgl64.Vec3{0, 0, 1}

	for subdiv := 0; subdiv <= 3; subdiv++ {
		m := Icosphere(center, 2, subdiv)

		pow := int(math.Pow(4, float64(subdiv)))
		if m.TriangleCount() != 20*pow {
			t.Errorf("subdiv %d: %d triangles, want %d", subdiv, m.TriangleCount(), 20*pow)
		}
		if m.VertexCount() != 10*pow+2 {
			t.Errorf("subdiv %d: %d vertices, want %d", subdiv, m.VertexCount(), 10*pow+2)
		}
		for i, v := range m.Vertices {
			if d := v.Sub(center).Len(); math.Abs(d-2) > 1e-12 {
				t.Fatalf("subdiv %d: vertex %d at distance %v", subdiv, i, d)
			}
		}
		assertClosedOutward(t, m, center)
	}
}

// ============================================================================
// Welding and conversions
// ============================================================================

func TestWeld(t *testing.T) {
	soup := [][3]mgl64.Vec3{
		{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		{{1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		{{1 + 1e-12, 0, 0}, {2, 0, 0}, {1, 1, 0}},
	}

	tests := []struct {
		name     string
		tol      float64
		vertices int
	}{
		{"exact", 0, 6},
		{"tolerance", 1e-6, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Weld(soup, tt.tol)
			if m.VertexCount() != tt.vertices {
				t.Errorf("VertexCount() = %d, want %d", m.VertexCount(), tt.vertices)
			}
			if m.TriangleCount() != 3 {
				t.Errorf("TriangleCount() = %d, want 3", m.TriangleCount())
			}
			if err := m.Validate(); err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}

func TestSoupRoundTrip(t *testing.T) {
	m := Icosphere(mgl64.Vec3{}, 1, 1)
	w := Weld(m.Soup(), 0)

	if w.VertexCount() != m.VertexCount() || w.TriangleCount() != m.TriangleCount() {
		t.Fatalf("welded soup has %d vertices, %d triangles", w.VertexCount(), w.TriangleCount())
	}
	for i := 0; i < m.TriangleCount(); i++ {
		if m.Triangle(i) != w.Triangle(i) {
			t.Fatalf("triangle %d differs", i)
		}
	}
}

type sliceReader struct {
	tris []r3.Triangle
	err  error
}

func (r *sliceReader) ReadTriangles(dst []r3.Triangle) (int, error) {
	if len(r.tris) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		return 0, io.EOF
	}
	n := copy(dst, r.tris)
	r.tris = r.tris[n:]
	return n, nil
}

func TestReadAll(t *testing.T) {
	cube := Cube(mgl64.Vec3{}, 1)
	tris := cube.Triangles()

	t.Run("drains the reader", func(t *testing.T) {
		m, err := ReadAll(&sliceReader{tris: tris}, 0)
		if err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}
		if m.VertexCount() != 8 || m.TriangleCount() != 12 {
			t.Errorf("got %d vertices, %d triangles; want 8, 12", m.VertexCount(), m.TriangleCount())
		}
	})

	t.Run("reader error", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := ReadAll(&sliceReader{tris: tris, err: boom}, 0)
		if !errors.Is(err, boom) {
			t.Errorf("ReadAll() error = %v, want %v", err, boom)
		}
	})

	t.Run("nothing read", func(t *testing.T) {
		_, err := ReadAll(&sliceReader{}, 0)
		if !errors.Is(err, ErrNoTriangles) {
			t.Errorf("ReadAll() error = %v, want %v", err, ErrNoTriangles)
		}
	})
}

func TestFromTriangles(t *testing.T) {
	m := FromTriangles(Cube(mgl64.Vec3{}, 1).Triangles(), 0)
	assertClosedOutward(t, m, mgl64.Vec3{})
}

func TestFromFauxgl(t *testing.T) {
	fm := fauxgl.NewTriangleMesh([]*fauxgl.Triangle{
		fauxgl.NewTriangleForPoints(fauxgl.V(0, 0, 0), fauxgl.V(1, 0, 0), fauxgl.V(0, 1, 0)),
		fauxgl.NewTriangleForPoints(fauxgl.V(1, 0, 0), fauxgl.V(1, 1, 0), fauxgl.V(0, 1, 0)),
	})

	m := FromFauxgl(fm, 0)
	if m.VertexCount() != 4 || m.TriangleCount() != 2 {
		t.Fatalf("got %d vertices, %d triangles; want 4, 2", m.VertexCount(), m.TriangleCount())
	}
	if got := m.Triangle(1); got[1] != (mgl64.Vec3{1, 1, 0}) {
		t.Errorf("winding changed: %v", got)
	}
}

// writeBinarySTL writes m in the 50 bytes per triangle binary layout
func writeBinarySTL(t *testing.T, path string, m *Mesh) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var header [80]byte
	if err := binary.Write(f, binary.LittleEndian, header); err != nil {
		t.Fatal(err)
	}
	if err := binary.Write(f, binary.LittleEndian, uint32(m.TriangleCount())); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < m.TriangleCount(); i++ {
		var rec struct {
			N, V1, V2, V3 [3]float32
			_             uint16
		}
		tri := m.Triangle(i)
		for j, v := range []*[3]float32{&rec.V1, &rec.V2, &rec.V3} {
			*v = [3]float32{float32(tri[j].X()), float32(tri[j].Y()), float32(tri[j].Z())}
		}
		if err := binary.Write(f, binary.LittleEndian, rec); err != nil {
			t.Fatal(err)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("binary stl", func(t *testing.T) {
		path := filepath.Join(dir, "cube.stl")
		writeBinarySTL(t, path, Cube(mgl64.Vec3{}, 2))

		m, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if m.VertexCount() != 8 || m.TriangleCount() != 12 {
			t.Errorf("got %d vertices, %d triangles; want 8, 12", m.VertexCount(), m.TriangleCount())
		}
		assertClosedOutward(t, m, mgl64.Vec3{})
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(dir, "missing.stl")); err == nil {
			t.Error("Load() of a missing file succeeded")
		}
	})
}

func TestFromSDF(t *testing.T) {
	s, err := sdf.Sphere3D(1)
	if err != nil {
		t.Fatal(err)
	}

	m, err := FromSDF(s, 24)
	if err != nil {
		t.Fatalf("FromSDF() error = %v", err)
	}
	if m.IsEmpty() {
		t.Fatal("FromSDF() returned no triangles")
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	for i, v := range m.Vertices {
		if d := v.Len(); math.Abs(d-1) > 0.1 {
			t.Fatalf("vertex %d at distance %v from the center", i, d)
		}
	}
	for i := 0; i < m.TriangleCount(); i++ {
		tri := m.Triangle(i)
		n := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0]))
		if n.Dot(tri[0].Add(tri[1]).Add(tri[2])) < 0 {
			t.Fatalf("triangle %d faces inward", i)
		}
	}

	if _, err := FromSDF(s, 0); err == nil {
		t.Error("FromSDF() with no cells succeeded")
	}
}
