package export

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	voxelizer "github.com/akmonengine/voxelizer"
	"github.com/akmonengine/voxelizer/grid"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrEmptyVolume = errors.New("export: volume has no filled cell")
	ErrNonFinite   = errors.New("export: inf/NaN STL vertex")
)

// stlHeader defines the STL file header.
type stlHeader struct {
	_     [80]uint8 // Header
	Count uint32    // Number of triangles
}

// stlTriangle defines the triangle data within an STL file.
type stlTriangle struct {
	Normal  [3]float32
	Vertex1 [3]float32
	Vertex2 [3]float32
	Vertex3 [3]float32
	_       uint16 // Attribute byte count
}

func (t stlTriangle) put(b []byte) {
	put3F32(b, t.Normal)
	put3F32(b[12:], t.Vertex1)
	put3F32(b[24:], t.Vertex2)
	put3F32(b[36:], t.Vertex3)
	binary.LittleEndian.PutUint16(b[48:], 0)
}

func put3F32(b []byte, f [3]float32) {
	_ = b[11] // early bounds check
	binary.LittleEndian.PutUint32(b, math.Float32bits(f[0]))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(f[1]))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(f[2]))
}

func bad3F32(f [3]float32) bool {
	return math32.IsNaN(f[0]) || math32.IsInf(f[0], 0) ||
		math32.IsNaN(f[1]) || math32.IsInf(f[1], 0) ||
		math32.IsNaN(f[2]) || math32.IsInf(f[2], 0)
}

func to3F32(v mgl64.Vec3) [3]float32 {
	return [3]float32{float32(v.X()), float32(v.Y()), float32(v.Z())}
}

// face is one side of a cell: the neighbour offset and the four corners of
// the side, counter-clockwise seen from outside, as offsets from the cell
// center in half units.
type face struct {
	neighbour grid.Cell
	normal    [3]float32
	corners   [4]mgl64.Vec3
}

var faces = [6]face{
	{grid.Cell{X: -1}, [3]float32{-1, 0, 0}, [4]mgl64.Vec3{{-1, -1, -1}, {-1, -1, 1}, {-1, 1, 1}, {-1, 1, -1}}},
	{grid.Cell{X: 1}, [3]float32{1, 0, 0}, [4]mgl64.Vec3{{1, -1, -1}, {1, 1, -1}, {1, 1, 1}, {1, -1, 1}}},
	{grid.Cell{Y: -1}, [3]float32{0, -1, 0}, [4]mgl64.Vec3{{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {-1, -1, 1}}},
	{grid.Cell{Y: 1}, [3]float32{0, 1, 0}, [4]mgl64.Vec3{{-1, 1, -1}, {-1, 1, 1}, {1, 1, 1}, {1, 1, -1}}},
	{grid.Cell{Z: -1}, [3]float32{0, 0, -1}, [4]mgl64.Vec3{{-1, -1, -1}, {-1, 1, -1}, {1, 1, -1}, {1, -1, -1}}},
	{grid.Cell{Z: 1}, [3]float32{0, 0, 1}, [4]mgl64.Vec3{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}}},
}

func filled(vol *voxelizer.Volume, c grid.Cell) bool {
	return vol.Grid.Contains(c) && vol.At(c.X, c.Y, c.Z).Fill
}

// exposed calls fn for every side of a filled cell that does not touch
// another filled cell.
func exposed(vol *voxelizer.Volume, fn func(c grid.Cell, f face)) {
	g := vol.Grid
	for z := 0; z < g.D; z++ {
		for y := 0; y < g.H; y++ {
			for x := 0; x < g.W; x++ {
				c := grid.Cell{X: x, Y: y, Z: z}
				if !vol.At(x, y, z).Fill {
					continue
				}
				for _, f := range faces {
					n := grid.Cell{X: x + f.neighbour.X, Y: y + f.neighbour.Y, Z: z + f.neighbour.Z}
					if !filled(vol, n) {
						fn(c, f)
					}
				}
			}
		}
	}
}

// WriteSTL writes the boundary of the filled cells as a binary STL: two
// triangles for every cell side that does not touch another filled cell.
// The result is a closed surface with outward facing triangles.
func WriteSTL(w io.Writer, vol *voxelizer.Volume) error {
	sides := 0
	exposed(vol, func(grid.Cell, face) { sides++ })
	if sides == 0 {
		return ErrEmptyVolume
	}

	bw := bufio.NewWriter(w)
	header := stlHeader{
		Count: uint32(2 * sides), // size of stl triangles is 50
	}
	if err := binary.Write(bw, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("export: writing STL header: %w", err)
	}

	g := vol.Grid
	half := g.Unit * 0.5
	var writeErr error
	exposed(vol, func(c grid.Cell, f face) {
		if writeErr != nil {
			return
		}
		center := g.Center(c)
		var corners [4][3]float32
		for i, k := range f.corners {
			corners[i] = to3F32(center.Add(k.Mul(half)))
			if bad3F32(corners[i]) {
				writeErr = ErrNonFinite
				return
			}
		}

		var b [50]byte
		for _, tri := range [2][3]int{{0, 1, 2}, {0, 2, 3}} {
			d := stlTriangle{
				Normal:  f.normal,
				Vertex1: corners[tri[0]],
				Vertex2: corners[tri[1]],
				Vertex3: corners[tri[2]],
			}
			d.put(b[:])
			if _, err := bw.Write(b[:]); err != nil {
				writeErr = fmt.Errorf("export: writing STL triangle: %w", err)
				return
			}
		}
	})
	if writeErr != nil {
		return writeErr
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("export: writing STL: %w", err)
	}
	return nil
}
