// Package export writes voxelization results to files: binvox volumes,
// voxel surface STL meshes and z-slice PNG previews.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"

	voxelizer "github.com/akmonengine/voxelizer"
	"github.com/go-gl/mathgl/mgl64"
)

// Binvox signature
const binvoxSig = "#binvox 1\n"

var ErrBinvox = errors.New("export: malformed binvox data")

// Binvox is a decoded binvox volume. Filled is indexed like the voxelizer
// volume: x + y*W + z*W*H.
type Binvox struct {
	W, H, D   int
	Translate mgl64.Vec3
	Scale     float64
	Filled    []bool
}

func (b *Binvox) At(x, y, z int) bool {
	return b.Filled[x+y*b.W+z*b.W*b.H]
}

// binvoxIndex maps cell coordinates to the binvox linear order: x slowest,
// then z, y fastest.
func binvoxIndex(x, y, z, h, d int) int {
	return x*h*d + z*h + y
}

// WriteBinvox writes the filled cells of vol. The header dims are given in
// the binvox x, z, y order; translate is the lattice minimum corner and scale
// the extent of its longest side.
func WriteBinvox(w io.Writer, vol *voxelizer.Volume) error {
	g := vol.Grid
	// Write errors stick in bw and come back from Flush
	bw := bufio.NewWriter(w)

	bw.WriteString(binvoxSig)
	fmt.Fprintf(bw, "dim %d %d %d\n", g.W, g.D, g.H)
	fmt.Fprintf(bw, "translate %g %g %g\n", g.Start.X(), g.Start.Y(), g.Start.Z())
	fmt.Fprintf(bw, "scale %g\n", float64(max(g.W, g.H, g.D))*g.Unit)
	bw.WriteString("data\n")

	// Run length pairs: value byte, count byte
	value, n := false, byte(0)
	writeRun := func() {
		if n > 0 {
			if value {
				bw.WriteByte(1)
			} else {
				bw.WriteByte(0)
			}
			bw.WriteByte(n)
		}
	}
	for x := 0; x < g.W; x++ {
		for z := 0; z < g.D; z++ {
			for y := 0; y < g.H; y++ {
				v := vol.At(x, y, z).Fill
				if v == value && n < math.MaxUint8 {
					n++
					continue
				}
				writeRun()
				value, n = v, 1
			}
		}
	}
	writeRun()

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("export: writing binvox: %w", err)
	}
	return nil
}

// ReadBinvox decodes a binvox stream written with the dims order of
// WriteBinvox.
func ReadBinvox(r io.Reader) (*Binvox, error) {
	br := bufio.NewReader(r)
	if _, err := fmt.Fscanf(br, binvoxSig); err != nil {
		return nil, fmt.Errorf("%w: signature: %v", ErrBinvox, err)
	}

	b := &Binvox{}
	if _, err := fmt.Fscanf(br, "dim %d %d %d\n", &b.W, &b.D, &b.H); err != nil {
		return nil, fmt.Errorf("%w: dim: %v", ErrBinvox, err)
	}
	if b.W <= 0 || b.H <= 0 || b.D <= 0 {
		return nil, fmt.Errorf("%w: invalid dimensions %d x %d x %d", ErrBinvox, b.W, b.D, b.H)
	}

	var tx, ty, tz float64
	if _, err := fmt.Fscanf(br, "translate %g %g %g\n", &tx, &ty, &tz); err != nil {
		return nil, fmt.Errorf("%w: translate: %v", ErrBinvox, err)
	}
	b.Translate = mgl64.Vec3{tx, ty, tz}
	if _, err := fmt.Fscanf(br, "scale %g\n", &b.Scale); err != nil {
		return nil, fmt.Errorf("%w: scale: %v", ErrBinvox, err)
	}
	if _, err := fmt.Fscanf(br, "data\n"); err != nil {
		return nil, fmt.Errorf("%w: data: %v", ErrBinvox, err)
	}

	total := b.W * b.H * b.D
	linear := make([]bool, 0, total)
	for len(linear) < total {
		value, err := br.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: %d of %d voxels read: %v", ErrBinvox, len(linear), total, err)
		}
		count, err := br.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: %d of %d voxels read: %v", ErrBinvox, len(linear), total, err)
		}
		if len(linear)+int(count) > total {
			return nil, fmt.Errorf("%w: run past end of grid", ErrBinvox)
		}
		for range count {
			linear = append(linear, value != 0)
		}
	}
	if _, err := br.ReadByte(); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data past end of grid", ErrBinvox)
	}

	b.Filled = make([]bool, total)
	for x := 0; x < b.W; x++ {
		for y := 0; y < b.H; y++ {
			for z := 0; z < b.D; z++ {
				b.Filled[x+y*b.W+z*b.W*b.H] = linear[binvoxIndex(x, y, z, b.H, b.D)]
			}
		}
	}
	return b, nil
}
