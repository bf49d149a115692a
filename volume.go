package voxelizer

import (
	"github.com/akmonengine/voxelizer/geometry"
	"github.com/akmonengine/voxelizer/grid"
	"github.com/akmonengine/voxelizer/sat"
	"github.com/go-gl/mathgl/mgl64"
)

// Voxel is one cell of the lattice.
type Voxel struct {
	// Position is the cell center, set when the cell gets filled
	Position mgl64.Vec3
	Fill     bool
	// Front is only meaningful for surface cells
	Front bool
}

// Volume is the dense voxel array of one run, stored flat in x + y*W + z*W*H
// order.
type Volume struct {
	Grid  grid.Grid
	cells []Voxel
}

// NewVolume allocates an empty volume covering g
func NewVolume(g grid.Grid) *Volume {
	return &Volume{
		Grid:  g,
		cells: make([]Voxel, g.Len()),
	}
}

// At returns the voxel stored at (x, y, z)
func (v *Volume) At(x, y, z int) Voxel {
	return v.cells[v.Grid.Index(x, y, z)]
}

// Count returns the number of filled cells
func (v *Volume) Count() int {
	n := 0
	for i := range v.cells {
		if v.cells[i].Fill {
			n++
		}
	}
	return n
}

// Surface marks every cell intersected by a triangle of the mesh. frontDir is
// the reference direction of the front/back classification. A cell touched by
// several triangles is front only if all of them are front.
//
// Indices are read by triples; an out of range index panics.
func (v *Volume) Surface(vertices []mgl64.Vec3, indices []int, frontDir mgl64.Vec3) int {
	tris := triangles(vertices, indices, frontDir)
	return v.surface(tris, 0, v.Grid.W)
}

// Fill runs the interior fill along z on every (x, y) column and returns the
// number of cells it added. Fill is idempotent.
func (v *Volume) Fill() int {
	n, _ := v.fill(0, v.Grid.W)
	return n
}

// Voxels returns the filled voxels, x-major then y then z.
func (v *Volume) Voxels() []Voxel {
	g := v.Grid
	voxels := make([]Voxel, 0, v.Count())
	for x := 0; x < g.W; x++ {
		for y := 0; y < g.H; y++ {
			for z := 0; z < g.D; z++ {
				if c := v.cells[g.Index(x, y, z)]; c.Fill {
					voxels = append(voxels, c)
				}
			}
		}
	}
	return voxels
}

func triangles(vertices []mgl64.Vec3, indices []int, frontDir mgl64.Vec3) []geometry.Triangle {
	tris := make([]geometry.Triangle, 0, len(indices)/3)
	for i := 0; i+2 < len(indices); i += 3 {
		a := vertices[indices[i]]
		b := vertices[indices[i+1]]
		c := vertices[indices[i+2]]
		tris = append(tris, geometry.NewTriangle(a, b, c, frontDir))
	}
	return tris
}

// surface classifies the cells of the x range [lo, hi) against every
// triangle, in triangle order. It returns the number of cells it filled.
func (v *Volume) surface(tris []geometry.Triangle, lo, hi int) int {
	g := v.Grid
	half := g.HalfExtents()
	bounds := g.Bounds()
	filled := 0

	for _, tri := range tris {
		// Clamping would pull an outside triangle onto the border cells
		if !tri.Bounds.Overlaps(bounds) {
			continue
		}
		cmin, cmax := g.CellRange(tri.Bounds)
		cmin.X = max(cmin.X, lo)
		cmax.X = min(cmax.X, hi-1)

		vertices := tri.Vertices()
		for x := cmin.X; x <= cmax.X; x++ {
			for y := cmin.Y; y <= cmax.Y; y++ {
				for z := cmin.Z; z <= cmax.Z; z++ {
					cell := grid.Cell{X: x, Y: y, Z: z}
					center := g.Center(cell)
					if !sat.Intersects(vertices, center, half) {
						continue
					}

					voxel := &v.cells[g.Index(x, y, z)]
					voxel.Position = center
					if !voxel.Fill {
						voxel.Front = tri.Front
						filled++
					} else {
						// Any back facing contributor turns the cell to back
						voxel.Front = voxel.Front && tri.Front
					}
					voxel.Fill = true
				}
			}
		}
	}

	return filled
}

// fill runs the interior fill on the columns of the x range [lo, hi), x-major
// then y. It returns the number of cells added and the abandoned columns.
func (v *Volume) fill(lo, hi int) (int, []Event) {
	g := v.Grid
	d := g.D
	filled := 0
	var open []Event

	for x := lo; x < hi; x++ {
		for y := 0; y < g.H; y++ {
			column := func(z int) *Voxel {
				return &v.cells[g.Index(x, y, z)]
			}

			for z := 0; z < d; z++ {
				if c := column(z); !c.Fill || !c.Front {
					continue
				}

				// Last cell of the front run
				iFront := z
				for iFront < d && column(iFront).Fill && column(iFront).Front {
					iFront++
				}
				if iFront >= d {
					open = append(open, OpenColumnEvent{X: x, Y: y, Z: z, Reason: NoBackFace})
					break
				}

				// Next surface hit, the back wall
				iBack := iFront
				for iBack < d && !column(iBack).Fill {
					iBack++
				}
				if iBack >= d {
					open = append(open, OpenColumnEvent{X: x, Y: y, Z: z, Reason: NoBackWall})
					break
				}

				for i := iFront; i < iBack; i++ {
					c := column(i)
					c.Position = g.Center(grid.Cell{X: x, Y: y, Z: i})
					c.Fill = true
					filled++
				}

				// Resume at iBack, it may start a new front run
				z = iBack - 1
			}
		}
	}

	return filled, open
}
