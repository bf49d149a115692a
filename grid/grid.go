// Package grid derives the voxel lattice from mesh bounds and a resolution.
//
// Every cell is a cube of edge Unit. The lattice dimensions are computed from
// the mesh bounds grown by half a cell on every face, while cell centers stay
// anchored on the original (non-grown) bounds minimum:
//
//	center(x, y, z) = Origin + (x, y, z) * Unit
//
// so the first cell center sits exactly on the mesh minimum corner and the
// half-cell margin is only reflected in the dimensions.
package grid

import (
	"math"

	"github.com/akmonengine/voxelizer/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// Cell - integer coordinates of a cell in the lattice
type Cell struct {
	X, Y, Z int
}

// Grid is the immutable lattice description for one voxelization run.
type Grid struct {
	// Unit is the cell edge length, identical on the three axes.
	Unit float64
	// Origin is the center of cell (0, 0, 0), the minimum of the mesh bounds.
	Origin mgl64.Vec3
	// Start is Origin minus half a cell; cell index lookups are relative to it.
	Start   mgl64.Vec3
	W, H, D int
}

// New builds the grid for bounds at the given resolution (cells along the
// longest axis of bounds).
//
// resolution must be positive and bounds must have a non-zero extent; both
// are preconditions and are not checked here. A zero unit yields NaN/Inf
// arithmetic and meaningless dimensions.
func New(bounds geometry.AABB, resolution int) Grid {
	unit := bounds.MaxExtent() / float64(resolution)
	half := unit * 0.5
	expanded := bounds.Expand(half)
	size := expanded.Size()

	return Grid{
		Unit:   unit,
		Origin: bounds.Min,
		Start:  expanded.Min,
		W:      ceilDiv(size.X(), unit),
		H:      ceilDiv(size.Y(), unit),
		D:      ceilDiv(size.Z(), unit),
	}
}

func ceilDiv(length, unit float64) int {
	return int(math.Ceil(length / unit))
}

// Len returns the number of cells in the lattice
func (g Grid) Len() int {
	return g.W * g.H * g.D
}

// Index flattens cell coordinates into x + y*W + z*W*H
func (g Grid) Index(x, y, z int) int {
	return x + y*g.W + z*g.W*g.H
}

// CellAt is the inverse of Index
func (g Grid) CellAt(i int) Cell {
	wh := g.W * g.H
	z := i / wh
	i -= z * wh
	return Cell{X: i % g.W, Y: i / g.W, Z: z}
}

// Contains reports whether c addresses a cell of the lattice
func (g Grid) Contains(c Cell) bool {
	return c.X >= 0 && c.X < g.W &&
		c.Y >= 0 && c.Y < g.H &&
		c.Z >= 0 && c.Z < g.D
}

// Center returns the world-space center of a cell
func (g Grid) Center(c Cell) mgl64.Vec3 {
	return g.Origin.Add(mgl64.Vec3{float64(c.X), float64(c.Y), float64(c.Z)}.Mul(g.Unit))
}

// HalfExtents returns the half size shared by every cell box
func (g Grid) HalfExtents() mgl64.Vec3 {
	h := g.Unit * 0.5
	return mgl64.Vec3{h, h, h}
}

// Bounds returns the region spanned by the lattice dimensions, measured from
// Start. It always encloses the mesh bounds the grid was built from.
func (g Grid) Bounds() geometry.AABB {
	return geometry.AABB{
		Min: g.Start,
		Max: g.Start.Add(mgl64.Vec3{float64(g.W), float64(g.H), float64(g.D)}.Mul(g.Unit)),
	}
}

// worldToCell - converts a world position to (unclamped) cell coordinates
func (g Grid) worldToCell(pos mgl64.Vec3) Cell {
	rel := pos.Sub(g.Start)
	return Cell{
		X: int(math.Floor(rel.X() / g.Unit)),
		Y: int(math.Floor(rel.Y() / g.Unit)),
		Z: int(math.Floor(rel.Z() / g.Unit)),
	}
}

// CellRange returns the inclusive range of cells covering aabb, each bound
// clamped into the lattice.
func (g Grid) CellRange(aabb geometry.AABB) (min, max Cell) {
	min = g.clamp(g.worldToCell(aabb.Min))
	max = g.clamp(g.worldToCell(aabb.Max))
	return min, max
}

func (g Grid) clamp(c Cell) Cell {
	return Cell{
		X: clampInt(c.X, 0, g.W-1),
		Y: clampInt(c.Y, 0, g.H-1),
		Z: clampInt(c.Z, 0, g.D-1),
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
