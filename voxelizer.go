// Package voxelizer turns a triangle mesh into a voxel grid.
//
// A run has two passes over a dense volume:
//   - the surface pass marks every cell intersected by a triangle, using an
//     exact separating axis test, and classifies it front or back facing
//   - the interior fill scans every (x, y) column along z and fills the cells
//     enclosed between a front run and the next back wall
//
// The interior fill assumes a mesh closed along z. Open columns are left
// partially filled and reported with an OpenColumnEvent.
package voxelizer

import (
	"errors"
	"fmt"

	"github.com/akmonengine/voxelizer/geometry"
	"github.com/akmonengine/voxelizer/grid"
	"github.com/akmonengine/voxelizer/mesh"
	"github.com/go-gl/mathgl/mgl64"
)

const DEFAULT_WORKERS = 1

var (
	ErrResolution  = errors.New("voxelizer: resolution must be positive")
	ErrEmptyBounds = errors.New("voxelizer: mesh has no extent")
)

type Voxelizer struct {
	// Resolution is the number of cells along the longest axis of the mesh
	Resolution int
	// SurfaceOnly skips the interior fill
	SurfaceOnly bool
	// FrontDir is the reference direction of the front/back classification,
	// geometry.Forward when zero
	FrontDir mgl64.Vec3
	// Workers splits both passes over x slabs; the result does not depend on it
	Workers int

	Events Events
}

// Result is the output of a run
type Result struct {
	// Voxels holds the filled cells only, x-major then y then z
	Voxels []Voxel
	// Unit is the cell edge length
	Unit float64
	Grid grid.Grid
}

// Voxelize runs a sequential voxelization with the default front direction
// and returns the filled voxels with the cell size.
func Voxelize(vertices []mgl64.Vec3, indices []int, resolution int, surfaceOnly bool) ([]Voxel, float64) {
	vx := Voxelizer{Resolution: resolution, SurfaceOnly: surfaceOnly}
	res, _ := vx.Run(vertices, indices)
	return res.Voxels, res.Unit
}

// Run voxelizes the mesh and returns the result together with the dense
// volume. Resolution must be positive and the vertices must span a non-zero
// extent; Run does not check either, see RunMesh.
func (vx *Voxelizer) Run(vertices []mgl64.Vec3, indices []int) (Result, *Volume) {
	workers := max(DEFAULT_WORKERS, vx.Workers)
	frontDir := vx.FrontDir
	if frontDir == (mgl64.Vec3{}) {
		frontDir = geometry.Forward
	}

	g := grid.New(geometry.BoundsOf(vertices...), vx.Resolution)
	vol := NewVolume(g)
	tris := triangles(vertices, indices, frontDir)

	vx.surface(vol, tris, workers)
	if !vx.SurfaceOnly {
		vx.fill(vol, workers)
	}
	vx.Events.flush()

	return Result{
		Voxels: vol.Voxels(),
		Unit:   g.Unit,
		Grid:   g,
	}, vol
}

// Check reports the preconditions of Run that m and the configuration
// violate.
func (vx *Voxelizer) Check(m *mesh.Mesh) error {
	if vx.Resolution <= 0 {
		return fmt.Errorf("%w: got %d", ErrResolution, vx.Resolution)
	}
	if err := m.Validate(); err != nil {
		return fmt.Errorf("voxelizer: invalid mesh: %w", err)
	}
	if m.IsEmpty() || m.Bounds().MaxExtent() <= 0 {
		return ErrEmptyBounds
	}
	return nil
}

// RunMesh checks m before running and returns the violated precondition
// instead of computing a degenerate grid.
func (vx *Voxelizer) RunMesh(m *mesh.Mesh) (Result, error) {
	if err := vx.Check(m); err != nil {
		return Result{}, err
	}
	res, _ := vx.Run(m.Vertices, m.Indices)
	return res, nil
}

func (vx *Voxelizer) surface(vol *Volume, tris []geometry.Triangle, workers int) {
	slabs := splitSlabs(vol.Grid.W, workers)
	task(workers, slabs, func(s *slab) {
		s.filled = vol.surface(tris, s.lo, s.hi)
	})

	filled := 0
	for _, s := range slabs {
		filled += s.filled
	}
	vx.Events.emit(SurfaceEvent{Triangles: len(tris), Filled: filled})
}

func (vx *Voxelizer) fill(vol *Volume, workers int) {
	slabs := splitSlabs(vol.Grid.W, workers)
	task(workers, slabs, func(s *slab) {
		s.filled, s.events = vol.fill(s.lo, s.hi)
	})

	// Slabs are in x order, the events come out as a sequential scan
	filled := 0
	for _, s := range slabs {
		filled += s.filled
		vx.Events.emit(s.events...)
	}
	vx.Events.emit(FillEvent{Filled: filled})
}
