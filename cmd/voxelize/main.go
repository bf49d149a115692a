// Command voxelize converts a mesh file or a built-in solid into voxels and
// writes the result as binvox, STL or a PNG slice.
//
//	voxelize -in model.stl -res 64 -binvox model.binvox
//	voxelize -shape sphere -res 32 -surface -png slice.png -slice 16
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/akmonengine/voxelizer"
	"github.com/akmonengine/voxelizer/export"
	"github.com/akmonengine/voxelizer/geometry"
	"github.com/akmonengine/voxelizer/mesh"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"
)

// shapeCells is the marching cubes resolution of the built-in solids
const shapeCells = 128

type config struct {
	in      string
	shape   string
	res     int
	surface bool
	workers int
	front   mgl64.Vec3
	rotate  mgl64.Vec3
	binvox  string
	stl     string
	png     string
	slice   int
	scale   int
	quiet   bool
}

// vecFlag parses "x,y,z"
type vecFlag struct {
	v *mgl64.Vec3
}

func (f vecFlag) String() string {
	if f.v == nil {
		return ""
	}
	return fmt.Sprintf("%g,%g,%g", f.v.X(), f.v.Y(), f.v.Z())
}

func (f vecFlag) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return fmt.Errorf("want x,y,z, got %q", s)
	}
	for i, p := range parts {
		c, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return fmt.Errorf("component %d: %w", i, err)
		}
		f.v[i] = c
	}
	return nil
}

func parseFlags(args []string) (config, error) {
	cfg := config{front: mgl64.Vec3{0, 0, 1}}
	fs := flag.NewFlagSet("voxelize", flag.ContinueOnError)
	fs.StringVar(&cfg.in, "in", "", "input mesh (.stl, .obj, .ply, .3ds)")
	fs.StringVar(&cfg.shape, "shape", "", "built-in solid instead of -in: cube, sphere or cylinder")
	fs.IntVar(&cfg.res, "res", 32, "cells along the longest side of the mesh")
	fs.BoolVar(&cfg.surface, "surface", false, "keep the surface shell only")
	fs.IntVar(&cfg.workers, "workers", voxelizer.DEFAULT_WORKERS, "worker goroutines")
	fs.Var(vecFlag{&cfg.front}, "front", "front reference direction x,y,z")
	fs.Var(vecFlag{&cfg.rotate}, "rotate", "rotate the mesh by x,y,z degrees before voxelizing")
	fs.StringVar(&cfg.binvox, "binvox", "", "write the volume as binvox")
	fs.StringVar(&cfg.stl, "stl", "", "write the voxel surface as binary STL")
	fs.StringVar(&cfg.png, "png", "", "write a z slice as PNG")
	fs.IntVar(&cfg.slice, "slice", -1, "z layer of the PNG slice, the middle one when negative")
	fs.IntVar(&cfg.scale, "scale", 8, "pixels per cell of the PNG slice")
	fs.BoolVar(&cfg.quiet, "q", false, "do not report open columns")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if (cfg.in == "") == (cfg.shape == "") {
		return cfg, errors.New("exactly one of -in and -shape is required")
	}
	if cfg.res <= 0 {
		return cfg, fmt.Errorf("-res must be positive, got %d", cfg.res)
	}
	if cfg.front == (mgl64.Vec3{}) {
		return cfg, errors.New("-front must not be zero")
	}
	return cfg, nil
}

// shapeSDF returns the built-in solid name, sized to fit a 2x2x2 box
func shapeSDF(name string) (sdf.SDF3, error) {
	switch name {
	case "cube":
		return sdf.Box3D(v3.Vec{X: 2, Y: 2, Z: 2}, 0)
	case "sphere":
		return sdf.Sphere3D(1)
	case "cylinder":
		return sdf.Cylinder3D(2, 1, 0)
	default:
		return nil, fmt.Errorf("unknown shape %q", name)
	}
}

func loadMesh(cfg config) (*mesh.Mesh, error) {
	if cfg.in != "" {
		return mesh.Load(cfg.in)
	}
	s, err := shapeSDF(cfg.shape)
	if err != nil {
		return nil, err
	}
	return mesh.FromSDF(s, shapeCells)
}

// orientation rotates about x, then y, then z
func orientation(degrees mgl64.Vec3) geometry.Transform {
	tr := geometry.NewTransform()
	tr.Rotation = mgl64.AnglesToQuat(
		mgl64.DegToRad(degrees.X()),
		mgl64.DegToRad(degrees.Y()),
		mgl64.DegToRad(degrees.Z()),
		mgl64.XYZ,
	)
	return tr
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func run(cfg config) error {
	m, err := loadMesh(cfg)
	if err != nil {
		return err
	}
	if cfg.rotate != (mgl64.Vec3{}) {
		m.Transform(orientation(cfg.rotate).Mat4())
	}
	log.Printf("mesh: %d vertices, %d triangles", m.VertexCount(), m.TriangleCount())

	vx := voxelizer.Voxelizer{
		Resolution:  cfg.res,
		SurfaceOnly: cfg.surface,
		FrontDir:    cfg.front,
		Workers:     cfg.workers,
		Events:      voxelizer.NewEvents(),
	}
	open := 0
	vx.Events.Subscribe(voxelizer.OPEN_COLUMN, func(event voxelizer.Event) {
		open++
		if !cfg.quiet {
			e := event.(voxelizer.OpenColumnEvent)
			log.Printf("open column (%d, %d) from z=%d: %v", e.X, e.Y, e.Z, e.Reason)
		}
	})

	if err := vx.Check(m); err != nil {
		return err
	}
	start := time.Now()
	res, vol := vx.Run(m.Vertices, m.Indices)
	elapsed := time.Since(start)

	g := res.Grid
	fmt.Printf("grid:    %d x %d x %d\n", g.W, g.H, g.D)
	fmt.Printf("unit:    %g\n", res.Unit)
	fmt.Printf("voxels:  %d (%.1f%%)\n", len(res.Voxels), 100*float64(len(res.Voxels))/float64(g.Len()))
	fmt.Printf("open:    %d columns\n", open)
	fmt.Printf("elapsed: %v\n", elapsed)

	if cfg.binvox != "" {
		if err := writeFile(cfg.binvox, func(f *os.File) error { return export.WriteBinvox(f, vol) }); err != nil {
			return err
		}
		log.Printf("wrote %s", cfg.binvox)
	}
	if cfg.stl != "" {
		if err := writeFile(cfg.stl, func(f *os.File) error { return export.WriteSTL(f, vol) }); err != nil {
			return err
		}
		log.Printf("wrote %s", cfg.stl)
	}
	if cfg.png != "" {
		z := cfg.slice
		if z < 0 {
			z = g.D / 2
		}
		if err := export.SaveSlicePNG(cfg.png, vol, z, cfg.scale); err != nil {
			return err
		}
		log.Printf("wrote %s (z=%d)", cfg.png, z)
	}
	return nil
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "voxelize: %v\n", err)
		os.Exit(2)
	}
	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}
