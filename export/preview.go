package export

import (
	"fmt"
	"image"
	"image/color"

	voxelizer "github.com/akmonengine/voxelizer"
	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
)

// Slice palette
var (
	EmptyColor = fauxgl.HexColor("#FFF8E3").NRGBA()
	FrontColor = fauxgl.HexColor("#468966").NRGBA()
	// BackColor is used for back surface cells and interior cells alike
	BackColor = fauxgl.HexColor("#B64926").NRGBA()
)

func cellColor(v voxelizer.Voxel) color.NRGBA {
	switch {
	case !v.Fill:
		return EmptyColor
	case v.Front:
		return FrontColor
	default:
		return BackColor
	}
}

// Slice renders layer z of vol, one pixel per cell upscaled by scale, x to
// the right and y up.
func Slice(vol *voxelizer.Volume, z, scale int) (image.Image, error) {
	g := vol.Grid
	if z < 0 || z >= g.D {
		return nil, fmt.Errorf("export: slice %d out of [0, %d)", z, g.D)
	}
	if scale < 1 {
		return nil, fmt.Errorf("export: slice scale must be positive, got %d", scale)
	}

	img := image.NewNRGBA(image.Rect(0, 0, g.W, g.H))
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			img.SetNRGBA(x, g.H-1-y, cellColor(vol.At(x, y, z)))
		}
	}
	if scale == 1 {
		return img, nil
	}
	return resize.Resize(uint(g.W*scale), uint(g.H*scale), img, resize.NearestNeighbor), nil
}

// SaveSlicePNG renders layer z of vol to a PNG file
func SaveSlicePNG(path string, vol *voxelizer.Volume, z, scale int) error {
	img, err := Slice(vol, z, scale)
	if err != nil {
		return err
	}
	if err := fauxgl.SavePNG(path, img); err != nil {
		return fmt.Errorf("export: saving %s: %w", path, err)
	}
	return nil
}
