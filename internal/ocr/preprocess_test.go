package ocr

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPreprocess_UpscalesSmallPages(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 100, 80))

	out := Preprocess(img)

	b := out.Bounds()
	require.GreaterOrEqual(t, b.Dx(), minDimension)
	require.GreaterOrEqual(t, b.Dy(), minDimension)

	// isotropic: the 5:4 aspect ratio survives the upscale
	require.InDelta(t, 1.25, float64(b.Dx())/float64(b.Dy()), 0.01)
}

func TestPreprocess_LeavesLargePagesUnscaled(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2480, 3508))

	out := Preprocess(img)

	b := out.Bounds()
	require.Equal(t, 2480, b.Dx())
	require.Equal(t, 3508, b.Dy())
}

func TestStretchContrast(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 1))
	img.SetGray(0, 0, color.Gray{Y: 100})
	img.SetGray(1, 0, color.Gray{Y: 160})

	// mean 130: distances double to -60/+60
	out := stretchContrast(img, 2.0)

	require.Equal(t, uint8(70), out.GrayAt(0, 0).Y)
	require.Equal(t, uint8(190), out.GrayAt(1, 0).Y)
}

func TestStretchContrast_Clamps(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 1))
	img.SetGray(0, 0, color.Gray{Y: 0})
	img.SetGray(1, 0, color.Gray{Y: 255})

	out := stretchContrast(img, 2.0)

	require.Equal(t, uint8(0), out.GrayAt(0, 0).Y)
	require.Equal(t, uint8(255), out.GrayAt(1, 0).Y)
}

func TestToGray(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	g := toGray(img)
	require.Equal(t, uint8(255), g.GrayAt(0, 0).Y)

	// already gray passes through
	gray := image.NewGray(image.Rect(0, 0, 1, 1))
	require.Same(t, gray, toGray(gray))
}
