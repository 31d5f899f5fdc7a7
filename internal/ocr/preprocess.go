package ocr

import (
	"image"

	"github.com/disintegration/imaging"
)

// minDimension is the smallest page dimension recognition tolerates well;
// smaller bitmaps are upscaled so fine print stays legible.
const minDimension = 1000

// contrastFactor is the multiplicative contrast boost applied about the
// page's mean luminance.
const contrastFactor = 2.0

// Preprocess prepares a page bitmap for recognition: grayscale, contrast
// boost, sharpen, and an isotropic upscale when either dimension is under
// minDimension. Deterministic and side-effect-free.
func Preprocess(img image.Image) image.Image {
	gray := toGray(img)
	boosted := stretchContrast(gray, contrastFactor)

	var out image.Image = imaging.Sharpen(boosted, 1.0)

	b := out.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < minDimension || h < minDimension {
		scale := float64(minDimension) / float64(w)
		if s := float64(minDimension) / float64(h); s > scale {
			scale = s
		}
		out = imaging.Resize(out, int(float64(w)*scale), int(float64(h)*scale), imaging.Lanczos)
	}
	return out
}

func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	gray := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			// ITU-R 601 luma, operating on 16-bit channel values.
			l := (299*r + 587*g + 114*bl) / 1000
			gray.Pix[gray.PixOffset(x, y)] = uint8(l >> 8)
		}
	}
	return gray
}

// stretchContrast scales each pixel's distance from the image's mean
// luminance by factor, clamping to [0,255].
func stretchContrast(img *image.Gray, factor float64) *image.Gray {
	if len(img.Pix) == 0 {
		return img
	}
	var sum uint64
	for _, v := range img.Pix {
		sum += uint64(v)
	}
	mean := float64(sum) / float64(len(img.Pix))

	out := image.NewGray(img.Bounds())
	for i, v := range img.Pix {
		nv := mean + factor*(float64(v)-mean)
		switch {
		case nv < 0:
			out.Pix[i] = 0
		case nv > 255:
			out.Pix[i] = 255
		default:
			out.Pix[i] = uint8(nv + 0.5)
		}
	}
	return out
}
