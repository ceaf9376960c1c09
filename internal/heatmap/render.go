package heatmap

import (
	"image"
	"math"

	"github.com/docscanhq/docscan/internal/detection"
	"github.com/docscanhq/docscan/internal/qr"
)

const (
	// QRWeight is the fixed splat weight for accepted QR hits, which carry
	// no model confidence of their own.
	QRWeight = 0.9

	// Blend weights for compositing the colorized map over the page.
	heatAlpha = 0.6
	pageAlpha = 0.4
)

// Generate builds the density overlay for one page: every detection splats
// with its confidence, every QR hit with the fixed QR weight, then the map is
// normalized, colorized and blended over the source image.
func Generate(src image.Image, boxes []detection.Box, qrCodes []qr.Detection, sigmaScale float64) *image.RGBA {
	bounds := src.Bounds()
	acc := NewAccumulator(bounds.Dx(), bounds.Dy(), sigmaScale)

	for _, b := range boxes {
		acc.AddBox(b.Bounds, b.Confidence)
	}
	for _, code := range qrCodes {
		acc.AddBox(qr.Bounds(code.Polygon), QRWeight)
	}
	acc.Normalize()

	return Render(acc, src)
}

// Render colorizes the normalized accumulator with a jet-style scale and
// blends it over the source page.
func Render(acc *Accumulator, src image.Image) *image.RGBA {
	bounds := src.Bounds()
	out := image.NewRGBA(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			heatR, heatG, heatB := jet(acc.At(x-bounds.Min.X, y-bounds.Min.Y))

			sr, sg, sb, _ := src.At(x, y).RGBA()

			offset := out.PixOffset(x, y)
			out.Pix[offset+0] = blend(heatR, sr)
			out.Pix[offset+1] = blend(heatG, sg)
			out.Pix[offset+2] = blend(heatB, sb)
			out.Pix[offset+3] = 0xff
		}
	}
	return out
}

// blend composites one normalized heat channel over one 16-bit source
// channel, returning the 8-bit result.
func blend(heat float64, src uint32) uint8 {
	v := heatAlpha*heat*255 + pageAlpha*float64(src>>8)
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

// jet maps a normalized intensity to the classic blue-cyan-green-yellow-red
// scale, each channel a clamped triangle over [0, 1].
func jet(t float64) (r, g, b float64) {
	r = clamp01(1.5 - math.Abs(4*t-3))
	g = clamp01(1.5 - math.Abs(4*t-2))
	b = clamp01(1.5 - math.Abs(4*t-1))
	return r, g, b
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
