// Package annotate renders review overlays: detection boxes with confidence
// labels and QR outlines drawn over the page image.
package annotate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/docscanhq/docscan/internal/detection"
	"github.com/docscanhq/docscan/internal/qr"
)

const (
	borderThickness = 2
	labelOffsetY    = 10
)

var palette = map[string]color.RGBA{
	detection.LabelSignature: {G: 0xff, A: 0xff},
	detection.LabelStamp:     {B: 0xff, A: 0xff},
	detection.LabelQR:        {R: 0xff, G: 0x80, A: 0xff},
}

var fallbackColor = color.RGBA{R: 0xff, G: 0xff, A: 0xff}

func colorFor(label string) color.RGBA {
	if c, ok := palette[label]; ok {
		return c
	}
	return fallbackColor
}

// Render copies the page and draws every detection box with its confidence
// label, then every QR polygon with a fixed "QR" tag at its first corner.
func Render(src image.Image, boxes []detection.Box, qrCodes []qr.Detection) *image.RGBA {
	out := image.NewRGBA(src.Bounds())
	draw.Draw(out, out.Bounds(), src, src.Bounds().Min, draw.Src)

	for _, b := range boxes {
		col := colorFor(b.Label)
		x1 := int(math.Round(b.Bounds.X1))
		y1 := int(math.Round(b.Bounds.Y1))
		x2 := int(math.Round(b.Bounds.X2))
		y2 := int(math.Round(b.Bounds.Y2))

		drawRect(out, x1, y1, x2, y2, col)
		drawLabel(out, fmt.Sprintf("%s %.2f", b.Label, b.Confidence), x1, max(0, y1-labelOffsetY), col)
	}

	qrColor := colorFor(detection.LabelQR)
	for _, code := range qrCodes {
		drawPolygon(out, code.Polygon, qrColor)
		if len(code.Polygon) > 0 {
			first := code.Polygon[0]
			drawLabel(out, "QR", first.X, max(0, first.Y-labelOffsetY), qrColor)
		}
	}
	return out
}

// drawRect draws the box border with the package border thickness, growing
// inward from the given edges.
func drawRect(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	fillRect(img, x1, y1, x2, y1+borderThickness, col)
	fillRect(img, x1, y2-borderThickness, x2, y2, col)
	fillRect(img, x1, y1, x1+borderThickness, y2, col)
	fillRect(img, x2-borderThickness, y1, x2, y2, col)
}

func fillRect(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	r := image.Rect(x1, y1, x2, y2).Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, col)
		}
	}
}

// drawPolygon draws the closed outline through the points in order.
func drawPolygon(img *image.RGBA, polygon []qr.Point, col color.RGBA) {
	if len(polygon) < 2 {
		return
	}
	for i, p := range polygon {
		next := polygon[(i+1)%len(polygon)]
		drawLine(img, p.X, p.Y, next.X, next.Y, col)
	}
}

// drawLine rasterizes the segment with a square brush of the border
// thickness.
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	steps := max(dx, dy)
	if steps == 0 {
		fillRect(img, x1, y1, x1+borderThickness, y1+borderThickness, col)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := x1 + int(math.Round(t*float64(x2-x1)))
		y := y1 + int(math.Round(t*float64(y2-y1)))
		fillRect(img, x, y, x+borderThickness, y+borderThickness, col)
	}
}

// drawLabel prints text with its baseline at (x, y).
func drawLabel(img *image.RGBA, text string, x, y int, col color.RGBA) {
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(text)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
