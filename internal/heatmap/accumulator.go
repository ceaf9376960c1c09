package heatmap

import (
	"math"

	"github.com/docscanhq/docscan/pkg/geometry"
)

// Accumulator builds a confidence-weighted density map over one page. Every
// splat covers the whole grid, cells only ever grow until Normalize.
type Accumulator struct {
	width      int
	height     int
	sigmaScale float64
	cells      []float64
}

// NewAccumulator returns a zeroed accumulator for a page of the given pixel
// dimensions. sigmaScale relates a box extent to the spread of its splat.
func NewAccumulator(width, height int, sigmaScale float64) *Accumulator {
	return &Accumulator{
		width:      width,
		height:     height,
		sigmaScale: sigmaScale,
		cells:      make([]float64, width*height),
	}
}

func (a *Accumulator) Width() int  { return a.width }
func (a *Accumulator) Height() int { return a.height }

// At returns the cell value at pixel (x, y).
func (a *Accumulator) At(x, y int) float64 {
	return a.cells[y*a.width+x]
}

// Max returns the largest cell value.
func (a *Accumulator) Max() float64 {
	max := 0.0
	for _, v := range a.cells {
		if v > max {
			max = v
		}
	}
	return max
}

// AddBox splats an anisotropic gaussian centered on the box over the whole
// grid, scaled by weight. Box extents and sigmas are floored at one pixel so
// degenerate boxes still leave a mark.
func (a *Accumulator) AddBox(b geometry.Box, weight float64) {
	if a.width == 0 || a.height == 0 {
		return
	}

	cx := (b.X1 + b.X2) / 2
	cy := (b.Y1 + b.Y2) / 2
	boxW := math.Max(1, b.X2-b.X1)
	boxH := math.Max(1, b.Y2-b.Y1)
	sigmaX := math.Max(1, boxW*a.sigmaScale)
	sigmaY := math.Max(1, boxH*a.sigmaScale)

	// The gaussian is separable, precompute the per-axis factors once.
	colFactors := make([]float64, a.width)
	for x := 0; x < a.width; x++ {
		dx := float64(x) - cx
		colFactors[x] = math.Exp(-(dx * dx) / (2 * sigmaX * sigmaX))
	}

	for y := 0; y < a.height; y++ {
		dy := float64(y) - cy
		rowFactor := weight * math.Exp(-(dy*dy)/(2*sigmaY*sigmaY))
		row := a.cells[y*a.width : (y+1)*a.width]
		for x, colFactor := range colFactors {
			row[x] += rowFactor * colFactor
		}
	}
}

// Normalize rescales all cells into [0, 1]. An all-zero map stays untouched,
// never dividing by zero.
func (a *Accumulator) Normalize() {
	max := a.Max()
	if max <= 0 {
		return
	}
	for i := range a.cells {
		a.cells[i] /= max
	}
}
