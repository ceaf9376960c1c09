package heatmap_test

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docscanhq/docscan/internal/detection"
	"github.com/docscanhq/docscan/internal/heatmap"
	"github.com/docscanhq/docscan/internal/qr"
	"github.com/docscanhq/docscan/pkg/geometry"
)

func TestAccumulatorNormalize(t *testing.T) {
	acc := heatmap.NewAccumulator(50, 40, 0.2)
	acc.AddBox(geometry.NewBox(10, 10, 20, 20), 0.8)
	acc.AddBox(geometry.NewBox(30, 25, 45, 35), 0.3)

	acc.Normalize()

	assert.InDelta(t, 1.0, acc.Max(), 1e-9)
	for y := 0; y < 40; y++ {
		for x := 0; x < 50; x++ {
			v := acc.At(x, y)
			require.False(t, math.IsNaN(v), "cell (%d,%d) is NaN", x, y)
			require.GreaterOrEqual(t, v, 0.0)
			require.LessOrEqual(t, v, 1.0)
		}
	}
}

func TestAccumulatorEmptyStaysZero(t *testing.T) {
	acc := heatmap.NewAccumulator(30, 30, 0.2)

	acc.Normalize()

	for y := 0; y < 30; y++ {
		for x := 0; x < 30; x++ {
			v := acc.At(x, y)
			require.False(t, math.IsNaN(v))
			require.Zero(t, v)
		}
	}
}

func TestAccumulatorPeaksAtBoxCenter(t *testing.T) {
	acc := heatmap.NewAccumulator(100, 100, 0.2)
	acc.AddBox(geometry.NewBox(40, 40, 60, 60), 1.0)

	center := acc.At(50, 50)
	corner := acc.At(0, 0)
	assert.Greater(t, center, corner)
	assert.InDelta(t, 1.0, center, 1e-6)
}

func TestAccumulatorDegenerateBoxStillMarks(t *testing.T) {
	// Extents and sigmas floor at one pixel, a zero-area box must still
	// deposit mass.
	acc := heatmap.NewAccumulator(20, 20, 0.2)
	acc.AddBox(geometry.NewBox(10, 10, 10, 10), 0.5)

	assert.Greater(t, acc.Max(), 0.0)
}

func TestAccumulatorWeightScalesMass(t *testing.T) {
	strong := heatmap.NewAccumulator(40, 40, 0.2)
	strong.AddBox(geometry.NewBox(10, 10, 30, 30), 0.9)

	weak := heatmap.NewAccumulator(40, 40, 0.2)
	weak.AddBox(geometry.NewBox(10, 10, 30, 30), 0.3)

	assert.InDelta(t, 3.0, strong.Max()/weak.Max(), 1e-9)
}

func TestGenerateDimensionsAndOpacity(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 64, 48))
	boxes := []detection.Box{
		detection.NewBox(detection.LabelSignature, 0.9, geometry.NewBox(5, 5, 25, 15)),
	}
	qrCodes := []qr.Detection{
		{Text: "payload", Polygon: []qr.Point{{X: 30, Y: 30}, {X: 40, Y: 30}, {X: 40, Y: 40}, {X: 30, Y: 40}}},
	}

	out := heatmap.Generate(src, boxes, qrCodes, 0.2)

	require.Equal(t, src.Bounds(), out.Bounds())
	for y := 0; y < 48; y += 7 {
		for x := 0; x < 64; x += 9 {
			_, _, _, a := out.At(x, y).RGBA()
			require.Equal(t, uint32(0xffff), a)
		}
	}
}
