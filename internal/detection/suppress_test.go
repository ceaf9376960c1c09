package detection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docscanhq/docscan/internal/detection"
	"github.com/docscanhq/docscan/pkg/geometry"
)

func TestSuppressOverlaps(t *testing.T) {
	tests := []struct {
		name       string
		boxes      []detection.Box
		wantLabels []string
	}{
		{
			name:       "empty input",
			boxes:      nil,
			wantLabels: []string{},
		},
		{
			name: "no stamps keeps everything",
			boxes: []detection.Box{
				detection.NewBox(detection.LabelSignature, 0.9, geometry.NewBox(0, 0, 10, 10)),
				detection.NewBox(detection.LabelSignature, 0.8, geometry.NewBox(20, 20, 30, 30)),
			},
			wantLabels: []string{detection.LabelSignature, detection.LabelSignature},
		},
		{
			name: "signature fully inside stamp is dropped",
			boxes: []detection.Box{
				detection.NewBox(detection.LabelSignature, 0.9, geometry.NewBox(10, 10, 20, 20)),
				detection.NewBox(detection.LabelStamp, 0.8, geometry.NewBox(0, 0, 100, 100)),
			},
			wantLabels: []string{detection.LabelStamp},
		},
		{
			name: "coverage below threshold but high iou is dropped",
			boxes: []detection.Box{
				// 80% of the signature lies inside the stamp, under the 90%
				// coverage bar, while IoU is 8/12 ~ 0.67.
				detection.NewBox(detection.LabelSignature, 0.9, geometry.NewBox(0, 0, 10, 1)),
				detection.NewBox(detection.LabelStamp, 0.8, geometry.NewBox(2, 0, 12, 1)),
			},
			wantLabels: []string{detection.LabelStamp},
		},
		{
			name: "distant signature survives",
			boxes: []detection.Box{
				detection.NewBox(detection.LabelSignature, 0.9, geometry.NewBox(0, 0, 10, 10)),
				detection.NewBox(detection.LabelStamp, 0.8, geometry.NewBox(500, 500, 600, 600)),
			},
			wantLabels: []string{detection.LabelSignature, detection.LabelStamp},
		},
		{
			name: "zero area signature is never suppressed",
			boxes: []detection.Box{
				detection.NewBox(detection.LabelSignature, 0.9, geometry.NewBox(50, 50, 50, 50)),
				detection.NewBox(detection.LabelStamp, 0.8, geometry.NewBox(0, 0, 100, 100)),
			},
			wantLabels: []string{detection.LabelSignature, detection.LabelStamp},
		},
		{
			name: "stamps and other labels pass through",
			boxes: []detection.Box{
				detection.NewBox(detection.LabelStamp, 0.7, geometry.NewBox(0, 0, 50, 50)),
				detection.NewBox(detection.LabelStamp, 0.6, geometry.NewBox(0, 0, 50, 50)),
				detection.NewBox(detection.LabelQR, 0.5, geometry.NewBox(10, 10, 20, 20)),
			},
			wantLabels: []string{detection.LabelStamp, detection.LabelStamp, detection.LabelQR},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detection.SuppressOverlaps(tt.boxes)
			require.Len(t, got, len(tt.wantLabels))
			for i, b := range got {
				assert.Equal(t, tt.wantLabels[i], b.Label)
			}
		})
	}
}

func TestSuppressOverlapsKeepsOrder(t *testing.T) {
	boxes := []detection.Box{
		detection.NewBox(detection.LabelStamp, 0.8, geometry.NewBox(0, 0, 100, 100)),
		detection.NewBox(detection.LabelSignature, 0.9, geometry.NewBox(200, 200, 210, 210)),
		detection.NewBox(detection.LabelSignature, 0.7, geometry.NewBox(10, 10, 20, 20)),
		detection.NewBox(detection.LabelQR, 0.6, geometry.NewBox(300, 300, 320, 320)),
	}

	got := detection.SuppressOverlaps(boxes)

	require.Len(t, got, 3)
	assert.Equal(t, detection.LabelStamp, got[0].Label)
	assert.Equal(t, detection.LabelSignature, got[1].Label)
	assert.Equal(t, geometry.NewBox(200, 200, 210, 210), got[1].Bounds)
	assert.Equal(t, detection.LabelQR, got[2].Label)
}
