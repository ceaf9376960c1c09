package detection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docscanhq/docscan/internal/detection"
	"github.com/docscanhq/docscan/pkg/geometry"
)

func TestNeedsReview(t *testing.T) {
	// Defaults derive band edges reviewLow=0.3 and reviewHigh=0.48.
	thresholds := detection.ReviewThresholds{Low: 0.5, High: 0.8}

	box := func(confidence float64) detection.Box {
		return detection.NewBox(detection.LabelSignature, confidence, geometry.NewBox(0, 0, 10, 10))
	}

	tests := []struct {
		name   string
		boxes  []detection.Box
		qrHits int
		want   bool
	}{
		{name: "no detections and no qr hits", boxes: nil, qrHits: 0, want: false},
		{name: "qr hits alone never flag", boxes: nil, qrHits: 3, want: false},
		{name: "confidence below low band", boxes: []detection.Box{box(0.1)}, qrHits: 0, want: true},
		{name: "confidence exactly at low band edge", boxes: []detection.Box{box(0.3)}, qrHits: 0, want: true},
		{name: "confidence inside the band", boxes: []detection.Box{box(0.4)}, qrHits: 0, want: true},
		{name: "confidence exactly at high band edge", boxes: []detection.Box{box(0.48)}, qrHits: 0, want: false},
		{name: "confidence above the band", boxes: []detection.Box{box(0.9)}, qrHits: 0, want: false},
		{name: "one weak detection among strong ones", boxes: []detection.Box{box(0.95), box(0.2), box(0.9)}, qrHits: 0, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detection.NeedsReview(tt.boxes, tt.qrHits, thresholds))
		})
	}
}

func TestNeedsReviewBandCollapse(t *testing.T) {
	// When the high threshold sits below the low one the bands collapse to
	// the low edge and nothing between them can flag.
	thresholds := detection.ReviewThresholds{Low: 0.8, High: 0.5}

	flagged := detection.NeedsReview([]detection.Box{
		detection.NewBox(detection.LabelStamp, 0.47, geometry.NewBox(0, 0, 5, 5)),
	}, 0, thresholds)

	assert.True(t, flagged, "0.47 sits below the collapsed 0.48 edge")

	clean := detection.NeedsReview([]detection.Box{
		detection.NewBox(detection.LabelStamp, 0.49, geometry.NewBox(0, 0, 5, 5)),
	}, 0, thresholds)

	assert.False(t, clean, "0.49 sits above the collapsed 0.48 edge")
}
