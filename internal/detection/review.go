package detection

import "math"

// reviewBandScale shrinks the configured confidence thresholds into the
// review bands checked per detection.
const reviewBandScale = 0.6

// ReviewThresholds carries the calibration knobs for the review classifier.
// Low and High are the configured detector confidence thresholds, not the
// derived band edges.
type ReviewThresholds struct {
	Low  float64
	High float64
}

// NeedsReview reports whether a page needs a human pass. A page with no
// detections and no QR hits never does. Otherwise any detection with a
// confidence below the upper review band flags the page.
func NeedsReview(boxes []Box, qrHits int, t ReviewThresholds) bool {
	if len(boxes) == 0 && qrHits == 0 {
		return false
	}

	reviewLow := t.Low * reviewBandScale
	reviewHigh := math.Max(reviewLow, t.High*reviewBandScale)

	for _, b := range boxes {
		if b.Confidence < reviewLow {
			return true
		}
		// The two bands collapse to a single rule: any confidence below
		// reviewHigh flags the page.
		if b.Confidence >= reviewLow && b.Confidence < reviewHigh {
			return true
		}
	}
	return false
}
