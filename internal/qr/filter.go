package qr

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Filtering constants, tuned against scanned office documents at 200 DPI.
// A real QR mark on such a page is small relative to the sheet, roughly
// square, and decodes to a payload of meaningful length.
const (
	minTextLength  = 4
	minSidePX      = 48
	minQRAreaRatio = 0.001
	maxQRAreaRatio = 0.03
	minAspectRatio = 0.7
	maxAspectRatio = 1.3
	maxEdgeRatio   = 1.25
)

// FilterCandidates keeps the raw engine candidates that look like genuine
// document QR marks. The rules run in a fixed order per candidate: payload
// length, pixel span, page area share, aspect ratio, edge regularity. The
// first failing rule rejects the candidate. Accepted detections keep their
// input order.
func FilterCandidates(candidates []Detection, imageWidth, imageHeight int) []Detection {
	imgArea := imageWidth * imageHeight
	if imgArea < 1 {
		imgArea = 1
	}

	accepted := make([]Detection, 0, len(candidates))
	for _, c := range candidates {
		if utf8.RuneCountInString(strings.TrimSpace(c.Text)) < minTextLength {
			continue
		}
		if len(c.Polygon) == 0 {
			continue
		}

		bounds := Bounds(c.Polygon)
		w := bounds.Width()
		h := bounds.Height()
		if w <= 0 || h <= 0 {
			continue
		}
		if math.Min(w, h) < minSidePX {
			continue
		}

		areaRatio := w * h / float64(imgArea)
		if areaRatio < minQRAreaRatio || areaRatio > maxQRAreaRatio {
			continue
		}

		aspect := w / h
		if aspect < minAspectRatio || aspect > maxAspectRatio {
			continue
		}

		if !edgesRegular(c.Polygon) {
			continue
		}

		accepted = append(accepted, c)
	}
	return accepted
}

// edgesRegular checks that the polygon sides are of comparable length. A
// genuine QR quad is near-square, so its longest side stays within
// maxEdgeRatio of its shortest one. Degenerate sides of zero length fail.
func edgesRegular(polygon []Point) bool {
	shortest := math.Inf(1)
	longest := 0.0
	for i, p := range polygon {
		next := polygon[(i+1)%len(polygon)]
		edge := math.Hypot(float64(next.X-p.X), float64(next.Y-p.Y))
		shortest = math.Min(shortest, edge)
		longest = math.Max(longest, edge)
	}
	if shortest <= 0 {
		return false
	}
	return longest/shortest <= maxEdgeRatio
}
