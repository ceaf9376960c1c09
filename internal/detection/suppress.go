package detection

import (
	"github.com/docscanhq/docscan/pkg/geometry"
)

const (
	// stampCoverageRatio is the share of a signature box that must lie
	// inside a stamp box for the signature to count as swallowed.
	stampCoverageRatio = 0.9
	// stampIoUThreshold is the secondary overlap test applied when the
	// coverage test alone does not fire.
	stampIoUThreshold = 0.6
)

// SuppressOverlaps drops signature detections that sit almost entirely inside
// a detected stamp. Stamps frequently contain a printed signature facsimile
// and reporting both inflates the signature count. Only the signature/stamp
// pair is suppressed; all other labels pass through untouched, in their
// original order.
func SuppressOverlaps(boxes []Box) []Box {
	if len(boxes) == 0 {
		return boxes
	}

	stamps := make([]Box, 0, len(boxes))
	for _, b := range boxes {
		if b.Label == LabelStamp {
			stamps = append(stamps, b)
		}
	}
	if len(stamps) == 0 {
		return boxes
	}

	kept := make([]Box, 0, len(boxes))
	for _, b := range boxes {
		if b.Label == LabelSignature && insideAnyStamp(b, stamps) {
			continue
		}
		kept = append(kept, b)
	}
	return kept
}

// insideAnyStamp applies the coverage test first and the IoU test second
// against every stamp. A degenerate signature box is never suppressed.
func insideAnyStamp(signature Box, stamps []Box) bool {
	signatureArea := signature.Bounds.Area()
	if signatureArea == 0 {
		return false
	}

	for _, stamp := range stamps {
		inter := geometry.Intersection(signature.Bounds, stamp.Bounds)
		if inter == 0 {
			continue
		}
		if inter/signatureArea >= stampCoverageRatio {
			return true
		}
		if geometry.IoU(signature.Bounds, stamp.Bounds) >= stampIoUThreshold {
			return true
		}
	}
	return false
}
