package detection

import (
	"github.com/docscanhq/docscan/pkg/geometry"
)

// Detection categories produced by the detector model. QR hits come from the
// reader chain instead but share the category space in summaries and
// annotations.
const (
	LabelSignature = "signature"
	LabelStamp     = "stamp"
	LabelQR        = "qr"
)

// Box is one labeled detection on a page image. Boxes are immutable once
// produced by the detector.
type Box struct {
	Label      string
	Confidence float64
	Bounds     geometry.Box
}

// NewBox returns a detection box for the given category.
func NewBox(label string, confidence float64, bounds geometry.Box) Box {
	return Box{Label: label, Confidence: confidence, Bounds: bounds}
}
