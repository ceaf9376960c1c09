package qr

import (
	"github.com/docscanhq/docscan/pkg/geometry"
)

// Point is one corner of a decoded QR quadrilateral, in pixel coordinates.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Detection is a decoded QR code. Before filtering it is a raw candidate
// reported by a reading engine; after filtering it is an accepted hit. The
// polygon holds the four corners in the order the engine reported them.
type Detection struct {
	Text    string
	Polygon []Point
}

// Bounds returns the axis-aligned bounding box enclosing the polygon.
// An empty polygon yields a degenerate box at the origin.
func Bounds(polygon []Point) geometry.Box {
	if len(polygon) == 0 {
		return geometry.Box{}
	}

	minX, minY := polygon[0].X, polygon[0].Y
	maxX, maxY := polygon[0].X, polygon[0].Y
	for _, p := range polygon[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return geometry.NewBox(float64(minX), float64(minY), float64(maxX), float64(maxY))
}
