// Package evaluation scores the detection stack against hand-labeled ground
// truth exported by the annotation tooling.
package evaluation

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/docscanhq/docscan/pkg/geometry"
)

// BBox is a labeled region in native page units, origin top-left.
type BBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Region is one labeled ground-truth box. Annotation entries map an
// annotation id to its region, one region per entry.
type Region struct {
	Category string `json:"category"`
	BBox     BBox   `json:"bbox"`
}

// PageSize is the native page geometry the annotations were made against.
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PageAnnotations holds everything labeled on one page.
type PageAnnotations struct {
	PageSize    PageSize            `json:"page_size"`
	Annotations []map[string]Region `json:"annotations"`
}

// GroundTruth maps document name to page key ("page_12") to annotations.
type GroundTruth map[string]map[string]PageAnnotations

// LoadGroundTruth parses the annotations file.
func LoadGroundTruth(path string) (GroundTruth, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading annotations %s", path)
	}

	var gt GroundTruth
	if err := json.Unmarshal(data, &gt); err != nil {
		return nil, errors.Wrapf(err, "parsing annotations %s", path)
	}
	return gt, nil
}

// PageNumber extracts the numeric suffix of a page key like "page_12".
func PageNumber(pageKey string) (int, error) {
	idx := strings.LastIndex(pageKey, "_")
	if idx < 0 || idx == len(pageKey)-1 {
		return 0, errors.Errorf("malformed page key %q", pageKey)
	}
	n, err := strconv.Atoi(pageKey[idx+1:])
	if err != nil {
		return 0, errors.Errorf("malformed page key %q", pageKey)
	}
	return n, nil
}

// Scaled converts the native-unit region into image pixel space for a page
// rendered at imageWidth x imageHeight.
func (b BBox) Scaled(size PageSize, imageWidth, imageHeight int) geometry.Box {
	sx := 1.0
	if size.Width > 0 {
		sx = float64(imageWidth) / size.Width
	}
	sy := 1.0
	if size.Height > 0 {
		sy = float64(imageHeight) / size.Height
	}
	return geometry.NewBox(b.X*sx, b.Y*sy, (b.X+b.Width)*sx, (b.Y+b.Height)*sy)
}
