// Package detector is the boundary to the signature and stamp detection
// model, served over HTTP by an external inference process.
package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/docscanhq/docscan/internal/detection"
	"github.com/docscanhq/docscan/pkg/geometry"
)

// Detector detects labeled regions on one page image. Boxes below the
// confidence threshold are not returned.
type Detector interface {
	Detect(ctx context.Context, imagePath string, confidenceThreshold float64) ([]detection.Box, error)
}

// HTTPDetector posts page images to the inference endpoint.
type HTTPDetector struct {
	endpoint string
	client   *http.Client
}

// Make sure we conform to Detector interface
var _ Detector = (*HTTPDetector)(nil)

func NewHTTPDetector(endpoint string) *HTTPDetector {
	return &HTTPDetector{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

type wireDetection struct {
	Label      string     `json:"label"`
	Confidence float64    `json:"confidence"`
	BBox       [4]float64 `json:"bbox"`
}

type detectResponse struct {
	Detections []wireDetection `json:"detections"`
}

// Detect uploads the image and maps the model's answer to detection boxes.
// The confidence threshold travels with the request so filtering happens
// model-side.
func (d *HTTPDetector) Detect(ctx context.Context, imagePath string, confidenceThreshold float64) ([]detection.Box, error) {
	file, err := os.Open(imagePath)
	if err != nil {
		return nil, errors.Wrapf(err, "opening image %s", imagePath)
	}
	defer file.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filepath.Base(imagePath))
	if err != nil {
		return nil, errors.Wrap(err, "creating multipart form")
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, errors.Wrap(err, "copying image into form")
	}
	if err := writer.WriteField("confidence", strconv.FormatFloat(confidenceThreshold, 'f', -1, 64)); err != nil {
		return nil, errors.Wrap(err, "writing confidence field")
	}
	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(err, "closing multipart form")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, body)
	if err != nil {
		return nil, errors.Wrap(err, "creating detect request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "posting image to detector")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("detector returned status %d", resp.StatusCode)
	}

	var decoded detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, errors.Wrap(err, "decoding detector response")
	}

	boxes := make([]detection.Box, 0, len(decoded.Detections))
	for _, w := range decoded.Detections {
		boxes = append(boxes, detection.NewBox(
			w.Label,
			w.Confidence,
			geometry.NewBox(w.BBox[0], w.BBox[1], w.BBox[2], w.BBox[3]),
		))
	}
	return boxes, nil
}
