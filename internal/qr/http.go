package qr

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// HTTPEngine decodes QR codes by posting the page image to an external
// decoder service. The service answers with the raw candidates; filtering
// stays on this side.
type HTTPEngine struct {
	name     string
	endpoint string
	client   *http.Client
}

// Make sure we conform to Engine interface
var _ Engine = (*HTTPEngine)(nil)

// NewHTTPEngine returns an engine named for logs and arbitration traces,
// posting to the given decode endpoint.
func NewHTTPEngine(name, endpoint string) *HTTPEngine {
	return &HTTPEngine{
		name:     name,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (e *HTTPEngine) Name() string {
	return e.name
}

type decodeResult struct {
	Text    string   `json:"text"`
	Polygon [][2]int `json:"polygon"`
}

type decodeResponse struct {
	Results []decodeResult `json:"results"`
}

// Read posts the image as a multipart upload and maps the decoder's answer
// to raw candidates.
func (e *HTTPEngine) Read(ctx context.Context, imagePath string) ([]Detection, error) {
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
	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(err, "closing multipart form")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, body)
	if err != nil {
		return nil, errors.Wrap(err, "creating decode request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "posting image to decoder %s", e.name)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("decoder %s returned status %d", e.name, resp.StatusCode)
	}

	var decoded decodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, errors.Wrapf(err, "decoding response from %s", e.name)
	}

	detections := make([]Detection, 0, len(decoded.Results))
	for _, r := range decoded.Results {
		polygon := make([]Point, 0, len(r.Polygon))
		for _, p := range r.Polygon {
			polygon = append(polygon, Point{X: p[0], Y: p[1]})
		}
		detections = append(detections, Detection{Text: r.Text, Polygon: polygon})
	}
	return detections, nil
}
