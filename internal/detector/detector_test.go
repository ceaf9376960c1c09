package detector_test

import (
	"context"
	"image"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docscanhq/docscan/internal/detection"
	"github.com/docscanhq/docscan/internal/detector"
	"github.com/docscanhq/docscan/internal/imaging"
	"github.com/docscanhq/docscan/pkg/geometry"
)

func writeTestImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page_001.jpg")
	require.NoError(t, imaging.Write(path, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	return path
}

func TestHTTPDetectorDetect(t *testing.T) {
	imagePath := writeTestImage(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "0.25", r.FormValue("confidence"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "page_001.jpg", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"detections": [
				{"label": "signature", "confidence": 0.91, "bbox": [10, 20, 110, 60]},
				{"label": "stamp", "confidence": 0.47, "bbox": [200, 200, 340, 340]}
			]
		}`))
	}))
	defer server.Close()

	boxes, err := detector.NewHTTPDetector(server.URL).Detect(context.Background(), imagePath, 0.25)
	require.NoError(t, err)

	require.Len(t, boxes, 2)
	assert.Equal(t, detection.LabelSignature, boxes[0].Label)
	assert.Equal(t, 0.91, boxes[0].Confidence)
	assert.Equal(t, geometry.NewBox(10, 20, 110, 60), boxes[0].Bounds)
	assert.Equal(t, detection.LabelStamp, boxes[1].Label)
}

func TestHTTPDetectorStatusError(t *testing.T) {
	imagePath := writeTestImage(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := detector.NewHTTPDetector(server.URL).Detect(context.Background(), imagePath, 0.25)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestHTTPDetectorMissingImage(t *testing.T) {
	_, err := detector.NewHTTPDetector("http://localhost:1").Detect(context.Background(), filepath.Join(os.TempDir(), "does-not-exist.jpg"), 0.25)
	require.Error(t, err)
}
