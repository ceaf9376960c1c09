package qr_test

import (
	"context"
	"image"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docscanhq/docscan/internal/imaging"
	"github.com/docscanhq/docscan/internal/qr"
)

func TestHTTPEngineRead(t *testing.T) {
	imagePath := filepath.Join(t.TempDir(), "page_001.jpg")
	require.NoError(t, imaging.Write(imagePath, image.NewRGBA(image.Rect(0, 0, 8, 8))))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "page_001.jpg", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"results": [
				{"text": "invoice-42", "polygon": [[100, 100], [200, 100], [200, 200], [100, 200]]}
			]
		}`))
	}))
	defer server.Close()

	engine := qr.NewHTTPEngine("primary", server.URL)
	assert.Equal(t, "primary", engine.Name())

	got, err := engine.Read(context.Background(), imagePath)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "invoice-42", got[0].Text)
	assert.Equal(t, []qr.Point{{X: 100, Y: 100}, {X: 200, Y: 100}, {X: 200, Y: 200}, {X: 100, Y: 200}}, got[0].Polygon)
}

func TestHTTPEngineStatusError(t *testing.T) {
	imagePath := filepath.Join(t.TempDir(), "page_001.jpg")
	require.NoError(t, imaging.Write(imagePath, image.NewRGBA(image.Rect(0, 0, 8, 8))))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "decoder crashed", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := qr.NewHTTPEngine("primary", server.URL).Read(context.Background(), imagePath)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}
