package evaluation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docscanhq/docscan/pkg/geometry"
)

const annotationsJSON = `{
  "contract.pdf": {
    "page_1": {
      "page_size": {"width": 612, "height": 792},
      "annotations": [
        {"ann_0": {"category": "signature", "bbox": {"x": 100, "y": 650, "width": 200, "height": 60}}},
        {"ann_1": {"category": "stamp", "bbox": {"x": 400, "y": 640, "width": 120, "height": 120}}}
      ]
    },
    "page_2": {
      "page_size": {"width": 612, "height": 792},
      "annotations": []
    }
  }
}`

func TestLoadGroundTruth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "annotations.json")
	require.NoError(t, os.WriteFile(path, []byte(annotationsJSON), 0644))

	gt, err := LoadGroundTruth(path)
	require.NoError(t, err)
	require.Contains(t, gt, "contract.pdf")

	pages := gt["contract.pdf"]
	require.Len(t, pages, 2)

	page := pages["page_1"]
	assert.Equal(t, PageSize{Width: 612, Height: 792}, page.PageSize)
	require.Len(t, page.Annotations, 2)
	first := page.Annotations[0]["ann_0"]
	assert.Equal(t, "signature", first.Category)
	assert.Equal(t, BBox{X: 100, Y: 650, Width: 200, Height: 60}, first.BBox)
	assert.Empty(t, pages["page_2"].Annotations)
}

func TestLoadGroundTruthErrors(t *testing.T) {
	_, err := LoadGroundTruth(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "reading annotations")

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	_, err = LoadGroundTruth(path)
	assert.ErrorContains(t, err, "parsing annotations")
}

func TestPageNumber(t *testing.T) {
	tests := []struct {
		key     string
		want    int
		wantErr bool
	}{
		{key: "page_1", want: 1},
		{key: "page_12", want: 12},
		{key: "scanned_page_7", want: 7},
		{key: "page", wantErr: true},
		{key: "page_", wantErr: true},
		{key: "page_x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := PageNumber(tt.key)
			if tt.wantErr {
				assert.ErrorContains(t, err, "malformed page key")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBBoxScaled(t *testing.T) {
	size := PageSize{Width: 612, Height: 792}
	box := BBox{X: 61.2, Y: 79.2, Width: 306, Height: 396}

	scaled := box.Scaled(size, 1224, 1584)
	assert.Equal(t, geometry.NewBox(122.4, 158.4, 734.4, 950.4), scaled)
}

func TestBBoxScaledZeroPageSize(t *testing.T) {
	box := BBox{X: 10, Y: 20, Width: 30, Height: 40}

	scaled := box.Scaled(PageSize{}, 1000, 1000)
	assert.Equal(t, geometry.NewBox(10, 20, 40, 60), scaled)
}
