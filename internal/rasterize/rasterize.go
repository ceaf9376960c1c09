// Package rasterize turns PDF documents into page images via poppler's
// pdftoppm.
package rasterize

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"

	"github.com/docscanhq/docscan/internal/document"
)

const (
	defaultDPI = 200
	pagePrefix = "page"
)

// Rasterizer renders one document into ordered page images.
type Rasterizer interface {
	Rasterize(ctx context.Context, docPath, outputDir string) ([]string, error)
}

// Poppler shells out to pdftoppm. An empty binPath resolves the binary from
// PATH, otherwise it is taken as the directory holding the poppler tools.
type Poppler struct {
	dpi     int
	binPath string
}

// Make sure we conform to Rasterizer interface
var _ Rasterizer = (*Poppler)(nil)

// NewPoppler returns a rasterizer rendering at the given DPI, defaulting to
// 200 when dpi is not positive.
func NewPoppler(dpi int, binPath string) *Poppler {
	if dpi <= 0 {
		dpi = defaultDPI
	}
	return &Poppler{dpi: dpi, binPath: binPath}
}

// Rasterize renders every page of the document into outputDir as
// page_NNN.jpg, numbered from one in document order.
func (p *Poppler) Rasterize(ctx context.Context, docPath, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, errors.Wrapf(err, "creating output directory %s", outputDir)
	}

	bin := "pdftoppm"
	if p.binPath != "" {
		bin = filepath.Join(p.binPath, "pdftoppm")
	}

	prefix := filepath.Join(outputDir, pagePrefix)
	cmd := exec.CommandContext(ctx, bin, "-jpeg", "-r", strconv.Itoa(p.dpi), docPath, prefix)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrapf(err, "rasterizing %s: %s", docPath, stderr.String())
	}

	// pdftoppm pads page numbers by document length ("page-1.jpg" or
	// "page-01.jpg"), normalize to a fixed three digit scheme.
	produced, err := filepath.Glob(prefix + "-*.jpg")
	if err != nil {
		return nil, errors.Wrapf(err, "collecting rendered pages of %s", docPath)
	}
	document.SortByRelPath(produced, outputDir)

	pages := make([]string, 0, len(produced))
	for i, src := range produced {
		dst := filepath.Join(outputDir, fmt.Sprintf("%s_%03d.jpg", pagePrefix, i+1))
		if err := os.Rename(src, dst); err != nil {
			return nil, errors.Wrapf(err, "renaming rendered page %s", src)
		}
		pages = append(pages, dst)
	}
	return pages, nil
}
