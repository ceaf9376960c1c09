// Package document handles input classification and page source preparation:
// deciding how an upload is turned into page images and in which order those
// pages are processed.
package document

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind buckets an input file by the processing route it takes.
type Kind int

const (
	KindUnknown Kind = iota
	KindPDF
	KindImage
	KindArchive
)

var imageExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".bmp":  {},
	".tif":  {},
	".tiff": {},
}

// Classify buckets a file by its lowercased extension.
func Classify(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".pdf":
		return KindPDF
	case ext == ".zip":
		return KindArchive
	default:
		if _, ok := imageExts[ext]; ok {
			return KindImage
		}
		return KindUnknown
	}
}

// IsImage reports whether the file carries a supported image extension.
func IsImage(path string) bool {
	return Classify(path) == KindImage
}

// ErrUnsupportedType reports an upload whose extension maps to no processing
// route. It fails the whole job.
type ErrUnsupportedType struct {
	Ext string
}

func NewErrUnsupportedType(path string) *ErrUnsupportedType {
	return &ErrUnsupportedType{Ext: strings.ToLower(filepath.Ext(path))}
}

func (e *ErrUnsupportedType) Error() string {
	return fmt.Sprintf("unsupported input type: %s", e.Ext)
}
