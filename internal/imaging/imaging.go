// Package imaging wraps image decoding and encoding for the pipeline. All
// supported page formats register their codecs here, nothing else in the
// module imports image codec packages directly.
package imaging

import (
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

const jpegQuality = 90

// Load decodes the image at path.
func Load(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening image %s", path)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding image %s", path)
	}
	return img, nil
}

// Dimensions reads only the image header and returns the pixel size.
func Dimensions(path string) (int, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "opening image %s", path)
	}
	defer file.Close()

	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "reading image header of %s", path)
	}
	return cfg.Width, cfg.Height, nil
}

// Write encodes the image to path, picking the codec from the file
// extension and creating parent directories as needed. Unrecognized
// extensions encode as JPEG.
func Write(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", path)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer file.Close()

	if err := encode(file, img, strings.ToLower(filepath.Ext(path))); err != nil {
		return errors.Wrapf(err, "encoding %s", path)
	}
	return nil
}

func encode(file *os.File, img image.Image, ext string) error {
	switch ext {
	case ".png":
		return png.Encode(file, img)
	case ".bmp":
		return bmp.Encode(file, img)
	case ".tif", ".tiff":
		return tiff.Encode(file, img, nil)
	default:
		return jpeg.Encode(file, img, &jpeg.Options{Quality: jpegQuality})
	}
}
