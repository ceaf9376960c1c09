package document

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ExtractZip unpacks every archive member under destDir, preserving the
// member directory layout. Member names must stay inside destDir once
// cleaned; anything escaping it fails the extraction.
func ExtractZip(archivePath, destDir string) error {
	reader, err := zip.OpenReader(archivePath)
	// ErrInsecurePath still hands back a usable reader; the per-member
	// check below rejects the offending names with a precise error.
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return errors.Wrapf(err, "opening archive %s", archivePath)
	}
	defer reader.Close()

	for _, member := range reader.File {
		if err := extractMember(member, destDir); err != nil {
			return err
		}
	}
	return nil
}

func extractMember(member *zip.File, destDir string) error {
	target := filepath.Join(destDir, filepath.FromSlash(member.Name))
	if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return errors.Errorf("archive member %q escapes the extraction directory", member.Name)
	}

	if member.FileInfo().IsDir() {
		return errors.Wrapf(os.MkdirAll(target, 0755), "creating directory %s", target)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", target)
	}

	in, err := member.Open()
	if err != nil {
		return errors.Wrapf(err, "opening archive member %s", member.Name)
	}
	defer in.Close()

	out, err := os.Create(target)
	if err != nil {
		return errors.Wrapf(err, "creating %s", target)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return errors.Wrapf(err, "extracting %s", member.Name)
	}
	return nil
}
