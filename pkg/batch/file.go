package batch

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/genomicx/qrx/pkg/errors"
)

// AcceptedExtensions lists the input file types
var AcceptedExtensions = []string{".txt", ".csv", ".tsv"}

// Accepts reports whether path has an accepted extension
func Accepts(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, a := range AcceptedExtensions {
		if ext == a {
			return true
		}
	}
	return false
}

// ReadFile returns the text of an input file
func ReadFile(path string) (string, error) {
	if !Accepts(path) {
		return "", errors.Newf(errors.ErrUnsupportedFile, "unsupported file type %q (use .txt, .csv or .tsv)", filepath.Ext(path)).
			WithDetail("path", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileRead, "failed to read %s", path)
	}
	return string(data), nil
}

// ReadAll reads batch input from a stream such as stdin
func ReadAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrFileRead, "failed to read input")
	}
	return string(data), nil
}
