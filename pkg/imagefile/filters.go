package imagefile

import (
	"errors"
	"os"
	"path/filepath"

	"pixelfx/pkg/colorfx"
	"pixelfx/pkg/fxerr"
	"pixelfx/pkg/logging"
)

// BufferFunc transforms an RGBA buffer into a new buffer of equal length.
type BufferFunc func(pixels []byte) []byte

// ApplyFile decodes src, runs fn over its pixels and writes the result to
// dst in the format implied by dst's extension. Any existing file at dst
// is removed before src is read, so src and dst must name different files.
func ApplyFile(src, dst string, fn BufferFunc) error {
	if sameFile(src, dst) {
		return fxerr.New(fxerr.IoFailure, "filter", dst, errors.New("source and destination are the same file"))
	}
	if err := Remove(dst); err != nil {
		return err
	}

	pixels, width, height, err := LoadPixels(src)
	if err != nil {
		return err
	}

	if err := SavePixels(fn(pixels), width, height, dst); err != nil {
		return err
	}

	logging.Logger().Info("filtered image file", "src", src, "dst", dst)
	return nil
}

// InvertFile writes the color negative of src to dst.
func InvertFile(src, dst string) error {
	return ApplyFile(src, dst, colorfx.Invert)
}

// GrayscaleFile writes a gray-level version of src to dst.
func GrayscaleFile(src, dst string) error {
	return ApplyFile(src, dst, colorfx.Grayscale)
}

// SepiaFile writes a sepia-toned version of src to dst.
func SepiaFile(src, dst string) error {
	return ApplyFile(src, dst, colorfx.Sepia)
}

func sameFile(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	ia, err := os.Stat(a)
	if err != nil {
		return false
	}
	ib, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ia, ib)
}
