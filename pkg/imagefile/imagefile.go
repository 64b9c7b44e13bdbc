// Package imagefile decodes image files into raw RGBA buffers and encodes
// buffers back to disk, choosing the output format from the file
// extension. It also provides the file-to-file color filters.
package imagefile

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"pixelfx/internal/models"
	"pixelfx/pkg/fxerr"
	"pixelfx/pkg/logging"
)

// JPEGQuality is the quality used when encoding JPEG output.
const JPEGQuality = 90

// Decode reads an image in any registered format (PNG, JPEG, GIF, BMP,
// TIFF, WebP) and returns it with the detected format name.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fxerr.New(fxerr.CodecFailure, "decode", "", err)
	}
	return img, format, nil
}

// Load opens and decodes the image at path.
func Load(path string) (image.Image, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", fxerr.New(fxerr.IoFailure, "open", path, err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, "", fxerr.New(fxerr.CodecFailure, "decode", path, err)
	}

	logging.Logger().Debug("decoded image", "path", path, "format", format,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return img, format, nil
}

// ToNRGBA converts img to a zero-origin, non-premultiplied RGBA image.
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == b.Dx()*4 {
		return n
	}

	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Pixels returns img as a tightly packed RGBA buffer with its dimensions.
// The buffer is always a fresh copy.
func Pixels(img image.Image) ([]byte, int, int) {
	n := ToNRGBA(img)
	width, height := n.Rect.Dx(), n.Rect.Dy()
	return append([]byte(nil), n.Pix[:width*height*4]...), width, height
}

// FromPixels wraps a copy of an RGBA buffer in an image.
func FromPixels(pixels []byte, width, height int) (*image.NRGBA, error) {
	if !models.ValidGeometry(len(pixels), height, width) {
		return nil, fxerr.Geometry("image", len(pixels), width, height)
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, pixels)
	return img, nil
}

// LoadPixels decodes the file at path straight into an RGBA buffer.
func LoadPixels(path string) ([]byte, int, int, error) {
	img, _, err := Load(path)
	if err != nil {
		return nil, 0, 0, err
	}
	pixels, width, height := Pixels(img)
	return pixels, width, height, nil
}

// Encode writes img to w in the named format.
func Encode(w io.Writer, img image.Image, format string) error {
	if err := encode(w, img, format); err != nil {
		return fxerr.New(fxerr.CodecFailure, "encode", "", err)
	}
	return nil
}

func encode(w io.Writer, img image.Image, format string) error {
	var err error
	switch format {
	case "png":
		err = png.Encode(w, img)
	case "jpeg":
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	case "gif":
		err = gif.Encode(w, img, &gif.Options{NumColors: 256})
	case "bmp":
		err = bmp.Encode(w, img)
	case "tiff":
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		err = fmt.Errorf("no encoder for format %q", format)
	}
	return err
}

// FormatFor maps a file extension to an encoder format name.
func FormatFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png", nil
	case ".jpg", ".jpeg":
		return "jpeg", nil
	case ".gif":
		return "gif", nil
	case ".bmp":
		return "bmp", nil
	case ".tif", ".tiff":
		return "tiff", nil
	}
	return "", fxerr.New(fxerr.CodecFailure, "encode", path,
		fmt.Errorf("unsupported output extension %q", filepath.Ext(path)))
}

// Extension returns the canonical file extension for a format name.
func Extension(format string) string {
	switch format {
	case "jpeg":
		return ".jpg"
	case "tiff":
		return ".tif"
	default:
		return "." + format
	}
}

// Remove deletes path if it exists.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fxerr.New(fxerr.IoFailure, "remove", path, err)
	}
	return nil
}

// Save encodes img to path in the format implied by its extension. Any
// existing file at path is removed before writing starts, and a file left
// behind by a failed encode is removed again.
func Save(img image.Image, path string) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}

	if err := Remove(path); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fxerr.New(fxerr.IoFailure, "mkdir", filepath.Dir(path), err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fxerr.New(fxerr.IoFailure, "create", path, err)
	}

	if err := encode(file, img, format); err != nil {
		file.Close()
		os.Remove(path)
		return fxerr.New(fxerr.CodecFailure, "encode", path, err)
	}

	if err := file.Close(); err != nil {
		os.Remove(path)
		return fxerr.New(fxerr.IoFailure, "close", path, err)
	}

	logging.Logger().Debug("saved image", "path", path, "format", format)
	return nil
}

// SavePixels encodes an RGBA buffer to path.
func SavePixels(pixels []byte, width, height int, path string) error {
	img, err := FromPixels(pixels, width, height)
	if err != nil {
		return err
	}
	return Save(img, path)
}
