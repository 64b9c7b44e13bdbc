package imagefile

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"pixelfx/pkg/colorfx"
	"pixelfx/pkg/fxerr"
)

// createTestPixels creates an opaque RGBA gradient so every format
// round-trips it losslessly
func createTestPixels(width, height int) []byte {
	pixels := make([]byte, width*height*4)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * 4
			pixels[i] = uint8(x * 255 / width)
			pixels[i+1] = uint8(y * 255 / height)
			pixels[i+2] = uint8((x + y) % 256)
			pixels[i+3] = 255
		}
	}
	return pixels
}

func TestSaveAndLoadLossless(t *testing.T) {
	dir := t.TempDir()
	pixels := createTestPixels(8, 5)

	for _, name := range []string{"out.png", "out.bmp", "out.tif", "nested/dir/out.tiff"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := SavePixels(pixels, 8, 5, path); err != nil {
				t.Fatalf("Failed to save: %v", err)
			}

			got, width, height, err := LoadPixels(path)
			if err != nil {
				t.Fatalf("Failed to load: %v", err)
			}
			if width != 8 || height != 5 {
				t.Fatalf("Expected 8x5, got %dx%d", width, height)
			}
			if !bytes.Equal(got, pixels) {
				t.Error("Decoded pixels differ from the saved pixels")
			}
		})
	}
}

func TestSaveJPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jpg")
	if err := SavePixels(createTestPixels(16, 16), 16, 16, path); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	_, format, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("Expected jpeg, got %s", format)
	}
}

// TestToNRGBAOffsetBounds verifies images with a non-zero origin are
// rebased to zero
func TestToNRGBAOffsetBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 20, 13, 22))
	src.Set(10, 20, color.RGBA{1, 2, 3, 255})

	pixels, width, height := Pixels(src)
	if width != 3 || height != 2 {
		t.Fatalf("Expected 3x2, got %dx%d", width, height)
	}
	if !bytes.Equal(pixels[:4], []byte{1, 2, 3, 255}) {
		t.Errorf("Expected first pixel (1,2,3,255), got %v", pixels[:4])
	}
}

func TestFromPixelsGeometry(t *testing.T) {
	_, err := FromPixels(make([]byte, 10), 2, 2)
	if !errors.Is(err, fxerr.ErrInvalidGeometry) {
		t.Errorf("Expected invalid geometry error, got %v", err)
	}
}

func TestColorFileFilters(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "original.png")
	pixels := createTestPixels(6, 4)
	if err := SavePixels(pixels, 6, 4, src); err != nil {
		t.Fatalf("Failed to save source: %v", err)
	}

	tests := []struct {
		name   string
		fileFn func(src, dst string) error
		bufFn  func([]byte) []byte
	}{
		{"invert", InvertFile, colorfx.Invert},
		{"grayscale", GrayscaleFile, colorfx.Grayscale},
		{"sepia", SepiaFile, colorfx.Sepia},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := filepath.Join(dir, tt.name+".bmp")
			// A stale destination must be replaced
			if err := os.WriteFile(dst, []byte("stale"), 0644); err != nil {
				t.Fatalf("Failed to write stale file: %v", err)
			}

			if err := tt.fileFn(src, dst); err != nil {
				t.Fatalf("Filter failed: %v", err)
			}

			got, _, _, err := LoadPixels(dst)
			if err != nil {
				t.Fatalf("Failed to load result: %v", err)
			}
			if !bytes.Equal(got, tt.bufFn(pixels)) {
				t.Error("File filter output differs from buffer filter output")
			}
		})
	}
}

func TestApplyFileErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing source", func(t *testing.T) {
		dst := filepath.Join(dir, "missing.png")
		if err := os.WriteFile(dst, []byte("stale"), 0644); err != nil {
			t.Fatal(err)
		}

		err := InvertFile(filepath.Join(dir, "nope.png"), dst)
		if !errors.Is(err, fxerr.ErrIO) {
			t.Errorf("Expected i/o error, got %v", err)
		}
		if _, statErr := os.Stat(dst); !os.IsNotExist(statErr) {
			t.Error("Expected stale destination to be removed before reading the source")
		}
	})

	t.Run("corrupt source", func(t *testing.T) {
		src := filepath.Join(dir, "corrupt.png")
		if err := os.WriteFile(src, []byte("not an image"), 0644); err != nil {
			t.Fatal(err)
		}

		err := SepiaFile(src, filepath.Join(dir, "corrupt-out.png"))
		if !errors.Is(err, fxerr.ErrCodec) {
			t.Errorf("Expected codec error, got %v", err)
		}
	})

	t.Run("unsupported destination", func(t *testing.T) {
		src := filepath.Join(dir, "ok.png")
		if err := SavePixels(createTestPixels(2, 2), 2, 2, src); err != nil {
			t.Fatal(err)
		}

		dst := filepath.Join(dir, "out.webp")
		err := GrayscaleFile(src, dst)
		if !errors.Is(err, fxerr.ErrCodec) {
			t.Errorf("Expected codec error, got %v", err)
		}
		if _, statErr := os.Stat(dst); !os.IsNotExist(statErr) {
			t.Error("Expected no destination file after a failed encode")
		}
	})

	t.Run("same path", func(t *testing.T) {
		src := filepath.Join(dir, "self.png")
		pixels := createTestPixels(3, 2)
		if err := SavePixels(pixels, 3, 2, src); err != nil {
			t.Fatal(err)
		}

		for _, dst := range []string{src, dir + string(filepath.Separator) + "." + string(filepath.Separator) + "self.png"} {
			err := InvertFile(src, dst)
			if !errors.Is(err, fxerr.ErrIO) {
				t.Errorf("Expected i/o error for %s, got %v", dst, err)
			}
		}

		got, _, _, err := LoadPixels(src)
		if err != nil {
			t.Fatalf("Expected source to survive, got %v", err)
		}
		if !bytes.Equal(got, pixels) {
			t.Error("Source pixels changed")
		}
	})
}

func TestFormatFor(t *testing.T) {
	tests := map[string]string{
		"a.PNG":  "png",
		"a.jpeg": "jpeg",
		"a.jpg":  "jpeg",
		"a.gif":  "gif",
		"a.bmp":  "bmp",
		"a.tif":  "tiff",
	}
	for path, want := range tests {
		got, err := FormatFor(path)
		if err != nil || got != want {
			t.Errorf("%s: expected %s, got %s (%v)", path, want, got, err)
		}
		if _, err := FormatFor(path[:len(path)-len(filepath.Ext(path))] + Extension(want)); err != nil {
			t.Errorf("Extension(%s) is not a supported output: %v", want, err)
		}
	}
}
