package session

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"pixelfx/pkg/colorfx"
	"pixelfx/pkg/filter"
	"pixelfx/pkg/imagefile"
)

// writeTestImage saves an opaque 4x4 gradient as a PNG and returns its pixels
func writeTestImage(t *testing.T, path string) []byte {
	t.Helper()
	pixels := make([]byte, 4*4*4)
	for i := 0; i < len(pixels); i += 4 {
		pixels[i] = uint8(i * 3)
		pixels[i+1] = uint8(255 - i)
		pixels[i+2] = uint8(i)
		pixels[i+3] = 255
	}
	if err := imagefile.SavePixels(pixels, 4, 4, path); err != nil {
		t.Fatalf("Failed to write test image: %v", err)
	}
	return pixels
}

func TestWorkPath(t *testing.T) {
	tests := []struct {
		original, workDir, suffix, want string
	}{
		{"/img/cat.png", "", "_work", "/img/cat_work.png"},
		{"/img/cat.png", "/tmp/out", "_work", "/tmp/out/cat_work.png"},
		{"dog.jpeg", "", "-sepia", "dog-sepia.jpeg"},
	}
	for _, tt := range tests {
		if got := WorkPath(tt.original, tt.workDir, tt.suffix); got != tt.want {
			t.Errorf("WorkPath(%q, %q, %q): expected %q, got %q", tt.original, tt.workDir, tt.suffix, tt.want, got)
		}
	}
}

func TestStoreLifecycle(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "photo.png")
	pixels := writeTestImage(t, src)

	store := NewStore(filepath.Join(dir, "work"), "_work")

	if _, ok := store.Current(); ok {
		t.Fatal("Expected empty store")
	}
	if _, err := store.Apply("invert", filter.Options{}); !errors.Is(err, ErrNoImage) {
		t.Fatalf("Expected ErrNoImage, got %v", err)
	}

	frame, err := store.Open(src)
	if err != nil {
		t.Fatalf("Failed to open: %v", err)
	}
	if frame.Width != 4 || frame.Height != 4 || !bytes.Equal(frame.Pixels, pixels) {
		t.Fatal("Opened frame does not match the source image")
	}

	frame, err = store.Apply("invert", filter.Options{})
	if err != nil {
		t.Fatalf("Failed to apply: %v", err)
	}
	if !bytes.Equal(frame.Pixels, colorfx.Invert(pixels)) {
		t.Error("Expected inverted pixels")
	}

	// Filters restart from the original rather than stacking
	frame, err = store.Apply("grayscale", filter.Options{})
	if err != nil {
		t.Fatalf("Failed to apply: %v", err)
	}
	if !bytes.Equal(frame.Pixels, colorfx.Grayscale(pixels)) {
		t.Error("Expected grayscale of the original pixels")
	}

	workPath, err := store.Save()
	if err != nil {
		t.Fatalf("Failed to save: %v", err)
	}
	if workPath != filepath.Join(dir, "work", "photo_work.png") {
		t.Errorf("Unexpected work path %s", workPath)
	}
	saved, _, _, err := imagefile.LoadPixels(workPath)
	if err != nil {
		t.Fatalf("Failed to reload work file: %v", err)
	}
	if !bytes.Equal(saved, colorfx.Grayscale(pixels)) {
		t.Error("Saved work file differs from working pixels")
	}

	if err := store.Reset(); err != nil {
		t.Fatalf("Failed to reset: %v", err)
	}
	current, _ := store.Current()
	if !bytes.Equal(current.Pixels, pixels) {
		t.Error("Expected original pixels after reset")
	}

	if err := store.Close(); err != nil {
		t.Fatalf("Failed to close: %v", err)
	}
	if _, err := os.Stat(workPath); !os.IsNotExist(err) {
		t.Error("Expected work file to be removed on close")
	}
	if _, ok := store.Current(); ok {
		t.Error("Expected empty store after close")
	}
}

// TestSnapshotIsolation verifies that mutating a snapshot does not leak
// into the store
func TestSnapshotIsolation(t *testing.T) {
	src := filepath.Join(t.TempDir(), "a.png")
	pixels := writeTestImage(t, src)

	store := NewStore("", "_work")
	frame, err := store.Open(src)
	if err != nil {
		t.Fatal(err)
	}
	frame.Pixels[0] ^= 0xff
	frame.Original[0] ^= 0xff

	current, _ := store.Current()
	if !bytes.Equal(current.Pixels, pixels) || !bytes.Equal(current.Original, pixels) {
		t.Error("Snapshot mutation leaked into the store")
	}
}

// TestConcurrentApply exercises the store from several goroutines
func TestConcurrentApply(t *testing.T) {
	src := filepath.Join(t.TempDir(), "a.png")
	writeTestImage(t, src)

	store := NewStore("", "_work")
	if _, err := store.Open(src); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i, name := range []string{"invert", "grayscale", "sepia", "mosaic", "smoothing", "invert"} {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			if _, err := store.Apply(name, filter.Options{Area: i + 1}); err != nil {
				t.Errorf("%s: %v", name, err)
			}
		}(i, name)
	}
	wg.Wait()

	if frame, ok := store.Current(); !ok || len(frame.Pixels) != 4*4*4 {
		t.Error("Store is in an inconsistent state after concurrent use")
	}
}
