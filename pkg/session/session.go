// Package session keeps the single "current image" shared between the
// commands of an interactive front end. The record is guarded by one
// mutex; filters always run on a snapshot outside the lock.
package session

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"

	"pixelfx/internal/models"
	"pixelfx/pkg/filter"
	"pixelfx/pkg/imagefile"
	"pixelfx/pkg/logging"
)

// ErrNoImage is returned by operations that need a loaded image.
var ErrNoImage = errors.New("no image loaded")

// WorkPath derives the path filtered output for original is saved to:
// <workDir>/<name><suffix><ext>. An empty workDir keeps the original's
// directory.
func WorkPath(original, workDir, suffix string) string {
	dir := workDir
	if dir == "" {
		dir = filepath.Dir(original)
	}
	base := filepath.Base(original)
	ext := filepath.Ext(base)
	return filepath.Join(dir, strings.TrimSuffix(base, ext)+suffix+ext)
}

// Store holds the most recently opened image.
type Store struct {
	mu      sync.Mutex
	current *models.Frame

	workDir string
	suffix  string
}

// NewStore creates an empty store whose work files go to workDir with
// suffix appended to the original file name.
func NewStore(workDir, suffix string) *Store {
	return &Store{workDir: workDir, suffix: suffix}
}

// Open decodes the image at path and makes it the current image.
func (s *Store) Open(path string) (*models.Frame, error) {
	pixels, width, height, err := imagefile.LoadPixels(path)
	if err != nil {
		return nil, err
	}

	frame := &models.Frame{
		OriginalPath: path,
		WorkPath:     WorkPath(path, s.workDir, s.suffix),
		Original:     pixels,
		Pixels:       append([]byte(nil), pixels...),
		Width:        width,
		Height:       height,
	}

	s.mu.Lock()
	s.current = frame
	snapshot := frame.Clone()
	s.mu.Unlock()

	logging.Logger().Info("opened image", "path", path, "width", width, "height", height)
	return snapshot, nil
}

// Current returns a copy of the current image.
func (s *Store) Current() (*models.Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, false
	}
	return s.current.Clone(), true
}

// Apply runs the named filter on the original pixels of the current image
// and stores the result as its working pixels. Filters do not stack: each
// call starts again from the decoded original.
func (s *Store) Apply(name string, opts filter.Options) (*models.Frame, error) {
	snapshot, ok := s.Current()
	if !ok {
		return nil, ErrNoImage
	}

	pixels, err := filter.Apply(name, snapshot.Original, snapshot.Width, snapshot.Height, opts)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// The image may have been replaced or closed while the filter ran.
	if s.current == nil || s.current.OriginalPath != snapshot.OriginalPath {
		return nil, ErrNoImage
	}
	s.current.Pixels = pixels

	logging.Logger().Debug("applied filter", "filter", name, "path", snapshot.OriginalPath)
	return s.current.Clone(), nil
}

// Reset discards any filtering and restores the decoded pixels.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return ErrNoImage
	}
	s.current.Pixels = append([]byte(nil), s.current.Original...)
	return nil
}

// Save writes the working pixels of the current image to its work path
// and returns that path.
func (s *Store) Save() (string, error) {
	snapshot, ok := s.Current()
	if !ok {
		return "", ErrNoImage
	}

	if err := imagefile.SavePixels(snapshot.Pixels, snapshot.Width, snapshot.Height, snapshot.WorkPath); err != nil {
		return "", err
	}
	return snapshot.WorkPath, nil
}

// Close forgets the current image and removes its work file if one was
// written.
func (s *Store) Close() error {
	s.mu.Lock()
	frame := s.current
	s.current = nil
	s.mu.Unlock()

	if frame == nil {
		return nil
	}
	return imagefile.Remove(frame.WorkPath)
}
