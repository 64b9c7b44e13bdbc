// Package filter maps filter names to the pixel engine so the CLI, the
// batch pipeline and the session can dispatch by name without carrying
// their own copies of the transforms.
package filter

import (
	"fmt"
	"sort"

	"pixelfx/internal/models"
	"pixelfx/pkg/colorfx"
	"pixelfx/pkg/fxerr"
	"pixelfx/pkg/mosaic"
	"pixelfx/pkg/smoothing"
)

// DefaultArea is the mosaic block size used when none is given.
const DefaultArea = 8

// Options carries the per-call arguments of geometry-aware filters.
type Options struct {
	// Area is the mosaic block size in pixels
	Area int
}

// Func is the common signature of every registered filter.
type Func func(pixels []byte, width, height int, opts Options) []byte

// Filter describes a registered transform.
type Filter struct {
	Name string
	// Geometric filters need the buffer length to match width*height*4.
	Geometric bool
	Apply     Func
}

var registry = map[string]Filter{
	"invert": {
		Name: "invert",
		Apply: func(p []byte, _, _ int, _ Options) []byte {
			return colorfx.Invert(p)
		},
	},
	"grayscale": {
		Name: "grayscale",
		Apply: func(p []byte, _, _ int, _ Options) []byte {
			return colorfx.Grayscale(p)
		},
	},
	"sepia": {
		Name: "sepia",
		Apply: func(p []byte, _, _ int, _ Options) []byte {
			return colorfx.Sepia(p)
		},
	},
	"mosaic": {
		Name:      "mosaic",
		Geometric: true,
		Apply: func(p []byte, w, h int, o Options) []byte {
			area := o.Area
			if area <= 0 {
				area = DefaultArea
			}
			return mosaic.Mosaic(p, h, w, area)
		},
	},
	"smoothing": {
		Name:      "smoothing",
		Geometric: true,
		Apply: func(p []byte, w, h int, _ Options) []byte {
			return smoothing.Smooth(p, h, w)
		},
	},
}

// Lookup returns the filter registered under name.
func Lookup(name string) (Filter, bool) {
	f, ok := registry[name]
	return f, ok
}

// Names returns the registered filter names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply runs the named filter and reports the silent no-op cases of the
// engine as errors: unknown names, buffers that are not whole pixels, and
// geometry mismatches for geometric filters.
func Apply(name string, pixels []byte, width, height int, opts Options) ([]byte, error) {
	f, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown filter %q (available: %v)", name, Names())
	}

	if len(pixels)%4 != 0 {
		return nil, fxerr.Geometry(name, len(pixels), width, height)
	}
	if f.Geometric && !models.ValidGeometry(len(pixels), height, width) {
		return nil, fxerr.Geometry(name, len(pixels), width, height)
	}

	return f.Apply(pixels, width, height, opts), nil
}
