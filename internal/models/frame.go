package models

import "math"

// Frame represents a decoded image held as a raw RGBA pixel buffer
// together with the paths it was loaded from and will be saved to.
type Frame struct {
	// OriginalPath is the file the pixels were decoded from
	OriginalPath string

	// WorkPath is where filtered output for this frame is written
	WorkPath string

	// Original holds the pixels exactly as decoded
	Original []byte

	// Pixels holds the current (possibly filtered) pixels
	Pixels []byte

	// Width and Height are the frame dimensions in pixels
	Width, Height int
}

// Clone returns a deep copy of the frame so callers can work on it
// without holding any lock on the source.
func (f *Frame) Clone() *Frame {
	c := *f
	c.Original = append([]byte(nil), f.Original...)
	c.Pixels = append([]byte(nil), f.Pixels...)
	return &c
}

// Rect describes a rectangular sub-area of an RGBA buffer.
// RowStride is the width of the enclosing image in pixels and is used
// to compute absolute byte offsets.
type Rect struct {
	Row, Col  int
	RowStride int
	Height    int
	Width     int
}

// Pixels returns the number of pixels covered by the rectangle.
func (r Rect) Pixels() int {
	return r.Height * r.Width
}

// Offset returns the byte offset of the pixel at (ya, xa) relative to
// the rectangle origin.
func (r Rect) Offset(ya, xa int) int {
	return ((r.Row+ya)*r.RowStride + r.Col + xa) * 4
}

// BufferSize returns the length of an RGBA buffer of the given
// dimensions. ok is false for negative dimensions or when the length
// does not fit in an int.
func BufferSize(height, width int) (size int, ok bool) {
	if height < 0 || width < 0 {
		return 0, false
	}
	if height == 0 || width == 0 {
		return 0, true
	}
	if width > math.MaxInt/4/height {
		return 0, false
	}
	return height * width * 4, true
}

// ValidGeometry reports whether a buffer of length n can hold an image
// of the given dimensions.
func ValidGeometry(n, height, width int) bool {
	size, ok := BufferSize(height, width)
	return ok && n == size
}
