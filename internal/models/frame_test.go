package models

import (
	"math"
	"strconv"
	"testing"
)

// wrapSide is a side length whose square times four wraps int to zero.
const wrapSide = 1 << (strconv.IntSize/2 - 1)

func TestValidGeometry(t *testing.T) {
	tests := []struct {
		name          string
		n             int
		height, width int
		want          bool
	}{
		{"exact", 24, 2, 3, true},
		{"empty", 0, 0, 0, true},
		{"zero width", 0, 5, 0, true},
		{"zero width with data", 4, 5, 0, false},
		{"short", 23, 2, 3, false},
		{"long", 28, 2, 3, false},
		{"negative height", -24, -2, 3, false},
		{"negative width", 0, 0, -1, false},
		{"wrapping product", 0, wrapSide, wrapSide, false},
		{"max width", 4, 1, math.MaxInt, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidGeometry(tt.n, tt.height, tt.width); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestBufferSize(t *testing.T) {
	if size, ok := BufferSize(3, 5); !ok || size != 60 {
		t.Errorf("Expected 60, got %d (ok=%v)", size, ok)
	}
	if _, ok := BufferSize(wrapSide, wrapSide); ok {
		t.Error("Expected overflow to be reported")
	}
	if _, ok := BufferSize(math.MaxInt/4, 2); ok {
		t.Error("Expected overflow to be reported")
	}
	if size, ok := BufferSize(math.MaxInt/4, 1); !ok || size != math.MaxInt/4*4 {
		t.Errorf("Expected %d, got %d (ok=%v)", math.MaxInt/4*4, size, ok)
	}
}
