// Package smoothing implements a luminance-only 3x3 box blur. Chroma is
// left as decoded so edges soften without color bleeding.
package smoothing

import (
	"pixelfx/internal/models"
	"pixelfx/pkg/ycc"
)

// BoxBlur returns a copy of a height x width luminance plane where every
// interior value is replaced by the truncated mean of its 3x3
// neighborhood. The outermost rows and columns are copied unfiltered.
// A plane whose length does not match the dimensions is returned
// unfiltered.
func BoxBlur(luma []int16, height, width int) []int16 {
	result := append([]int16(nil), luma...)
	if !models.ValidGeometry(len(luma)*4, height, width) {
		return result
	}

	for y := 1; y < height-1; y++ {
		yp := (y - 1) * width
		yc := y * width
		yn := (y + 1) * width

		for x := 1; x < width-1; x++ {
			var acc int32
			for _, row := range [3]int{yp, yc, yn} {
				acc += int32(luma[row+x-1]) + int32(luma[row+x]) + int32(luma[row+x+1])
			}

			mean := acc / 9
			if mean > 255 {
				mean = 255
			}
			result[yc+x] = int16(mean)
		}
	}

	return result
}

// Smooth blurs the luminance of an RGBA buffer and reconstructs RGB from
// the blurred luminance and the original chrominance. If the buffer
// length does not match height*width*4 an unchanged copy is returned.
func Smooth(pixels []byte, height, width int) []byte {
	if !models.ValidGeometry(len(pixels), height, width) {
		return append([]byte(nil), pixels...)
	}

	planes := ycc.Forward(pixels)
	blurred := BoxBlur(planes.Y, height, width)

	return ycc.Compose(pixels, blurred, planes)
}
