package mosaic

import "pixelfx/internal/models"

// Mosaic pixelates an RGBA buffer of the given dimensions using blocks
// of area x area pixels. If the buffer length does not match
// height*width*4, or area is not positive, an unchanged copy of pixels
// is returned.
func Mosaic(pixels []byte, height, width, area int) []byte {
	result := append([]byte(nil), pixels...)

	if !models.ValidGeometry(len(pixels), height, width) || area <= 0 {
		return result
	}

	for _, block := range Partition(height, width, area) {
		Average(pixels, result, block)
	}

	return result
}
