package mosaic

import "pixelfx/internal/models"

// channelAverage divides a channel sum by the pixel count, saturating
// at 255.
func channelAverage(acc uint32, count uint32) uint8 {
	avg := acc / count
	if avg > 255 {
		return 255
	}
	return uint8(avg)
}

// Sum accumulates the R, G and B channels of src over the rectangle.
func Sum(src []byte, rect models.Rect) (r, g, b uint32) {
	for ya := 0; ya < rect.Height; ya++ {
		for xa := 0; xa < rect.Width; xa++ {
			cp := rect.Offset(ya, xa)
			r += uint32(src[cp])
			g += uint32(src[cp+1])
			b += uint32(src[cp+2])
		}
	}
	return r, g, b
}

// Fill writes a single color to every pixel of the rectangle in dst.
// Alpha is left untouched.
func Fill(dst []byte, rect models.Rect, r, g, b uint8) {
	for ya := 0; ya < rect.Height; ya++ {
		for xa := 0; xa < rect.Width; xa++ {
			cp := rect.Offset(ya, xa)
			dst[cp] = r
			dst[cp+1] = g
			dst[cp+2] = b
		}
	}
}

// Average computes the per-channel mean of the rectangle in src and
// broadcasts it over the same rectangle in dst.
func Average(src, dst []byte, rect models.Rect) {
	count := uint32(rect.Pixels())
	if count == 0 {
		return
	}

	accR, accG, accB := Sum(src, rect)
	Fill(dst, rect,
		channelAverage(accR, count),
		channelAverage(accG, count),
		channelAverage(accB, count),
	)
}
