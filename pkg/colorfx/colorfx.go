// Package colorfx provides per-pixel color transforms over interleaved
// RGBA byte buffers. Every function returns a freshly allocated buffer
// and leaves its input untouched; alpha is always passed through.
package colorfx

// PixelFunc maps one RGB triple to another.
type PixelFunc func(r, g, b uint8) (uint8, uint8, uint8)

// Apply runs fn over every complete RGBA pixel of pixels. Trailing bytes
// that do not form a whole pixel are copied unchanged.
func Apply(pixels []byte, fn PixelFunc) []byte {
	result := make([]byte, len(pixels))
	n := len(pixels) - len(pixels)%4

	for i := 0; i < n; i += 4 {
		r, g, b := fn(pixels[i], pixels[i+1], pixels[i+2])
		result[i] = r
		result[i+1] = g
		result[i+2] = b
		result[i+3] = pixels[i+3]
	}
	copy(result[n:], pixels[n:])

	return result
}

// InvertPixel returns the complement of each channel.
func InvertPixel(r, g, b uint8) (uint8, uint8, uint8) {
	return 255 - r, 255 - g, 255 - b
}

// GrayPixel returns the luma-weighted gray level 0.30R + 0.59G + 0.11B
// replicated over all three channels. The sum is truncated, not rounded.
// Integer weights in hundredths give the exact floor, so a gray input
// maps to itself.
func GrayPixel(r, g, b uint8) (uint8, uint8, uint8) {
	gray := uint8((30*uint32(r) + 59*uint32(g) + 11*uint32(b)) / 100)
	return gray, gray, gray
}

// SepiaPixel applies the classic sepia tone matrix, saturating at 255.
func SepiaPixel(r, g, b uint8) (uint8, uint8, uint8) {
	fr, fg, fb := float64(r), float64(g), float64(b)

	// Explicit conversions keep the products from being fused.
	sr := float64(fr*0.393) + float64(fg*0.769) + float64(fb*0.189)
	sg := float64(fr*0.349) + float64(fg*0.686) + float64(fb*0.168)
	sb := float64(fr*0.272) + float64(fg*0.534) + float64(fb*0.131)

	return saturate(sr), saturate(sg), saturate(sb)
}

// saturate truncates v to a channel value. All sepia coefficients are
// non-negative so only the upper bound needs checking.
func saturate(v float64) uint8 {
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Invert returns the color negative of pixels.
func Invert(pixels []byte) []byte {
	return Apply(pixels, InvertPixel)
}

// Grayscale returns a gray-level version of pixels.
func Grayscale(pixels []byte) []byte {
	return Apply(pixels, GrayPixel)
}

// Sepia returns a sepia-toned version of pixels.
func Sepia(pixels []byte) []byte {
	return Apply(pixels, SepiaPixel)
}
