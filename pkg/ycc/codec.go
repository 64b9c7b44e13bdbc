// Package ycc converts RGBA buffers to and from luminance/chrominance
// planes using fixed JPEG-like coefficients. Chroma is stored offset by
// 128; alpha is never touched.
package ycc

// Planes holds one luminance and two chrominance values per pixel.
// Index i of each plane corresponds to byte offset i*4 of the RGBA buffer.
type Planes struct {
	Y  []int16
	Cb []int16
	Cr []int16
}

// Len returns the number of pixels described by the planes.
func (p *Planes) Len() int {
	return len(p.Y)
}

// Luma returns the truncated luminance of one pixel.
func Luma(r, g, b uint8) int16 {
	fr, fg, fb := float64(r), float64(g), float64(b)
	return int16(float64(fr*0.299) + float64(fg*0.587) + float64(fb*0.114))
}

// BlueChroma returns the truncated, 128-offset blue-difference chroma.
func BlueChroma(r, g, b uint8) int16 {
	fr, fg, fb := float64(r), float64(g), float64(b)
	return int16(float64(fr*-0.167) + float64(fg*-0.3313) + float64(fb*0.5) + 128.0)
}

// RedChroma returns the truncated, 128-offset red-difference chroma.
func RedChroma(r, g, b uint8) int16 {
	fr, fg, fb := float64(r), float64(g), float64(b)
	return int16(float64(fr*0.5) + float64(fg*-0.4187) + float64(fb*-0.0813) + 128.0)
}

// Forward decomposes every complete pixel of an RGBA buffer into planes.
func Forward(pixels []byte) *Planes {
	n := len(pixels) / 4
	p := &Planes{
		Y:  make([]int16, n),
		Cb: make([]int16, n),
		Cr: make([]int16, n),
	}

	for j := 0; j < n; j++ {
		i := j * 4
		r, g, b := pixels[i], pixels[i+1], pixels[i+2]
		p.Y[j] = Luma(r, g, b)
		p.Cb[j] = BlueChroma(r, g, b)
		p.Cr[j] = RedChroma(r, g, b)
	}

	return p
}

// clamp bounds v to a channel value and truncates it.
func clamp(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Inverse reconstructs one RGB pixel from a luminance value and the
// 128-offset chroma pair.
func Inverse(y, cb, cr int16) (uint8, uint8, uint8) {
	fy := float64(y)
	fcb := float64(cb - 128)
	fcr := float64(cr - 128)

	r := clamp(fy + float64(45.0/32.0*fcr))
	g := clamp(fy - float64(11.0/32.0*fcb) - float64(23.0/32.0*fcr))
	b := clamp(fy + float64(113.0/64.0*fcb))

	return r, g, b
}

// Compose rebuilds an RGBA buffer from a luminance plane and the chroma
// planes of p. Alpha and any bytes beyond the planes are copied from
// pixels, which must be the buffer p was computed from.
func Compose(pixels []byte, luma []int16, p *Planes) []byte {
	result := append([]byte(nil), pixels...)

	for j := range luma {
		i := j * 4
		result[i], result[i+1], result[i+2] = Inverse(luma[j], p.Cb[j], p.Cr[j])
	}

	return result
}

// RoundTrip decomposes pixels and reconstructs them with no filtering.
func RoundTrip(pixels []byte) []byte {
	p := Forward(pixels)
	return Compose(pixels, p.Y, p)
}
