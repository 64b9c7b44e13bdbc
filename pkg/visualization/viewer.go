package visualization

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"pixelfx/pkg/imagefile"
	"pixelfx/pkg/ycc"
)

// PlaneNames lists the planes a Viewer can render, in output order.
var PlaneNames = []string{"y", "cb", "cr"}

// Viewer renders the luminance and chrominance planes of an image as
// grayscale pictures so the intermediate stages of the smoothing filter
// can be inspected.
type Viewer struct {
	// planes holds the decomposed image
	planes *ycc.Planes

	// dimensions of the image
	width  int
	height int
}

// NewViewer creates a viewer over decomposed planes
func NewViewer(planes *ycc.Planes, width, height int) *Viewer {
	return &Viewer{
		planes: planes,
		width:  width,
		height: height,
	}
}

// NewViewerFromPixels decomposes an RGBA buffer and creates a viewer over it
func NewViewerFromPixels(pixels []byte, width, height int) (*Viewer, error) {
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("buffer of %d bytes does not hold %dx%d pixels", len(pixels), width, height)
	}
	return NewViewer(ycc.Forward(pixels), width, height), nil
}

// ExtractPlane renders one plane ("y", "cb" or "cr") as an 8-bit
// grayscale image. Values outside 0-255 are clamped.
func (v *Viewer) ExtractPlane(name string) (*image.Gray, error) {
	var plane []int16

	switch name {
	case "y", "Y":
		plane = v.planes.Y
	case "cb", "Cb", "CB":
		plane = v.planes.Cb
	case "cr", "Cr", "CR":
		plane = v.planes.Cr
	default:
		return nil, fmt.Errorf("invalid plane: %s (must be y, cb, or cr)", name)
	}

	if len(plane) < v.width*v.height {
		return nil, fmt.Errorf("plane %s has %d values, need %d", name, len(plane), v.width*v.height)
	}

	img := image.NewGray(image.Rect(0, 0, v.width, v.height))
	for y := 0; y < v.height; y++ {
		for x := 0; x < v.width; x++ {
			value := plane[y*v.width+x]
			if value < 0 {
				value = 0
			} else if value > 255 {
				value = 255
			}
			img.SetGray(x, y, color.Gray{Y: uint8(value)})
		}
	}

	return img, nil
}

// SavePlane saves an extracted plane, choosing the format from the
// file extension
func (v *Viewer) SavePlane(img image.Image, filename string) error {
	return imagefile.Save(img, filename)
}

// SavePlanes extracts every plane and saves them as PNG files named
// <prefix>_<plane>.png inside outputDir
func (v *Viewer) SavePlanes(outputDir, prefix string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	for _, name := range PlaneNames {
		img, err := v.ExtractPlane(name)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("%s_%s.png", prefix, name))
		if err := v.SavePlane(img, filename); err != nil {
			return err
		}
	}

	return nil
}
