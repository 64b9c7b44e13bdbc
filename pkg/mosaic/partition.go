// Package mosaic implements block pixelation of RGBA buffers: the image
// is tiled into area x area blocks, with narrower strips along the right
// and bottom edges, and each block is replaced by its average color.
package mosaic

import "pixelfx/internal/models"

// Partition tiles a height x width grid into blocks of area x area.
// When width or height is not a multiple of area, the leftover strip on
// the right, the strip along the bottom and the bottom-right corner
// become blocks of their own. The returned blocks never overlap and
// cover every pixel exactly once.
func Partition(height, width, area int) []models.Rect {
	if height <= 0 || width <= 0 || area <= 0 {
		return nil
	}

	rmH := height % area
	rmW := width % area
	blocks := make([]models.Rect, 0, (height/area+1)*(width/area+1))

	for y := 0; y+area <= height; y += area {
		for x := 0; x+area <= width; x += area {
			blocks = append(blocks, models.Rect{Row: y, Col: x, RowStride: width, Height: area, Width: area})
		}

		if rmW != 0 {
			blocks = append(blocks, models.Rect{Row: y, Col: width - rmW, RowStride: width, Height: area, Width: rmW})
		}
	}

	if rmH != 0 {
		for x := 0; x+area <= width; x += area {
			blocks = append(blocks, models.Rect{Row: height - rmH, Col: x, RowStride: width, Height: rmH, Width: area})
		}

		if rmW != 0 {
			blocks = append(blocks, models.Rect{Row: height - rmH, Col: width - rmW, RowStride: width, Height: rmH, Width: rmW})
		}
	}

	return blocks
}
