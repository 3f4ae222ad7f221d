package sprite

import (
	"image"
	"image/color"

	"github.com/lupi-engine/assets/palette"
)

// Image lays the complete tiles of s out in a grid cols tiles wide and
// returns it as a paletted image using the colors of p. Index 0 is drawn
// transparent.
func (s *Sheet) Image(p *palette.Palette, cols int) *image.Paletted {
	n := s.TileCount()
	if cols <= 0 {
		cols = 1
	}
	if n < cols {
		cols = n
	}
	rows := 0
	if cols > 0 {
		rows = (n + cols - 1) / cols
	}

	cp := make(color.Palette, p.Len())
	for i := range cp {
		cp[i] = p.Color(i)
	}
	if len(cp) > 0 {
		cp[0] = color.RGBA{}
	}

	m := image.NewPaletted(image.Rect(0, 0, cols*s.TileWidth, rows*s.TileHeight), cp)

	for tile := 0; tile < n; tile++ {
		tx, ty := tile%cols, tile/cols
		pixels := s.Tile(tile)
		for y := 0; y < s.TileHeight; y++ {
			for x := 0; x < s.TileWidth; x++ {
				dx := tx*s.TileWidth + x
				dy := ty*s.TileHeight + y
				m.SetColorIndex(dx, dy, pixels[y*s.TileWidth+x])
			}
		}
	}

	return m
}
