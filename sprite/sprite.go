/*
Package sprite slices sprite sheet images into tiles and indexes every pixel
against the shared palette.

A sheet may mark its tile size with a ruler drawn in the sentinel gray
(#424242): when the top-left pixel is the sentinel, the run of sentinel pixels
along the first row gives the tile width and the run down the first column the
tile height. The first row and column of tiles then only hold the ruler and
are skipped. Without the sentinel the whole image is one tile.

Indexed pixels are stored tile by tile, row by row within a tile, one palette
index per byte, in a buffer of MaxPixels bytes. Pixels beyond that are
dropped.
*/
package sprite

import (
	"errors"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"

	"github.com/lupi-engine/assets/palette"
)

const (
	// MaxPixels is the capacity of a sheet's index buffer.
	MaxPixels = 4096

	// MaxSheets is the capacity of a Table.
	MaxSheets = 5000

	// Sentinel is the encoded sentinel gray marking tile boundaries.
	Sentinel palette.Color = 8456
)

var (
	// ErrEmptyImage is returned for images without pixels.
	ErrEmptyImage = errors.New("sprite: empty image")
	// ErrTableFull is returned when adding to a full Table.
	ErrTableFull = errors.New("sprite: sheet table full")
	// ErrShortSheet is returned when unmarshalling truncated sheet data.
	ErrShortSheet = errors.New("sprite: not enough sheet data")
)

// Image is a decoded image converted to palette colors.
type Image struct {
	Width, Height int
	Pixels        []palette.Color
}

// At returns the color at x, y.
func (m *Image) At(x, y int) palette.Color {
	return m.Pixels[y*m.Width+x]
}

// FromImage converts m into palette colors. Pixels with alpha below 128
// become palette.Transparent.
func FromImage(m image.Image) (*Image, error) {
	b := m.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, ErrEmptyImage
	}

	img := &Image{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pixels: make([]palette.Color, b.Dx()*b.Dy()),
	}

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.Pixels[i] = palette.FromColor(m.At(x, y))
			i++
		}
	}

	return img, nil
}

// Decode decodes an image in any registered format and converts it.
func Decode(r io.Reader) (*Image, error) {
	m, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return FromImage(m)
}

// Marked reports whether m starts with the sentinel.
func (m *Image) Marked() bool {
	return len(m.Pixels) > 0 && m.Pixels[0] == Sentinel
}

// DetectTileSize returns the tile size of m, which is the whole image unless
// the sentinel ruler says otherwise.
func DetectTileSize(m *Image) (w, h int) {
	w, h = m.Width, m.Height
	if !m.Marked() {
		return
	}

	for x := 0; x < m.Width; x++ {
		if m.At(x, 0) != Sentinel {
			w = x
			break
		}
	}

	for y := 0; y < m.Height; y++ {
		if m.At(0, y) != Sentinel {
			h = y
			break
		}
	}

	return
}
