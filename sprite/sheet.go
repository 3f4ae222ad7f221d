package sprite

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/lupi-engine/assets/palette"
)

// Sheet is an indexed sprite sheet. It implements the
// encoding.BinaryMarshaler and encoding.BinaryUnmarshaler interfaces.
type Sheet struct {
	TileWidth, TileHeight int

	indices [MaxPixels]byte
	n       int
}

// Len returns the number of indexed pixels.
func (s *Sheet) Len() int {
	return s.n
}

// Indices returns the indexed pixels.
func (s *Sheet) Indices() []byte {
	return s.indices[:s.n]
}

// Append adds one indexed pixel, returning false if the buffer is full.
func (s *Sheet) Append(b byte) bool {
	if s.n >= MaxPixels {
		return false
	}
	s.indices[s.n] = b
	s.n++
	return true
}

// TileCount returns the number of complete tiles in the buffer.
func (s *Sheet) TileCount() int {
	if s.TileWidth <= 0 || s.TileHeight <= 0 {
		return 0
	}
	return s.n / (s.TileWidth * s.TileHeight)
}

// Tile returns the indexed pixels of tile i, or nil if it isn't complete.
func (s *Sheet) Tile(i int) []byte {
	if i < 0 || i >= s.TileCount() {
		return nil
	}
	size := s.TileWidth * s.TileHeight
	return s.indices[i*size : (i+1)*size]
}

// Index converts m into a sheet of palette indices. Colors missing from p
// index as 0. It also returns the number of pixels that didn't fit.
func Index(m *Image, p *palette.Palette) (*Sheet, int) {
	tw, th := DetectTileSize(m)
	s := &Sheet{
		TileWidth:  tw,
		TileHeight: th,
	}

	margin := m.Marked()
	tilesX := m.Width / tw
	tilesY := m.Height / th
	dropped := 0

	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			// The first row and column of tiles hold the ruler
			if margin && (tx == 0 || ty == 0) {
				continue
			}

			for y := 0; y < th; y++ {
				for x := 0; x < tw; x++ {
					i, _ := p.Index(m.At(tx*tw+x, ty*th+y))
					if !s.Append(byte(i)) {
						dropped++
					}
				}
			}
		}
	}

	return s, dropped
}

type sheetHeader struct {
	TileWidth  uint16
	TileHeight uint16
	Length     uint16
}

// MarshalBinary encodes the sheet as a little endian header of tile width,
// tile height and pixel count followed by the indexed pixels.
func (s *Sheet) MarshalBinary() ([]byte, error) {
	if s.TileWidth > 0xffff || s.TileHeight > 0xffff {
		return nil, fmt.Errorf("sprite: tile size %dx%d too large", s.TileWidth, s.TileHeight)
	}

	b := new(bytes.Buffer)
	h := sheetHeader{uint16(s.TileWidth), uint16(s.TileHeight), uint16(s.n)}
	if err := binary.Write(b, binary.LittleEndian, &h); err != nil {
		return nil, err
	}
	if _, err := b.Write(s.Indices()); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

// UnmarshalBinary decodes a sheet encoded by MarshalBinary.
func (s *Sheet) UnmarshalBinary(b []byte) error {
	r := bytes.NewReader(b)

	var h sheetHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return ErrShortSheet
	}
	if h.Length > MaxPixels {
		return fmt.Errorf("sprite: %d pixels exceeds capacity", h.Length)
	}

	*s = Sheet{
		TileWidth:  int(h.TileWidth),
		TileHeight: int(h.TileHeight),
		n:          int(h.Length),
	}
	if _, err := io.ReadFull(r, s.indices[:s.n]); err != nil {
		return ErrShortSheet
	}
	if r.Len() > 0 {
		return fmt.Errorf("sprite: %d trailing bytes", r.Len())
	}

	return nil
}
