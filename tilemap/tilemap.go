/*
Package tilemap decodes Tiled map documents into layer grids and packs them
into the sparse per-cell records handed to game scripts.

A map must have a layer named "tiles"; its width and height define the map.
The optional "collision", "pois" and "overlay" layers are kept only when they
have exactly width*height entries. Tile and overlay values are converted from
Tiled global tile ids into runtime tile ids when decoded, collision and poi
values are stored as they are.
*/
package tilemap

import (
	"errors"
	"fmt"

	"github.com/lupi-engine/assets/document"
)

// Layer names as exported by the map editor.
const (
	LayerTiles     = "tiles"
	LayerCollision = "collision"
	LayerPOIs      = "pois"
	LayerOverlay   = "overlay"

	// Older exports spell the collision layer this way.
	layerCollisionAlt = "colision"

	layersKey = "layers"
)

var (
	// ErrLayerMissing is returned when the document has no tiles layer.
	ErrLayerMissing = errors.New("tilemap: tiles layer missing")
	// ErrInvalidDimensions is returned when the tiles layer width or
	// height is missing or not positive.
	ErrInvalidDimensions = errors.New("tilemap: invalid dimensions")
	// ErrDataSizeMismatch is returned when the tiles layer doesn't have
	// width*height entries.
	ErrDataSizeMismatch = errors.New("tilemap: tiles data size mismatch")
)

// Map is a decoded map. Collision, POIs and Overlay are nil when the layer is
// absent or was dropped.
type Map struct {
	Name      string
	Width     int
	Height    int
	Tiles     []int
	Collision []int
	POIs      []int
	Overlay   []int

	// Dropped lists optional layers that were present but discarded
	// because of their size.
	Dropped []string
}

// Len returns the number of cells in the map.
func (m *Map) Len() int {
	return m.Width * m.Height
}

func layer(doc string, names ...string) (string, bool) {
	for _, name := range names {
		if s, ok := document.LocateNamedObject(doc, layersKey, name); ok {
			return s.Text(doc), true
		}
	}
	return "", false
}

func runtimeIDs(data []int) []int {
	for i, v := range data {
		data[i] = int(RuntimeID(uint32(v)))
	}
	return data
}

// Decode decodes the map document doc. No partially decoded map is ever
// returned; on error the result is nil.
func Decode(doc, name string) (*Map, error) {
	tiles, ok := layer(doc, LayerTiles)
	if !ok {
		return nil, ErrLayerMissing
	}

	m := &Map{
		Name:   name,
		Width:  document.Int(tiles, "width"),
		Height: document.Int(tiles, "height"),
	}

	if m.Width <= 0 || m.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, m.Width, m.Height)
	}

	data, _ := document.FieldInts(tiles, "data")
	if len(data) != m.Len() {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrDataSizeMismatch, m.Len(), len(data))
	}
	m.Tiles = runtimeIDs(data)

	optional := func(names ...string) []int {
		l, ok := layer(doc, names...)
		if !ok {
			return nil
		}
		data, _ := document.FieldInts(l, "data")
		if len(data) != m.Len() {
			m.Dropped = append(m.Dropped, names[0])
			return nil
		}
		return data
	}

	m.Collision = optional(LayerCollision, layerCollisionAlt)
	m.POIs = optional(LayerPOIs)
	if overlay := optional(LayerOverlay); overlay != nil {
		m.Overlay = runtimeIDs(overlay)
	}

	return m, nil
}
