package tilemap

// Cell is the packed record for a single map cell. Position 1 is the tile id
// and is always present; positions 2, 3 and 4 hold the collision, poi and
// overlay values. The record stops after the last present value and an
// omitted value before it reads as 0.
type Cell []int

// Record positions, 1-indexed like the script tables.
const (
	PosTile      = 1
	PosCollision = 2
	PosPOI       = 3
	PosOverlay   = 4
)

// Get returns the value at pos and whether it was set.
func (c Cell) Get(pos int) (int, bool) {
	if pos < 1 || pos > len(c) {
		return 0, false
	}
	v := c[pos-1]
	if pos == PosTile {
		return v, true
	}
	return v, v != 0
}

// Grid is a packed map. Rows and columns are 1-indexed; a nil Cell means the
// cell carries no data.
type Grid struct {
	Width, Height int

	rows [][]Cell
}

// Cell returns the record at row, col or nil.
func (g *Grid) Cell(row, col int) Cell {
	if row < 1 || row > g.Height || col < 1 || col > g.Width {
		return nil
	}
	return g.rows[row-1][col-1]
}

// Count returns the number of cells with a record.
func (g *Grid) Count() int {
	n := 0
	for _, r := range g.rows {
		for _, c := range r {
			if c != nil {
				n++
			}
		}
	}
	return n
}

// Table materializes the grid as script tables keyed [row][col]. Every row
// exists, even when it holds no cells.
func (g *Grid) Table() map[int]map[int][]int {
	t := make(map[int]map[int][]int, g.Height)
	for y, r := range g.rows {
		row := make(map[int][]int)
		for x, c := range r {
			if c != nil {
				row[x+1] = []int(c)
			}
		}
		t[y+1] = row
	}
	return t
}

func valueAt(layer []int, i int) int {
	if layer == nil {
		return 0
	}
	return layer[i]
}

func packCell(tile, collision, poi, overlay int) Cell {
	tileSet := tile&IDMask != 0 && tile != 0
	poiSet := poi&IDMask != 0 && poi != 0

	// Cells with only collision or overlay data are left out, the same
	// as the exporter's encoder treats them
	if !tileSet && !poiSet {
		return nil
	}

	c := make(Cell, PosTile, PosOverlay)
	c[PosTile-1] = tile

	set := func(pos, v int) {
		for len(c) < pos {
			c = append(c, 0)
		}
		c[pos-1] = v
	}
	if collision != 0 {
		set(PosCollision, collision)
	}
	if poiSet {
		set(PosPOI, poi)
	}
	if overlay&IDMask != 0 {
		set(PosOverlay, overlay)
	}

	return c
}

// Pack builds the packed grid for m.
func Pack(m *Map) *Grid {
	g := &Grid{
		Width:  m.Width,
		Height: m.Height,
		rows:   make([][]Cell, m.Height),
	}

	for y := 0; y < m.Height; y++ {
		g.rows[y] = make([]Cell, m.Width)
		for x := 0; x < m.Width; x++ {
			i := y*m.Width + x
			g.rows[y][x] = packCell(
				m.Tiles[i],
				valueAt(m.Collision, i),
				valueAt(m.POIs, i),
				valueAt(m.Overlay, i),
			)
		}
	}

	return g
}
