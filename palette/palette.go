/*
Package palette implements the shared 15-bit color palette used to index
sprite sheets.

A palette holds up to 256 unique colors in the order they were first seen.
Index 0 is always Transparent. Once full, further new colors are refused and
counted so the overflow can be reported; which colors survive therefore
depends on the order images were scanned in.

The palette is stored on disk as a single script declaration:

	Palette = {0x0000, 0x7FFF, 0x001F}
*/
package palette

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"os"
	"strings"
)

// MaxColors is the capacity of a palette.
const MaxColors = 256

// Marker identifies the declaration line in a palette file.
const Marker = "Palette"

// Palette is an insertion ordered set of colors.
type Palette struct {
	colors []Color

	// Colors refused once full, in the order they were offered
	refused []Color
	seen    map[Color]struct{}
}

// New returns a palette holding only Transparent.
func New() *Palette {
	return &Palette{
		colors: []Color{Transparent},
		seen:   make(map[Color]struct{}),
	}
}

// Len returns the number of colors in the palette.
func (p *Palette) Len() int {
	return len(p.colors)
}

// Colors returns the colors in index order.
func (p *Palette) Colors() []Color {
	return append([]Color(nil), p.colors...)
}

// Index returns the index of the first entry equal to c.
func (p *Palette) Index(c Color) (int, bool) {
	for i, v := range p.colors {
		if v == c {
			return i, true
		}
	}
	return 0, false
}

// Contains reports whether c is in the palette.
func (p *Palette) Contains(c Color) bool {
	_, ok := p.Index(c)
	return ok
}

// Insert appends c unless it is already present. It returns false if c was
// refused because the palette is full.
func (p *Palette) Insert(c Color) bool {
	if p.Contains(c) {
		return true
	}
	if len(p.colors) >= MaxColors {
		if _, ok := p.seen[c]; !ok {
			p.seen[c] = struct{}{}
			p.refused = append(p.refused, c)
		}
		return false
	}
	p.colors = append(p.colors, c)
	return true
}

// Overflow returns the number of distinct colors refused so far.
func (p *Palette) Overflow() int {
	return len(p.refused)
}

// Color returns the display color of entry i, or black if i is out of range.
func (p *Palette) Color(i int) color.RGBA {
	if i < 0 || i >= len(p.colors) {
		return color.RGBA{A: 0xff}
	}
	r, g, b := p.colors[i].RGB()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Merge inserts every color of src into dst in src's order, including the
// colors src refused once it was full.
func Merge(dst, src *Palette) {
	for _, c := range src.colors {
		dst.Insert(c)
	}
	for _, c := range src.refused {
		dst.Insert(c)
	}
}

// parseNumber reads a decimal or 0x prefixed hexadecimal integer from the
// start of s, after any leading whitespace.
func parseNumber(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\r\n")

	neg := false
	if len(s) > 0 && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}

	base := 10
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}

	n, digits := 0, 0
scan:
	for _, c := range s {
		var d int
		switch {
		case c >= '0' && c <= '9':
			d = int(c - '0')
		case base == 16 && c >= 'a' && c <= 'f':
			d = int(c-'a') + 10
		case base == 16 && c >= 'A' && c <= 'F':
			d = int(c-'A') + 10
		default:
			break scan
		}
		n = n*base + d
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

// Read scans r for the palette declaration and returns the palette it
// declares. ok is false if no declaration was found.
func Read(r io.Reader) (p *Palette, ok bool, err error) {
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := s.Text()
		if !strings.Contains(line, Marker) {
			continue
		}
		i := strings.IndexByte(line, '{')
		if i < 0 {
			continue
		}

		p = New()
		tokens := strings.FieldsFunc(line[i+1:], func(r rune) bool {
			return r == ',' || r == '}'
		})
		for _, tok := range tokens {
			if n, ok := parseNumber(tok); ok {
				p.Insert(Color(n))
			}
		}
		return p, true, nil
	}
	return nil, false, s.Err()
}

// Load reads the palette file at path. A missing file is not an error.
func Load(path string) (*Palette, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	return Read(f)
}

// Write writes the palette declaration for p to w.
func Write(w io.Writer, p *Palette) error {
	colors := p.colors
	if len(colors) > MaxColors {
		colors = colors[:MaxColors]
	}

	b := bufio.NewWriter(w)
	b.WriteString(Marker + " = {")
	for i, c := range colors {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "0x%04X", uint16(c))
	}
	b.WriteString("}\n")

	return b.Flush()
}

// Save writes the palette declaration for p to the file at path, replacing
// any existing file.
func Save(path string, p *Palette) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := Write(f, p); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
