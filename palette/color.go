package palette

import "image/color"

// Color is a 15-bit color packed as 0BBBBBGGGGGRRRRR.
type Color uint16

// Transparent is the background color, always at index 0.
const Transparent Color = 0x0000

// Encode packs 8-bit channels into a Color, dropping the low 3 bits of each.
func Encode(r, g, b uint8) Color {
	return Color(uint16(r>>3)&0x1f | (uint16(g>>3)&0x1f)<<5 | (uint16(b>>3)&0x1f)<<10)
}

func expand(v Color) uint8 {
	f := uint8(v & 0x1f)
	return f<<3 | f>>2
}

// RGB unpacks c into 8-bit channels by replicating the top bits of each
// 5-bit field into the low bits.
func (c Color) RGB() (r, g, b uint8) {
	return expand(c), expand(c >> 5), expand(c >> 10)
}

// RGBA implements the color.Color interface. Colors are always opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: expand(c), G: expand(c >> 5), B: expand(c >> 10), A: 0xff}.RGBA()
}

// FromColor converts any color into a Color. Pixels with alpha below 128
// become Transparent.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A < 0x80 {
		return Transparent
	}
	return Encode(n.R, n.G, n.B)
}
