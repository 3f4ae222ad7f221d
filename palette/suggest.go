package palette

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/ericpauley/go-quantize/quantize"
)

// montage stacks the images vertically into one so they can be quantized
// together.
func montage(images []image.Image) *image.NRGBA {
	var w, h int
	for _, m := range images {
		b := m.Bounds()
		if b.Dx() > w {
			w = b.Dx()
		}
		h += b.Dy()
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	y := 0
	for _, m := range images {
		b := m.Bounds()
		draw.Draw(dst, image.Rect(0, y, b.Dx(), y+b.Dy()), m, b.Min, draw.Src)
		y += b.Dy()
	}
	return dst
}

// Suggest reduces the colors used across images to at most n entries,
// including Transparent, using median cut quantization. It is meant for when
// the exact colors don't fit in a palette; the result is not used for
// indexing unless written out as the palette file.
func Suggest(images []image.Image, n int) *Palette {
	p := New()
	if len(images) == 0 || n <= 1 {
		return p
	}
	if n > MaxColors {
		n = MaxColors
	}

	m := montage(images)

	// Transparent pixels map to entry 0 regardless, keep them out of the
	// quantizer's buckets
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if m.NRGBAAt(x, y).A < 0x80 {
				m.SetNRGBA(x, y, color.NRGBA{A: 0xff})
			}
		}
	}

	q := quantize.MedianCutQuantizer{}
	for _, c := range q.Quantize(make(color.Palette, 0, n-1), m) {
		p.Insert(FromColor(c))
	}

	return p
}
