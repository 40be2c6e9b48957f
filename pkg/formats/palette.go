package formats

import (
	"encoding/binary"
	"fmt"
	"image/color"

	"github.com/Faultbox/ganesha/pkg/resource"
)

// Palette layout constants.
const (
	PaletteColors = 16
	PaletteCount  = 16
	paletteSize   = PaletteColors * 2
)

// Color is a 15-bit color with a 1-bit alpha flag.
// R, G and B range over 0-31.
type Color struct {
	R, G, B uint8
	A       uint8
}

// ParseColor unpacks a word laid out as A:1 B:5 G:5 R:5 from the high bit.
func ParseColor(word uint16) Color {
	return Color{
		R: uint8(word & 0x1F),
		G: uint8((word >> 5) & 0x1F),
		B: uint8((word >> 10) & 0x1F),
		A: uint8((word >> 15) & 0x01),
	}
}

// Word packs the color back into its stored form.
func (c Color) Word() uint16 {
	return uint16(c.R&0x1F) |
		uint16(c.G&0x1F)<<5 |
		uint16(c.B&0x1F)<<10 |
		uint16(c.A&0x01)<<15
}

// Transparent reports whether the color is the all-zero transparent entry.
func (c Color) Transparent() bool {
	return c == Color{}
}

// NRGBA expands the color to 8 bits per channel.
func (c Color) NRGBA() color.NRGBA {
	expand := func(v uint8) uint8 { return v<<3 | v>>2 }
	a := uint8(0xFF)
	if c.Transparent() {
		a = 0
	}
	return color.NRGBA{R: expand(c.R), G: expand(c.G), B: expand(c.B), A: a}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// Palette is a 16 color CLUT.
type Palette [PaletteColors]Color

// ParsePalette decodes one 32 byte palette.
func ParsePalette(data []byte) (Palette, error) {
	var p Palette
	if len(data) < paletteSize {
		return p, fmt.Errorf("%w: palette is %d bytes, need %d", resource.ErrMalformedRecord, len(data), paletteSize)
	}
	for i := range p {
		p[i] = ParseColor(binary.LittleEndian.Uint16(data[i*2:]))
	}
	return p, nil
}

// ParsePalettes decodes the 16 consecutive palettes of a palette chunk.
func ParsePalettes(data []byte) ([]Palette, error) {
	c := resource.NewCursor(data, 0)
	sec, err := c.Next("palettes", paletteSize, PaletteCount)
	if err != nil {
		return nil, err
	}
	out := make([]Palette, 0, PaletteCount)
	for _, rec := range sec.Records(data) {
		p, err := ParsePalette(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Color returns the palette as a color.Palette for image encoding.
func (p Palette) Color() color.Palette {
	out := make(color.Palette, len(p))
	for i, c := range p {
		out[i] = c.NRGBA()
	}
	return out
}

// GrayRamp returns the 16 step gray palette used to preview raw texture
// indices.
func GrayRamp() Palette {
	var p Palette
	for i := range p {
		v := uint8(i * 31 / 15)
		p[i] = Color{R: v, G: v, B: v, A: 1}
	}
	return p
}
