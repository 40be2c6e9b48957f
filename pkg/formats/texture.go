package formats

import (
	"fmt"
	"image"

	"github.com/Faultbox/ganesha/pkg/resource"
)

// Texture geometry. The texture is four 256x256 pages stacked vertically,
// two 4-bit pixels per byte.
const (
	TextureWidth  = 256
	TextureHeight = 1024
	TexturePages  = 4
	textureStride = TextureWidth / 2
	TextureSize   = textureStride * TextureHeight
)

// Texture is a grid of 4-bit palette indices, row-major.
type Texture struct {
	Pix [TextureWidth * TextureHeight]uint8
}

// ParseTexture expands packed texture data. Within each byte the low
// nibble is the even pixel and the high nibble the odd one. Bytes past
// TextureSize are ignored.
func ParseTexture(data []byte) (*Texture, error) {
	if len(data) < TextureSize {
		return nil, fmt.Errorf("%w: texture is %d bytes, need %d", resource.ErrMalformedRecord, len(data), TextureSize)
	}
	t := &Texture{}
	for i, b := range data[:TextureSize] {
		t.Pix[i*2] = b & 0x0F
		t.Pix[i*2+1] = b >> 4
	}
	return t, nil
}

// At returns the palette index at (x, y).
func (t *Texture) At(x, y int) uint8 {
	return t.Pix[y*TextureWidth+x]
}

// Image renders the texture through a palette.
func (t *Texture) Image(p Palette) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, TextureWidth, TextureHeight), p.Color())
	copy(img.Pix, t.Pix[:])
	return img
}

// Atlas renders the texture once per palette, side by side, the layout
// renderers use to select a palette by horizontal offset.
func (t *Texture) Atlas(palettes []Palette) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, TextureWidth*len(palettes), TextureHeight))
	for i, p := range palettes {
		colors := [PaletteColors][4]uint8{}
		for j, c := range p {
			n := c.NRGBA()
			colors[j] = [4]uint8{n.R, n.G, n.B, n.A}
		}
		for y := 0; y < TextureHeight; y++ {
			for x := 0; x < TextureWidth; x++ {
				off := img.PixOffset(i*TextureWidth+x, y)
				copy(img.Pix[off:off+4], colors[t.At(x, y)][:])
			}
		}
	}
	return img
}
