package formats

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/Faultbox/ganesha/pkg/resource"
)

func TestColor_WordRoundTrip(t *testing.T) {
	for _, word := range []uint16{0x0000, 0x801F, 0x7FFF, 0x03E0, 0x7C00, 0xFFFF, 0x1234} {
		if got := ParseColor(word).Word(); got != word {
			t.Errorf("word 0x%04x round tripped to 0x%04x", word, got)
		}
	}
}

func TestColor_Channels(t *testing.T) {
	c := ParseColor(31<<10 | 15<<5 | 1)
	if c.B != 31 || c.G != 15 || c.R != 1 || c.A != 0 {
		t.Errorf("unexpected channels %+v", c)
	}

	red := ParseColor(0x801F).NRGBA()
	if red.R != 0xFF || red.G != 0 || red.A != 0xFF {
		t.Errorf("unexpected red %+v", red)
	}
	if ParseColor(0).NRGBA().A != 0 {
		t.Error("all-zero color should be transparent")
	}
	if ParseColor(0x8000).NRGBA().A != 0xFF {
		t.Error("black with the alpha bit should be opaque")
	}
}

func TestParsePalettes(t *testing.T) {
	data := make([]byte, PaletteCount*paletteSize)
	binary.LittleEndian.PutUint16(data[3*paletteSize+2*5:], 0x801F)

	palettes, err := ParsePalettes(data)
	if err != nil {
		t.Fatalf("ParsePalettes failed: %v", err)
	}
	if len(palettes) != PaletteCount {
		t.Fatalf("expected %d palettes, got %d", PaletteCount, len(palettes))
	}
	if palettes[3][5] != (Color{R: 31, A: 1}) {
		t.Errorf("unexpected palette 3 color 5: %+v", palettes[3][5])
	}

	if _, err := ParsePalettes(data[:len(data)-1]); !errors.Is(err, resource.ErrMalformedRecord) {
		t.Errorf("expected ErrMalformedRecord for short chunk, got %v", err)
	}
}

func TestGrayRamp(t *testing.T) {
	ramp := GrayRamp()
	if ramp[0].R != 0 || ramp[15].R != 31 {
		t.Errorf("unexpected ramp ends %+v %+v", ramp[0], ramp[15])
	}
	for i := 1; i < PaletteColors; i++ {
		if ramp[i].R < ramp[i-1].R {
			t.Errorf("ramp not increasing at %d", i)
		}
	}
}

func lightChunk() []byte {
	data := make([]byte, lightChunkMinSize)
	put := func(off int, v int16) {
		binary.LittleEndian.PutUint16(data[off:], uint16(v))
	}
	for i, v := range []int16{100, 200, 300, 1, 2, 3, -1, -2, -3} {
		put(i*2, v)
	}
	normals := []int16{4096, 0, 0, 0, 4096, 0, 0, 0, -4096}
	for i, v := range normals {
		put(lightNormalOffset+i*2, v)
	}
	copy(data[lightAmbientOffset:], []byte{10, 20, 30})
	copy(data[lightBackgroundStart:], []byte{1, 2, 3, 4, 5, 6})
	return data
}

func TestParseLighting(t *testing.T) {
	l, err := ParseLighting(lightChunk())
	if err != nil {
		t.Fatalf("ParseLighting failed: %v", err)
	}

	want := [DirectionalLightCount]DirectionalLight{
		{R: 100, G: 1, B: -1, Direction: Normal{X: 1}},
		{R: 200, G: 2, B: -2, Direction: Normal{Y: 1}},
		{R: 300, G: 3, B: -3, Direction: Normal{Z: -1}},
	}
	if l.Directional != want {
		t.Errorf("unexpected directional lights %+v", l.Directional)
	}
	if l.Ambient != (RGB{10, 20, 30}) {
		t.Errorf("unexpected ambient %+v", l.Ambient)
	}
	if l.Background.Top != (RGB{1, 2, 3}) || l.Background.Bottom != (RGB{4, 5, 6}) {
		t.Errorf("unexpected background %+v", l.Background)
	}

	if _, err := ParseLighting(make([]byte, lightChunkMinSize-1)); !errors.Is(err, resource.ErrMalformedRecord) {
		t.Errorf("expected ErrMalformedRecord, got %v", err)
	}
}

// terrainChunk returns a full size terrain chunk for an x by z grid.
func terrainChunk(x, z int) []byte {
	data := make([]byte, terrainLevel2Offset+terrainTileSize*terrainMaxTiles)
	data[0] = byte(x)
	data[1] = byte(z)
	return data
}

func TestParseTerrainTile(t *testing.T) {
	tile := ParseTerrainTile([]byte{0xC5, 0x11, 12, 0x63, 0x85, 0x22, 0x0B, 0x33})

	want := TerrainTile{
		Unknown1:    3,
		SurfaceType: 5,
		Unknown2:    0x11,
		Height:      12,
		Depth:       3,
		SlopeHeight: 3,
		SlopeType:   0x85,
		Unknown3:    0x22,
		Unknown4:    2,
		CantWalk:    true,
		CantCursor:  true,
		Unknown5:    0x33,
	}
	if tile != want {
		t.Errorf("expected %+v, got %+v", want, tile)
	}
}

func TestParseTerrain_LevelOffsets(t *testing.T) {
	data := terrainChunk(2, 3)
	// Level 1 tile (x=1, z=2) directly after the header.
	data[terrainHeader+(2*2+1)*terrainTileSize+2] = 7
	// Level 2 tile (x=0, z=1) after the fixed 256 tile first level.
	data[terrainLevel2Offset+(1*2+0)*terrainTileSize+2] = 9

	ter, err := ParseTerrain(data)
	if err != nil {
		t.Fatalf("ParseTerrain failed: %v", err)
	}
	if ter.XCount != 2 || ter.ZCount != 3 {
		t.Errorf("unexpected size %dx%d", ter.XCount, ter.ZCount)
	}
	if h := ter.Tile(0, 1, 2).Height; h != 7 {
		t.Errorf("expected level 1 height 7, got %d", h)
	}
	if h := ter.TileAt(TerrainCoords{X: 0, Z: 1, Level: 1}).Height; h != 9 {
		t.Errorf("expected level 2 height 9, got %d", h)
	}
	if ter.Tile(0, 2, 0) != nil || ter.Tile(2, 0, 0) != nil || ter.Tile(0, -1, 0) != nil {
		t.Error("expected nil for out of range tiles")
	}
}

func TestParseTerrain_Truncated(t *testing.T) {
	if _, err := ParseTerrain([]byte{4}); !errors.Is(err, resource.ErrTruncatedHeader) {
		t.Errorf("expected ErrTruncatedHeader, got %v", err)
	}

	// Large enough for the first level but not for the second, which
	// starts at a fixed offset.
	data := terrainChunk(2, 2)[:terrainHeader+4*terrainTileSize]
	if _, err := ParseTerrain(data); !errors.Is(err, resource.ErrMalformedRecord) {
		t.Errorf("expected ErrMalformedRecord, got %v", err)
	}
}

func TestTerrainTile_Slope(t *testing.T) {
	tests := []struct {
		name      string
		slopeType uint8
		height    uint8
		want      Slope
		wantErr   error
	}{
		{"flat", 0x00, 0, Slope{SlopeFlat, 0}, nil},
		{"slant north", 0x85, 2, Slope{SlopeSlant, 0}, nil},
		{"slant east", 0x58, 2, Slope{SlopeSlant, 90}, nil},
		{"slant south", 0x25, 2, Slope{SlopeSlant, 180}, nil},
		{"slant west", 0x52, 2, Slope{SlopeSlant, 270}, nil},
		{"convex", 0x14, 1, Slope{SlopeConvex, 180}, nil},
		{"concave", 0x66, 1, Slope{SlopeConcave, 270}, nil},
		{"no slope height", 0x85, 0, Slope{SlopeFlat, 0}, nil},
		{"unknown type", 0xEE, 3, Slope{SlopeFlat, 0}, ErrUnknownSlopeType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TerrainTile{SlopeType: tt.slopeType, SlopeHeight: tt.height}.Slope()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestParseTexture(t *testing.T) {
	data := make([]byte, TextureSize+16)
	data[0] = 0x21
	data[TextureWidth/2] = 0x43
	data[TextureSize-1] = 0xF0

	tex, err := ParseTexture(data)
	if err != nil {
		t.Fatalf("ParseTexture failed: %v", err)
	}

	tests := []struct {
		x, y int
		want uint8
	}{
		{0, 0, 1},
		{1, 0, 2},
		{0, 1, 3},
		{1, 1, 4},
		{TextureWidth - 2, TextureHeight - 1, 0},
		{TextureWidth - 1, TextureHeight - 1, 15},
	}
	for _, tt := range tests {
		if got := tex.At(tt.x, tt.y); got != tt.want {
			t.Errorf("(%d, %d): expected %d, got %d", tt.x, tt.y, tt.want, got)
		}
	}

	if _, err := ParseTexture(data[:TextureSize-1]); !errors.Is(err, resource.ErrMalformedRecord) {
		t.Errorf("expected ErrMalformedRecord, got %v", err)
	}
}

func TestTexture_Images(t *testing.T) {
	data := make([]byte, TextureSize)
	data[0] = 0x01
	tex, err := ParseTexture(data)
	if err != nil {
		t.Fatalf("ParseTexture failed: %v", err)
	}

	var pal Palette
	pal[1] = Color{R: 31, A: 1}

	img := tex.Image(pal)
	if b := img.Bounds(); b.Dx() != TextureWidth || b.Dy() != TextureHeight {
		t.Errorf("unexpected image bounds %v", b)
	}
	if img.ColorIndexAt(0, 0) != 1 {
		t.Errorf("expected index 1 at origin, got %d", img.ColorIndexAt(0, 0))
	}

	atlas := tex.Atlas([]Palette{GrayRamp(), pal})
	if b := atlas.Bounds(); b.Dx() != 2*TextureWidth {
		t.Errorf("unexpected atlas width %d", b.Dx())
	}
	if c := atlas.NRGBAAt(TextureWidth, 0); c.R != 0xFF || c.A != 0xFF {
		t.Errorf("expected opaque red in second palette, got %+v", c)
	}
	if c := atlas.NRGBAAt(TextureWidth, 1); c.A != 0 {
		t.Errorf("expected transparent index 0, got %+v", c)
	}
}
