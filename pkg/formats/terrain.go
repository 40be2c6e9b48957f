package formats

import (
	"errors"
	"fmt"

	"github.com/Faultbox/ganesha/pkg/resource"
)

// ErrUnknownSlopeType reports a slope byte missing from the slope table.
// It is informational: the tile is treated as flat.
var ErrUnknownSlopeType = errors.New("unknown slope type")

// Terrain layout constants.
const (
	TerrainLevels   = 2
	terrainHeader   = 2
	terrainTileSize = 8
	terrainMaxTiles = 256

	// The second level always starts after a full first level, however
	// many tiles the header declares.
	terrainLevel2Offset = terrainHeader + terrainTileSize*terrainMaxTiles
)

// TerrainTile is one grid cell of walkable terrain.
type TerrainTile struct {
	Unknown1    uint8 // 2 bits
	SurfaceType uint8 // 6 bits
	Unknown2    uint8
	Height      uint8
	Depth       uint8 // 3 bits
	SlopeHeight uint8 // 5 bits
	SlopeType   uint8
	Unknown3    uint8
	Unknown4    uint8 // 6 bits
	CantWalk    bool
	CantCursor  bool
	Unknown5    uint8
}

// ParseTerrainTile decodes one 8 byte tile record.
func ParseTerrainTile(b []byte) TerrainTile {
	return TerrainTile{
		Unknown1:    (b[0] >> 6) & 0x03,
		SurfaceType: b[0] & 0x3F,
		Unknown2:    b[1],
		Height:      b[2],
		Depth:       (b[3] >> 5) & 0x07,
		SlopeHeight: b[3] & 0x1F,
		SlopeType:   b[4],
		Unknown3:    b[5],
		Unknown4:    (b[6] >> 2) & 0x3F,
		CantWalk:    (b[6]>>1)&0x01 != 0,
		CantCursor:  b[6]&0x01 != 0,
		Unknown5:    b[7],
	}
}

// SlopeShape gives the raise of each corner, in units of SlopeHeight.
type SlopeShape struct {
	NE, SE, SW, NW uint8
}

// Basic slope shapes.
var (
	SlopeFlat    = SlopeShape{}
	SlopeSlant   = SlopeShape{NE: 1, NW: 1}
	SlopeConvex  = SlopeShape{NE: 1}
	SlopeConcave = SlopeShape{NE: 1, SE: 1, NW: 1}
)

// Slope is a slope shape rotated by Rotation degrees.
type Slope struct {
	Shape    SlopeShape
	Rotation int
}

var slopeTypes = map[uint8]Slope{
	0x00: {SlopeFlat, 0},
	0x85: {SlopeSlant, 0},
	0x58: {SlopeSlant, 90},
	0x25: {SlopeSlant, 180},
	0x52: {SlopeSlant, 270},
	0x41: {SlopeConvex, 0},
	0x44: {SlopeConvex, 90},
	0x14: {SlopeConvex, 180},
	0x11: {SlopeConvex, 270},
	0x96: {SlopeConcave, 0},
	0x99: {SlopeConcave, 90},
	0x69: {SlopeConcave, 180},
	0x66: {SlopeConcave, 270},
}

// Slope resolves the tile's slope type. Tiles without slope height are
// always flat. An unknown slope type yields a flat slope together with
// ErrUnknownSlopeType.
func (t TerrainTile) Slope() (Slope, error) {
	s, ok := slopeTypes[t.SlopeType]
	if !ok {
		return Slope{SlopeFlat, 0}, fmt.Errorf("%w: 0x%02x", ErrUnknownSlopeType, t.SlopeType)
	}
	if t.SlopeHeight == 0 {
		return Slope{SlopeFlat, 0}, nil
	}
	return s, nil
}

// Terrain is the two-level tile grid of a map.
// Tiles are indexed [level][z][x].
type Terrain struct {
	XCount int
	ZCount int
	Tiles  [TerrainLevels][][]TerrainTile
}

// Tile returns the tile at the given position, or nil if out of range.
func (t *Terrain) Tile(level, x, z int) *TerrainTile {
	if level < 0 || level >= TerrainLevels || x < 0 || z < 0 || x >= t.XCount || z >= t.ZCount {
		return nil
	}
	return &t.Tiles[level][z][x]
}

// TileAt resolves a polygon's terrain link.
func (t *Terrain) TileAt(c TerrainCoords) *TerrainTile {
	return t.Tile(int(c.Level), int(c.X), int(c.Z))
}

// ParseTerrain decodes the terrain chunk.
func ParseTerrain(data []byte) (*Terrain, error) {
	if len(data) < terrainHeader {
		return nil, fmt.Errorf("%w: terrain header is %d bytes", resource.ErrTruncatedHeader, len(data))
	}

	t := &Terrain{
		XCount: int(data[0]),
		ZCount: int(data[1]),
	}
	levelStart := [TerrainLevels]int{terrainHeader, terrainLevel2Offset}
	for level, offset := range levelStart {
		c := resource.NewCursor(data, offset)
		rows := make([][]TerrainTile, t.ZCount)
		for z := range rows {
			sec, err := c.Next(fmt.Sprintf("terrain level %d row %d", level, z), terrainTileSize, t.XCount)
			if err != nil {
				return nil, err
			}
			row := make([]TerrainTile, t.XCount)
			for x, rec := range sec.Records(data) {
				row[x] = ParseTerrainTile(rec)
			}
			rows[z] = row
		}
		t.Tiles[level] = rows
	}
	return t, nil
}
