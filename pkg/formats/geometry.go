package formats

import "encoding/binary"

// normalScale converts 4.12 fixed point normals to floats.
const normalScale = 4096.0

// Point3 is a vertex position in source units.
type Point3 struct {
	X, Y, Z int16
}

// parsePoint3 reads three little-endian int16 values.
func parsePoint3(b []byte) Point3 {
	return Point3{
		X: int16(binary.LittleEndian.Uint16(b[0:])),
		Y: int16(binary.LittleEndian.Uint16(b[2:])),
		Z: int16(binary.LittleEndian.Uint16(b[4:])),
	}
}

// Normal is a unit vector decoded from 4.12 fixed point.
type Normal struct {
	X, Y, Z float64
}

func parseNormal(b []byte) Normal {
	p := parsePoint3(b)
	return Normal{
		X: float64(p.X) / normalScale,
		Y: float64(p.Y) / normalScale,
		Z: float64(p.Z) / normalScale,
	}
}

// UV is a texel coordinate within a 256x256 texture page.
type UV struct {
	U, V uint8
}

func parseUV(b []byte) UV {
	return UV{U: b[0], V: b[1]}
}

// TexCoord maps a texel on a texture page into normalized coordinates of
// the whole texture, where the four pages are stacked vertically and v=0
// is the bottom edge.
func TexCoord(page uint8, uv UV) (u, v float32) {
	u = float32(uv.U) / 256
	v = 1 - (float32(page)+float32(uv.V)/256)/4
	return u, v
}

// Vertex is one corner of a polygon. Normal and UV are only meaningful on
// textured polygons.
type Vertex struct {
	Point  Point3
	Normal Normal
	UV     UV
}

// TerrainCoords links a polygon to the terrain tile it belongs to.
type TerrainCoords struct {
	X     uint8
	Z     uint8
	Level uint8
}

// parseTerrainCoords decodes a 2 byte link: Z and level packed in the
// first byte, X in the second.
func parseTerrainCoords(b []byte) TerrainCoords {
	return TerrainCoords{
		X:     b[1],
		Z:     b[0] >> 1,
		Level: b[0] & 0x01,
	}
}

// AngleCount is the number of camera azimuth buckets.
const AngleCount = 16

// VisibleAngles flags the camera buckets a polygon is drawn from.
type VisibleAngles [AngleCount]bool

// ParseVisibleAngles decodes a big-endian word; bit 15 is angle 0.
func ParseVisibleAngles(b []byte) VisibleAngles {
	word := binary.BigEndian.Uint16(b)
	var va VisibleAngles
	for i := range va {
		va[i] = word&(1<<(15-i)) != 0
	}
	return va
}

// Word re-encodes the flags in their stored bit order.
func (va VisibleAngles) Word() uint16 {
	var word uint16
	for i, on := range va {
		if on {
			word |= 1 << (15 - i)
		}
	}
	return word
}

// Count returns how many angles are visible.
func (va VisibleAngles) Count() int {
	n := 0
	for _, on := range va {
		if on {
			n++
		}
	}
	return n
}
