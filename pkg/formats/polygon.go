package formats

// Shape is the number of corners of a polygon.
type Shape int

// Polygon shapes.
const (
	Triangle Shape = 3
	Quad     Shape = 4
)

// String returns the shape name.
func (s Shape) String() string {
	if s == Quad {
		return "quad"
	}
	return "triangle"
}

// Polygon is a decoded triangle or quad.
//
// Texture, terrain and the Unknown1-4 fields are only set on textured
// polygons; Unknown5 only on untextured ones. Unknown fields are kept
// verbatim for tooling that inspects them.
type Polygon struct {
	// Index is the position of the polygon in decode order.
	Index int

	Group    Group
	Shape    Shape
	Textured bool
	Vertices [4]Vertex

	TexturePalette uint8 // 4 bits
	TexturePage    uint8 // 2 bits
	Terrain        TerrainCoords
	VisibleAngles  VisibleAngles

	Unknown1 uint8 // 4 bits
	Unknown2 uint8
	Unknown3 uint8 // 6 bits
	Unknown4 uint8
	Unknown5 [4]byte
}

// Corners returns the vertices in A, B, C[, D] order.
func (p *Polygon) Corners() []Vertex {
	return p.Vertices[:p.Shape]
}

// TexCoords returns the normalized texture coordinates of every corner.
func (p *Polygon) TexCoords() [][2]float32 {
	out := make([][2]float32, p.Shape)
	for i, v := range p.Corners() {
		u, w := TexCoord(p.TexturePage, v.UV)
		out[i] = [2]float32{u, w}
	}
	return out
}

// parseTextured builds a textured polygon from its parallel records.
// UV records interleave attribute bytes between the corner UVs:
//
//	[0:2] uv A  [2] unknown1<<4 | palette  [3] unknown2
//	[4:6] uv B  [6] unknown3<<2 | page     [7] unknown4
//	[8:10] uv C  (quads: [10:12] uv D)
func parseTextured(g Group, points, normals, uvs, terrain []byte, vis VisibleAngles) Polygon {
	p := Polygon{
		Group:         g,
		Shape:         g.Shape(),
		Textured:      true,
		VisibleAngles: vis,
		Terrain:       parseTerrainCoords(terrain),
	}

	uvOffsets := [4]int{0, 4, 8, 10}
	for i := 0; i < int(p.Shape); i++ {
		p.Vertices[i] = Vertex{
			Point:  parsePoint3(points[i*6:]),
			Normal: parseNormal(normals[i*6:]),
			UV:     parseUV(uvs[uvOffsets[i]:]),
		}
	}

	p.Unknown1 = (uvs[2] >> 4) & 0x0F
	p.TexturePalette = uvs[2] & 0x0F
	p.Unknown2 = uvs[3]
	p.Unknown3 = (uvs[6] >> 2) & 0x3F
	p.TexturePage = uvs[6] & 0x03
	p.Unknown4 = uvs[7]
	return p
}

// parseUntextured builds an untextured polygon.
func parseUntextured(g Group, points, unknown []byte, vis VisibleAngles) Polygon {
	p := Polygon{
		Group:         g,
		Shape:         g.Shape(),
		VisibleAngles: vis,
	}
	for i := 0; i < int(p.Shape); i++ {
		p.Vertices[i] = Vertex{Point: parsePoint3(points[i*6:])}
	}
	copy(p.Unknown5[:], unknown)
	return p
}
