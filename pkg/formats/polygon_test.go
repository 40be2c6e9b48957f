package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/Faultbox/ganesha/pkg/resource"
)

// polygonChunk assembles a polygon chunk from pre-encoded sections.
type polygonChunk struct {
	header                [4]uint16
	points                [4][]byte
	normals, uvs, terrain [2][]byte
	unknown               [2][]byte
	trailing              []byte
}

func (p polygonChunk) bytes() []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, p.header)
	for _, s := range p.points {
		buf.Write(s)
	}
	for _, s := range p.normals {
		buf.Write(s)
	}
	for _, s := range p.uvs {
		buf.Write(s)
	}
	for _, s := range p.unknown {
		buf.Write(s)
	}
	for _, s := range p.terrain {
		buf.Write(s)
	}
	buf.Write(p.trailing)
	return buf.Bytes()
}

// int16s encodes values as little-endian int16.
func int16s(v ...int16) []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, v)
	return buf.Bytes()
}

// visibilityChunk returns a visibility chunk with the given words stored
// for the first polygons of group g.
func visibilityChunk(g Group, words ...uint16) []byte {
	data := make([]byte, visibilityOffset+2*(512+768+64+256))
	sec := visibilitySection(g, len(words))
	for i, w := range words {
		binary.BigEndian.PutUint16(data[sec.Offset+i*2:], w)
	}
	return data
}

func singleTexturedTriangle() polygonChunk {
	return polygonChunk{
		header:  [4]uint16{1, 0, 0, 0},
		points:  [4][]byte{int16s(10, 20, 30, -40, 50, 60, 70, 80, -90)},
		normals: [2][]byte{int16s(4096, 0, 0, 0, -4096, 0, 0, 0, 2048)},
		uvs: [2][]byte{{
			1, 2, 0x3A, 0x77, // uv A, unknown1=3 palette=10, unknown2
			3, 4, 0x0E, 0x55, // uv B, unknown3=3 page=2, unknown4
			5, 6, // uv C
		}},
		terrain: [2][]byte{{0x0B, 7}}, // z=5 level=1, x=7
	}
}

func TestDecodePolygons_SingleTexturedTriangle(t *testing.T) {
	chunk := singleTexturedTriangle().bytes()
	if len(chunk) != 8+18+18+10+2 {
		t.Fatalf("fixture is %d bytes", len(chunk))
	}

	ps, err := DecodePolygons(chunk, visibilityChunk(TexturedTriangles, 0x8001), SlotPolygons)
	if err != nil {
		t.Fatalf("DecodePolygons failed: %v", err)
	}
	if ps.Len() != 1 {
		t.Fatalf("expected 1 polygon, got %d", ps.Len())
	}

	p := ps.Polygons[0]
	if p.Group != TexturedTriangles || p.Shape != Triangle || !p.Textured {
		t.Errorf("unexpected kind %s/%s textured=%v", p.Group, p.Shape, p.Textured)
	}
	if p.Vertices[1].Point != (Point3{-40, 50, 60}) {
		t.Errorf("unexpected point B %+v", p.Vertices[1].Point)
	}
	if p.Vertices[0].Normal.X != 1 || p.Vertices[1].Normal.Y != -1 || p.Vertices[2].Normal.Z != 0.5 {
		t.Errorf("unexpected normals %+v", p.Vertices)
	}
	if p.Vertices[2].UV != (UV{5, 6}) {
		t.Errorf("unexpected uv C %+v", p.Vertices[2].UV)
	}
	if p.TexturePalette != 10 || p.Unknown1 != 3 || p.Unknown2 != 0x77 {
		t.Errorf("palette byte: palette=%d unknown1=%d unknown2=0x%x", p.TexturePalette, p.Unknown1, p.Unknown2)
	}
	if p.TexturePage != 2 || p.Unknown3 != 3 || p.Unknown4 != 0x55 {
		t.Errorf("page byte: page=%d unknown3=%d unknown4=0x%x", p.TexturePage, p.Unknown3, p.Unknown4)
	}
	if p.Terrain != (TerrainCoords{X: 7, Z: 5, Level: 1}) {
		t.Errorf("unexpected terrain link %+v", p.Terrain)
	}
	if !p.VisibleAngles[0] || !p.VisibleAngles[15] || p.VisibleAngles.Count() != 2 {
		t.Errorf("unexpected visibility %v", p.VisibleAngles)
	}
	if len(p.Corners()) != 3 {
		t.Errorf("expected 3 corners, got %d", len(p.Corners()))
	}
}

func TestDecodePolygons_AllGroupsInOrder(t *testing.T) {
	c := polygonChunk{
		header: [4]uint16{1, 1, 1, 1},
		points: [4][]byte{
			int16s(0, 0, 0, 1, 0, 0, 0, 0, 1),
			int16s(2, 0, 0, 3, 0, 0, 4, 0, 0, 5, 0, 0),
			int16s(6, 0, 0, 7, 0, 0, 8, 0, 0),
			int16s(9, 0, 0, 10, 0, 0, 11, 0, 0, 12, 0, 0),
		},
		normals: [2][]byte{make([]byte, 18), make([]byte, 24)},
		uvs:     [2][]byte{make([]byte, 10), {0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xAA, 0xBB}},
		unknown: [2][]byte{{1, 2, 3, 4}, {5, 6, 7, 8}},
		terrain: [2][]byte{{0, 0}, {2, 1}},
	}

	ps, err := DecodePolygons(c.bytes(), nil, SlotPolygons)
	if err != nil {
		t.Fatalf("DecodePolygons failed: %v", err)
	}

	want := []struct {
		group  Group
		shape  Shape
		firstX int16
	}{
		{TexturedTriangles, Triangle, 0},
		{TexturedQuads, Quad, 2},
		{UntexturedTriangles, Triangle, 6},
		{UntexturedQuads, Quad, 9},
	}
	if ps.Len() != len(want) {
		t.Fatalf("expected %d polygons, got %d", len(want), ps.Len())
	}
	for i, p := range ps.All() {
		w := want[i]
		if p.Index != i || p.Group != w.group || p.Shape != w.shape || p.Vertices[0].Point.X != w.firstX {
			t.Errorf("polygon %d: got index=%d %s %s x=%d", i, p.Index, p.Group, p.Shape, p.Vertices[0].Point.X)
		}
		if p.VisibleAngles.Count() != 0 {
			t.Errorf("polygon %d: expected no visible angles without visibility data", i)
		}
	}

	quad := ps.Polygons[1]
	if quad.Vertices[3].UV != (UV{0xAA, 0xBB}) {
		t.Errorf("expected quad uv D from bytes 10-11, got %+v", quad.Vertices[3].UV)
	}
	if quad.Terrain != (TerrainCoords{X: 1, Z: 1}) {
		t.Errorf("unexpected quad terrain %+v", quad.Terrain)
	}
	if ps.Polygons[3].Unknown5 != [4]byte{5, 6, 7, 8} {
		t.Errorf("unexpected unknown5 %v", ps.Polygons[3].Unknown5)
	}
	if ps.Polygons[2].Textured || ps.Polygons[2].Vertices[0].Normal != (Normal{}) {
		t.Error("untextured polygons carry no normals")
	}
}

func TestDecodePolygons_ZeroCounts(t *testing.T) {
	// Only the header is read, trailing bytes are ignored.
	chunk := append(make([]byte, 8), 0xFF, 0xFF, 0xFF)

	ps, err := DecodePolygons(chunk, nil, SlotPolygons)
	if err != nil {
		t.Fatalf("DecodePolygons failed: %v", err)
	}
	if ps.Len() != 0 {
		t.Errorf("expected no polygons, got %d", ps.Len())
	}
	if ps.Extents != (Extents{}) || ps.Extents.Diagonal() != 0 {
		t.Errorf("expected zero extents, got %+v", ps.Extents)
	}
}

func TestDecodePolygons_TrailingBytes(t *testing.T) {
	c := singleTexturedTriangle()
	c.trailing = make([]byte, 64)

	sections, err := ParseSections(c.bytes())
	if err != nil {
		t.Fatalf("ParseSections failed: %v", err)
	}
	if sections.End() != 56 {
		t.Errorf("expected sections to end at 56, got %d", sections.End())
	}
}

func TestDecodePolygons_Malformed(t *testing.T) {
	full := singleTexturedTriangle().bytes()

	tests := []struct {
		name    string
		chunk   []byte
		wantErr error
	}{
		{"short header", full[:6], resource.ErrTruncatedHeader},
		{"missing terrain", full[:len(full)-1], resource.ErrMalformedRecord},
		{"counts past chunk", []byte{0xFF, 0xFF, 0, 0, 0, 0, 0, 0}, resource.ErrMalformedRecord},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodePolygons(tt.chunk, nil, SlotPolygons); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDecodePolygons_AlternateSlotIgnoresVisibility(t *testing.T) {
	chunk := singleTexturedTriangle().bytes()
	vis := visibilityChunk(TexturedTriangles, 0xFFFF)

	ps, err := DecodePolygons(chunk, vis, SlotPolygons+1)
	if err != nil {
		t.Fatalf("DecodePolygons failed: %v", err)
	}
	if ps.Polygons[0].VisibleAngles.Count() != 0 {
		t.Errorf("expected all angles hidden, got %v", ps.Polygons[0].VisibleAngles)
	}
}

func TestDecodePolygons_ShortVisibilityChunk(t *testing.T) {
	chunk := singleTexturedTriangle().bytes()
	vis := make([]byte, visibilityOffset+2)
	binary.BigEndian.PutUint16(vis[visibilityOffset:], 0x8000)

	ps, err := DecodePolygons(chunk, vis, SlotPolygons)
	if err != nil {
		t.Fatalf("DecodePolygons failed: %v", err)
	}
	if ps.Len() != 1 {
		t.Fatalf("expected 1 polygon, got %d", ps.Len())
	}
	if !ps.Polygons[0].VisibleAngles[0] || ps.Polygons[0].VisibleAngles.Count() != 1 {
		t.Errorf("expected angle 0 only, got %v", ps.Polygons[0].VisibleAngles)
	}

	got, err := ParseVisibility(vis, UntexturedQuads, 0)
	if err != nil || len(got) != 0 {
		t.Errorf("empty group past the chunk end: got %v (%v)", got, err)
	}
}

func TestParseVisibility(t *testing.T) {
	vis := visibilityChunk(UntexturedTriangles, 0x0001, 0x4000)

	got, err := ParseVisibility(vis, UntexturedTriangles, 2)
	if err != nil {
		t.Fatalf("ParseVisibility failed: %v", err)
	}
	if !got[0][15] || got[0].Count() != 1 {
		t.Errorf("word 0x0001 should be angle 15 only, got %v", got[0])
	}
	if !got[1][1] || got[1].Count() != 1 {
		t.Errorf("word 0x4000 should be angle 1 only, got %v", got[1])
	}
	if got[1].Word() != 0x4000 {
		t.Errorf("expected word 0x4000, got 0x%04x", got[1].Word())
	}

	if sec := visibilitySection(UntexturedTriangles, 0); sec.Offset != 0x380+2*(512+768) {
		t.Errorf("untextured triangle words start at 0x%x", sec.Offset)
	}

	if _, err := ParseVisibility(vis, UntexturedTriangles, 65); !errors.Is(err, resource.ErrMalformedRecord) {
		t.Errorf("expected capacity error, got %v", err)
	}
	if _, err := ParseVisibility(vis[:0x380], TexturedTriangles, 1); !errors.Is(err, resource.ErrMalformedRecord) {
		t.Errorf("expected overrun error, got %v", err)
	}
}

func TestExtents(t *testing.T) {
	c := polygonChunk{
		header:  [4]uint16{0, 0, 1, 0},
		points:  [4][]byte{nil, nil, int16s(-100, 5, 50, 50, -7, -100, 100, 0, 100)},
		unknown: [2][]byte{make([]byte, 4)},
	}
	ps, err := DecodePolygons(c.bytes(), nil, SlotPolygons)
	if err != nil {
		t.Fatalf("DecodePolygons failed: %v", err)
	}

	e := ps.Extents
	if e.Min != (Point3{-100, -7, -100}) || e.Max != (Point3{100, 5, 100}) {
		t.Errorf("unexpected extents %+v", e)
	}
	// 200 wide on X and 200 on Z.
	if d := e.Diagonal(); math.Abs(d-math.Hypot(200, 200)) > 1e-9 {
		t.Errorf("unexpected diagonal %f", d)
	}
	if x, _, z := e.Center(); x != 0 || z != 0 {
		t.Errorf("unexpected center %f,%f", x, z)
	}
}

func TestExtents_DiagonalIgnoresHeight(t *testing.T) {
	e := Extents{Min: Point3{0, -500, 0}, Max: Point3{150, 500, 200}}
	if d := e.Diagonal(); d != 250 {
		t.Errorf("expected diagonal 250, got %f", d)
	}
}

func TestTexCoord(t *testing.T) {
	tests := []struct {
		page uint8
		uv   UV
		u, v float32
	}{
		{0, UV{0, 0}, 0, 1},
		{1, UV{128, 0}, 0.5, 0.75},
		{3, UV{0, 128}, 0, 0.125},
	}
	for _, tt := range tests {
		u, v := TexCoord(tt.page, tt.uv)
		if u != tt.u || v != tt.v {
			t.Errorf("page %d %+v: expected (%f, %f), got (%f, %f)", tt.page, tt.uv, tt.u, tt.v, u, v)
		}
	}
}

func TestPolygon_TexCoords(t *testing.T) {
	ps, err := DecodePolygons(singleTexturedTriangle().bytes(), nil, SlotPolygons)
	if err != nil {
		t.Fatalf("DecodePolygons failed: %v", err)
	}
	p := ps.Polygons[0]

	coords := p.TexCoords()
	if len(coords) != 3 {
		t.Fatalf("expected 3 coordinates, got %d", len(coords))
	}
	for i, v := range p.Corners() {
		u, w := TexCoord(p.TexturePage, v.UV)
		if coords[i] != [2]float32{u, w} {
			t.Errorf("corner %d: expected (%f, %f), got %v", i, u, w, coords[i])
		}
	}
	// Page 2, uv C (5, 6).
	if want := [2]float32{5.0 / 256, 1 - (2+6.0/256)/4}; coords[2] != want {
		t.Errorf("corner C: expected %v, got %v", want, coords[2])
	}
}
