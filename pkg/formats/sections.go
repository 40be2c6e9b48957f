package formats

import (
	"encoding/binary"
	"fmt"

	"github.com/Faultbox/ganesha/pkg/resource"
)

// recordHeaderSize is the size of the counted header at the start of a
// polygon chunk.
const recordHeaderSize = 8

// Record strides in bytes.
const (
	strideTriPoints    = 18 // 3 vertices x 3 int16
	strideQuadPoints   = 24 // 4 vertices x 3 int16
	strideTriNormals   = 18
	strideQuadNormals  = 24
	strideTriUV        = 10
	strideQuadUV       = 12
	strideUntexUnknown = 4
	strideTerrainLink  = 2
	strideVisibility   = 2
)

// Group identifies one of the four polygon record groups. Groups are
// always decoded in this order.
type Group int

// Polygon groups.
const (
	TexturedTriangles Group = iota
	TexturedQuads
	UntexturedTriangles
	UntexturedQuads
)

// String returns the group name.
func (g Group) String() string {
	switch g {
	case TexturedTriangles:
		return "textured triangles"
	case TexturedQuads:
		return "textured quads"
	case UntexturedTriangles:
		return "untextured triangles"
	case UntexturedQuads:
		return "untextured quads"
	default:
		return fmt.Sprintf("Group(%d)", int(g))
	}
}

// Textured reports whether polygons of the group carry normals and UVs.
func (g Group) Textured() bool {
	return g == TexturedTriangles || g == TexturedQuads
}

// Shape returns the polygon shape of the group.
func (g Group) Shape() Shape {
	if g == TexturedQuads || g == UntexturedQuads {
		return Quad
	}
	return Triangle
}

// RecordHeader holds the polygon counts of a polygon chunk.
type RecordHeader struct {
	TexTriangles   int
	TexQuads       int
	UntexTriangles int
	UntexQuads     int
}

// Count returns the number of polygons in group g.
func (h RecordHeader) Count(g Group) int {
	switch g {
	case TexturedTriangles:
		return h.TexTriangles
	case TexturedQuads:
		return h.TexQuads
	case UntexturedTriangles:
		return h.UntexTriangles
	case UntexturedQuads:
		return h.UntexQuads
	}
	return 0
}

// Total returns the number of polygons across all groups.
func (h RecordHeader) Total() int {
	return h.TexTriangles + h.TexQuads + h.UntexTriangles + h.UntexQuads
}

// ParseRecordHeader reads the four little-endian uint16 polygon counts.
func ParseRecordHeader(data []byte) (RecordHeader, error) {
	if len(data) < recordHeaderSize {
		return RecordHeader{}, fmt.Errorf("%w: polygon header is %d bytes", resource.ErrTruncatedHeader, len(data))
	}
	return RecordHeader{
		TexTriangles:   int(binary.LittleEndian.Uint16(data[0:])),
		TexQuads:       int(binary.LittleEndian.Uint16(data[2:])),
		UntexTriangles: int(binary.LittleEndian.Uint16(data[4:])),
		UntexQuads:     int(binary.LittleEndian.Uint16(data[6:])),
	}, nil
}

// Sections is the resolved layout of a polygon chunk. The sections follow
// each other without gaps, in field order.
type Sections struct {
	Header RecordHeader

	Points  [4]resource.Section // indexed by Group
	Normals [2]resource.Section // textured groups only
	UVs     [2]resource.Section // textured groups only
	Unknown [2]resource.Section // untextured groups only, indexed by g-UntexturedTriangles
	Terrain [2]resource.Section // textured groups only
}

// ParseSections lays out every section of a polygon chunk and checks that
// the whole layout fits in data.
func ParseSections(data []byte) (*Sections, error) {
	h, err := ParseRecordHeader(data)
	if err != nil {
		return nil, err
	}

	s := &Sections{Header: h}
	c := resource.NewCursor(data, recordHeaderSize)
	steps := []struct {
		dst    *resource.Section
		name   string
		stride int
		count  int
	}{
		{&s.Points[TexturedTriangles], "textured triangle points", strideTriPoints, h.TexTriangles},
		{&s.Points[TexturedQuads], "textured quad points", strideQuadPoints, h.TexQuads},
		{&s.Points[UntexturedTriangles], "untextured triangle points", strideTriPoints, h.UntexTriangles},
		{&s.Points[UntexturedQuads], "untextured quad points", strideQuadPoints, h.UntexQuads},
		{&s.Normals[TexturedTriangles], "textured triangle normals", strideTriNormals, h.TexTriangles},
		{&s.Normals[TexturedQuads], "textured quad normals", strideQuadNormals, h.TexQuads},
		{&s.UVs[TexturedTriangles], "textured triangle uvs", strideTriUV, h.TexTriangles},
		{&s.UVs[TexturedQuads], "textured quad uvs", strideQuadUV, h.TexQuads},
		{&s.Unknown[0], "untextured triangle unknown", strideUntexUnknown, h.UntexTriangles},
		{&s.Unknown[1], "untextured quad unknown", strideUntexUnknown, h.UntexQuads},
		{&s.Terrain[TexturedTriangles], "textured triangle terrain", strideTerrainLink, h.TexTriangles},
		{&s.Terrain[TexturedQuads], "textured quad terrain", strideTerrainLink, h.TexQuads},
	}
	for _, step := range steps {
		sec, err := c.Next(step.name, step.stride, step.count)
		if err != nil {
			return nil, err
		}
		*step.dst = sec
	}
	return s, nil
}

// End returns the offset just past the last section.
func (s *Sections) End() int {
	return s.Terrain[TexturedQuads].End()
}

// Visibility table layout. The table lives at a fixed offset of the
// visibility chunk and reserves a fixed number of words per group,
// independent of the polygon counts.
const visibilityOffset = 0x380

var visibilityCapacity = [4]int{512, 768, 64, 256}

// visibilitySection returns where the words of group g begin.
func visibilitySection(g Group, count int) resource.Section {
	offset := visibilityOffset
	for i := TexturedTriangles; i < g; i++ {
		offset += visibilityCapacity[i] * strideVisibility
	}
	return resource.Section{
		Name:   g.String() + " visibility",
		Offset: offset,
		Stride: strideVisibility,
		Count:  count,
	}
}

// ParseVisibility decodes the first count visibility words of group g.
// A nil chunk means no visibility data exists and every angle is hidden.
// An empty group reads nothing, so the chunk may end before its words.
func ParseVisibility(data []byte, g Group, count int) ([]VisibleAngles, error) {
	if count > visibilityCapacity[g] {
		return nil, fmt.Errorf("%w: %d %s exceed visibility capacity %d",
			resource.ErrMalformedRecord, count, g, visibilityCapacity[g])
	}
	out := make([]VisibleAngles, count)
	if data == nil || count == 0 {
		return out, nil
	}
	sec := visibilitySection(g, count)
	if sec.End() > len(data) {
		return nil, fmt.Errorf("%w: %s [0x%x, 0x%x) exceeds %d byte chunk",
			resource.ErrMalformedRecord, sec.Name, sec.Offset, sec.End(), len(data))
	}
	for i, rec := range sec.Records(data) {
		out[i] = ParseVisibleAngles(rec)
	}
	return out, nil
}
