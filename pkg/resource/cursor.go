package resource

import "fmt"

// Cursor walks consecutive fixed-stride sections of a chunk.
// Every section begins where the previous one ended, so all section
// offsets derive from the same running position.
type Cursor struct {
	data []byte
	pos  int
}

// NewCursor starts a cursor at offset within data.
func NewCursor(data []byte, offset int) *Cursor {
	return &Cursor{data: data, pos: offset}
}

// Offset returns the current position.
func (c *Cursor) Offset() int {
	return c.pos
}

// Section is a run of count fixed-size records starting at Offset.
type Section struct {
	Name   string
	Offset int
	Stride int
	Count  int
}

// End returns the offset just past the last record.
func (s Section) End() int {
	return s.Offset + s.Stride*s.Count
}

// Next reserves count records of stride bytes and advances past them.
// It fails with ErrMalformedRecord when the section overruns the data.
func (c *Cursor) Next(name string, stride, count int) (Section, error) {
	s := Section{Name: name, Offset: c.pos, Stride: stride, Count: count}
	if s.End() > len(c.data) {
		return s, fmt.Errorf("%w: %s section [0x%x, 0x%x) exceeds %d byte chunk",
			ErrMalformedRecord, name, s.Offset, s.End(), len(c.data))
	}
	c.pos = s.End()
	return s, nil
}

// Records slices the section out of data, one entry per record.
// The section must already have been bounds checked by Next.
func (s Section) Records(data []byte) [][]byte {
	if s.Count == 0 {
		return nil
	}
	out := make([][]byte, s.Count)
	for i := range out {
		begin := s.Offset + i*s.Stride
		out[i] = data[begin : begin+s.Stride : begin+s.Stride]
	}
	return out
}
