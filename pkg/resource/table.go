// Package resource reads FFT map resource files and merges their chunks.
//
// A resource file starts with a table of 49 little-endian uint32 offsets.
// Chunk lengths are never stored: a chunk runs from its offset to the next
// present offset in table order, or to the end of the file.
package resource

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// Table layout constants.
const (
	SlotCount = 49
	TableSize = SlotCount * 4 // 0xC4
)

// Resource format errors.
var (
	ErrTruncatedHeader = errors.New("truncated resource header")
	ErrMalformedRecord = errors.New("malformed resource record")
	ErrMissingChunk    = errors.New("resource chunk not present")
	ErrNoResourceFiles = errors.New("no readable resource files")
)

// Table is the offset table at the head of a resource file.
// A zero offset means the slot is absent from this file.
type Table [SlotCount]uint32

// Span is a resolved [Begin, End) byte range of one slot.
type Span struct {
	Begin int
	End   int
}

// Len returns the span length in bytes.
func (s Span) Len() int {
	return s.End - s.Begin
}

// Empty reports whether the span covers no bytes.
func (s Span) Empty() bool {
	return s.End <= s.Begin
}

// ParseTable decodes the offset table from the start of data.
func ParseTable(data []byte) (Table, error) {
	var t Table
	if len(data) < TableSize {
		return t, fmt.Errorf("%w: %d bytes, need %d", ErrTruncatedHeader, len(data), TableSize)
	}
	for i := range t {
		t[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return t, nil
}

// Resolve computes every slot's byte range for a file of the given size.
// The end of a present slot is the next non-zero offset after it, with the
// file size acting as a final sentinel.
func (t Table) Resolve(size int) ([SlotCount]Span, error) {
	var spans [SlotCount]Span
	for i, begin := range t {
		if begin == 0 {
			continue
		}
		end := size
		for j := i + 1; j < SlotCount; j++ {
			if t[j] != 0 {
				end = int(t[j])
				break
			}
		}
		if int(begin) > end || end > size {
			return spans, fmt.Errorf("%w: slot %d spans [0x%x, 0x%x) in %d byte file",
				ErrMalformedRecord, i, begin, end, size)
		}
		spans[i] = Span{Begin: int(begin), End: end}
	}
	return spans, nil
}

// File is one resource file sliced into its chunks.
type File struct {
	Path  string
	Table Table
	Spans [SlotCount]Span
	data  []byte
}

// Parse slices an in-memory resource file into chunks.
func Parse(path string, data []byte) (*File, error) {
	table, err := ParseTable(data)
	if err != nil {
		return nil, err
	}
	spans, err := table.Resolve(len(data))
	if err != nil {
		return nil, err
	}
	return &File{
		Path:  path,
		Table: table,
		Spans: spans,
		data:  data,
	}, nil
}

// ReadFile reads and slices a resource file through src.
func ReadFile(src Source, path string) (*File, error) {
	data, err := src.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading resource file: %w", err)
	}
	f, err := Parse(path, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Size returns the file size in bytes.
func (f *File) Size() int {
	return len(f.data)
}

// Chunk returns the bytes of a slot, or nil when the slot is absent.
// The returned slice aliases the file buffer and must not be modified.
func (f *File) Chunk(slot int) []byte {
	if slot < 0 || slot >= SlotCount {
		return nil
	}
	s := f.Spans[slot]
	if s.Empty() {
		return nil
	}
	return f.data[s.Begin:s.End:s.End]
}

// Source supplies whole-file contents by path.
type Source interface {
	ReadFile(path string) ([]byte, error)
}

// OSSource reads files from the local filesystem.
type OSSource struct{}

// ReadFile implements Source.
func (OSSource) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
