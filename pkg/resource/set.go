package resource

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/ganesha/internal/logger"
)

// Set is the merged view of every resource file belonging to one situation.
// Each slot holds the chunk of the first file that provided it.
type Set struct {
	chunks    [SlotCount][]byte
	providers [SlotCount]string
	files     []string
}

// Load reads the candidate files in order and merges their chunks.
// A file that fails to load is skipped; the load fails only when no
// candidate could be read.
func Load(src Source, paths []string) (*Set, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: empty candidate list", ErrNoResourceFiles)
	}
	if src == nil {
		src = OSSource{}
	}

	set := &Set{}
	var errs []error
	for _, path := range paths {
		f, err := ReadFile(src, path)
		if err != nil {
			logger.Warn("skipping resource file", zap.String("path", path), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		set.Merge(f)
	}

	if len(set.files) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrNoResourceFiles, errors.Join(errs...))
	}
	return set, nil
}

// Merge fills every still-empty slot from f. Filled slots are never replaced.
func (s *Set) Merge(f *File) {
	filled := 0
	for i := 0; i < SlotCount; i++ {
		if s.chunks[i] != nil {
			continue
		}
		if chunk := f.Chunk(i); chunk != nil {
			s.chunks[i] = chunk
			s.providers[i] = f.Path
			filled++
		}
	}
	s.files = append(s.files, f.Path)
	logger.Debug("merged resource file",
		zap.String("path", f.Path),
		zap.Int("size", f.Size()),
		zap.Int("slots_filled", filled))
}

// Chunk returns the bytes stored for slot and whether any file provided it.
func (s *Set) Chunk(slot int) ([]byte, bool) {
	if slot < 0 || slot >= SlotCount {
		return nil, false
	}
	c := s.chunks[slot]
	return c, c != nil
}

// MustChunk returns the bytes of slot or ErrMissingChunk.
func (s *Set) MustChunk(slot int) ([]byte, error) {
	c, ok := s.Chunk(slot)
	if !ok {
		return nil, fmt.Errorf("%w: slot %d", ErrMissingChunk, slot)
	}
	return c, nil
}

// Provider returns the path of the file that supplied slot, or "".
func (s *Set) Provider(slot int) string {
	if slot < 0 || slot >= SlotCount {
		return ""
	}
	return s.providers[slot]
}

// Files returns the paths that were loaded successfully, in merge order.
func (s *Set) Files() []string {
	return append([]string(nil), s.files...)
}

// Slots returns the indices of every filled slot in ascending order.
func (s *Set) Slots() []int {
	var slots []int
	for i, c := range s.chunks {
		if c != nil {
			slots = append(slots, i)
		}
	}
	return slots
}
