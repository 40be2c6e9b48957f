// Package fftmap ties resource loading and chunk decoding together for one
// map and its situations.
package fftmap

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/ganesha/internal/logger"
	"github.com/Faultbox/ganesha/pkg/formats"
	"github.com/Faultbox/ganesha/pkg/resource"
)

// Map errors.
var (
	ErrNoSituations = errors.New("map has no situations")
	ErrNotRead      = errors.New("map situation not read")
)

// Directory lists the files that make up each situation of a map.
type Directory interface {
	Situations() int
	TextureFiles(situation int) []string
	ResourceFiles(situation int) []string
}

// Option configures a Map.
type Option func(*Map)

// WithSource reads files through src instead of the local filesystem.
func WithSource(src resource.Source) Option {
	return func(m *Map) {
		m.src = src
	}
}

// Map is a map with one selected situation.
//
// Read loads the situation's files in full before replacing the previous
// data, so accessors always observe one consistent situation. Accessors
// decode on every call; the underlying buffers are never modified.
type Map struct {
	dir Directory
	src resource.Source

	mu        sync.RWMutex
	situation int
	resources *resource.Set
	texture   []byte

	// Set by Polygons.
	extents formats.Extents
}

// New creates a map over dir with situation 0 selected.
func New(dir Directory, opts ...Option) *Map {
	m := &Map{
		dir: dir,
		src: resource.OSSource{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Situation returns the selected situation index.
func (m *Map) Situation() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.situation
}

// SetSituation selects a situation, wrapping around the directory's
// situation count in both directions. Loaded data is dropped; call Read
// to load the new situation.
func (m *Map) SetSituation(situation int) error {
	n := m.dir.Situations()
	if n <= 0 {
		return ErrNoSituations
	}
	situation %= n
	if situation < 0 {
		situation += n
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.situation = situation
	m.resources = nil
	m.texture = nil
	m.extents = formats.Extents{}
	return nil
}

// Next selects the following situation.
func (m *Map) Next() error {
	return m.SetSituation(m.Situation() + 1)
}

// Prev selects the preceding situation.
func (m *Map) Prev() error {
	return m.SetSituation(m.Situation() - 1)
}

// Read loads the selected situation's resource and texture files.
func (m *Map) Read() error {
	situation := m.Situation()

	set, err := resource.Load(m.src, m.dir.ResourceFiles(situation))
	if err != nil {
		return fmt.Errorf("situation %d: %w", situation, err)
	}
	texture := m.readTexture(m.dir.TextureFiles(situation))

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.situation != situation {
		return fmt.Errorf("situation changed from %d to %d during read", situation, m.situation)
	}
	m.resources = set
	m.texture = texture
	m.extents = formats.Extents{}

	logger.Info("loaded situation",
		zap.Int("situation", situation),
		zap.Strings("files", set.Files()),
		zap.Ints("slots", set.Slots()))
	return nil
}

// readTexture returns the first readable texture file, or nil.
func (m *Map) readTexture(paths []string) []byte {
	for _, path := range paths {
		data, err := m.src.ReadFile(path)
		if err != nil {
			logger.Warn("skipping texture file", zap.String("path", path), zap.Error(err))
			continue
		}
		return data
	}
	return nil
}

// Resources returns the loaded resource set, or nil before Read.
func (m *Map) Resources() *resource.Set {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.resources
}

// chunk returns a loaded chunk, or nil when the slot is absent.
func (m *Map) chunk(slot int) ([]byte, error) {
	set := m.Resources()
	if set == nil {
		return nil, ErrNotRead
	}
	data, _ := set.Chunk(slot)
	return data, nil
}

// Polygons decodes the default polygon set and updates the map extents.
func (m *Map) Polygons() (*formats.PolygonSet, error) {
	return m.PolygonsAt(formats.SlotPolygons)
}

// PolygonsAt decodes the polygon set stored in slot. Only the default
// slot has visibility data; other slots report every angle hidden.
// A missing chunk yields an empty set. Only the default slot updates the
// map extents.
func (m *Map) PolygonsAt(slot int) (*formats.PolygonSet, error) {
	set := m.Resources()
	if set == nil {
		return nil, ErrNotRead
	}
	return m.polygonsIn(set, slot)
}

// polygonsIn decodes slot from set. Both the polygon and visibility
// chunks come from set, and the extents are kept only while set is
// still the loaded one.
func (m *Map) polygonsIn(set *resource.Set, slot int) (*formats.PolygonSet, error) {
	data, _ := set.Chunk(slot)
	if data == nil {
		logger.Debug("polygon chunk absent", zap.Int("slot", slot))
		ps := &formats.PolygonSet{}
		m.setExtents(set, slot, ps.Extents)
		return ps, nil
	}
	vis, _ := set.Chunk(formats.SlotVisibility)

	ps, err := formats.DecodePolygons(data, vis, slot)
	if err != nil {
		return nil, fmt.Errorf("decoding polygons in slot %d: %w", slot, err)
	}
	m.setExtents(set, slot, ps.Extents)
	return ps, nil
}

func (m *Map) setExtents(set *resource.Set, slot int, e formats.Extents) {
	if slot != formats.SlotPolygons {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.resources != set {
		logger.Debug("discarding extents of a replaced situation", zap.Int("situation", m.situation))
		return
	}
	m.extents = e
}

// Extents returns the bounds computed by the last Polygons call on the
// loaded situation.
func (m *Map) Extents() formats.Extents {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.extents
}

// Diagonal returns the horizontal diagonal of Extents.
func (m *Map) Diagonal() float64 {
	return m.Extents().Diagonal()
}

// ColorPalettes decodes the color palettes, or nil if absent.
func (m *Map) ColorPalettes() ([]formats.Palette, error) {
	return m.palettes(formats.SlotColorPalettes)
}

// GrayPalettes decodes the gray palettes, or nil if absent.
func (m *Map) GrayPalettes() ([]formats.Palette, error) {
	return m.palettes(formats.SlotGrayPalettes)
}

func (m *Map) palettes(slot int) ([]formats.Palette, error) {
	data, err := m.chunk(slot)
	if err != nil || data == nil {
		return nil, err
	}
	p, err := formats.ParsePalettes(data)
	if err != nil {
		return nil, fmt.Errorf("decoding palettes in slot %d: %w", slot, err)
	}
	return p, nil
}

// Lighting decodes lights and background, or nil if absent.
func (m *Map) Lighting() (*formats.Lighting, error) {
	data, err := m.chunk(formats.SlotLights)
	if err != nil || data == nil {
		return nil, err
	}
	l, err := formats.ParseLighting(data)
	if err != nil {
		return nil, fmt.Errorf("decoding lights: %w", err)
	}
	return l, nil
}

// DirectionalLights returns the three directional lights, or nil if absent.
func (m *Map) DirectionalLights() ([]formats.DirectionalLight, error) {
	l, err := m.Lighting()
	if err != nil || l == nil {
		return nil, err
	}
	return l.Directional[:], nil
}

// AmbientLight returns the ambient color and whether it is present.
func (m *Map) AmbientLight() (formats.RGB, bool, error) {
	l, err := m.Lighting()
	if err != nil || l == nil {
		return formats.RGB{}, false, err
	}
	return l.Ambient, true, nil
}

// Background returns the background gradient and whether it is present.
func (m *Map) Background() (formats.Background, bool, error) {
	l, err := m.Lighting()
	if err != nil || l == nil {
		return formats.Background{}, false, err
	}
	return l.Background, true, nil
}

// Terrain decodes the terrain grid, or nil if absent. Tiles with an
// unknown slope type are logged and treated as flat.
func (m *Map) Terrain() (*formats.Terrain, error) {
	data, err := m.chunk(formats.SlotTerrain)
	if err != nil || data == nil {
		return nil, err
	}
	t, err := formats.ParseTerrain(data)
	if err != nil {
		return nil, fmt.Errorf("decoding terrain: %w", err)
	}

	for level, rows := range t.Tiles {
		for z, row := range rows {
			for x, tile := range row {
				if _, err := tile.Slope(); err != nil {
					logger.Warn("terrain tile slope",
						zap.Int("level", level), zap.Int("x", x), zap.Int("z", z), zap.Error(err))
				}
			}
		}
	}
	return t, nil
}

// Texture decodes the situation's texture, or nil if no texture file
// could be read.
func (m *Map) Texture() (*formats.Texture, error) {
	m.mu.RLock()
	data := m.texture
	loaded := m.resources != nil
	m.mu.RUnlock()

	if !loaded {
		return nil, ErrNotRead
	}
	if data == nil {
		return nil, nil
	}
	t, err := formats.ParseTexture(data)
	if err != nil {
		return nil, fmt.Errorf("decoding texture: %w", err)
	}
	return t, nil
}
