// Package assets locates and caches map data files on disk.
package assets

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/ganesha/internal/logger"
)

// Manager reads map files from a set of data directories and caches their
// contents. Situations of one map share most resource files, so switching
// situations rereads little from disk.
type Manager struct {
	roots  []string
	images []*Image
	cache  *Cache
	mu     sync.RWMutex
}

// NewManager creates a new asset manager.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
	}
}

// AddRoot adds a data directory to the manager.
// Roots are searched in reverse order (last added = highest priority).
func (m *Manager) AddRoot(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("adding data directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("adding data directory %s: not a directory", dir)
	}

	m.mu.Lock()
	m.roots = append(m.roots, dir)
	m.mu.Unlock()

	return nil
}

// AddImage opens a disc image and searches its map directory after every
// data directory.
func (m *Manager) AddImage(file string) error {
	img, err := OpenImage(file)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.images = append(m.images, img)
	m.mu.Unlock()

	return nil
}

// ReadFile returns the contents of path. Absolute paths and paths without
// any configured root are read as-is; relative paths are looked up in the
// roots first and then relative to the working directory. Disc images are
// searched last, by base name.
func (m *Manager) ReadFile(path string) ([]byte, error) {
	if data, ok := m.cache.Get(path); ok {
		return data, nil
	}

	data, resolved, err := m.read(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("read data file", zap.String("path", path), zap.String("resolved", resolved), zap.Int("size", len(data)))
	m.cache.Set(path, data)
	return data, nil
}

func (m *Manager) read(path string) ([]byte, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !filepath.IsAbs(path) {
		for i := len(m.roots) - 1; i >= 0; i-- {
			candidate := filepath.Join(m.roots[i], path)
			data, err := os.ReadFile(candidate)
			if err == nil {
				return data, candidate, nil
			}
		}
	}
	data, err := os.ReadFile(path)
	if err == nil {
		return data, path, nil
	}
	if len(m.images) == 0 {
		if len(m.roots) == 0 || filepath.IsAbs(path) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("file not found in data directories: %s: %w", path, fs.ErrNotExist)
	}

	for _, img := range m.images {
		if data, err := img.ReadFile(path); err == nil {
			return data, img.path + ":" + filepath.Base(path), nil
		}
	}
	return nil, "", fmt.Errorf("file not found in data directories or disc images: %s: %w", path, fs.ErrNotExist)
}

// Stats returns cache statistics.
func (m *Manager) Stats() (hits, misses int) {
	return m.cache.Stats()
}

// Close drops all roots and cached data and closes the disc images.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, img := range m.images {
		if err := img.Close(); err != nil {
			logger.Warn("closing disc image", zap.String("path", img.path), zap.Error(err))
		}
	}
	m.roots = nil
	m.images = nil
	m.cache.Clear()
}

// Cache is a simple in-memory cache for loaded files.
type Cache struct {
	data map[string][]byte
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
