// Package manifest describes the situations of a map in a YAML file.
//
// Example:
//
//	name: MAP001
//	situations:
//	  - name: day
//	    textures: [MAP001.9]
//	    resources: [MAP001.8, MAP001.10]
//	  - name: night
//	    textures: [MAP001.11]
//	    resources: [MAP001.12, MAP001.8]
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrEmptyManifest is returned for manifests without situations.
var ErrEmptyManifest = errors.New("manifest lists no situations")

// Situation lists the files of one situation in priority order.
type Situation struct {
	Name      string   `yaml:"name"`
	Textures  []string `yaml:"textures"`
	Resources []string `yaml:"resources"`
}

// Manifest is a map's situation list. It satisfies fftmap.Directory.
type Manifest struct {
	Name    string      `yaml:"name"`
	Entries []Situation `yaml:"situations"`

	// Relative file paths resolve against dir.
	dir string
}

// Load parses a manifest file. Relative paths in it resolve against the
// manifest's own directory.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.dir = filepath.Dir(path)
	return m, nil
}

// Parse decodes manifest YAML.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if len(m.Entries) == 0 {
		return nil, ErrEmptyManifest
	}
	return &m, nil
}

// Single builds a one-situation manifest from explicit file lists.
func Single(textures, resources []string) *Manifest {
	return &Manifest{
		Entries: []Situation{{
			Name:      "default",
			Textures:  textures,
			Resources: resources,
		}},
	}
}

// Save writes the manifest as YAML.
func (m *Manifest) Save(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Situations implements fftmap.Directory.
func (m *Manifest) Situations() int {
	return len(m.Entries)
}

// TextureFiles implements fftmap.Directory.
func (m *Manifest) TextureFiles(situation int) []string {
	if s := m.situation(situation); s != nil {
		return m.resolve(s.Textures)
	}
	return nil
}

// ResourceFiles implements fftmap.Directory.
func (m *Manifest) ResourceFiles(situation int) []string {
	if s := m.situation(situation); s != nil {
		return m.resolve(s.Resources)
	}
	return nil
}

// SituationName returns the display name of a situation.
func (m *Manifest) SituationName(situation int) string {
	s := m.situation(situation)
	if s == nil {
		return ""
	}
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("situation %d", situation)
}

func (m *Manifest) situation(i int) *Situation {
	if i < 0 || i >= len(m.Entries) {
		return nil
	}
	return &m.Entries[i]
}

func (m *Manifest) resolve(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		if m.dir != "" && !filepath.IsAbs(p) {
			p = filepath.Join(m.dir, p)
		}
		out[i] = p
	}
	return out
}
