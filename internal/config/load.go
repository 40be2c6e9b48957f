package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the config file in the working directory.
const FileName = "ganesha.yaml"

// Load builds the configuration from defaults, then the config file, then
// the flags in fs. fs may be nil when no flags were bound.
func Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := Default()

	path := ConfigPath(fs)
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	if fs != nil {
		applyFlags(cfg, fs)
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file, the working
// directory before the user config directory.
func findConfigFile() string {
	for _, path := range []string{FileName, filepath.Join(ConfigDir(), "config.yaml")} {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// ConfigDir returns the per-user ganesha config directory.
func ConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		// No HOME or equivalent.
		dir = os.TempDir()
	}
	return filepath.Join(dir, "ganesha")
}

// loadFromFile merges a YAML file into cfg. Unknown keys are errors.
// Data paths in the file are relative to the file's directory.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	// Cleared so that only paths set by the file are resolved.
	prev := cfg.Data
	cfg.Data.Dirs, cfg.Data.Images, cfg.Data.Manifest = nil, nil, ""

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		cfg.Data.Dirs, cfg.Data.Images, cfg.Data.Manifest = prev.Dirs, prev.Images, prev.Manifest
		return err
	}

	base := filepath.Dir(path)
	if cfg.Data.Dirs == nil {
		cfg.Data.Dirs = prev.Dirs
	} else {
		cfg.Data.Dirs = resolvePaths(base, cfg.Data.Dirs)
	}
	if cfg.Data.Images == nil {
		cfg.Data.Images = prev.Images
	} else {
		cfg.Data.Images = resolvePaths(base, cfg.Data.Images)
	}
	if cfg.Data.Manifest == "" {
		cfg.Data.Manifest = prev.Manifest
	} else {
		cfg.Data.Manifest = resolvePath(base, cfg.Data.Manifest)
	}
	return nil
}

func resolvePaths(base string, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = resolvePath(base, p)
	}
	return out
}

func resolvePath(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
