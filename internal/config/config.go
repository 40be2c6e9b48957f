// Package config handles tool configuration loading and management.
package config

// Config holds all tool settings.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// DataConfig holds map data locations.
type DataConfig struct {
	Dirs      []string `yaml:"dirs"`      // Directories searched for map files
	Images    []string `yaml:"images"`    // ISO9660 disc images searched after Dirs
	Manifest  string   `yaml:"manifest"`  // Situation manifest of the map
	Situation int      `yaml:"situation"` // Situation selected at startup
}

// ExportConfig holds texture export settings.
type ExportConfig struct {
	OutputDir string `yaml:"output_dir"`
	Palette   int    `yaml:"palette"` // Color palette index, -1 = gray ramp
	Gray      bool   `yaml:"gray"`    // Use the gray palette set
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Dirs:      []string{"."},
			Situation: 0,
		},
		Export: ExportConfig{
			OutputDir: ".",
			Palette:   0,
		},
		Logging: LoggingConfig{
			Level:   "warn",
			LogFile: "",
		},
	}
}
