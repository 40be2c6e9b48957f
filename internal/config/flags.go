package config

import "github.com/spf13/pflag"

// Flag names.
const (
	flagConfig    = "config"
	flagDebug     = "debug"
	flagLogFile   = "log-file"
	flagDataDir   = "data-dir"
	flagImage     = "image"
	flagManifest  = "manifest"
	flagSituation = "situation"
	flagOutput    = "output-dir"
	flagPalette   = "palette"
	flagGray      = "gray"
)

// BindFlags registers the configuration flags on fs.
func BindFlags(fs *pflag.FlagSet) {
	fs.String(flagConfig, "", "Path to config file")
	fs.Bool(flagDebug, false, "Enable debug logging")
	fs.String(flagLogFile, "", "Write logs to this file")
	fs.StringSlice(flagDataDir, nil, "Directories searched for map files (repeatable)")
	fs.StringSlice(flagImage, nil, "ISO9660 disc images searched for map files (repeatable)")
	fs.StringP(flagManifest, "m", "", "Situation manifest of the map")
	fs.IntP(flagSituation, "s", 0, "Situation index")
	fs.StringP(flagOutput, "o", "", "Output directory for exported files")
	fs.Int(flagPalette, 0, "Palette index for texture export (-1 = gray ramp)")
	fs.Bool(flagGray, false, "Use the gray palette set")
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath(fs *pflag.FlagSet) string {
	if fs == nil || fs.Lookup(flagConfig) == nil {
		return ""
	}
	path, _ := fs.GetString(flagConfig)
	return path
}

// applyFlags applies CLI flag overrides to the config. Only flags set on
// the command line override file values.
func applyFlags(cfg *Config, fs *pflag.FlagSet) {
	changed := func(name string) bool {
		f := fs.Lookup(name)
		return f != nil && f.Changed
	}

	if changed(flagDebug) {
		if debug, _ := fs.GetBool(flagDebug); debug {
			cfg.Logging.Level = "debug"
		}
	}
	if changed(flagLogFile) {
		cfg.Logging.LogFile, _ = fs.GetString(flagLogFile)
	}
	if changed(flagDataDir) {
		cfg.Data.Dirs, _ = fs.GetStringSlice(flagDataDir)
	}
	if changed(flagImage) {
		cfg.Data.Images, _ = fs.GetStringSlice(flagImage)
	}
	if changed(flagManifest) {
		cfg.Data.Manifest, _ = fs.GetString(flagManifest)
	}
	if changed(flagSituation) {
		cfg.Data.Situation, _ = fs.GetInt(flagSituation)
	}
	if changed(flagOutput) {
		cfg.Export.OutputDir, _ = fs.GetString(flagOutput)
	}
	if changed(flagPalette) {
		cfg.Export.Palette, _ = fs.GetInt(flagPalette)
	}
	if changed(flagGray) {
		cfg.Export.Gray, _ = fs.GetBool(flagGray)
	}
}
