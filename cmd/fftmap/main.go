// fftmap is a CLI utility for inspecting FFT map resource files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/ganesha/internal/assets"
	"github.com/Faultbox/ganesha/internal/config"
	"github.com/Faultbox/ganesha/internal/logger"
	"github.com/Faultbox/ganesha/internal/manifest"
	"github.com/Faultbox/ganesha/pkg/fftmap"
)

var (
	cfg *config.Config
	// data reads every map file; closed on exit.
	data = assets.NewManager()
)

func main() {
	err := rootCmd.Execute()
	data.Close()
	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fftmap",
	Short: "Inspect FFT map resource files",
	Long: `fftmap decodes the resource files of an FFT map and prints or
exports their contents: the chunk table, polygons, terrain, lights,
palettes and the texture.

A map is given either as a situation manifest (--manifest) or as a list
of resource files in priority order.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cmd.Flags())
		if err != nil {
			return err
		}
		if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		logger.Sugar.Debugf("config: %+v", cfg)
		return nil
	},
}

func init() {
	config.BindFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().StringSliceP("texture", "t", nil, "Texture files when no manifest is given")

	rootCmd.AddCommand(tocCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(situationsCmd)
	rootCmd.AddCommand(polygonsCmd)
	rootCmd.AddCommand(terrainCmd)
	rootCmd.AddCommand(lightsCmd)
	rootCmd.AddCommand(palettesCmd)
	rootCmd.AddCommand(textureCmd)
	rootCmd.AddCommand(configCmd)
}

// openMap builds a map from the manifest in the config, or from the
// resource files given as arguments, and reads the configured situation.
func openMap(cmd *cobra.Command, args []string) (*fftmap.Map, *manifest.Manifest, error) {
	var dir *manifest.Manifest
	switch {
	case cfg.Data.Manifest != "":
		m, err := manifest.Load(cfg.Data.Manifest)
		if err != nil {
			return nil, nil, err
		}
		dir = m
	case len(args) > 0:
		textures, _ := cmd.Flags().GetStringSlice("texture")
		dir = manifest.Single(textures, args)
	default:
		return nil, nil, fmt.Errorf("no map given: pass resource files or --manifest")
	}

	for _, root := range cfg.Data.Dirs {
		if err := data.AddRoot(root); err != nil {
			logger.Warn("ignoring data directory", zap.Error(err))
		}
	}
	for _, iso := range cfg.Data.Images {
		if err := data.AddImage(iso); err != nil {
			return nil, nil, err
		}
	}

	m := fftmap.New(dir, fftmap.WithSource(data))
	if err := m.SetSituation(cfg.Data.Situation); err != nil {
		return nil, nil, err
	}
	if err := m.Read(); err != nil {
		return nil, nil, err
	}
	hits, misses := data.Stats()
	logger.Debug("data cache", zap.Int("hits", hits), zap.Int("misses", misses))
	return m, dir, nil
}
