package main

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/image/bmp"

	"github.com/Faultbox/ganesha/internal/logger"
	"github.com/Faultbox/ganesha/pkg/fftmap"
	"github.com/Faultbox/ganesha/pkg/formats"
)

var textureCmd = &cobra.Command{
	Use:   "texture [resource-files...]",
	Short: "Export the map texture as BMP",
	Long: `Export the situation's texture through one of the map palettes.

--palette selects the palette (-1 exports the raw indices as a gray
ramp), --gray switches to the gray palette set and --atlas writes every
palette side by side in one image.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, dir, err := openMap(cmd, args)
		if err != nil {
			return err
		}
		tex, err := m.Texture()
		if err != nil {
			return err
		}
		if tex == nil {
			return errors.New("situation has no readable texture file")
		}

		palettes, err := exportPalettes(m)
		if err != nil {
			return err
		}

		var img image.Image
		name := dir.SituationName(m.Situation())
		atlas, _ := cmd.Flags().GetBool("atlas")
		switch {
		case atlas:
			if len(palettes) == 0 {
				return errors.New("map has no palettes for an atlas")
			}
			img = tex.Atlas(palettes)
			name += "_atlas"
		case cfg.Export.Palette < 0:
			img = tex.Image(formats.GrayRamp())
			name += "_raw"
		default:
			if cfg.Export.Palette >= len(palettes) {
				return fmt.Errorf("palette %d out of range (map has %d)", cfg.Export.Palette, len(palettes))
			}
			img = tex.Image(palettes[cfg.Export.Palette])
			name += fmt.Sprintf("_pal%02d", cfg.Export.Palette)
		}

		path := filepath.Join(cfg.Export.OutputDir, name+".bmp")
		if err := writeBMP(path, img); err != nil {
			return err
		}
		logger.Info("exported texture", zap.String("path", path))
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

func exportPalettes(m *fftmap.Map) ([]formats.Palette, error) {
	if cfg.Export.Gray {
		return m.GrayPalettes()
	}
	return m.ColorPalettes()
}

func writeBMP(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := bmp.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}

func init() {
	textureCmd.Flags().Bool("atlas", false, "Export all palettes side by side")
}
