package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Faultbox/ganesha/pkg/formats"
	"github.com/Faultbox/ganesha/pkg/resource"
)

var tocCmd = &cobra.Command{
	Use:   "toc <resource-file>",
	Short: "Show the chunk table of a resource file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := resource.ReadFile(resource.OSSource{}, args[0])
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintf(w, "slot\ttoc\toffset\tend\tsize\t\n")
		for slot, span := range f.Spans {
			if span.Empty() {
				continue
			}
			fmt.Fprintf(w, "%d\t0x%02x\t0x%06x\t0x%06x\t%d\t\n", slot, slot*4, span.Begin, span.End, span.Len())
		}
		w.Flush()
		fmt.Fprintf(cmd.OutOrStdout(), "\nfile size: %d bytes\n", f.Size())
		return nil
	},
}

var infoCmd = &cobra.Command{
	Use:   "info [resource-files...]",
	Short: "Summarize a map situation",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, dir, err := openMap(cmd, args)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		set := m.Resources()

		fmt.Fprintf(out, "Situation: %d (%s) of %d\n", m.Situation(), dir.SituationName(m.Situation()), dir.Situations())
		fmt.Fprintln(out, "Resource files:")
		for _, f := range set.Files() {
			fmt.Fprintf(out, "  %s\n", f)
		}
		fmt.Fprintln(out, "Slots:")
		for _, slot := range set.Slots() {
			chunk, _ := set.Chunk(slot)
			fmt.Fprintf(out, "  %2d (0x%02x) %6d bytes  from %s\n", slot, slot*4, len(chunk), set.Provider(slot))
		}

		ps, err := m.Polygons()
		if err != nil {
			return err
		}
		h := ps.Header
		e := m.Extents()
		fmt.Fprintf(out, "Polygons: %d textured triangles, %d textured quads, %d untextured triangles, %d untextured quads\n",
			h.TexTriangles, h.TexQuads, h.UntexTriangles, h.UntexQuads)
		fmt.Fprintf(out, "Extents:  %v .. %v\n", e.Min, e.Max)
		fmt.Fprintf(out, "Diagonal: %.2f\n", m.Diagonal())

		if t, err := m.Terrain(); err != nil {
			return err
		} else if t != nil {
			fmt.Fprintf(out, "Terrain:  %d x %d tiles, %d levels\n", t.XCount, t.ZCount, formats.TerrainLevels)
		}
		return nil
	},
}

var situationsCmd = &cobra.Command{
	Use:   "situations",
	Short: "List the situations of a manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, dir, err := openMap(cmd, args)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for i := 0; i < dir.Situations(); i++ {
			fmt.Fprintf(out, "%d\t%s\n", i, dir.SituationName(i))
			for _, f := range dir.ResourceFiles(i) {
				fmt.Fprintf(out, "\tresource %s\n", f)
			}
			for _, f := range dir.TextureFiles(i) {
				fmt.Fprintf(out, "\ttexture  %s\n", f)
			}
		}
		return nil
	},
}

var polygonsCmd = &cobra.Command{
	Use:   "polygons [resource-files...]",
	Short: "List decoded polygons",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, _, err := openMap(cmd, args)
		if err != nil {
			return err
		}
		slot, _ := cmd.Flags().GetInt("slot")
		ps, err := m.PolygonsAt(slot)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(ps)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 1, ' ', 0)
		fmt.Fprintln(w, "#\tgroup\tpal\tpage\ttile\tvis\tvertices")
		for i, p := range ps.All() {
			tile := "-"
			pal, page := "-", "-"
			if p.Textured {
				tile = fmt.Sprintf("%d,%d/%d", p.Terrain.X, p.Terrain.Z, p.Terrain.Level)
				pal = fmt.Sprint(p.TexturePalette)
				page = fmt.Sprint(p.TexturePage)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%016b\t", i, p.Group, pal, page, tile, p.VisibleAngles.Word())
			for _, v := range p.Corners() {
				fmt.Fprintf(w, " (%d,%d,%d)", v.Point.X, v.Point.Y, v.Point.Z)
			}
			fmt.Fprintln(w)
		}
		return w.Flush()
	},
}

var terrainCmd = &cobra.Command{
	Use:   "terrain [resource-files...]",
	Short: "Print the terrain grid",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, _, err := openMap(cmd, args)
		if err != nil {
			return err
		}
		t, err := m.Terrain()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if t == nil {
			fmt.Fprintln(out, "no terrain")
			return nil
		}

		for level := range t.Tiles {
			fmt.Fprintf(out, "level %d (%d x %d), height[+slope] per tile:\n", level, t.XCount, t.ZCount)
			for z := t.ZCount - 1; z >= 0; z-- {
				for x := 0; x < t.XCount; x++ {
					tile := t.Tile(level, x, z)
					mark := " "
					if tile.CantWalk {
						mark = "#"
					}
					fmt.Fprintf(out, "%s%3d+%-2d", mark, tile.Height, tile.SlopeHeight)
				}
				fmt.Fprintln(out)
			}
		}
		return nil
	},
}

var lightsCmd = &cobra.Command{
	Use:   "lights [resource-files...]",
	Short: "Print lights and background",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, _, err := openMap(cmd, args)
		if err != nil {
			return err
		}
		l, err := m.Lighting()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if l == nil {
			fmt.Fprintln(out, "no lights")
			return nil
		}
		for i, d := range l.Directional {
			fmt.Fprintf(out, "directional %d: rgb(%d, %d, %d) dir(%.3f, %.3f, %.3f)\n",
				i, d.R, d.G, d.B, d.Direction.X, d.Direction.Y, d.Direction.Z)
		}
		fmt.Fprintf(out, "ambient: rgb(%d, %d, %d)\n", l.Ambient.R, l.Ambient.G, l.Ambient.B)
		fmt.Fprintf(out, "background: rgb(%d, %d, %d) -> rgb(%d, %d, %d)\n",
			l.Background.Top.R, l.Background.Top.G, l.Background.Top.B,
			l.Background.Bottom.R, l.Background.Bottom.G, l.Background.Bottom.B)
		return nil
	},
}

var palettesCmd = &cobra.Command{
	Use:   "palettes [resource-files...]",
	Short: "Print the color or gray palettes",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, _, err := openMap(cmd, args)
		if err != nil {
			return err
		}
		palettes, err := m.ColorPalettes()
		if cfg.Export.Gray {
			palettes, err = m.GrayPalettes()
		}
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for i, p := range palettes {
			fmt.Fprintf(out, "%2d:", i)
			for _, c := range p {
				fmt.Fprintf(out, " %04x", c.Word())
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the current configuration to a file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			if err := cfg.SaveTo(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", args[0])
			return nil
		}
		path, err := cfg.Save()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

func init() {
	polygonsCmd.Flags().Bool("json", false, "Print polygons as JSON")
	polygonsCmd.Flags().Int("slot", formats.SlotPolygons, "Resource slot holding the polygons")
	configCmd.AddCommand(configInitCmd)
}
