package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/flowlens/internal/cli/output"
	"github.com/leapstack-labs/flowlens/internal/ui/icons"
)

// IconInfo is the JSON form of a catalog entry.
type IconInfo struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Glyph       string `json:"glyph"`
	Description string `json:"description"`
}

// NewIconsCommand creates the icons command.
func NewIconsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "icons",
		Short: "Show the icon catalog",
		Long:  `List the icon identifiers pages can use, with the glyph each one renders as.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIcons(cmd)
		},
	}
}

func runIcons(cmd *cobra.Command) error {
	r := NewCommandContext(cmd).Renderer

	switch r.EffectiveMode() {
	case output.ModeJSON:
		defs := icons.Catalog()
		out := make([]IconInfo, 0, len(defs))
		for _, def := range defs {
			out = append(out, IconInfo{
				Key:         def.Key,
				Name:        def.Name,
				Glyph:       icons.FontAwesomeNameOrDefault(def.ID),
				Description: def.Description,
			})
		}
		return r.JSON(out)
	case output.ModeText:
		r.Header(1, "Icon Catalog")
		t := table.NewWriter()
		t.SetOutputMirror(r.Writer())
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Key", "Name", "Glyph", "Description"})
		for _, def := range icons.Catalog() {
			t.AppendRow(table.Row{def.Key, def.Name, icons.FontAwesomeNameOrDefault(def.ID), def.Description})
		}
		t.Render()
		return nil
	default:
		r.Printf("%s", icons.CatalogMarkdown())
		return nil
	}
}
