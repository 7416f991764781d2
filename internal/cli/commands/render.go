package commands

import (
	"bytes"
	"fmt"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/flowlens/internal/ui/features/components"
	"github.com/leapstack-labs/flowlens/internal/ui/layout"
)

// Render formats.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

// RenderOptions holds options for the render command.
type RenderOptions struct {
	Format string
	Health string
}

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	opts := &RenderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the Components page without a server",
		Long: `Render the Components page for the configured source and print it.

The html format prints a complete HTML document. The markdown format
converts the page body to markdown.`,
		Example: `  # Render the page as HTML
  flowlens render > components.html

  # Render unhealthy components as markdown
  flowlens render --format markdown --health unhealthy`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", FormatHTML, "Output format (html|markdown)")
	cmd.Flags().StringVar(&opts.Health, "health", "", "Filter by health: all, healthy, unhealthy, exited, unknown")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{FormatHTML, FormatMarkdown}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runRender(cmd *cobra.Command, opts *RenderOptions) error {
	if opts.Format != FormatHTML && opts.Format != FormatMarkdown {
		return fmt.Errorf("invalid format %q (valid: %s, %s)", opts.Format, FormatHTML, FormatMarkdown)
	}
	health, err := parseHealthFlag(opts.Health)
	if err != nil {
		return err
	}

	cmdCtx := NewCommandContext(cmd)
	records, err := cmdCtx.LoadComponents(cmd.Context())
	if err != nil {
		return err
	}

	page := components.NewPageView(records, components.ListOptions{Health: health}).Component()

	var buf bytes.Buffer
	if opts.Format == FormatHTML {
		doc := layout.Document(layout.DocumentOptions{
			Title:       components.Descriptor.Name,
			CurrentPath: components.Path,
		})
		if err := layout.Wrap(doc, page).Render(cmd.Context(), &buf); err != nil {
			return fmt.Errorf("failed to render page: %w", err)
		}
		cmdCtx.Renderer.Println(buf.String())
		return nil
	}

	if err := page.Render(cmd.Context(), &buf); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	md, err := htmltomarkdown.ConvertString(buf.String())
	if err != nil {
		return fmt.Errorf("failed to convert page to markdown: %w", err)
	}
	cmdCtx.Renderer.Println(md)
	return nil
}
