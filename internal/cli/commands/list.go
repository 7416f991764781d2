package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/flowlens/internal/cli/browse"
	"github.com/leapstack-labs/flowlens/internal/cli/output"
	"github.com/leapstack-labs/flowlens/pkg/core"
)

// ListOptions holds options for the list command.
type ListOptions struct {
	Health      string
	Interactive bool
}

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	opts := &ListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List known components and their health",
		Long: `List every component reported by the configured source.

Output adapts to environment:
  - Terminal: Styled table with colored health
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # List all components (auto-detect output format)
  flowlens list

  # Only unhealthy components, as JSON
  flowlens list --health unhealthy --output json

  # Read components from a YAML file
  flowlens list --source file

  # Browse components in the terminal
  flowlens list --interactive`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Health, "health", "", "Filter by health: all, healthy, unhealthy, exited, unknown")
	cmd.Flags().BoolVarP(&opts.Interactive, "interactive", "i", false, "Browse components interactively (terminal only)")
	_ = cmd.RegisterFlagCompletionFunc("health", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"all", "healthy", "unhealthy", "exited", "unknown"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runList(cmd *cobra.Command, opts *ListOptions) error {
	health, err := parseHealthFlag(opts.Health)
	if err != nil {
		return err
	}

	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer
	if opts.Interactive && !r.IsTTY() {
		return errors.New("--interactive requires a terminal")
	}

	records, err := cmdCtx.LoadComponents(cmd.Context())
	if err != nil {
		return err
	}

	if opts.Interactive {
		model := browse.New(records, health, r.Styles())
		return browse.Run(cmd.Context(), cmd.InOrStdin(), r.Writer(), model)
	}

	records = filterAndSort(records, health)
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return listJSON(r, records)
	case output.ModeMarkdown:
		return listMarkdown(r, records)
	default:
		return listText(r, records)
	}
}

func newComponentTable(records []core.ComponentRecord, health func(core.HealthState) string) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Health", "ID", "Name", "Label", "Message"})
	for _, rec := range records {
		t.AppendRow(table.Row{health(rec.Health.State), rec.ID, rec.Name, rec.Label, rec.Health.Message})
	}
	return t
}

// listText outputs components as a styled table.
func listText(r *output.Renderer, records []core.ComponentRecord) error {
	styles := r.Styles()

	r.Header(1, fmt.Sprintf("Components (%d total)", len(records)))
	if len(records) == 0 {
		r.Println(styles.Muted.Render("No components"))
		return nil
	}

	t := newComponentTable(records, func(s core.HealthState) string {
		return styles.Health(s).Render(string(s))
	})
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.Render()
	r.Println(styles.Muted.Render(summaryLine(records)))
	return nil
}

// listMarkdown outputs components as a markdown table.
func listMarkdown(r *output.Renderer, records []core.ComponentRecord) error {
	r.Header(1, fmt.Sprintf("Components (%d total)", len(records)))
	if len(records) == 0 {
		r.Println("No components")
		return nil
	}

	t := newComponentTable(records, func(s core.HealthState) string { return string(s) })
	r.Println(t.RenderMarkdown())
	r.Println("")
	r.Println("Summary: " + summaryLine(records))
	return nil
}

// ComponentInfo is the JSON form of a component record.
type ComponentInfo struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Label         string     `json:"label,omitempty"`
	Health        string     `json:"health"`
	HealthMessage string     `json:"health_message,omitempty"`
	UpdatedTime   *time.Time `json:"updated_time,omitempty"`
	ReferencesTo  []string   `json:"references_to"`
	ReferencedBy  []string   `json:"referenced_by"`
}

// ListSummary counts components per health state.
type ListSummary struct {
	Total    int            `json:"total"`
	ByHealth map[string]int `json:"by_health"`
}

// ListOutput is the JSON output structure of the list command.
type ListOutput struct {
	Components []ComponentInfo `json:"components"`
	Summary    ListSummary     `json:"summary"`
}

// listJSON outputs components as JSON.
func listJSON(r *output.Renderer, records []core.ComponentRecord) error {
	out := ListOutput{
		Components: make([]ComponentInfo, 0, len(records)),
		Summary:    ListSummary{Total: len(records), ByHealth: map[string]int{}},
	}
	for _, rec := range records {
		info := ComponentInfo{
			ID:            rec.ID,
			Name:          rec.Name,
			Label:         rec.Label,
			Health:        string(rec.Health.State),
			HealthMessage: rec.Health.Message,
			ReferencesTo:  nonNil(rec.ReferencesTo),
			ReferencedBy:  nonNil(rec.ReferencedBy),
		}
		if !rec.Health.UpdatedTime.IsZero() {
			updated := rec.Health.UpdatedTime.UTC()
			info.UpdatedTime = &updated
		}
		out.Components = append(out.Components, info)
		out.Summary.ByHealth[string(rec.Health.State)]++
	}
	return r.JSON(out)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// summaryLine returns "3 healthy, 1 unhealthy" style counts in display order.
func summaryLine(records []core.ComponentRecord) string {
	counts := map[core.HealthState]int{}
	for _, rec := range records {
		counts[rec.Health.State]++
	}
	var parts []string
	for _, state := range core.HealthStates() {
		if n := counts[state]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, state))
		}
	}
	if len(parts) == 0 {
		return "no components"
	}
	return strings.Join(parts, ", ")
}
