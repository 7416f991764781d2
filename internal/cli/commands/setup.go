// Package commands implements the flowlens CLI subcommands.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/flowlens/internal/cli/config"
	"github.com/leapstack-labs/flowlens/internal/cli/output"
	"github.com/leapstack-labs/flowlens/pkg/core"
	"github.com/leapstack-labs/flowlens/pkg/source"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds a CommandContext from the command's context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.GetConfig(cmd.Context())
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// OpenSource opens the configured component source.
// Callers must Close the returned source.
func (c *CommandContext) OpenSource(ctx context.Context) (source.Source, error) {
	src, err := source.New(ctx, *c.Cfg.Source, c.Logger)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("opened component source", "type", c.Cfg.Source.Type)
	return src, nil
}

// LoadComponents opens the configured source, loads every record and
// closes the source again.
func (c *CommandContext) LoadComponents(ctx context.Context) ([]core.ComponentRecord, error) {
	src, err := c.OpenSource(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.Close() }()

	records, err := src.LoadComponents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load components: %w", err)
	}
	return records, nil
}

// parseHealthFlag validates a --health value. Empty and "all" select everything.
func parseHealthFlag(s string) (core.HealthState, error) {
	if s == "" || s == "all" {
		return "", nil
	}
	state := core.HealthState(s)
	if !state.Valid() {
		return "", fmt.Errorf("invalid health %q (valid: all, healthy, unhealthy, exited, unknown)", s)
	}
	return state, nil
}

// filterAndSort returns the records matching health, sorted by ID, on a copy.
func filterAndSort(records []core.ComponentRecord, health core.HealthState) []core.ComponentRecord {
	out := make([]core.ComponentRecord, 0, len(records))
	for _, rec := range records {
		if health == "" || rec.Health.State == health {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
