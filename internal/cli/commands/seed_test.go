package commands

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/flowlens/internal/cli/config"
	"github.com/leapstack-labs/flowlens/internal/cli/output"
	clitestutil "github.com/leapstack-labs/flowlens/internal/cli/testutil"
	"github.com/leapstack-labs/flowlens/internal/state"
	"github.com/leapstack-labs/flowlens/internal/testutil"
)

func loadState(t *testing.T, path string) *state.SQLiteStore {
	t.Helper()
	store, err := state.OpenStore(path, testutil.NewTestLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSeedCommand_Placeholder(t *testing.T) {
	cfg := clitestutil.PlaceholderConfig(t)

	out, _, err := clitestutil.ExecuteCommand(t, NewSeedCommand(), cfg)
	require.NoError(t, err)

	assert.Contains(t, out, "Seeded 5 components")
	assert.Contains(t, out, "- **From**: placeholder")
	assert.Contains(t, out, "- **State**: "+cfg.StatePath)

	store := loadState(t, cfg.StatePath)
	records, err := store.LoadComponents(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 5)

	rev, err := store.LatestRevision(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, rev.Count)
	assert.Contains(t, out, rev.ID)
}

func TestSeedCommand_FromFile(t *testing.T) {
	dir, cfg := clitestutil.SetupTestProject(t)
	cfg.OutputFormat = string(output.ModeJSON)

	out, _, err := clitestutil.ExecuteCommand(t, NewSeedCommand(), cfg, "--from", filepath.Join(dir, "components.yaml"))
	require.NoError(t, err)

	var result SeedOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 3, result.Count)
	assert.NotEmpty(t, result.Revision)
	assert.False(t, result.RecordedAt.IsZero())

	store := loadState(t, cfg.StatePath)
	rec, err := store.GetComponent(context.Background(), "discovery.kubernetes.pods")
	require.NoError(t, err)
	assert.Equal(t, []string{"prometheus.scrape.default"}, rec.ReferencedBy)
}

func TestSeedCommand_StateSourceListsSeededRecords(t *testing.T) {
	dir, cfg := clitestutil.SetupTestProject(t)
	_, _, err := clitestutil.ExecuteCommand(t, NewSeedCommand(), cfg, "--from", filepath.Join(dir, "components.yaml"))
	require.NoError(t, err)

	listCfg := &config.Config{
		Source: &config.SourceConfig{
			Type:   "state",
			Params: map[string]any{"path": cfg.StatePath},
		},
		StatePath:    cfg.StatePath,
		OutputFormat: string(output.ModeJSON),
	}
	out, _, err := clitestutil.ExecuteCommand(t, NewListCommand(), listCfg, "--health", "exited")
	require.NoError(t, err)

	var result ListOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Components, 1)
	assert.Equal(t, "prometheus.exporter.unix.node", result.Components[0].ID)
}

func TestSeedCommand_MissingFile(t *testing.T) {
	cfg := clitestutil.PlaceholderConfig(t)

	_, _, err := clitestutil.ExecuteCommand(t, NewSeedCommand(), cfg, "--from", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, statErr := os.Stat(cfg.StatePath)
	assert.True(t, os.IsNotExist(statErr), "state database should not be created")
}
