package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/flowlens/internal/cli/commands"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVersionCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Flowlens v"+Version)
}

func TestHelpCommand(t *testing.T) {
	out, _, err := execute(t, "--help")
	require.NoError(t, err)

	for _, expected := range []string{"ui", "list", "seed", "render", "icons", "version", "completion"} {
		assert.Contains(t, out, expected)
	}
	for _, flag := range []string{"--config", "--source", "--state", "--verbose", "--output"} {
		assert.Contains(t, out, flag)
	}
}

func TestListThroughRoot(t *testing.T) {
	t.Chdir(t.TempDir())

	out, _, err := execute(t, "list", "--output", "json", "--health", "healthy")
	require.NoError(t, err)

	var result commands.ListOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Len(t, result.Components, 3)
}

func TestConfigFileSelectsSource(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "components.yaml"), []byte(`components:
  - id: otelcol.receiver.otlp.default
    health:
      state: healthy
`), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "flowlens.yaml"), []byte(`source:
  type: file
  params:
    path: components.yaml
output: json
`), 0600))

	out, _, err := execute(t, "list")
	require.NoError(t, err)

	var result commands.ListOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Components, 1)
	assert.Equal(t, "otelcol.receiver.otlp.default", result.Components[0].ID)
	assert.Equal(t, "default", result.Components[0].Label)
}

func TestSeedThenListStateSource(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	statePath := filepath.Join(dir, "data", "state.db")

	_, _, err := execute(t, "seed", "--state", statePath)
	require.NoError(t, err)

	out, _, err := execute(t, "list", "--source", "state", "--state", statePath, "-o", "json")
	require.NoError(t, err)

	var result commands.ListOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 5, result.Summary.Total)
}

func TestSeedThenListStateSourceParamsPath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "flowlens.yaml"), []byte(`source:
  type: state
  params:
    path: custom.db
`), 0600))

	_, _, err := execute(t, "seed")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "custom.db"))

	out, _, err := execute(t, "list", "-o", "json")
	require.NoError(t, err)

	var result commands.ListOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 5, result.Summary.Total)
}

func TestVerboseLogsToStderr(t *testing.T) {
	t.Chdir(t.TempDir())

	_, errOut, err := execute(t, "list", "-v", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, errOut, "configuration loaded")
	assert.Contains(t, errOut, "source=placeholder")
}

func TestUnknownSourceFlag(t *testing.T) {
	t.Chdir(t.TempDir())

	_, _, err := execute(t, "list", "--source", "consul")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "consul")
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, _, err := execute(t, "completion", shell)
			require.NoError(t, err)
			assert.True(t, strings.Contains(out, "flowlens"), "completion script should mention flowlens")
		})
	}

	_, _, err := execute(t, "completion", "tcsh")
	assert.Error(t, err)
}
