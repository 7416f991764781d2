// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/flowlens/internal/cli/config"
	"github.com/leapstack-labs/flowlens/internal/cli/output"
	"github.com/leapstack-labs/flowlens/internal/testutil"
)

// SampleComponents is a small components file with one record per health state.
const SampleComponents = `components:
  - id: discovery.kubernetes.pods
    health:
      state: healthy
      message: started component
  - id: prometheus.scrape.default
    health:
      state: unhealthy
      message: context deadline exceeded
    references_to:
      - discovery.kubernetes.pods
  - id: prometheus.exporter.unix.node
    health:
      state: exited
`

// SetupTestProject creates a temporary project with a components file and
// returns its directory and a config reading from that file.
func SetupTestProject(t *testing.T) (string, *config.Config) {
	t.Helper()

	tmpDir := t.TempDir()
	componentsPath := filepath.Join(tmpDir, "components.yaml")
	if err := os.WriteFile(componentsPath, []byte(SampleComponents), 0600); err != nil {
		t.Fatalf("failed to create components.yaml: %v", err)
	}

	cfg := &config.Config{
		Source: &config.SourceConfig{
			Type:   "file",
			Params: map[string]any{"path": componentsPath},
		},
		StatePath:    filepath.Join(tmpDir, ".flowlens", "state.db"),
		OutputFormat: string(output.ModeAuto),
		ProjectRoot:  tmpDir,
	}
	return tmpDir, cfg
}

// PlaceholderConfig returns a config reading the placeholder dataset with
// state kept under a temporary directory.
func PlaceholderConfig(t *testing.T) *config.Config {
	t.Helper()

	tmpDir := t.TempDir()
	return &config.Config{
		Source:       &config.SourceConfig{Type: "placeholder"},
		StatePath:    filepath.Join(tmpDir, "state.db"),
		OutputFormat: string(output.ModeAuto),
		ProjectRoot:  tmpDir,
	}
}

// ExecuteCommand runs cmd with args, cfg and a test logger in its context and
// returns what it wrote to stdout and stderr.
func ExecuteCommand(t *testing.T, cmd *cobra.Command, cfg *config.Config, args ...string) (string, string, error) {
	t.Helper()

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)

	ctx := config.WithConfig(context.Background(), cfg)
	ctx = config.WithLogger(ctx, testutil.NewTestLogger(t))
	err := cmd.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.OutputMode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	fenceCount := strings.Count(md, "```")
	if fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	lines := strings.Split(md, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
