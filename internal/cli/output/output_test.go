package output

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/flowlens/pkg/core"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func TestMode(t *testing.T) {
	tests := []struct {
		in   string
		want OutputMode
	}{
		{"", ModeAuto},
		{"auto", ModeAuto},
		{"text", ModeText},
		{"TEXT", ModeText},
		{"markdown", ModeMarkdown},
		{"md", ModeMarkdown},
		{"json", ModeJSON},
		{"yaml", ModeAuto},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Mode(tt.in))
		})
	}
}

func TestValidateMode(t *testing.T) {
	assert.NoError(t, ValidateMode(""))
	assert.NoError(t, ValidateMode("json"))
	err := ValidateMode("yaml")
	assert.ErrorContains(t, err, "invalid output format")
	assert.ErrorContains(t, err, "markdown")
}

func TestRenderer_EffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		mode  OutputMode
		isTTY bool
		want  OutputMode
	}{
		{"auto on terminal", ModeAuto, true, ModeText},
		{"auto piped", ModeAuto, false, ModeMarkdown},
		{"explicit json", ModeJSON, true, ModeJSON},
		{"explicit text piped", ModeText, false, ModeText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, tt.isTTY, tt.mode)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestNewRenderer_BufferIsNotTerminal(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())
}

func TestRenderer_Header(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewRendererWithTTY(out, &bytes.Buffer{}, false, ModeMarkdown)
	r.Header(2, "Components")
	assert.Equal(t, "## Components\n\n", out.String())

	out.Reset()
	r = NewRendererWithTTY(out, &bytes.Buffer{}, false, ModeText)
	r.Header(1, "Components")
	assert.Contains(t, out.String(), "Components")
	assert.False(t, ansiPattern.MatchString(out.String()), "non-TTY output should carry no ANSI codes")
}

func TestRenderer_JSONAndWarn(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	r := NewRendererWithTTY(out, errOut, false, ModeJSON)

	assert.NoError(t, r.JSON(map[string]int{"count": 3}))
	assert.JSONEq(t, `{"count":3}`, out.String())

	r.Warn("no components")
	assert.Equal(t, "Warning: no components\n", errOut.String())
}

func TestStyles_Health(t *testing.T) {
	s := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, true, ModeText).Styles()

	tests := []struct {
		state core.HealthState
		color lipgloss.Color
		bold  bool
	}{
		{core.HealthHealthy, "10", false},
		{core.HealthUnhealthy, "9", true},
		{core.HealthExited, "11", false},
		{core.HealthUnknown, "8", false},
		{"", "8", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			style := s.Health(tt.state)
			assert.Equal(t, tt.color, style.GetForeground())
			assert.Equal(t, tt.bold, style.GetBold())
		})
	}
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# Title", FormatHeader(0, "Title"))
	assert.Equal(t, "### Title", FormatHeader(3, "Title"))
	assert.Equal(t, "- **Health**: healthy", FormatKeyValue("Health", "healthy"))
}
