package output

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/flowlens/pkg/core"
)

// Styles holds the lipgloss styles used for text output.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header1: r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2: r.NewStyle().Bold(true).Underline(true),
		Bold:    r.NewStyle().Bold(true),
		Muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
		Success: r.NewStyle().Foreground(lipgloss.Color("10")),
		Warning: r.NewStyle().Foreground(lipgloss.Color("11")),
		Error:   r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
}

// Health returns the style used to show a health state.
func (s *Styles) Health(state core.HealthState) lipgloss.Style {
	switch state {
	case core.HealthHealthy:
		return s.Success
	case core.HealthUnhealthy:
		return s.Error
	case core.HealthExited:
		return s.Warning
	default:
		return s.Muted
	}
}
