package browse

import (
	"bytes"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/flowlens/internal/cli/output"
	"github.com/leapstack-labs/flowlens/pkg/core"
)

func keyMsg(k any) tea.KeyMsg {
	switch k := k.(type) {
	case rune:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{k}}
	case tea.KeyType:
		return tea.KeyMsg{Type: k}
	default:
		panic("unsupported key")
	}
}

func press(t *testing.T, m Model, keys ...any) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyMsg(k))
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m, cmd
}

func testRecords() []core.ComponentRecord {
	recs := []core.ComponentRecord{
		{ID: "prometheus.scrape.default", Health: core.Health{State: core.HealthUnhealthy, Message: "scrape failed"},
			ReferencesTo: []string{"discovery.kubernetes.pods"}},
		{ID: "discovery.kubernetes.pods", Health: core.Health{State: core.HealthHealthy}},
		{ID: "prometheus.exporter.unix.node", Health: core.Health{State: core.HealthExited}},
	}
	for i := range recs {
		recs[i].Normalize()
	}
	core.ResolveReferences(recs)
	return recs
}

func newTestModel(filter core.HealthState) Model {
	styles := output.NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, false, output.ModeText).Styles()
	return New(testRecords(), filter, styles)
}

func visibleIDs(m Model) []string {
	var ids []string
	for _, rec := range m.Visible() {
		ids = append(ids, rec.ID)
	}
	return ids
}

func TestNew_SortsAndCopies(t *testing.T) {
	recs := testRecords()
	first := recs[0].ID

	m := New(recs, "", output.NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, false, output.ModeText).Styles())

	assert.Equal(t, first, recs[0].ID, "input must not be reordered")
	assert.Equal(t, []string{
		"discovery.kubernetes.pods",
		"prometheus.exporter.unix.node",
		"prometheus.scrape.default",
	}, visibleIDs(m))

	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "discovery.kubernetes.pods", sel.ID)
}

func TestNew_InitialFilter(t *testing.T) {
	m := newTestModel(core.HealthUnhealthy)

	assert.Equal(t, core.HealthUnhealthy, m.Filter())
	assert.Equal(t, []string{"prometheus.scrape.default"}, visibleIDs(m))
}

func TestUpdate_CursorMovement(t *testing.T) {
	m, _ := press(t, newTestModel(""), tea.KeyDown, tea.KeyDown)
	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "prometheus.scrape.default", sel.ID)

	m, _ = press(t, m, 'k')
	sel, _ = m.Selected()
	assert.Equal(t, "prometheus.exporter.unix.node", sel.ID)
}

func TestUpdate_FilterCycle(t *testing.T) {
	m := newTestModel("")

	tests := []struct {
		want core.HealthState
		ids  []string
	}{
		{core.HealthHealthy, []string{"discovery.kubernetes.pods"}},
		{core.HealthUnhealthy, []string{"prometheus.scrape.default"}},
		{core.HealthExited, []string{"prometheus.exporter.unix.node"}},
		{core.HealthUnknown, nil},
		{"", []string{"discovery.kubernetes.pods", "prometheus.exporter.unix.node", "prometheus.scrape.default"}},
	}
	for _, tt := range tests {
		m, _ = press(t, m, tea.KeyTab)
		assert.Equal(t, tt.want, m.Filter())
		assert.Equal(t, tt.ids, visibleIDs(m))
	}

	m, _ = press(t, m, tea.KeyShiftTab)
	assert.Equal(t, core.HealthUnknown, m.Filter(), "shift+tab wraps backwards")
}

func TestUpdate_FilterResetsCursor(t *testing.T) {
	m, _ := press(t, newTestModel(""), tea.KeyDown, tea.KeyDown, tea.KeyTab, tea.KeyShiftTab)

	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "discovery.kubernetes.pods", sel.ID)
}

func TestUpdate_DetailPane(t *testing.T) {
	m, _ := press(t, newTestModel(""), tea.KeyDown, tea.KeyDown, tea.KeyEnter)
	require.True(t, m.DetailOpen())

	view := m.View()
	assert.Contains(t, view, "Name:          prometheus.scrape")
	assert.Contains(t, view, "Label:         default")
	assert.Contains(t, view, "Message:       scrape failed")
	assert.Contains(t, view, "References:    discovery.kubernetes.pods")
	assert.Contains(t, view, "Referenced by: none")

	m, _ = press(t, m, tea.KeyEscape)
	assert.False(t, m.DetailOpen())
	assert.NotContains(t, m.View(), "Referenced by:")
}

func TestUpdate_DetailIgnoredWhenEmpty(t *testing.T) {
	m, _ := press(t, newTestModel(core.HealthUnknown), tea.KeyEnter)

	assert.False(t, m.DetailOpen())
	assert.Contains(t, m.View(), "No components")
}

func TestUpdate_Quit(t *testing.T) {
	for _, k := range []any{'q', tea.KeyCtrlC} {
		_, cmd := press(t, newTestModel(""), k)
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	}
}

func TestUpdate_WindowSize(t *testing.T) {
	next, _ := newTestModel("").Update(tea.WindowSizeMsg{Width: 60, Height: 12})
	m := next.(Model)

	assert.Equal(t, 60, m.table.Width())
	assert.Equal(t, 60, m.help.Width)
}

func TestView(t *testing.T) {
	m := newTestModel(core.HealthHealthy)

	view := m.View()
	assert.Contains(t, view, "Components (1 of 3)")
	assert.Contains(t, view, "Filter: all [healthy] unhealthy exited unknown")
	assert.Contains(t, view, "discovery.kubernetes.pods")
	assert.NotContains(t, view, "prometheus.scrape.default")
	assert.Contains(t, view, "quit")
}

func TestStepFilter(t *testing.T) {
	assert.Equal(t, core.HealthHealthy, stepFilter("", 1))
	assert.Equal(t, core.HealthUnknown, stepFilter("", -1))
	assert.Equal(t, core.HealthState(""), stepFilter(core.HealthUnknown, 1))
	assert.Equal(t, core.HealthHealthy, stepFilter(core.HealthState("bogus"), 1))
}
