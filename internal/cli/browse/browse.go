// Package browse implements the interactive component list shown by
// "flowlens list --interactive".
package browse

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/flowlens/internal/cli/output"
	"github.com/leapstack-labs/flowlens/pkg/core"
)

const (
	defaultWidth  = 100
	defaultHeight = 20
	healthWidth   = 10
	// rows taken by the title, the filter line, and the help line
	chromeHeight = 4
)

// Model is the bubbletea model of the interactive list.
type Model struct {
	all     []core.ComponentRecord
	visible []core.ComponentRecord
	filter  core.HealthState

	table  table.Model
	help   help.Model
	keys   keyMap
	styles *output.Styles

	showDetail bool
	width      int
	height     int
}

// New creates a model over records with filter as the initial health filter.
// The records slice is copied; an empty filter shows every state.
func New(records []core.ComponentRecord, filter core.HealthState, styles *output.Styles) Model {
	all := append([]core.ComponentRecord(nil), records...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	m := Model{
		all:    all,
		filter: filter,
		table: table.New(
			table.WithFocused(true),
			table.WithColumns(columns(defaultWidth)),
		),
		help:   help.New(),
		keys:   defaultKeys(),
		styles: styles,
		width:  defaultWidth,
		height: defaultHeight,
	}
	m.resize()
	m.applyFilter()
	return m
}

// Run shows the interactive list until the user quits or ctx is done.
func Run(ctx context.Context, in io.Reader, out io.Writer, m Model) error {
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("interactive list: %w", err)
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.resize()
			return m, nil
		case key.Matches(msg, m.keys.Detail):
			if len(m.visible) > 0 {
				m.showDetail = !m.showDetail
				m.resize()
			}
			return m, nil
		case key.Matches(msg, m.keys.Back):
			m.showDetail = false
			m.resize()
			return m, nil
		case key.Matches(msg, m.keys.NextFilter):
			m.filter = stepFilter(m.filter, 1)
			m.applyFilter()
			return m, nil
		case key.Matches(msg, m.keys.PrevFilter):
			m.filter = stepFilter(m.filter, -1)
			m.applyFilter()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Header1.Render(fmt.Sprintf("Components (%d of %d)", len(m.visible), len(m.all))))
	b.WriteString("\n")
	b.WriteString(m.filterLine())
	b.WriteString("\n")

	if len(m.visible) == 0 {
		b.WriteString(m.styles.Muted.Render("No components"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.table.View())
		b.WriteString("\n")
		if m.showDetail {
			b.WriteString(m.detailView())
			b.WriteString("\n")
		}
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// Filter returns the active health filter. Empty means all states.
func (m Model) Filter() core.HealthState {
	return m.filter
}

// Visible returns the records shown with the active filter, sorted by ID.
func (m Model) Visible() []core.ComponentRecord {
	return m.visible
}

// Selected returns the record under the cursor.
func (m Model) Selected() (core.ComponentRecord, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.visible) {
		return core.ComponentRecord{}, false
	}
	return m.visible[i], true
}

// DetailOpen reports whether the detail pane is shown.
func (m Model) DetailOpen() bool {
	return m.showDetail
}

func (m *Model) applyFilter() {
	visible := make([]core.ComponentRecord, 0, len(m.all))
	for _, rec := range m.all {
		if m.filter != "" && rec.Health.State != m.filter {
			continue
		}
		visible = append(visible, rec)
	}
	m.visible = visible

	rows := make([]table.Row, 0, len(m.visible))
	for _, rec := range m.visible {
		rows = append(rows, table.Row{string(rec.Health.State), rec.ID, rec.Health.Message})
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
	if len(m.visible) == 0 {
		m.showDetail = false
	}
}

func (m *Model) resize() {
	m.help.Width = m.width
	m.table.SetColumns(columns(m.width))
	m.table.SetWidth(m.width)

	h := m.height - chromeHeight
	if m.help.ShowAll {
		h -= len(m.keys.FullHelp()[0])
	}
	if m.showDetail {
		h /= 2
	}
	m.table.SetHeight(max(h, 3))
}

func columns(width int) []table.Column {
	idWidth := max((width-healthWidth)/2, 20)
	msgWidth := max(width-healthWidth-idWidth-6, 10)
	return []table.Column{
		{Title: "Health", Width: healthWidth},
		{Title: "ID", Width: idWidth},
		{Title: "Message", Width: msgWidth},
	}
}

func (m Model) filterLine() string {
	parts := []string{filterLabel("", m.filter)}
	for _, s := range core.HealthStates() {
		parts = append(parts, filterLabel(s, m.filter))
	}
	return m.styles.Muted.Render("Filter:") + " " + strings.Join(parts, " ")
}

func filterLabel(state, active core.HealthState) string {
	name := string(state)
	if state == "" {
		name = "all"
	}
	if state == active {
		return "[" + name + "]"
	}
	return name
}

func (m Model) detailView() string {
	rec, ok := m.Selected()
	if !ok {
		return ""
	}

	updated := "never"
	if !rec.Health.UpdatedTime.IsZero() {
		updated = rec.Health.UpdatedTime.UTC().Format(time.RFC3339)
	}
	lines := []string{
		m.styles.Bold.Render(rec.ID),
		field("Name", rec.Name),
		field("Label", rec.Label),
		field("Health", m.styles.Health(rec.Health.State).Render(string(rec.Health.State))),
		field("Message", rec.Health.Message),
		field("Updated", updated),
		field("References", joinOrNone(rec.ReferencesTo)),
		field("Referenced by", joinOrNone(rec.ReferencedBy)),
	}
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		Padding(0, 1).
		Width(max(m.width-4, 20)).
		Render(strings.Join(lines, "\n"))
}

func field(name, value string) string {
	if value == "" {
		value = "-"
	}
	return fmt.Sprintf("%-14s %s", name+":", value)
}

func joinOrNone(ids []string) string {
	if len(ids) == 0 {
		return "none"
	}
	return strings.Join(ids, ", ")
}

// stepFilter moves through all, then each health state, wrapping at both ends.
func stepFilter(current core.HealthState, step int) core.HealthState {
	order := append([]core.HealthState{""}, core.HealthStates()...)
	i := 0
	for j, s := range order {
		if s == current {
			i = j
			break
		}
	}
	n := len(order)
	return order[((i+step)%n+n)%n]
}
