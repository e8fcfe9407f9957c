// Package routinelist implements the main routine list: load, create, and
// delete flows plus the urgency-sorted rendering of every routine.
package routinelist

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/cadence/pkg/app"
	"tableflip.dev/cadence/pkg/routine"
	"tableflip.dev/cadence/pkg/tui/events"
	"tableflip.dev/cadence/pkg/tui/theme"
	"tableflip.dev/cadence/pkg/urgency"
)

type phase int

const (
	phaseIdle phase = iota
	phaseLoading
	phaseLoaded
)

// Model holds the routine list state. Rows are only ever replaced by a
// completed load of the newest generation; a failed load keeps whatever is
// already on screen.
type Model struct {
	ctx context.Context
	svc *app.Service
	id  events.ComponentID

	phase   phase
	loadGen int
	rows    []urgency.Row
	cursor  int

	width   int
	height  int
	focused bool
	lastErr error

	theme theme.Theme
}

// New constructs the list bound to the shared service.
func New(ctx context.Context, svc *app.Service) *Model {
	return &Model{
		ctx:   ctx,
		svc:   svc,
		id:    events.ComponentID("routinelist"),
		theme: theme.Default(),
	}
}

// ID returns the component identifier used in emitted events.
func (m *Model) ID() events.ComponentID { return m.id }

// Init triggers the initial load.
func (m *Model) Init() tea.Cmd { return m.Refresh() }

// Refresh starts a new load generation. Results from older generations that
// land later are ignored, so the freshest request always wins.
func (m *Model) Refresh() tea.Cmd {
	m.phase = phaseLoading
	m.loadGen++
	gen := m.loadGen
	return func() tea.Msg {
		rows, err := m.svc.Rows(m.ctx)
		if err != nil {
			return events.RoutinesLoadFailedMsg{Component: m.id, Gen: gen, Err: err}
		}
		return events.RoutinesLoadedMsg{Component: m.id, Gen: gen, Rows: rows}
	}
}

// Create validates and persists a new routine. A blank name or non-positive
// cadence is rejected without touching any state.
func (m *Model) Create(name, emoji string, days int) tea.Cmd {
	if strings.TrimSpace(name) == "" || days < 1 {
		return events.DebugCmd(m.id, "create", "rejected invalid input")
	}
	return func() tea.Msg {
		r, err := m.svc.Create(m.ctx, name, emoji, days)
		if err != nil {
			return events.RoutineCreateFailedMsg{Component: m.id, Err: err}
		}
		logs, _ := m.svc.Logs(m.ctx, r.ID)
		return events.RoutineCreatedMsg{
			Component: m.id,
			Row:       urgency.Derive(r, logs, m.svc.Clock.Now()),
		}
	}
}

// DeleteSelected removes the routine under the cursor immediately and issues
// the store delete in the background. A failed delete is logged but never
// rolled back; the next refresh reconciles.
func (m *Model) DeleteSelected() tea.Cmd {
	r := m.Selected()
	if r == nil {
		return nil
	}
	id := r.ID
	m.removeRow(id)
	return func() tea.Msg {
		if err := m.svc.Delete(m.ctx, id); err != nil {
			return events.RoutineDeleteFailedMsg{Component: m.id, IDs: []string{id}, Err: err}
		}
		return events.RoutineDeletedMsg{Component: m.id, RoutineID: id}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case events.RoutinesLoadedMsg:
		if msg.Component != m.id || msg.Gen != m.loadGen {
			return m, nil
		}
		m.phase = phaseLoaded
		m.lastErr = nil
		m.rows = msg.Rows
		m.clampCursor()
		return m, nil

	case events.RoutinesLoadFailedMsg:
		if msg.Component != m.id || msg.Gen != m.loadGen {
			return m, nil
		}
		m.phase = phaseLoaded
		m.lastErr = msg.Err
		return m, events.DebugCmd(m.id, "load", msg.Describe())

	case events.RoutineCreatedMsg:
		if msg.Component != m.id {
			return m, nil
		}
		m.rows = append(m.rows, msg.Row)
		urgency.Sort(m.rows)
		return m, nil

	case events.RoutineCreateFailedMsg:
		if msg.Component != m.id {
			return m, nil
		}
		m.lastErr = msg.Err
		return m, events.DebugCmd(m.id, "create", msg.Describe())

	case events.RoutineDeleteFailedMsg:
		if msg.Component != m.id {
			return m, nil
		}
		m.lastErr = msg.Err
		return m, events.DebugCmd(m.id, "delete", msg.Describe())

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "enter":
		if r := m.Selected(); r != nil {
			return m, events.RoutineSelectCmd(m.id, r)
		}
	case "x":
		return m, m.DeleteSelected()
	case "r":
		return m, m.Refresh()
	}
	return m, nil
}

// Selected returns the routine under the cursor, or nil when the list is
// empty.
func (m *Model) Selected() *routine.Routine {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].Routine
}

// Rows exposes the current derived rows.
func (m *Model) Rows() []urgency.Row { return m.rows }

// Loading reports whether a load generation is in flight.
func (m *Model) Loading() bool { return m.phase == phaseLoading }

// Err returns the most recent load/create/delete failure, if any.
func (m *Model) Err() error { return m.lastErr }

// Focus marks the list as the active component.
func (m *Model) Focus() { m.focused = true }

// Blur removes focus.
func (m *Model) Blur() { m.focused = false }

// SetSize configures the rendering dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// View renders the list.
func (m *Model) View() (string, *tea.Cursor) {
	var b strings.Builder
	title := "Routines"
	if m.phase == phaseLoading && len(m.rows) == 0 {
		title += " (loading…)"
	}
	b.WriteString(m.theme.List.Title.Render(title))
	b.WriteString("\n\n")

	if len(m.rows) == 0 && m.phase != phaseLoading {
		b.WriteString(m.theme.List.Faint.Render("No routines yet. Press 'a' to add one."))
	}

	for i, row := range m.rows {
		caret := "  "
		if i == m.cursor && m.focused {
			caret = m.theme.List.Cursor.Render("> ")
		}
		b.WriteString(caret)
		b.WriteString(fmt.Sprintf("%s %s  %s\n",
			row.Routine.Emoji,
			m.theme.List.Name.Render(row.Routine.Name),
			m.statusLabel(row)))
	}

	if m.lastErr != nil {
		b.WriteString("\n")
		b.WriteString(m.theme.List.Faint.Render("last error: " + m.lastErr.Error()))
	}

	content := strings.TrimRight(b.String(), "\n")
	if m.width > 0 {
		content = lipgloss.NewStyle().Width(m.width).Render(content)
	}
	return content, nil
}

func (m *Model) statusLabel(row urgency.Row) string {
	switch {
	case row.DoneToday:
		return m.theme.List.DoneToday.Render("done today")
	case row.Overdue > 0:
		return m.theme.List.TierStyle(row.Tier.String()).
			Render(fmt.Sprintf("%dd overdue", row.Overdue))
	case row.Routine.LastDone == nil:
		return m.theme.List.TierStyle(row.Tier.String()).Render("due now")
	default:
		return m.theme.List.TierStyle(row.Tier.String()).
			Render(fmt.Sprintf("last done %dd ago", row.DaysSince))
	}
}

func (m *Model) removeRow(id string) {
	kept := m.rows[:0]
	for _, row := range m.rows {
		if row.Routine.ID != id {
			kept = append(kept, row)
		}
	}
	m.rows = kept
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
