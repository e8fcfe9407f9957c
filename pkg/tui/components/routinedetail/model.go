// Package routinedetail implements the single-routine view: the completion
// trail, the optimistic mark-done flow, the edit sheet, and the guarded
// delete flow.
package routinedetail

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/cadence/pkg/app"
	"tableflip.dev/cadence/pkg/glyph"
	"tableflip.dev/cadence/pkg/interval"
	"tableflip.dev/cadence/pkg/routine"
	"tableflip.dev/cadence/pkg/tui/events"
	"tableflip.dev/cadence/pkg/tui/theme"
	"tableflip.dev/cadence/pkg/urgency"
)

type mode int

const (
	modeViewing mode = iota
	modeEditing
	modeConfirmingDelete
)

type focusField int

const (
	fieldName focusField = iota
	fieldEmoji
	fieldValue
	fieldUnit
)

// Model holds the detail state for one routine.
type Model struct {
	ctx context.Context
	svc *app.Service
	id  events.ComponentID

	routine *routine.Routine
	logs    []*routine.Log
	row     urgency.Row

	mode         mode
	loadingLogs  bool
	lastErr      error
	dismissAfter bool

	// edit sheet
	focus      focusField
	nameInput  textinput.Model
	emojiInput textinput.Model
	valueInput textinput.Model
	unit       interval.Unit

	width   int
	height  int
	focused bool

	theme theme.Theme
}

// New constructs the detail view for the given routine.
func New(ctx context.Context, svc *app.Service, r *routine.Routine) *Model {
	name := textinput.New()
	name.Prompt = ""
	emoji := textinput.New()
	emoji.Prompt = ""
	emoji.CharLimit = 8
	value := textinput.New()
	value.Prompt = ""
	value.CharLimit = 4

	m := &Model{
		ctx:         ctx,
		svc:         svc,
		id:          events.ComponentID("routinedetail"),
		routine:     r,
		loadingLogs: true,
		nameInput:   name,
		emojiInput:  emoji,
		valueInput:  value,
		theme:       theme.Default(),
	}
	m.deriveRow()
	return m
}

// ID returns the component identifier used in emitted events.
func (m *Model) ID() events.ComponentID { return m.id }

// Init loads the completion trail.
func (m *Model) Init() tea.Cmd { return m.loadLogs() }

// Routine returns the routine currently shown.
func (m *Model) Routine() *routine.Routine { return m.routine }

// Logs returns the loaded completion trail, newest first.
func (m *Model) Logs() []*routine.Log { return m.logs }

// Row returns the derived urgency snapshot.
func (m *Model) Row() urgency.Row { return m.row }

// Editing reports whether the edit sheet is open.
func (m *Model) Editing() bool { return m.mode == modeEditing }

// ConfirmingDelete reports whether the delete prompt is showing.
func (m *Model) ConfirmingDelete() bool { return m.mode == modeConfirmingDelete }

// ShouldDismiss reports the one-shot signal set after a confirmed delete
// lands. The app consumes it via DismissHandled.
func (m *Model) ShouldDismiss() bool { return m.dismissAfter }

// DismissHandled clears the dismissal signal once the app has acted on it.
func (m *Model) DismissHandled() { m.dismissAfter = false }

// Focus marks the detail view as active.
func (m *Model) Focus() { m.focused = true }

// Blur removes focus.
func (m *Model) Blur() { m.focused = false }

// SetSize configures the rendering dimensions.
func (m *Model) SetSize(width, height int) {
	if width < 40 {
		width = 40
	}
	m.width = width
	m.height = height
}

func (m *Model) loadLogs() tea.Cmd {
	m.loadingLogs = true
	id := m.routine.ID
	return func() tea.Msg {
		logs, err := m.svc.Logs(m.ctx, id)
		if err != nil {
			return events.LogsLoadFailedMsg{Component: m.id, RoutineID: id, Err: err}
		}
		return events.LogsLoadedMsg{Component: m.id, RoutineID: id, Logs: logs}
	}
}

// MarkDone stamps the routine done right away and persists in the
// background. The optimistic stamp is never rolled back on failure.
func (m *Model) MarkDone() tea.Cmd {
	now := m.svc.Clock.Now()
	m.routine.LastDone = &routine.Timestamp{Time: now}
	m.deriveRow()
	id := m.routine.ID
	return func() tea.Msg {
		r, _, err := m.svc.MarkDone(m.ctx, id)
		if err != nil {
			return events.DoneFailedMsg{Component: m.id, RoutineID: id, Err: err}
		}
		logs, err := m.svc.Logs(m.ctx, id)
		if err != nil {
			return events.DoneFailedMsg{Component: m.id, RoutineID: id, Err: err}
		}
		return events.DoneRecordedMsg{Component: m.id, Routine: r, Logs: logs}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case events.LogsLoadedMsg:
		if msg.Component != m.id || msg.RoutineID != m.routine.ID {
			return m, nil
		}
		m.loadingLogs = false
		m.lastErr = nil
		m.logs = msg.Logs
		m.deriveRow()
		return m, nil

	case events.LogsLoadFailedMsg:
		if msg.Component != m.id || msg.RoutineID != m.routine.ID {
			return m, nil
		}
		m.loadingLogs = false
		m.lastErr = msg.Err
		return m, events.DebugCmd(m.id, "logs", msg.Describe())

	case events.DoneRecordedMsg:
		if msg.Component != m.id || msg.Routine == nil || msg.Routine.ID != m.routine.ID {
			return m, nil
		}
		m.routine = msg.Routine
		m.logs = msg.Logs
		m.deriveRow()
		return m, nil

	case events.DoneFailedMsg:
		if msg.Component != m.id {
			return m, nil
		}
		m.lastErr = msg.Err
		return m, events.DebugCmd(m.id, "done", msg.Describe())

	case events.EditSavedMsg:
		if msg.Component != m.id || msg.Routine == nil || msg.Routine.ID != m.routine.ID {
			return m, nil
		}
		m.routine = msg.Routine
		m.deriveRow()
		return m, nil

	case events.EditSaveFailedMsg:
		if msg.Component != m.id {
			return m, nil
		}
		m.lastErr = msg.Err
		return m, events.DebugCmd(m.id, "edit", msg.Describe())

	case events.RoutineDeletedMsg:
		if msg.Component != m.id || msg.RoutineID != m.routine.ID {
			return m, nil
		}
		m.dismissAfter = true
		return m, nil

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
		switch m.mode {
		case modeEditing:
			return m.handleEditKey(msg)
		case modeConfirmingDelete:
			return m.handleConfirmKey(msg)
		default:
			return m.handleViewKey(msg)
		}
	}
	return m, nil
}

func (m *Model) handleViewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "d", " ":
		return m, m.MarkDone()
	case "e":
		m.startEdit()
		return m, nil
	case "x":
		m.mode = modeConfirmingDelete
		return m, nil
	case "r":
		return m, m.loadLogs()
	case "esc", "q":
		return m, events.BackCmd(m.id)
	}
	return m, nil
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		m.mode = modeViewing
		return m, m.deleteCmd()
	case "n", "esc":
		m.mode = modeViewing
	}
	return m, nil
}

func (m *Model) deleteCmd() tea.Cmd {
	id := m.routine.ID
	return func() tea.Msg {
		if err := m.svc.Delete(m.ctx, id); err != nil {
			return events.RoutineDeleteFailedMsg{Component: m.id, IDs: []string{id}, Err: err}
		}
		return events.RoutineDeletedMsg{Component: m.id, RoutineID: id}
	}
}

func (m *Model) startEdit() {
	m.mode = modeEditing
	m.focus = fieldName
	m.nameInput.SetValue(m.routine.Name)
	m.emojiInput.SetValue(m.routine.Emoji)
	unit, value := interval.Decompose(m.routine.Interval)
	m.unit = unit
	m.valueInput.SetValue(strconv.Itoa(value))
	m.updateInputFocus()
}

// handleEditKey drives the edit sheet. Enter saves, escape discards. A save
// with a blank name is silently ignored and the sheet stays open.
func (m *Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeViewing
		return m, nil
	case "enter":
		return m, m.saveEdit()
	case "tab", "down":
		m.cycleFocus(1)
		return m, nil
	case "shift+tab", "up":
		m.cycleFocus(-1)
		return m, nil
	}

	if m.focus == fieldUnit {
		switch msg.String() {
		case "left", "h":
			m.cycleUnit(-1)
		case "right", "l", " ":
			m.cycleUnit(1)
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldName:
		m.nameInput, cmd = m.nameInput.Update(msg)
	case fieldEmoji:
		prev := m.routine.Emoji
		m.emojiInput, cmd = m.emojiInput.Update(msg)
		if raw := m.emojiInput.Value(); strings.TrimSpace(raw) != "" {
			m.emojiInput.SetValue(glyph.Sanitize(raw, prev))
		}
	case fieldValue:
		m.valueInput, cmd = m.valueInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) cycleFocus(delta int) {
	fields := []focusField{fieldName, fieldEmoji, fieldValue, fieldUnit}
	idx := 0
	for i, f := range fields {
		if f == m.focus {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(fields)) % len(fields)
	m.focus = fields[idx]
	m.updateInputFocus()
}

func (m *Model) cycleUnit(delta int) {
	units := interval.Units()
	idx := 0
	for i, u := range units {
		if u == m.unit {
			idx = i
			break
		}
	}
	m.unit = units[(idx+delta+len(units))%len(units)]
}

func (m *Model) updateInputFocus() {
	m.nameInput.Blur()
	m.emojiInput.Blur()
	m.valueInput.Blur()
	switch m.focus {
	case fieldName:
		m.nameInput.Focus()
	case fieldEmoji:
		m.emojiInput.Focus()
	case fieldValue:
		m.valueInput.Focus()
	}
}

// saveEdit persists the form. Identity fields only: the completion stamp and
// the trail are never touched by an edit.
func (m *Model) saveEdit() tea.Cmd {
	name := strings.TrimSpace(m.nameInput.Value())
	if name == "" {
		return nil
	}
	emoji := glyph.Sanitize(m.emojiInput.Value(), m.routine.Emoji)
	value, err := strconv.Atoi(strings.TrimSpace(m.valueInput.Value()))
	if err != nil || value < 1 {
		_, value = interval.Decompose(m.routine.Interval)
	}
	days := interval.Compose(m.unit, value)

	m.mode = modeViewing
	m.routine.Name = name
	m.routine.Emoji = emoji
	m.routine.Interval = days
	m.deriveRow()

	id := m.routine.ID
	return func() tea.Msg {
		r, err := m.svc.Edit(m.ctx, id, name, emoji, days)
		if err != nil {
			return events.EditSaveFailedMsg{Component: m.id, RoutineID: id, Err: err}
		}
		return events.EditSavedMsg{Component: m.id, Routine: r}
	}
}

func (m *Model) deriveRow() {
	m.row = urgency.Derive(m.routine, m.logs, m.svc.Clock.Now())
}

// View renders the detail panel including the edit sheet or the delete
// prompt when active.
func (m *Model) View() (string, *tea.Cursor) {
	var body string
	switch m.mode {
	case modeEditing:
		body = m.renderEdit()
	case modeConfirmingDelete:
		body = m.renderConfirm()
	default:
		body = m.renderViewing()
	}
	if m.width > 0 {
		body = lipgloss.NewStyle().Width(m.width).Render(body)
	}
	return body, nil
}

func (m *Model) renderViewing() string {
	t := m.theme.Detail
	title := fmt.Sprintf("%s %s", m.routine.Emoji, m.routine.Name)
	if m.width > 0 {
		title = wordwrap.String(title, m.width-2)
	}
	lines := []string{
		t.Title.Render(title),
		"",
		m.metadataLine("Every", interval.Format(m.routine.Interval)),
		m.metadataLine("Status", m.statusLabel()),
		m.metadataLine("Due", m.row.Due.Format("Mon Jan 2")),
	}
	lines = append(lines, "", t.Label.Render("History"))
	switch {
	case m.loadingLogs && len(m.logs) == 0:
		lines = append(lines, "  loading…")
	case len(m.logs) == 0:
		lines = append(lines, "  no completions yet")
	default:
		for _, l := range m.logs {
			lines = append(lines, "  • "+l.Timestamp.Time.Format("Mon Jan 2 15:04"))
		}
	}
	if m.lastErr != nil {
		lines = append(lines, "", m.theme.Footer.Status.Render("last error: "+m.lastErr.Error()))
	}
	lines = append(lines, "",
		m.theme.Footer.Help.Render("d done · e edit · x delete · esc back"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderConfirm() string {
	t := m.theme.Detail
	return strings.Join([]string{
		t.Title.Render(fmt.Sprintf("%s %s", m.routine.Emoji, m.routine.Name)),
		"",
		t.Warning.Render("Delete this routine and all of its history?"),
		"",
		m.theme.Footer.Help.Render("y confirm · n cancel"),
	}, "\n")
}

func (m *Model) renderEdit() string {
	t := m.theme.Form
	label := func(f focusField, text string) string {
		if m.focus == f {
			return t.FocusedLabel.Render("› " + text)
		}
		return t.Label.Render("  " + text)
	}
	unitLabel := string(m.unit)
	if m.focus == fieldUnit {
		unitLabel = "‹ " + unitLabel + " ›"
	}
	lines := []string{
		t.Title.Render("Edit routine"),
		"",
		label(fieldName, "Name:  ") + m.nameInput.View(),
		label(fieldEmoji, "Emoji: ") + m.emojiInput.View(),
		label(fieldValue, "Every: ") + m.valueInput.View(),
		label(fieldUnit, "Unit:  ") + unitLabel,
		"",
		m.theme.Footer.Help.Render("enter save · esc cancel · tab next field"),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) metadataLine(label, value string) string {
	return fmt.Sprintf("%s %s", m.theme.Detail.Label.Render(label+":"), value)
}

func (m *Model) statusLabel() string {
	switch {
	case m.row.DoneToday:
		return "done today"
	case m.row.Overdue > 0:
		return fmt.Sprintf("%d days overdue (%s)", m.row.Overdue, m.row.Tier)
	case m.routine.LastDone == nil:
		return "never done"
	default:
		return fmt.Sprintf("last done %d days ago (%s)", m.row.DaysSince, m.row.Tier)
	}
}
