// Package app hosts the root Bubble Tea model: it wires the routine list
// and detail components together, owns the add-routine sheet, and keeps the
// UI in sync with the store through the filesystem watch.
package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/cadence/pkg/app"
	"tableflip.dev/cadence/pkg/interval"
	"tableflip.dev/cadence/pkg/routine"
	"tableflip.dev/cadence/pkg/store"
	"tableflip.dev/cadence/pkg/tui/components/routinedetail"
	"tableflip.dev/cadence/pkg/tui/components/routinelist"
	"tableflip.dev/cadence/pkg/tui/events"
	"tableflip.dev/cadence/pkg/tui/theme"
)

type view int

const (
	viewList view = iota
	viewDetail
)

type addField int

const (
	addName addField = iota
	addEmoji
	addEvery
)

// Model is the root TUI model.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	svc    *app.Service

	view   view
	list   *routinelist.Model
	detail *routinedetail.Model

	// add sheet
	adding     bool
	addFocus   addField
	nameInput  textinput.Model
	emojiInput textinput.Model
	everyInput textinput.Model
	addErr     string

	watchCh     <-chan store.Event
	watchCancel context.CancelFunc

	termWidth  int
	termHeight int
	status     string
	debugLog   io.Writer

	theme theme.Theme
}

// SetDebugWriter configures an optional writer for diagnostic output.
func (m *Model) SetDebugWriter(w io.Writer) {
	m.debugLog = w
}

func (m *Model) debugf(format string, args ...interface{}) {
	if m.debugLog == nil {
		return
	}
	fmt.Fprintf(m.debugLog, "%s "+format+"\n",
		append([]interface{}{time.Now().Format("15:04:05.000")}, args...)...)
}

// New constructs the root model bound to the shared service.
func New(svc *app.Service) *Model {
	ctx, cancel := context.WithCancel(context.Background())

	name := textinput.New()
	name.Prompt = ""
	name.Placeholder = "Water the plants"
	emoji := textinput.New()
	emoji.Prompt = ""
	emoji.Placeholder = "🪴"
	emoji.CharLimit = 8
	every := textinput.New()
	every.Prompt = ""
	every.Placeholder = "3d"
	every.CharLimit = 6

	list := routinelist.New(ctx, svc)
	list.Focus()

	return &Model{
		ctx:        ctx,
		cancel:     cancel,
		svc:        svc,
		list:       list,
		nameInput:  name,
		emojiInput: emoji,
		everyInput: every,
		theme:      theme.Default(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.list.Init(), startWatchCmd(m.ctx, m.svc))
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.applySizes()
		return m, nil

	case tea.KeyMsg:
		if m.adding {
			return m.handleAddKey(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			if m.view == viewDetail && msg.String() == "q" {
				break // detail handles q as back
			}
			m.stopWatch()
			m.cancel()
			return m, tea.Quit
		case "a":
			if m.view == viewList {
				m.openAddSheet()
				return m, nil
			}
		}

	case watchStartedMsg:
		if msg.err != nil {
			m.status = "watch unavailable: " + msg.err.Error()
			return m, nil
		}
		m.stopWatch()
		m.watchCh = msg.ch
		m.watchCancel = msg.cancel
		if cmd := m.waitForWatch(); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case watchEventMsg:
		m.handleWatchEvent(msg.event, &cmds)
		if cmd := m.waitForWatch(); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case watchStoppedMsg:
		m.stopWatch()
		return m, nil

	case events.RoutineSelectMsg:
		if msg.Routine != nil {
			m.openDetail(msg.Routine, &cmds)
		}
		return m, tea.Batch(cmds...)

	case events.BackMsg:
		m.closeDetail(&cmds)
		return m, tea.Batch(cmds...)

	case events.DebugMsg:
		m.status = msg.Context + ": " + msg.Detail
		m.debugf("debug %s", msg.Describe())
		return m, nil
	}

	// Route everything else to the active component.
	switch m.view {
	case viewDetail:
		if m.detail != nil {
			_, cmd := m.detail.Update(msg)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
			if m.detail.ShouldDismiss() {
				m.detail.DismissHandled()
				m.closeDetail(&cmds)
			}
		}
	default:
		_, cmd := m.list.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) openDetail(r *routine.Routine, cmds *[]tea.Cmd) {
	m.detail = routinedetail.New(m.ctx, m.svc, r)
	m.detail.Focus()
	m.list.Blur()
	m.view = viewDetail
	m.applySizes()
	if cmd := m.detail.Init(); cmd != nil {
		*cmds = append(*cmds, cmd)
	}
}

func (m *Model) closeDetail(cmds *[]tea.Cmd) {
	m.detail = nil
	m.view = viewList
	m.list.Focus()
	*cmds = append(*cmds, m.list.Refresh())
}

func (m *Model) openAddSheet() {
	m.adding = true
	m.addFocus = addName
	m.addErr = ""
	m.nameInput.SetValue("")
	m.emojiInput.SetValue("")
	m.everyInput.SetValue("")
	m.updateAddFocus()
}

func (m *Model) handleAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.adding = false
		return m, nil
	case "tab", "down":
		m.addFocus = (m.addFocus + 1) % 3
		m.updateAddFocus()
		return m, nil
	case "shift+tab", "up":
		m.addFocus = (m.addFocus + 2) % 3
		m.updateAddFocus()
		return m, nil
	case "enter":
		return m.submitAdd()
	}

	var cmd tea.Cmd
	switch m.addFocus {
	case addName:
		m.nameInput, cmd = m.nameInput.Update(msg)
	case addEmoji:
		m.emojiInput, cmd = m.emojiInput.Update(msg)
	case addEvery:
		m.everyInput, cmd = m.everyInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) submitAdd() (tea.Model, tea.Cmd) {
	name := strings.TrimSpace(m.nameInput.Value())
	if name == "" {
		m.addErr = "name is required"
		return m, nil
	}
	every := strings.TrimSpace(m.everyInput.Value())
	days := 1
	if every != "" {
		parsed, err := interval.Parse(every)
		if err != nil {
			m.addErr = err.Error()
			return m, nil
		}
		days = parsed
	}
	m.adding = false
	return m, m.list.Create(name, m.emojiInput.Value(), days)
}

func (m *Model) updateAddFocus() {
	m.nameInput.Blur()
	m.emojiInput.Blur()
	m.everyInput.Blur()
	switch m.addFocus {
	case addName:
		m.nameInput.Focus()
	case addEmoji:
		m.emojiInput.Focus()
	case addEvery:
		m.everyInput.Focus()
	}
}

// View implements tea.Model.
func (m *Model) View() (string, *tea.Cursor) {
	if m.adding {
		return m.renderAddSheet(), nil
	}

	var body string
	switch m.view {
	case viewDetail:
		if m.detail != nil {
			body, _ = m.detail.View()
		}
	default:
		body, _ = m.list.View()
	}

	footer := m.theme.Footer.Help.Render(m.footerHelp())
	if m.status != "" {
		footer += "  " + m.theme.Footer.Status.Render(m.status)
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, "", footer), nil
}

func (m *Model) footerHelp() string {
	if m.view == viewDetail {
		return "d done · e edit · x delete · esc back · ctrl+c quit"
	}
	return "enter open · a add · x delete · r refresh · q quit"
}

func (m *Model) renderAddSheet() string {
	t := m.theme.Form
	label := func(f addField, text string) string {
		if m.addFocus == f {
			return t.FocusedLabel.Render("› " + text)
		}
		return t.Label.Render("  " + text)
	}
	lines := []string{
		t.Title.Render("New routine"),
		"",
		label(addName, "Name:  ") + m.nameInput.View(),
		label(addEmoji, "Emoji: ") + m.emojiInput.View(),
		label(addEvery, "Every: ") + m.everyInput.View(),
	}
	if m.addErr != "" {
		lines = append(lines, "", t.Error.Render(m.addErr))
	}
	lines = append(lines, "", m.theme.Footer.Help.Render("enter save · esc cancel"))
	content := strings.Join(lines, "\n")
	if m.termWidth > 0 {
		content = t.Frame.Render(content)
	}
	return content
}

func (m *Model) applySizes() {
	if m.termWidth == 0 || m.termHeight == 0 {
		return
	}
	m.list.SetSize(m.termWidth, m.termHeight-2)
	if m.detail != nil {
		m.detail.SetSize(m.termWidth, m.termHeight-2)
	}
}

type watchStartedMsg struct {
	ch     <-chan store.Event
	cancel context.CancelFunc
	err    error
}

type watchEventMsg struct {
	event store.Event
}

type watchStoppedMsg struct{}

func startWatchCmd(parent context.Context, svc *app.Service) tea.Cmd {
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(parent)
		ch, err := svc.Watch(ctx)
		if err != nil {
			cancel()
			return watchStartedMsg{err: err}
		}
		return watchStartedMsg{ch: ch, cancel: cancel}
	}
}

func (m *Model) waitForWatch() tea.Cmd {
	if m.watchCh == nil {
		return nil
	}
	ch := m.watchCh
	return func() tea.Msg {
		if ev, ok := <-ch; ok {
			return watchEventMsg{event: ev}
		}
		return watchStoppedMsg{}
	}
}

func (m *Model) stopWatch() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watchCh = nil
}

// handleWatchEvent reconciles external store changes. A list refresh covers
// routine mutations; log changes for the open routine reload its trail.
func (m *Model) handleWatchEvent(ev store.Event, cmds *[]tea.Cmd) {
	m.debugf("watch event type=%d routine=%q", ev.Type, ev.RoutineID)
	switch ev.Type {
	case store.EventLogsChanged:
		if m.detail != nil && m.detail.Routine().ID == ev.RoutineID {
			*cmds = append(*cmds, m.detail.Init())
		}
		*cmds = append(*cmds, m.list.Refresh())
	default:
		*cmds = append(*cmds, m.list.Refresh())
		if m.detail != nil {
			*cmds = append(*cmds, m.detail.Init())
		}
	}
}

// Run launches the interactive TUI program.
func Run(svc *app.Service) error {
	p := tea.NewProgram(New(svc), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
