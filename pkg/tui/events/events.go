// Package events defines the typed messages exchanged between TUI
// components. Every store or scheduler effect reports its outcome by
// submitting one of these messages back into the update loop; components
// never share mutable state directly.
package events

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/cadence/pkg/routine"
	"tableflip.dev/cadence/pkg/urgency"
)

// ComponentID uniquely identifies a component instance emitting events.
type ComponentID string

// RoutinesLoadedMsg carries a finished list load. Gen matches the load
// generation that produced it; stale generations are discarded so a newer
// refresh always wins over an older in-flight one.
type RoutinesLoadedMsg struct {
	Component ComponentID
	Gen       int
	Rows      []urgency.Row
}

// Describe renders the load result in a human-friendly format for logs.
func (m RoutinesLoadedMsg) Describe() string {
	return fmt.Sprintf(`gen:%d rows:%d`, m.Gen, len(m.Rows))
}

// RoutinesLoadFailedMsg reports a failed list load. The receiving component
// keeps whatever it had; the failure is only logged.
type RoutinesLoadFailedMsg struct {
	Component ComponentID
	Gen       int
	Err       error
}

// Describe implements the logging helper.
func (m RoutinesLoadFailedMsg) Describe() string {
	return fmt.Sprintf(`gen:%d err:%q`, m.Gen, m.Err)
}

// RoutineCreatedMsg announces a routine persisted by the create flow.
type RoutineCreatedMsg struct {
	Component ComponentID
	Row       urgency.Row
}

// Describe implements the logging helper.
func (m RoutineCreatedMsg) Describe() string {
	return fmt.Sprintf(`name:%q`, m.Row.Routine.Name)
}

// RoutineCreateFailedMsg reports a create that did not persist. In-memory
// state was never touched, so there is nothing to roll back.
type RoutineCreateFailedMsg struct {
	Component ComponentID
	Err       error
}

// Describe implements the logging helper.
func (m RoutineCreateFailedMsg) Describe() string {
	return fmt.Sprintf(`err:%q`, m.Err)
}

// RoutineDeleteFailedMsg reports a delete that failed after the rows were
// already removed optimistically. The removal is not rolled back; the store
// and the view simply disagree until the next refresh.
type RoutineDeleteFailedMsg struct {
	Component ComponentID
	IDs       []string
	Err       error
}

// Describe implements the logging helper.
func (m RoutineDeleteFailedMsg) Describe() string {
	return fmt.Sprintf(`ids:%d err:%q`, len(m.IDs), m.Err)
}

// RoutineSelectMsg asks the app to open the detail view for a routine.
type RoutineSelectMsg struct {
	Component ComponentID
	Routine   *routine.Routine
}

// Describe implements the logging helper.
func (m RoutineSelectMsg) Describe() string {
	if m.Routine == nil {
		return `routine:""`
	}
	return fmt.Sprintf(`routine:%q`, m.Routine.Name)
}

// RoutineSelectCmd wraps RoutineSelectMsg in a tea.Cmd.
func RoutineSelectCmd(component ComponentID, r *routine.Routine) tea.Cmd {
	return func() tea.Msg {
		return RoutineSelectMsg{Component: component, Routine: r}
	}
}

// LogsLoadedMsg carries a routine's freshly loaded completion trail,
// newest first.
type LogsLoadedMsg struct {
	Component ComponentID
	RoutineID string
	Logs      []*routine.Log
}

// Describe implements the logging helper.
func (m LogsLoadedMsg) Describe() string {
	return fmt.Sprintf(`routine:%q logs:%d`, m.RoutineID, len(m.Logs))
}

// LogsLoadFailedMsg reports a failed log load; prior logs stay visible.
type LogsLoadFailedMsg struct {
	Component ComponentID
	RoutineID string
	Err       error
}

// Describe implements the logging helper.
func (m LogsLoadFailedMsg) Describe() string {
	return fmt.Sprintf(`routine:%q err:%q`, m.RoutineID, m.Err)
}

// DoneRecordedMsg reports a completed mark-done effect: the routine was
// stamped, the log appended, and the reminder rescheduled.
type DoneRecordedMsg struct {
	Component ComponentID
	Routine   *routine.Routine
	Logs      []*routine.Log
}

// Describe implements the logging helper.
func (m DoneRecordedMsg) Describe() string {
	if m.Routine == nil {
		return `routine:""`
	}
	return fmt.Sprintf(`routine:%q logs:%d`, m.Routine.Name, len(m.Logs))
}

// DoneFailedMsg reports a mark-done effect that did not fully persist. The
// optimistic in-memory stamp is left as-is.
type DoneFailedMsg struct {
	Component ComponentID
	RoutineID string
	Err       error
}

// Describe implements the logging helper.
func (m DoneFailedMsg) Describe() string {
	return fmt.Sprintf(`routine:%q err:%q`, m.RoutineID, m.Err)
}

// EditSavedMsg reports a persisted edit.
type EditSavedMsg struct {
	Component ComponentID
	Routine   *routine.Routine
}

// Describe implements the logging helper.
func (m EditSavedMsg) Describe() string {
	if m.Routine == nil {
		return `routine:""`
	}
	return fmt.Sprintf(`routine:%q interval:%d`, m.Routine.Name, m.Routine.Interval)
}

// EditSaveFailedMsg reports an edit that did not persist.
type EditSaveFailedMsg struct {
	Component ComponentID
	RoutineID string
	Err       error
}

// Describe implements the logging helper.
func (m EditSaveFailedMsg) Describe() string {
	return fmt.Sprintf(`routine:%q err:%q`, m.RoutineID, m.Err)
}

// RoutineDeletedMsg reports that a routine, its logs, and its reminder are
// gone from the store.
type RoutineDeletedMsg struct {
	Component ComponentID
	RoutineID string
}

// Describe implements the logging helper.
func (m RoutineDeletedMsg) Describe() string {
	return fmt.Sprintf(`routine:%q`, m.RoutineID)
}

// BackMsg asks the app to return from the detail view to the list.
type BackMsg struct {
	Component ComponentID
}

// BackCmd wraps BackMsg in a tea.Cmd.
func BackCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return BackMsg{Component: component}
	}
}

// FocusMsg indicates a component just gained focus.
type FocusMsg struct {
	Component ComponentID
}

// BlurMsg indicates a component just lost focus.
type BlurMsg struct {
	Component ComponentID
}

// FocusCmd wraps a FocusMsg in a tea.Cmd helper.
func FocusCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return FocusMsg{Component: component}
	}
}

// BlurCmd wraps a BlurMsg in a tea.Cmd helper.
func BlurCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return BlurMsg{Component: component}
	}
}

// DebugMsg captures optional diagnostic notes emitted by components.
type DebugMsg struct {
	Component ComponentID
	Context   string
	Detail    string
}

// Describe renders the debug message in a human-readable format.
func (m DebugMsg) Describe() string {
	return fmt.Sprintf(`component:%q context:%q detail:%q`, m.Component, m.Context, m.Detail)
}

// DebugCmd wraps DebugMsg creation in a tea.Cmd helper.
func DebugCmd(component ComponentID, context, detail string) tea.Cmd {
	return func() tea.Msg {
		return DebugMsg{Component: component, Context: context, Detail: detail}
	}
}
