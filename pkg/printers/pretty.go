// Package printers renders routines, logs, and reminders for the CLI. The
// urgency tier to color mapping lives here, at the presentation boundary; the
// engine itself only ever reports tiers.
package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/cadence/pkg/interval"
	"tableflip.dev/cadence/pkg/notify"
	"tableflip.dev/cadence/pkg/routine"
	"tableflip.dev/cadence/pkg/urgency"
)

type PrettyPrint struct {
	ShowID bool
}

var (
	spacing = strings.Repeat(" ", len("171dff69  "))

	tierColors = map[urgency.Tier]*color.Color{
		urgency.Low:    color.New(color.FgGreen),
		urgency.Medium: color.New(color.FgYellow),
		urgency.High:   color.New(color.FgRed),
	}
)

func (pp *PrettyPrint) NewLine() {
	fmt.Println("")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = t.Print(spacing)
	}
	_, _ = t.Println(title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = t.Print(spacing)
	}
	_, _ = t.Print(title)
	_, _ = c.Printf(" - %d", count)

	switch count {
	case 1:
		_, _ = c.Println(" routine")
	default:
		_, _ = c.Println(" routines")
	}
}

// Routines prints derived rows in the order given (callers sort).
func (pp *PrettyPrint) Routines(rows ...urgency.Row) {
	if len(rows) == 0 {
		f := color.New(color.Faint, color.Italic)
		if pp.ShowID {
			_, _ = f.Print(spacing)
		}
		_, _ = f.Print(" none\n\n")
		return
	}

	t := color.New()
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	f := color.New(color.Faint)

	for _, row := range rows {
		if pp.ShowID {
			id := shortID(row.Routine.ID)
			_, _ = y.Print(id)
			_, _ = y.Print(strings.Repeat(" ", len(spacing)-len(id)))
		}
		tc := tierColors[row.Tier]
		_, _ = t.Printf("%s %s  ", row.Routine.Emoji, row.Routine.Name)
		_, _ = tc.Print(describe(row))
		_, _ = f.Printf("  every %s", interval.Format(row.Routine.Interval))
		_, _ = t.Println("")
	}
	_, _ = t.Println("")
}

// Logs prints a completion trail, newest first.
func (pp *PrettyPrint) Logs(logs ...*routine.Log) {
	if len(logs) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Print(" no completions yet\n\n")
		return
	}
	table := uitable.New()
	table.AddRow("WHEN", "LOG")
	for _, l := range logs {
		table.AddRow(l.Timestamp.Local().Format("Mon Jan 2 15:04"), shortID(l.ID))
	}
	fmt.Println(table)
	fmt.Println("")
}

// Reminders prints pending reminders, flagging the ones already due.
func (pp *PrettyPrint) Reminders(now time.Time, reminders ...notify.Reminder) {
	if len(reminders) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Print(" nothing scheduled\n\n")
		return
	}
	table := uitable.New()
	table.AddRow("ROUTINE", "TRIGGERS", "STATE")
	for _, rem := range reminders {
		state := "pending"
		if rem.Delivered {
			state = "delivered"
		} else if rem.Due(now) {
			state = "due"
		}
		name := rem.Name
		if name == "" {
			name = shortID(rem.ID)
		}
		table.AddRow(name, rem.TriggerAt.Local().Format("Mon Jan 2 15:04"), state)
	}
	fmt.Println(table)
	fmt.Println("")
}

func describe(row urgency.Row) string {
	switch {
	case row.DoneToday:
		return "done today"
	case row.Overdue == 1:
		return "1 day overdue"
	case row.Overdue > 1:
		return fmt.Sprintf("%d days overdue", row.Overdue)
	case row.Routine.LastDone == nil:
		return "never done"
	default:
		return fmt.Sprintf("last done %dd ago", row.DaysSince)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
