// Package edit provides the runner logic for updating routine fields.
package edit

import (
	"context"
	"errors"
	"strings"

	"tableflip.dev/cadence/pkg/app"
	"tableflip.dev/cadence/pkg/printers"
	"tableflip.dev/cadence/pkg/urgency"
)

// Edit updates a routine's name, emoji, and interval. LastDone and the log
// trail are never touched. Fields left empty keep their current value.
type Edit struct {
	ID       string
	Name     string
	Emoji    string
	Interval int // 0 keeps the current interval
	Service  *app.Service
	ShowID   bool
}

// Do executes the edit for the configured routine id.
func (n *Edit) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not edit, no service")
	}

	current, err := n.Service.Routine(ctx, n.ID)
	if err != nil {
		return err
	}

	name := strings.TrimSpace(n.Name)
	if name == "" {
		name = current.Name
	}
	emoji := n.Emoji
	if strings.TrimSpace(emoji) == "" {
		emoji = current.Emoji
	}
	days := n.Interval
	if days == 0 {
		days = current.Interval
	}

	r, err := n.Service.Edit(ctx, current.ID, name, emoji, days)
	if err != nil {
		return err
	}

	logs, _ := n.Service.Logs(ctx, r.ID)

	pp := printers.PrettyPrint{ShowID: n.ShowID}
	pp.NewLine()
	pp.Title("Updated")
	pp.Routines(urgency.Derive(r, logs, n.Service.Clock.Now()))
	return nil
}
