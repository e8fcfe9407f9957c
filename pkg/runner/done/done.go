// Package done provides the runner logic for marking routines complete.
package done

import (
	"context"
	"errors"

	"tableflip.dev/cadence/pkg/app"
	"tableflip.dev/cadence/pkg/printers"
	"tableflip.dev/cadence/pkg/urgency"
)

// Done marks a routine as completed now.
type Done struct {
	ID      string
	Service *app.Service
	ShowID  bool
}

// Do executes the completion for the configured routine id.
func (n *Done) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not complete, no service")
	}

	r, l, err := n.Service.MarkDone(ctx, n.ID)
	if err != nil {
		return err
	}

	logs, err := n.Service.Logs(ctx, r.ID)
	if err != nil {
		logs = nil
	}
	if logs == nil && l != nil {
		logs = append(logs, l)
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID}
	pp.NewLine()
	pp.Title("Done")
	pp.Routines(urgency.Derive(r, logs, n.Service.Clock.Now()))
	return nil
}
