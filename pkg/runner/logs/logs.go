// Package logs provides the runner logic for printing completion trails.
package logs

import (
	"context"
	"errors"

	"tableflip.dev/cadence/pkg/app"
	"tableflip.dev/cadence/pkg/printers"
)

// Logs prints a routine's completion log, newest first.
type Logs struct {
	ID      string
	Service *app.Service
}

// Do executes the log listing for the configured routine id.
func (n *Logs) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not list logs, no service")
	}

	r, err := n.Service.Routine(ctx, n.ID)
	if err != nil {
		return err
	}
	trail, err := n.Service.Logs(ctx, r.ID)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{}
	pp.NewLine()
	pp.Title(r.Emoji + " " + r.Name)
	pp.Logs(trail...)
	return nil
}
