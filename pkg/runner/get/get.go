// Package get provides the runner logic for listing routines.
package get

import (
	"context"
	"errors"

	"tableflip.dev/cadence/pkg/app"
	"tableflip.dev/cadence/pkg/printers"
)

// Get lists all routines with their derived urgency, most urgent first.
type Get struct {
	Service *app.Service
	ShowID  bool
}

// Do executes the list operation.
func (n *Get) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not get, no service")
	}

	rows, err := n.Service.Rows(ctx)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID}
	pp.NewLine()
	pp.TitleWithCount("Routines", len(rows))
	pp.Routines(rows...)
	return nil
}
