// Package add provides the runner logic for creating routines.
package add

import (
	"context"
	"errors"

	"tableflip.dev/cadence/pkg/app"
	"tableflip.dev/cadence/pkg/printers"
	"tableflip.dev/cadence/pkg/urgency"
)

// Add creates a new routine from CLI input.
type Add struct {
	Name     string
	Emoji    string
	Interval int
	Service  *app.Service
	ShowID   bool
}

// Do executes the create operation and prints the resulting routine.
func (n *Add) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not add, no service")
	}

	r, err := n.Service.Create(ctx, n.Name, n.Emoji, n.Interval)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID}
	pp.NewLine()
	pp.Title("Added")
	pp.Routines(urgency.Derive(r, nil, n.Service.Clock.Now()))
	return nil
}
