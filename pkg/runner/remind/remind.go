// Package remind provides the runner logic for inspecting the reminder queue.
package remind

import (
	"context"
	"errors"

	"tableflip.dev/cadence/pkg/clock"
	"tableflip.dev/cadence/pkg/notify"
	"tableflip.dev/cadence/pkg/printers"
)

// Remind lists scheduled reminders, optionally narrowing to the ones due.
type Remind struct {
	DueOnly   bool
	Scheduler notify.Scheduler
	Clock     clock.Clock
}

// Do executes the reminder listing.
func (n *Remind) Do(ctx context.Context) error {
	if n.Scheduler == nil {
		return errors.New("can not remind, no scheduler")
	}
	clk := n.Clock
	if clk == nil {
		clk = clock.System{}
	}
	now := clk.Now()

	reminders := n.Scheduler.Pending(ctx)
	if n.DueOnly {
		due := reminders[:0]
		for _, rem := range reminders {
			if rem.Due(now) && !rem.Delivered {
				due = append(due, rem)
			}
		}
		reminders = due
	}

	pp := printers.PrettyPrint{}
	pp.NewLine()
	if n.DueOnly {
		pp.Title("Due reminders")
	} else {
		pp.Title("Reminders")
	}
	pp.Reminders(now, reminders...)
	return nil
}
