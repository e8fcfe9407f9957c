// Package remove provides the runner logic for deleting routines.
package remove

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/cadence/pkg/app"
)

// Remove deletes routines, their logs, and any pending reminders.
type Remove struct {
	IDs     []string
	Service *app.Service
}

// Do executes the delete for every configured id.
func (n *Remove) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not remove, no service")
	}
	if len(n.IDs) == 0 {
		return errors.New("requires at least one routine id")
	}

	f := color.New(color.Faint)
	for _, id := range n.IDs {
		r, err := n.Service.Routine(ctx, id)
		if err != nil {
			return fmt.Errorf("remove %s: %w", id, err)
		}
		if err := n.Service.Delete(ctx, r.ID); err != nil {
			return fmt.Errorf("remove %s: %w", id, err)
		}
		_, _ = f.Printf("removed %s %s\n", r.Emoji, r.Name)
	}
	return nil
}
