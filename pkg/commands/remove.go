package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/cadence/pkg/commands/options"
	"tableflip.dev/cadence/pkg/runner/remove"
)

func addRemove(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "remove",
		Aliases: []string{"rm", "delete"},
		Short:   "Delete routines and their logs",
		Example: `
cadence remove <routine id> [<routine id>...]
`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires at least one routine id")
			}
			io.IDs = args
			return nil
		},

		RunE: func(_ *cobra.Command, _ []string) error {
			svc, err := loadService()
			if err != nil {
				return err
			}
			s := remove.Remove{
				IDs:     io.IDs,
				Service: svc,
			}
			return s.Do(context.Background())
		},
	}

	topLevel.AddCommand(cmd)
}
