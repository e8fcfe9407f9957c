package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/cadence/pkg/commands/options"
	"tableflip.dev/cadence/pkg/interval"
	"tableflip.dev/cadence/pkg/runner/edit"
)

func addEdit(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	ro := &options.RoutineOptions{}
	oo := &options.OutputOptions{}
	name := ""

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Update a routine's name, emoji, or interval",
		Example: `
cadence edit <routine id> --name "Read fiction" --every 2w
`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a routine id")
			}
			io.ID = args[0]
			return nil
		},

		RunE: func(_ *cobra.Command, _ []string) error {
			days := 0
			if ro.Every != "" {
				parsed, err := interval.Parse(ro.Every)
				if err != nil {
					return err
				}
				days = parsed
			}
			svc, err := loadService()
			if err != nil {
				return err
			}
			s := edit.Edit{
				ID:       io.ID,
				Name:     name,
				Emoji:    ro.Emoji,
				Interval: days,
				Service:  svc,
				ShowID:   oo.ShowID,
			}
			return s.Do(context.Background())
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "New display name.")
	options.AddRoutineArgs(cmd, ro)
	options.AddOutputArgs(cmd, oo)

	topLevel.AddCommand(cmd)
}
