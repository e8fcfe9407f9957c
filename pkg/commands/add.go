package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/cadence/pkg/commands/options"
	"tableflip.dev/cadence/pkg/interval"
	"tableflip.dev/cadence/pkg/runner/add"
)

func addAdd(topLevel *cobra.Command) {
	ro := &options.RoutineOptions{}
	oo := &options.OutputOptions{}
	name := ""

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a routine",
		Example: `
cadence add "Water the plants" --every 3d --emoji 🪴
`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a routine name")
			}
			name = strings.Join(args, " ")
			return nil
		},

		RunE: func(_ *cobra.Command, _ []string) error {
			days := 1
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
			s := add.Add{
				Name:     name,
				Emoji:    ro.Emoji,
				Interval: days,
				Service:  svc,
				ShowID:   oo.ShowID,
			}
			return s.Do(context.Background())
		},
	}

	options.AddRoutineArgs(cmd, ro)
	options.AddOutputArgs(cmd, oo)

	topLevel.AddCommand(cmd)
}
