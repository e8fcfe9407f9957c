package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/cadence/pkg/clock"
	"tableflip.dev/cadence/pkg/notify"
	"tableflip.dev/cadence/pkg/runner/remind"
	"tableflip.dev/cadence/pkg/store"
)

func addRemind(topLevel *cobra.Command) {
	dueOnly := false

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Show scheduled reminders",
		Example: `
cadence remind
cadence remind --due
`,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return err
			}
			clk := clock.System{}
			sched, err := notify.Load(cfg, clk)
			if err != nil {
				return err
			}
			s := remind.Remind{
				DueOnly:   dueOnly,
				Scheduler: sched,
				Clock:     clk,
			}
			return s.Do(context.Background())
		},
	}

	cmd.Flags().BoolVar(&dueOnly, "due", false, "Only show reminders that are due now.")

	topLevel.AddCommand(cmd)
}
