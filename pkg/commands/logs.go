package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/cadence/pkg/commands/options"
	"tableflip.dev/cadence/pkg/runner/logs"
)

func addLogs(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "logs",
		Aliases: []string{"history"},
		Short:   "Show a routine's completion trail",
		Example: `
cadence logs <routine id>
`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a routine id")
			}
			io.ID = args[0]
			return nil
		},

		RunE: func(_ *cobra.Command, _ []string) error {
			svc, err := loadService()
			if err != nil {
				return err
			}
			s := logs.Logs{
				ID:      io.ID,
				Service: svc,
			}
			return s.Do(context.Background())
		},
	}

	topLevel.AddCommand(cmd)
}
