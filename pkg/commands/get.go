package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/cadence/pkg/commands/options"
	"tableflip.dev/cadence/pkg/runner/get"
)

func addGet(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "get",
		Aliases: []string{"list", "ls"},
		Short:   "List routines by urgency",
		Example: `
cadence get
cadence get --show-ids
`,
		RunE: func(_ *cobra.Command, _ []string) error {
			svc, err := loadService()
			if err != nil {
				return err
			}
			s := get.Get{
				Service: svc,
				ShowID:  oo.ShowID,
			}
			return s.Do(context.Background())
		},
	}

	options.AddOutputArgs(cmd, oo)

	topLevel.AddCommand(cmd)
}
