package commands

import (
	"github.com/spf13/cobra"

	teaui "tableflip.dev/cadence/pkg/tui/app"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "ui",
		Aliases: []string{"tui"},
		Short:   "Open the interactive routine tracker",
		Example: `
cadence ui
`,
		RunE: func(_ *cobra.Command, _ []string) error {
			svc, err := loadService()
			if err != nil {
				return err
			}
			return teaui.Run(svc)
		},
	}

	topLevel.AddCommand(cmd)
}
