package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/cadence/pkg/commands/options"
	"tableflip.dev/cadence/pkg/runner/done"
)

func addDone(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "done",
		Aliases: []string{"complete", "did"},
		Short:   "Mark a routine done now",
		Example: `
cadence done <routine id>
`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a routine id")
			}
			io.ID = strings.Join(args, " ")
			return nil
		},

		RunE: func(_ *cobra.Command, _ []string) error {
			svc, err := loadService()
			if err != nil {
				return err
			}
			s := done.Done{
				ID:      io.ID,
				Service: svc,
				ShowID:  oo.ShowID,
			}
			return s.Do(context.Background())
		},
	}

	options.AddOutputArgs(cmd, oo)

	topLevel.AddCommand(cmd)
}
