// Package commands wires the cadence CLI.
package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/cadence/pkg/app"
	"tableflip.dev/cadence/pkg/clock"
	"tableflip.dev/cadence/pkg/notify"
	"tableflip.dev/cadence/pkg/store"
)

// New builds the root cadence command.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cadence",
		Short: base.Wrap80("Track recurring routines and see which are due."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

// AddCommands registers every subcommand on topLevel.
func AddCommands(topLevel *cobra.Command) {
	addAdd(topLevel)
	addGet(topLevel)
	addDone(topLevel)
	addEdit(topLevel)
	addRemove(topLevel)
	addLogs(topLevel)
	addRemind(topLevel)
	addUI(topLevel)
	addVersion(topLevel)
}

// loadService builds the shared service from the ambient config.
func loadService() (*app.Service, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	p, err := store.Load(cfg)
	if err != nil {
		return nil, err
	}
	clk := clock.System{}
	sched, err := notify.Load(cfg, clk)
	if err != nil {
		return nil, err
	}
	return &app.Service{
		Persistence: p,
		Scheduler:   sched,
		Clock:       clk,
	}, nil
}
