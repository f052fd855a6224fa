package commands

import (
	"github.com/spf13/cobra"

	"thinline/internal/config"
)

// HistoryCommand lists recorded runs, or the failures of one run
type HistoryCommand struct {
	env *Env
}

// NewHistoryCommand creates a new HistoryCommand
func NewHistoryCommand(env *Env) *HistoryCommand {
	return &HistoryCommand{env: env}
}

// Execute runs the command
func (hc *HistoryCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	history, err := hc.env.OpenHistory(ctx)
	if err != nil {
		return err
	}
	defer history.Close()

	formatter := hc.env.Formatter()
	if len(args) == 1 {
		failures, err := history.Failures(ctx, args[0])
		if err != nil {
			return err
		}
		formatter.PrintFailures(args[0], failures)
		return nil
	}

	limit := hc.env.Config.Flags.HistoryLimit
	if limit <= 0 {
		limit = config.DefaultHistoryLimit
	}
	runs, err := history.Runs(ctx, limit)
	if err != nil {
		return err
	}
	formatter.PrintHistory(runs)
	return nil
}
