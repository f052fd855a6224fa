package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// MigrateCommand brings the run history schema up to date
type MigrateCommand struct {
	env *Env
}

// NewMigrateCommand creates a new MigrateCommand
func NewMigrateCommand(env *Env) *MigrateCommand {
	return &MigrateCommand{env: env}
}

// Execute runs the command
func (mc *MigrateCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	// OpenHistory applies pending migrations
	history, err := mc.env.OpenHistory(ctx)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	defer history.Close()

	version, err := history.Version(ctx)
	if err != nil {
		return err
	}
	mc.env.Logger.Debug("history migrated",
		zap.String("driver", mc.env.Config.DatabaseDriver),
		zap.Int("version", version),
	)
	color.New(color.FgGreen).Fprintf(mc.env.Out, "✓ %s history schema at version %d\n", mc.env.Config.DatabaseDriver, version)
	return nil
}
