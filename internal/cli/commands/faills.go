package commands

import (
	"github.com/spf13/cobra"

	"thinline/internal/ui"
)

// FaillsCommand handles the faills command
type FaillsCommand struct {
	env *Env
}

// NewFaillsCommand creates a new FaillsCommand
func NewFaillsCommand(env *Env) *FaillsCommand {
	return &FaillsCommand{env: env}
}

// Execute runs the command
func (fc *FaillsCommand) Execute(cmd *cobra.Command, args []string) error {
	st := fc.env.Storage()
	results, err := st.Load()
	if err != nil {
		return err
	}

	return ui.NewErrorViewer(st).View(results)
}
