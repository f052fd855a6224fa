package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"thinline/internal/discovery"
)

// FmtCommand prints the canonical form of every test case
type FmtCommand struct {
	env    *Env
	filter *discovery.Filter
}

// NewFmtCommand creates a new FmtCommand
func NewFmtCommand(env *Env) *FmtCommand {
	return &FmtCommand{
		env:    env,
		filter: discovery.NewFilter(),
	}
}

// Execute runs the command
func (fc *FmtCommand) Execute(cmd *cobra.Command, args []string) error {
	res, err := fc.env.Collect(commandContext(cmd))
	if err != nil {
		return err
	}

	entries := fc.filter.FilterEntries(res.Registry.Entries(), fc.env.Config.Flags.CaseFilter)
	if len(entries) == 0 {
		color.New(color.FgYellow).Fprintln(fc.env.Out, "No annotated functions found")
		return nil
	}
	fc.env.Formatter().PrintFormatted(entries)
	return nil
}
