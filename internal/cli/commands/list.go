package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"thinline/internal/discovery"
	"thinline/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	env    *Env
	filter *discovery.Filter
}

// NewListCommand creates a new ListCommand
func NewListCommand(env *Env) *ListCommand {
	return &ListCommand{
		env:    env,
		filter: discovery.NewFilter(),
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	res, err := lc.env.Collect(commandContext(cmd))
	if err != nil {
		return err
	}

	entries := lc.filter.FilterEntries(res.Registry.Entries(), lc.env.Config.Flags.CaseFilter)
	if len(entries) == 0 {
		color.New(color.FgYellow).Fprintln(lc.env.Out, "No annotated functions found")
		return nil
	}

	// Mark cases that failed in the last run, if there is one
	var failed map[string]struct{}
	if last, err := lc.env.Storage().Load(); err == nil {
		failed = ui.FailedCaseIDs(last)
	}

	formatter := lc.env.Formatter()
	formatter.PrintFunctionList(entries, lc.env.Config.Flags.TestCases, failed)
	if len(res.Diagnostics) > 0 {
		formatter.PrintDiagnostics(res.Diagnostics)
	}
	return nil
}
