package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ErrInvalidAnnotations is returned by check when any annotation is broken
var ErrInvalidAnnotations = errors.New("invalid annotations found")

// CheckCommand validates annotations without evaluating them
type CheckCommand struct {
	env *Env
}

// NewCheckCommand creates a new CheckCommand
func NewCheckCommand(env *Env) *CheckCommand {
	return &CheckCommand{env: env}
}

// Execute runs the command
func (cc *CheckCommand) Execute(cmd *cobra.Command, args []string) error {
	res, err := cc.env.Collect(commandContext(cmd))
	if err != nil {
		return err
	}

	fmt.Fprintf(cc.env.Out, "%d file(s), %d annotated function(s), %d test case(s)\n",
		len(res.Files), res.Registry.Len(), res.Registry.CaseCount())
	cc.env.Formatter().PrintDiagnostics(res.Diagnostics)

	if len(res.Diagnostics) > 0 {
		return fmt.Errorf("%w: %d function(s)", ErrInvalidAnnotations, len(res.Diagnostics))
	}
	return nil
}
