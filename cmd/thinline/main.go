package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"thinline/internal/cli"
	"thinline/internal/cli/commands"
	"thinline/internal/execution"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:           "thinline",
		Short:         "Inline test case runner",
		Long:          `Thinline discovers #TL_TESTCASE blocks in the documentation of Python, C and C++ functions, validates them and evaluates their checks in parallel.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(commands.NewEnv(), execution.NewNativeRunner())

	// Register all commands
	cmds.Register(rootCmd, &flags)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute root command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
