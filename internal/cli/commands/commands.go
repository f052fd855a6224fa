package commands

import (
	"github.com/spf13/cobra"

	"thinline/internal/cli"
	"thinline/internal/config"
	"thinline/internal/execution"
)

// Commands holds all CLI commands
type Commands struct {
	Env     *Env
	Run     *RunCommand
	List    *ListCommand
	Check   *CheckCommand
	Fmt     *FmtCommand
	Faills  *FaillsCommand
	History *HistoryCommand
	Migrate *MigrateCommand
}

// NewCommands creates all commands sharing env. Bindings on native are used
// to evaluate functions in process
func NewCommands(env *Env, native *execution.NativeRunner) *Commands {
	return &Commands{
		Env:     env,
		Run:     NewRunCommand(env, native),
		List:    NewListCommand(env),
		Check:   NewCheckCommand(env),
		Fmt:     NewFmtCommand(env),
		Faills:  NewFaillsCommand(env),
		History: NewHistoryCommand(env),
		Migrate: NewMigrateCommand(env),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags) {
	rootCmd.PersistentFlags().StringVar(&flags.ProjectPath, "project", config.DefaultProjectPath, "Project root holding thinline.yml and .env")
	rootCmd.PersistentFlags().StringVar(&flags.ProjectFile, "config", "", "Project file (default <project>/"+config.DefaultProjectFile+")")
	rootCmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return c.Env.Load(flags)
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		_ = c.Env.Logger.Sync()
	}

	// Run command
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate annotated test cases in parallel",
		Long:  "Discover #TL_TESTCASE blocks and evaluate every check using parallel workers",
		Args:  cobra.NoArgs,
		RunE:  c.Run.Execute,
	}
	runCmd.Flags().IntVarP(&flags.Processors, "processors", "p", 0, "Number of processors to use (default from project file, then 4)")
	runCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to the folder where discovery should start")
	runCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter source files by name pattern (supports wildcards, e.g., '*.py' or '*math*')")
	runCmd.Flags().StringVarP(&flags.CaseFilter, "case", "k", "", "Filter by function name or case ID (supports wildcards, e.g., 'geo.*' or '*::smoke')")
	runCmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Stop on first failed check")
	runCmd.Flags().BoolVar(&flags.OpenFaills, "open-faills", false, "Open the faills viewer when the run finishes with failures")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List annotated functions",
		Long:  "Scan and list all annotated functions without evaluating them",
		Args:  cobra.NoArgs,
		RunE:  c.List.Execute,
	}
	listCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter source files by name pattern (supports wildcards, e.g., '*.py' or '*math*')")
	listCmd.Flags().StringVarP(&flags.CaseFilter, "case", "k", "", "Filter by function name or case ID")
	listCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to the folder where discovery should start")
	listCmd.Flags().BoolVarP(&flags.TestCases, "test-cases", "c", false, "List test cases under each function")
	rootCmd.AddCommand(listCmd)

	// Check command
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Validate annotations",
		Long:  "Parse every annotation and report malformed blocks, unknown arguments and duplicate case IDs",
		Args:  cobra.NoArgs,
		RunE:  c.Check.Execute,
	}
	checkCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter source files by name pattern")
	checkCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to the folder where discovery should start")
	rootCmd.AddCommand(checkCmd)

	// Fmt command
	fmtCmd := &cobra.Command{
		Use:   "fmt",
		Short: "Print test cases in canonical form",
		Long:  "Render every registered test case back into its canonical annotation text",
		Args:  cobra.NoArgs,
		RunE:  c.Fmt.Execute,
	}
	fmtCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter source files by name pattern")
	fmtCmd.Flags().StringVarP(&flags.CaseFilter, "case", "k", "", "Filter by function name or case ID")
	fmtCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to the folder where discovery should start")
	rootCmd.AddCommand(fmtCmd)

	// Faills command
	faillsCmd := &cobra.Command{
		Use:   "faills",
		Short: "View failed checks interactively",
		Long:  "Display failed checks from the last run in an interactive viewer",
		Args:  cobra.NoArgs,
		RunE:  c.Faills.Execute,
	}
	rootCmd.AddCommand(faillsCmd)

	// History command
	historyCmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded runs",
		Long:  "List runs recorded in the history database, or the failures of a single run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.History.Execute,
	}
	historyCmd.Flags().IntVarP(&flags.HistoryLimit, "limit", "n", config.DefaultHistoryLimit, "Number of runs to show")
	rootCmd.AddCommand(historyCmd)

	// Migrate command
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the run history database",
		Long:  "Create or upgrade the schema of the configured sqlite or mysql history database",
		Args:  cobra.NoArgs,
		RunE:  c.Migrate.Execute,
	}
	rootCmd.AddCommand(migrateCmd)
}
