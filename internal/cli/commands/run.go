package commands

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"thinline/internal/config"
	"thinline/internal/discovery"
	"thinline/internal/domain"
	"thinline/internal/execution"
	"thinline/internal/ui"
)

// ErrChecksFailed is returned by run when at least one check failed
var ErrChecksFailed = errors.New("checks failed")

// RunCommand handles the run command
type RunCommand struct {
	env    *Env
	filter *discovery.Filter
	native *execution.NativeRunner
	parser *execution.OutcomeParser
	viewer func(*Env, *domain.RunOutput) error
}

// NewRunCommand creates a new RunCommand. Functions bound on native are
// evaluated in process; Python functions go through the interpreter
func NewRunCommand(env *Env, native *execution.NativeRunner) *RunCommand {
	return &RunCommand{
		env:    env,
		filter: discovery.NewFilter(),
		native: native,
		parser: execution.NewOutcomeParser(),
		viewer: func(env *Env, output *domain.RunOutput) error {
			return ui.NewErrorViewer(env.Storage()).View(output)
		},
	}
}

func (rc *RunCommand) executor() *execution.WorkerPool {
	cfg := rc.env.Config

	dispatcher := execution.NewDispatcher(rc.native)
	dispatcher.Register(domain.LanguagePython, execution.NewPythonRunner(cfg.Python, cfg.ProjectPath))
	evaluator := execution.NewEvaluator(dispatcher, config.DefaultCheckTimeout)

	return execution.NewWorkerPool(cfg.Processors, evaluator, execution.NewRoundRobinScheduler(), rc.env.Logger)
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	cfg := rc.env.Config
	formatter := rc.env.Formatter()

	// Discover annotated functions
	res, err := rc.env.Collect(ctx)
	if err != nil {
		return err
	}
	if len(res.Diagnostics) > 0 {
		formatter.PrintDiagnostics(res.Diagnostics)
		fmt.Fprintln(rc.env.Out)
	}

	entries := rc.filter.FilterEntries(res.Registry.Entries(), cfg.Flags.CaseFilter)
	jobs := execution.JobsFor(entries)
	if len(jobs) == 0 {
		color.New(color.FgYellow).Fprintln(rc.env.Out, "No checks to evaluate")
		return nil
	}

	// Create and set progress bar
	executor := rc.executor()
	executor.SetProgress(ui.NewProgressBar(len(jobs)))

	// Evaluate checks
	results, duration, err := executor.ExecuteWithOptions(ctx, jobs, cfg.Flags.FailFast)
	if err != nil {
		return err
	}

	output := rc.parser.BuildOutput(uuid.NewString(), jobs, results, duration, executor.Workers())

	// Save results
	if err := rc.env.Storage().Save(&output); err != nil {
		return fmt.Errorf("failed to save check results: %w", err)
	}
	if cfg.HistoryEnabled() {
		if err := rc.record(cmd, &output); err != nil {
			return err
		}
	}

	// Print stats
	formatter.PrintMetaStats(&output)

	if output.Meta.FailedChecks == 0 {
		return nil
	}
	if cfg.Flags.OpenFaills {
		if err := rc.viewer(rc.env, &output); err != nil {
			return err
		}
	}
	return fmt.Errorf("%w: %d of %d", ErrChecksFailed, output.Meta.FailedChecks, output.Meta.TotalChecks)
}

func (rc *RunCommand) record(cmd *cobra.Command, output *domain.RunOutput) error {
	ctx := commandContext(cmd)
	history, err := rc.env.OpenHistory(ctx)
	if err != nil {
		return err
	}
	defer history.Close()

	if err := history.Record(ctx, output); err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	rc.env.Logger.Debug("run recorded", zap.String("run_id", output.Meta.RunID))
	return nil
}
