package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"thinline/internal/cli"
	"thinline/internal/config"
	"thinline/internal/discovery"
	"thinline/internal/domain"
	"thinline/internal/logging"
	"thinline/internal/storage"
	"thinline/internal/ui"
)

// ErrHistoryDisabled is returned by commands that need a history database
// when none is configured
var ErrHistoryDisabled = errors.New("run history is disabled (set database.dsn in the project file or THINLINE_DB_DSN)")

// Env carries the state shared by all commands. It is filled by Load before
// a command runs
type Env struct {
	Config *config.Config
	Logger *zap.Logger
	Out    io.Writer
}

// NewEnv creates an Env with the default configuration writing to stdout
func NewEnv() *Env {
	return &Env{
		Config: config.New(),
		Logger: logging.Nop(),
		Out:    os.Stdout,
	}
}

// Load resolves the configuration for flags and builds the logger
func (e *Env) Load(flags *cli.Flags) error {
	cfg, err := flags.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(flags.Verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	e.Config = cfg
	e.Logger = logger
	return nil
}

// Collector builds a collector for the configured project
func (e *Env) Collector() *discovery.Collector {
	return discovery.NewCollector(e.Config.PathsToIgnore, domain.Language(e.Config.Language), e.Config.Processors, e.Logger)
}

// Collect discovers and registers every annotated function under the scan
// roots, honouring the file name filter
func (e *Env) Collect(ctx context.Context) (*discovery.Result, error) {
	res, err := e.Collector().Collect(ctx, e.Config.GetScanRoots(), e.Config.Flags.NameFilter)
	if err != nil {
		return nil, err
	}
	e.Logger.Info("collected annotations",
		zap.Int("files", len(res.Files)),
		zap.Int("functions", res.Registry.Len()),
		zap.Int("cases", res.Registry.CaseCount()),
		zap.Int("diagnostics", len(res.Diagnostics)),
	)
	return res, nil
}

// Formatter returns a formatter writing to the env output
func (e *Env) Formatter() *ui.Formatter {
	return ui.NewFormatter(e.Config, e.Out)
}

// Storage returns the JSON storage of the last run
func (e *Env) Storage() *storage.JSONStorage {
	return storage.NewJSONStorage(e.Config)
}

// OpenHistory opens the run history database
func (e *Env) OpenHistory(ctx context.Context) (*storage.SQLStorage, error) {
	if !e.Config.HistoryEnabled() {
		return nil, ErrHistoryDisabled
	}
	return storage.OpenSQL(ctx, e.Config.DatabaseDriver, e.Config.GetDatabaseDSN())
}

func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}
