package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath  string
	TestPath     string
	AnalysisDirs []string
	Language     string

	// Output settings
	OutputJSONFile string
	OutputJSONDir  string

	// Execution settings
	Processors int
	Python     string

	// Run history, disabled when DatabaseDSN is empty
	DatabaseDriver string
	DatabaseDSN    string

	// Paths to ignore when scanning
	PathsToIgnore []string

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	Processors   int
	TestPath     string
	NameFilter   string
	CaseFilter   string
	TestCases    bool
	FailFast     bool
	OpenFaills   bool
	Verbose      bool
	HistoryLimit int
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath:    DefaultProjectPath,
		TestPath:       DefaultTestPath,
		OutputJSONFile: DefaultOutputJSONFile,
		OutputJSONDir:  DefaultOutputJSONDir,
		Processors:     DefaultProcessors,
		Python:         DefaultPython,
		DatabaseDriver: DefaultDatabaseDriver,
		Flags:          Flags{Processors: DefaultProcessors},
	}
	// Copy default paths to ignore
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// Load creates a config for projectPath: defaults, then the project file,
// then .env and THINLINE_* variables, then flags
func Load(projectPath, projectFile string, flags Flags) (*Config, error) {
	cfg := New()
	if projectPath != "" {
		cfg.ProjectPath = projectPath
	}

	if err := cfg.ApplyProjectFile(projectFile); err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	cfg.ApplyFlags(flags)
	return cfg, nil
}

// ApplyEnv loads the project's .env file, if any, and applies THINLINE_*
// overrides
func (c *Config) ApplyEnv() {
	// .env file might not exist, that's okay - use environment variables
	_ = godotenv.Load(filepath.Join(c.ProjectPath, ".env"))

	if v := os.Getenv("THINLINE_PYTHON"); v != "" {
		c.Python = v
	}
	if v := os.Getenv("THINLINE_DB_DRIVER"); v != "" {
		c.DatabaseDriver = v
	}
	if v := os.Getenv("THINLINE_DB_DSN"); v != "" {
		c.DatabaseDSN = v
	}
	if v := os.Getenv("THINLINE_PROCESSORS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Processors = n
		}
	}
}

// ApplyFlags stores the flags and applies the overrides they carry
func (c *Config) ApplyFlags(flags Flags) {
	c.Flags = flags
	if flags.Processors > 0 {
		c.Processors = flags.Processors
	}
}

// GetTestPath returns the path discovery starts from, using flag if provided
func (c *Config) GetTestPath() string {
	if c.Flags.TestPath != "" {
		// If TestPath is provided, make it relative to ProjectPath if it's not absolute
		if filepath.IsAbs(c.Flags.TestPath) {
			return c.Flags.TestPath
		}
		return filepath.Join(c.ProjectPath, c.Flags.TestPath)
	}

	// Default: combine project path and test path
	return filepath.Join(c.ProjectPath, c.TestPath)
}

// GetScanRoots returns the directories discovery walks. An explicit test path
// flag wins over the analysis dirs of the project file
func (c *Config) GetScanRoots() []string {
	if c.Flags.TestPath != "" || len(c.AnalysisDirs) == 0 {
		return []string{c.GetTestPath()}
	}
	roots := make([]string, 0, len(c.AnalysisDirs))
	for _, dir := range c.AnalysisDirs {
		if filepath.IsAbs(dir) {
			roots = append(roots, dir)
			continue
		}
		roots = append(roots, filepath.Join(c.ProjectPath, dir))
	}
	return roots
}

// GetOutputPath returns the full path to the output JSON file (under project so run and faills use the same file).
// Resolves to an absolute path so run and faills always read/write the same file regardless of cwd
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ProjectPath, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetDatabaseDSN returns the history DSN. Relative sqlite file paths are
// resolved against the project path
func (c *Config) GetDatabaseDSN() string {
	dsn := c.DatabaseDSN
	if dsn == "" || c.DatabaseDriver != "sqlite" || dsn == ":memory:" || filepath.IsAbs(dsn) || strings.HasPrefix(dsn, "file:") {
		return dsn
	}
	return filepath.Join(c.ProjectPath, dsn)
}

// HistoryEnabled reports whether runs are recorded in a database
func (c *Config) HistoryEnabled() bool {
	return c.DatabaseDSN != ""
}
