package config

import "time"

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultTestPath is the default path where discovery starts
	DefaultTestPath = "."
	// DefaultProjectFile is the optional YAML project file looked up in the project path
	DefaultProjectFile = "thinline.yml"
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "thinline-results.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = "storage"
	// DefaultProcessors is the default number of processors
	DefaultProcessors = 4
	// DefaultPython is the interpreter used to evaluate Python functions
	DefaultPython = "python3"
	// DefaultDatabaseDriver is the driver used for run history
	DefaultDatabaseDriver = "sqlite"
	// DefaultCheckTimeout bounds the evaluation of a single check
	DefaultCheckTimeout = 30 * time.Second
	// DefaultHistoryLimit is the number of runs listed by history
	DefaultHistoryLimit = 20
)

// DefaultPathsToIgnore are the default directories to ignore when scanning for sources
var DefaultPathsToIgnore = []string{
	"vendor",
	"node_modules",
	"build",
	"dist",
	"storage",
	"venv",
	"__pycache__",
}
