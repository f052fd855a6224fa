package cli

import "thinline/internal/config"

// Flags holds command-line flags
type Flags struct {
	ProjectPath  string
	ProjectFile  string
	Verbose      bool
	Processors   int
	TestPath     string
	NameFilter   string
	CaseFilter   string
	TestCases    bool
	FailFast     bool
	OpenFaills   bool
	HistoryLimit int
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		Processors:   f.Processors,
		TestPath:     f.TestPath,
		NameFilter:   f.NameFilter,
		CaseFilter:   f.CaseFilter,
		TestCases:    f.TestCases,
		FailFast:     f.FailFast,
		OpenFaills:   f.OpenFaills,
		Verbose:      f.Verbose,
		HistoryLimit: f.HistoryLimit,
	}
}

// Load builds the configuration for the flags: defaults, project file,
// environment, then the flags themselves
func (f *Flags) Load() (*config.Config, error) {
	return config.Load(f.ProjectPath, f.ProjectFile, f.ToConfigFlags())
}
