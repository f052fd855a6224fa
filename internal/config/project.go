package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectFile is the optional thinline.yml placed in the project root
type ProjectFile struct {
	Language     string   `yaml:"language"`
	AnalysisDirs []string `yaml:"analysis_dirs"`
	Ignore       []string `yaml:"ignore"`
	Processors   int      `yaml:"processors"`
	Python       string   `yaml:"python"`
	Output       struct {
		Dir  string `yaml:"dir"`
		File string `yaml:"file"`
	} `yaml:"output"`
	Database struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`
}

var supportedLanguages = map[string]bool{"": true, "python": true, "c": true, "cpp": true}

// ParseProjectFile decodes a project file
func ParseProjectFile(data []byte) (*ProjectFile, error) {
	var pf ProjectFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse project file: %w", err)
	}
	if !supportedLanguages[pf.Language] {
		return nil, fmt.Errorf("unsupported language %q (expected python, c or cpp)", pf.Language)
	}
	if pf.Processors < 0 {
		return nil, fmt.Errorf("processors must not be negative, got %d", pf.Processors)
	}
	return &pf, nil
}

// ApplyProjectFile reads path (relative to the project path) and applies the
// settings it carries. A missing default project file is not an error; a
// missing explicitly named one is
func (c *Config) ApplyProjectFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultProjectFile
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.ProjectPath, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("read project file %s: %w", path, err)
	}

	pf, err := ParseProjectFile(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	c.Language = pf.Language
	if len(pf.AnalysisDirs) > 0 {
		c.AnalysisDirs = pf.AnalysisDirs
	}
	c.PathsToIgnore = append(c.PathsToIgnore, pf.Ignore...)
	if pf.Processors > 0 {
		c.Processors = pf.Processors
	}
	if pf.Python != "" {
		c.Python = pf.Python
	}
	if pf.Output.Dir != "" {
		c.OutputJSONDir = pf.Output.Dir
	}
	if pf.Output.File != "" {
		c.OutputJSONFile = pf.Output.File
	}
	if pf.Database.Driver != "" {
		c.DatabaseDriver = pf.Database.Driver
	}
	if pf.Database.DSN != "" {
		c.DatabaseDSN = pf.Database.DSN
	}
	return nil
}
