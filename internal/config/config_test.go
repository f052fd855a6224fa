package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig_GetTestPath(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected string
	}{
		{
			name: "default path",
			config: &Config{
				ProjectPath: ".",
				TestPath:    ".",
				Flags:       Flags{},
			},
			expected: ".",
		},
		{
			name: "with test path flag",
			config: &Config{
				ProjectPath: "/project",
				TestPath:    ".",
				Flags: Flags{
					TestPath: "src",
				},
			},
			expected: "/project/src",
		},
		{
			name: "absolute test path",
			config: &Config{
				ProjectPath: "/project",
				TestPath:    ".",
				Flags: Flags{
					TestPath: "/absolute/path",
				},
			},
			expected: "/absolute/path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.config.GetTestPath()
			if result != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, result)
			}
		})
	}
}

func TestConfig_GetScanRoots(t *testing.T) {
	cfg := New()
	cfg.ProjectPath = "/project"
	cfg.AnalysisDirs = []string{"src", "/opt/include"}

	roots := cfg.GetScanRoots()
	if len(roots) != 2 || roots[0] != "/project/src" || roots[1] != "/opt/include" {
		t.Errorf("unexpected roots %v", roots)
	}

	cfg.Flags.TestPath = "lib"
	roots = cfg.GetScanRoots()
	if len(roots) != 1 || roots[0] != "/project/lib" {
		t.Errorf("test path flag should win, got %v", roots)
	}
}

func TestConfig_GetDatabaseDSN(t *testing.T) {
	cfg := New()
	cfg.ProjectPath = "/project"

	cfg.DatabaseDSN = "storage/history.db"
	if got := cfg.GetDatabaseDSN(); got != "/project/storage/history.db" {
		t.Errorf("expected project relative sqlite path, got %s", got)
	}

	cfg.DatabaseDSN = ":memory:"
	if got := cfg.GetDatabaseDSN(); got != ":memory:" {
		t.Errorf("expected :memory:, got %s", got)
	}

	cfg.DatabaseDriver = "mysql"
	cfg.DatabaseDSN = "root:@tcp(127.0.0.1:3306)/thinline"
	if got := cfg.GetDatabaseDSN(); got != cfg.DatabaseDSN {
		t.Errorf("mysql dsn should be untouched, got %s", got)
	}
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.ProjectPath != DefaultProjectPath {
		t.Errorf("expected ProjectPath %s, got %s", DefaultProjectPath, cfg.ProjectPath)
	}

	if cfg.Processors != DefaultProcessors {
		t.Errorf("expected Processors %d, got %d", DefaultProcessors, cfg.Processors)
	}

	if len(cfg.PathsToIgnore) != len(DefaultPathsToIgnore) {
		t.Errorf("expected %d paths to ignore, got %d", len(DefaultPathsToIgnore), len(cfg.PathsToIgnore))
	}

	if cfg.HistoryEnabled() {
		t.Error("history should be disabled by default")
	}
}

func TestLoad_ProjectFileEnvAndFlags(t *testing.T) {
	tmpDir := t.TempDir()

	projectYAML := `language: python
analysis_dirs:
  - src
ignore:
  - generated
processors: 2
python: /usr/bin/python3
output:
  dir: out
  file: results.json
database:
  driver: sqlite
  dsn: out/history.db
`
	if err := os.WriteFile(filepath.Join(tmpDir, DefaultProjectFile), []byte(projectYAML), 0644); err != nil {
		t.Fatalf("failed to write project file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, ".env"), []byte("THINLINE_PYTHON=/opt/python\n"), 0644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	t.Setenv("THINLINE_PYTHON", "")
	os.Unsetenv("THINLINE_PYTHON")

	cfg, err := Load(tmpDir, "", Flags{Processors: 8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Language != "python" {
		t.Errorf("expected language python, got %s", cfg.Language)
	}
	if cfg.Processors != 8 {
		t.Errorf("flag should override processors, got %d", cfg.Processors)
	}
	if cfg.Python != "/opt/python" {
		t.Errorf(".env should override python, got %s", cfg.Python)
	}
	if cfg.OutputJSONFile != "results.json" || cfg.OutputJSONDir != "out" {
		t.Errorf("unexpected output settings %s/%s", cfg.OutputJSONDir, cfg.OutputJSONFile)
	}
	if !cfg.HistoryEnabled() || cfg.GetDatabaseDSN() != filepath.Join(tmpDir, "out", "history.db") {
		t.Errorf("unexpected database dsn %s", cfg.GetDatabaseDSN())
	}
	if cfg.PathsToIgnore[len(cfg.PathsToIgnore)-1] != "generated" {
		t.Errorf("expected project ignores appended, got %v", cfg.PathsToIgnore)
	}
}

func TestLoad_ProjectFileErrors(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("missing default file is fine", func(t *testing.T) {
		if _, err := Load(tmpDir, "", Flags{}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("missing explicit file fails", func(t *testing.T) {
		if _, err := Load(tmpDir, "other.yml", Flags{}); err == nil {
			t.Error("expected error for missing explicit project file")
		}
	})

	t.Run("unsupported language fails", func(t *testing.T) {
		path := filepath.Join(tmpDir, "bad.yml")
		if err := os.WriteFile(path, []byte("language: cobol\n"), 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
		if _, err := Load(tmpDir, path, Flags{}); err == nil {
			t.Error("expected error for unsupported language")
		}
	})
}
