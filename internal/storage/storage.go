// Package storage persists evaluation runs: the last run as JSON for the
// failures viewer, and optionally every run in a SQL history.
package storage

import (
	"context"

	"thinline/internal/config"
	"thinline/internal/domain"
)

// Storage persists and loads the last run (e.g. for the faills viewer)
type Storage interface {
	Save(output *domain.RunOutput) error
	Load() (*domain.RunOutput, error)
}

// History records every run
type History interface {
	Record(ctx context.Context, output *domain.RunOutput) error
	Runs(ctx context.Context, limit int) ([]domain.RunMeta, error)
	Failures(ctx context.Context, runID string) ([]domain.CaseFailure, error)
	Close() error
}

// JSONStorage stores results in a JSON file under the configured output path
type JSONStorage struct {
	path string
}

// NewJSONStorage returns a Storage that reads/writes the config's output JSON path
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{path: cfg.GetOutputPath()}
}

// Path returns the file the storage reads and writes
func (s *JSONStorage) Path() string {
	return s.path
}

var (
	_ Storage = (*JSONStorage)(nil)
	_ History = (*SQLStorage)(nil)
)
