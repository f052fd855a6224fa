package execution

import (
	"context"
	"time"

	"thinline/internal/domain"
)

// Executor evaluates jobs and returns results
type Executor interface {
	Execute(ctx context.Context, jobs []Job) ([]domain.CaseResult, time.Duration, error)
}

var _ Executor = (*WorkerPool)(nil)
