package execution

import (
	"context"
	"errors"
	"time"

	"thinline/internal/domain"
)

// Evaluator runs a job and compares the result with the expectation
type Evaluator struct {
	runner  Runner
	timeout time.Duration
}

// NewEvaluator creates an Evaluator. A zero timeout disables the per check
// deadline
func NewEvaluator(runner Runner, timeout time.Duration) *Evaluator {
	return &Evaluator{runner: runner, timeout: timeout}
}

// Evaluate runs one expectation. A function no runner can evaluate yields a
// skipped result
func (e *Evaluator) Evaluate(ctx context.Context, job Job) domain.CaseResult {
	exp := job.Expectation()
	result := domain.CaseResult{
		CaseID:      job.Case.ID(),
		Function:    job.Function,
		Index:       job.Index,
		Expectation: exp,
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	actual, err := e.runner.Run(ctx, job.Function, exp.ArgumentMap())
	result.Duration = time.Since(start)

	switch {
	case errors.Is(err, ErrNoRunner):
		result.Skipped = true
		result.Error = err
	case err != nil:
		result.Error = err
	default:
		result.Actual = actual
		equal := actual.Equal(exp.Expected)
		result.Success = equal == (exp.Op == domain.OpEqual)
	}
	return result
}
