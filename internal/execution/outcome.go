package execution

import (
	"fmt"
	"time"

	"thinline/internal/annotation"
	"thinline/internal/domain"
)

// OutcomeParser turns evaluation results into counts and persisted failures
type OutcomeParser struct{}

// NewOutcomeParser creates a new OutcomeParser
func NewOutcomeParser() *OutcomeParser {
	return &OutcomeParser{}
}

// ParseCounts returns the passed, failed and skipped checks of results
func (p *OutcomeParser) ParseCounts(results []domain.CaseResult) (passed, failed, skipped int) {
	for _, r := range results {
		switch {
		case r.Skipped:
			skipped++
		case r.Success:
			passed++
		default:
			failed++
		}
	}
	return passed, failed, skipped
}

// ParseFailure converts a failed result. It returns nil for passed or
// skipped results
func (p *OutcomeParser) ParseFailure(result domain.CaseResult) *domain.CaseFailure {
	if result.Success || result.Skipped {
		return nil
	}

	exp := result.Expectation
	failure := &domain.CaseFailure{
		CaseID:      result.CaseID,
		Function:    result.Function.ScopedName(),
		FilePath:    result.Function.File,
		Line:        result.Function.Line,
		Expectation: annotation.FormatExpectation(exp),
		Expected:    exp.Expected.String(),
	}
	if result.Actual.IsValid() {
		failure.Actual = result.Actual.String()
	}

	switch {
	case result.Error != nil:
		failure.Message = result.Error.Error()
	case exp.Op == domain.OpNotEqual:
		failure.Message = fmt.Sprintf("expected a value %s %s, got %s", exp.Op, exp.Expected, result.Actual)
	default:
		failure.Message = fmt.Sprintf("expected %s, got %s", exp.Expected, result.Actual)
	}
	return failure
}

// ParseFailures converts every failed result, keeping order
func (p *OutcomeParser) ParseFailures(results []domain.CaseResult) []domain.CaseFailure {
	var failures []domain.CaseFailure
	for _, r := range results {
		if f := p.ParseFailure(r); f != nil {
			failures = append(failures, *f)
		}
	}
	return failures
}

// BuildOutput assembles the persisted output of a run
func (p *OutcomeParser) BuildOutput(runID string, jobs []Job, results []domain.CaseResult, duration time.Duration, workers int) domain.RunOutput {
	passed, failed, skipped := p.ParseCounts(results)
	details := p.ParseFailures(results)
	if details == nil {
		details = []domain.CaseFailure{}
	}

	return domain.RunOutput{
		Meta: domain.RunMeta{
			RunID:           runID,
			TotalCases:      CountCases(jobs),
			TotalChecks:     len(jobs),
			PassedChecks:    passed,
			FailedChecks:    failed,
			SkippedChecks:   skipped,
			Duration:        FormatDuration(duration),
			DurationSeconds: duration.Seconds(),
			Workers:         workers,
			Timestamp:       time.Now().Format(time.RFC3339),
		},
		Details: details,
	}
}

// FormatDuration renders d rounded to milliseconds, e.g. "1.234s"
func FormatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
