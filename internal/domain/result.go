package domain

import "time"

// CaseResult represents the result of evaluating one expectation
type CaseResult struct {
	CaseID      string        // Identifier of the owning test case
	Function    Function      // Function the expectation was evaluated against
	Index       int           // Position of the expectation within the case
	Expectation Expectation   // The evaluated expectation
	Actual      Literal       // Value returned by the function, invalid if it never returned
	Success     bool          // Whether the expectation held
	Skipped     bool          // No runner could evaluate the function
	Error       error         // Error if evaluation failed
	Duration    time.Duration // Time taken to evaluate
}

// RunMeta contains metadata about an evaluation run
type RunMeta struct {
	RunID           string  `json:"run_id"`
	TotalCases      int     `json:"total_cases"`
	TotalChecks     int     `json:"total_checks"`
	PassedChecks    int     `json:"passed_checks"`
	FailedChecks    int     `json:"failed_checks"`
	SkippedChecks   int     `json:"skipped_checks"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Workers         int     `json:"workers"`
	Timestamp       string  `json:"timestamp"`
}

// RunOutput is the complete output structure of an evaluation run
type RunOutput struct {
	Meta    RunMeta       `json:"meta"`
	Details []CaseFailure `json:"details"`
}
