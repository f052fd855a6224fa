package execution

import (
	"fmt"

	"thinline/internal/domain"
	"thinline/internal/registry"
)

// Job is one expectation of a test case, bound to the function it targets
type Job struct {
	Function domain.Function
	Case     domain.TestCase
	Index    int // position of the expectation within Case
	Seq      int // position of the job within the run, set by the pool
}

// Expectation returns the expectation the job evaluates
func (j Job) Expectation() domain.Expectation {
	return j.Case.Expectations[j.Index]
}

func (j Job) String() string {
	return fmt.Sprintf("%s#%d", j.Case.ID(), j.Index+1)
}

// JobsFor expands entries into one job per expectation, in registry order
func JobsFor(entries []registry.Entry) []Job {
	var jobs []Job
	for _, e := range entries {
		for _, tc := range e.Cases {
			for i := range tc.Expectations {
				jobs = append(jobs, Job{Function: e.Function, Case: tc, Index: i})
			}
		}
	}
	return jobs
}

// CountCases returns the number of distinct test cases among jobs
func CountCases(jobs []Job) int {
	seen := make(map[string]bool)
	for _, j := range jobs {
		seen[j.Function.QualifiedName()+"|"+j.Case.ID()] = true
	}
	return len(seen)
}
