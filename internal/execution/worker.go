package execution

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"thinline/internal/domain"
	"thinline/internal/logging"
)

// Progress receives counts while a run is in flight
type Progress interface {
	Update(completed, passed, failed int)
	Finish()
}

// WorkerPool manages a pool of workers for parallel evaluation
type WorkerPool struct {
	workers   int
	evaluator *Evaluator
	scheduler Scheduler
	progress  Progress
	logger    *zap.Logger
}

// NewWorkerPool creates a new WorkerPool
func NewWorkerPool(workers int, evaluator *Evaluator, scheduler Scheduler, logger *zap.Logger) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	if scheduler == nil {
		scheduler = NewRoundRobinScheduler()
	}
	return &WorkerPool{
		workers:   workers,
		evaluator: evaluator,
		scheduler: scheduler,
		logger:    logging.OrNop(logger),
	}
}

// SetProgress sets the progress reporter for the worker pool
func (wp *WorkerPool) SetProgress(progress Progress) {
	wp.progress = progress
}

// Workers returns the number of workers
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

// Execute evaluates jobs in parallel (no fail-fast)
func (wp *WorkerPool) Execute(ctx context.Context, jobs []Job) ([]domain.CaseResult, time.Duration, error) {
	return wp.ExecuteWithOptions(ctx, jobs, false)
}

// ExecuteWithOptions evaluates jobs with optional fail-fast (stop on first
// failed check). Results keep the order of jobs; with fail-fast, jobs not
// evaluated before the failure are missing
func (wp *WorkerPool) ExecuteWithOptions(ctx context.Context, jobs []Job, failFast bool) ([]domain.CaseResult, time.Duration, error) {
	if len(jobs) == 0 {
		return nil, 0, nil
	}

	numbered := make([]Job, len(jobs))
	for i, job := range jobs {
		job.Seq = i
		numbered[i] = job
	}

	if !failFast {
		return wp.executeAll(ctx, numbered)
	}
	return wp.executeFailFast(ctx, numbered)
}

type sequenced struct {
	seq    int
	result domain.CaseResult
}

// tally tracks progress across workers
type tally struct {
	mu                        sync.Mutex
	completed, passed, failed int
	progress                  Progress
}

func (t *tally) add(r domain.CaseResult) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.completed++
	switch {
	case r.Skipped:
	case r.Success:
		t.passed++
	default:
		t.failed++
	}
	if t.progress != nil {
		t.progress.Update(t.completed, t.passed, t.failed)
	}
}

// executeAll hands every worker its scheduled share of the jobs
func (wp *WorkerPool) executeAll(ctx context.Context, jobs []Job) ([]domain.CaseResult, time.Duration, error) {
	batches := wp.scheduler.Schedule(jobs, wp.workers)
	results := make(chan sequenced, len(jobs))
	counts := &tally{progress: wp.progress}
	startTime := time.Now()

	var wg sync.WaitGroup
	for i, batch := range batches {
		wg.Add(1)
		go func(workerID int, batch []Job) {
			defer wg.Done()
			for _, job := range batch {
				if ctx.Err() != nil {
					return
				}
				result := wp.evaluator.Evaluate(ctx, job)
				wp.logResult(workerID, job, result)
				results <- sequenced{seq: job.Seq, result: result}
				counts.add(result)
			}
		}(i+1, batch)
	}
	wg.Wait()
	close(results)

	all := ordered(results)
	if wp.progress != nil {
		wp.progress.Finish()
	}
	return all, time.Since(startTime), ctx.Err()
}

// executeFailFast evaluates jobs from a shared queue and stops after the
// first failed check
func (wp *WorkerPool) executeFailFast(parent context.Context, jobs []Job) ([]domain.CaseResult, time.Duration, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	jobQueue := make(chan Job, 1)
	results := make(chan sequenced, len(jobs))

	go func() {
		defer close(jobQueue)
		for _, job := range jobs {
			select {
			case <-ctx.Done():
				return
			case jobQueue <- job:
			}
		}
	}()

	var mu sync.Mutex
	var seenFailure bool
	counts := &tally{progress: wp.progress}
	startTime := time.Now()

	var wg sync.WaitGroup
	for i := 1; i <= wp.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for job := range jobQueue {
				result := wp.evaluator.Evaluate(ctx, job)
				mu.Lock()
				done := seenFailure
				if !done && !result.Success && !result.Skipped {
					seenFailure = true
					cancel()
				}
				mu.Unlock()
				if done {
					continue
				}
				wp.logResult(workerID, job, result)
				results <- sequenced{seq: job.Seq, result: result}
				counts.add(result)
			}
		}(i)
	}
	wg.Wait()
	close(results)

	all := ordered(results)
	if wp.progress != nil {
		wp.progress.Finish()
	}
	return all, time.Since(startTime), parent.Err()
}

func ordered(results <-chan sequenced) []domain.CaseResult {
	var collected []sequenced
	for r := range results {
		collected = append(collected, r)
	}
	sort.Slice(collected, func(i, j int) bool { return collected[i].seq < collected[j].seq })

	all := make([]domain.CaseResult, len(collected))
	for i, r := range collected {
		all[i] = r.result
	}
	return all
}

func (wp *WorkerPool) logResult(workerID int, job Job, result domain.CaseResult) {
	fields := []zap.Field{
		zap.Int("worker", workerID),
		zap.String("check", job.String()),
		zap.String("function", job.Function.QualifiedName()),
		zap.Duration("duration", result.Duration),
	}
	switch {
	case result.Skipped:
		wp.logger.Debug("check skipped", append(fields, zap.Error(result.Error))...)
	case result.Error != nil:
		wp.logger.Debug("check errored", append(fields, zap.Error(result.Error))...)
	default:
		wp.logger.Debug("check evaluated", append(fields, zap.Bool("success", result.Success))...)
	}
}
