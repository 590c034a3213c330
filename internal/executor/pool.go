package executor

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/vermeil/vae/internal/models"
)

// Pool runs a batch of jobs with bounded parallelism.
type Pool struct {
	workers int
	logger  Logger
}

// NewPool constructs a Pool. A workers value below 1 means one worker per
// CPU. The logger parameter is optional and can be nil to disable logging.
func NewPool(workers int, logger Logger) *Pool {
	if workers < 1 {
		workers = max(1, runtime.NumCPU())
	}
	return &Pool{workers: workers, logger: logger}
}

// Workers returns the concurrency limit.
func (p *Pool) Workers() int {
	return p.workers
}

type indexedResult struct {
	index  int
	result models.JobResult
}

// RunBatch runs runner over every path and blocks until all launched jobs
// have settled. The returned slice has one result per path, in input order.
// Jobs are isolated: a failing or panicking job does not affect the others.
// Once ctx is cancelled no further jobs are launched and the remaining paths
// are reported as skipped.
func (p *Pool) RunBatch(ctx context.Context, paths []string, runner Runner) []models.JobResult {
	results := make([]models.JobResult, len(paths))
	if len(paths) == 0 {
		return results
	}

	concurrency := min(p.workers, len(paths))
	semaphore := make(chan struct{}, concurrency)
	resultsCh := make(chan indexedResult, len(paths))

	var wg sync.WaitGroup
	launched := 0

launch:
	for i, path := range paths {
		// Check context before acquiring semaphore to avoid blocking on a cancelled context
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break launch
		case semaphore <- struct{}{}:
		}
		// Both cases may be ready at once; a cancelled run launches nothing.
		if ctx.Err() != nil {
			<-semaphore
			break
		}

		wg.Add(1)
		launched++
		go func(index int, path string) {
			defer wg.Done()
			defer func() { <-semaphore }()
			resultsCh <- indexedResult{index: index, result: runIsolated(ctx, runner, path)}
		}(i, path)
	}

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	done := make([]bool, len(paths))
	completed := 0
	for r := range resultsCh {
		results[r.index] = r.result
		done[r.index] = true
		completed++
		if p.logger != nil {
			p.logger.LogJobResult(r.result, completed, launched)
		}
	}

	for i, path := range paths {
		if !done[i] {
			results[i] = models.JobResult{
				Source:  path,
				Outcome: models.OutcomeSkipped,
				Err:     context.Cause(ctx),
			}
		}
	}
	return results
}

// runIsolated turns a panic inside runner into a failed result.
func runIsolated(ctx context.Context, runner Runner, path string) (result models.JobResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			result = models.JobResult{
				Source:   path,
				Outcome:  models.OutcomeFailure,
				Kind:     models.FailureOther,
				Err:      fmt.Errorf("job panicked: %v", r),
				Duration: time.Since(start),
			}
		}
	}()

	result = runner.Run(ctx, path)
	if result.Source == "" {
		result.Source = path
	}
	return result
}
