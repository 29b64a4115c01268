package runnables

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/physaikat/langchain/observability"
)

// Parallel runs a set of named branches concurrently over the same input and
// collects the outputs into a map[string]any keyed by branch name.
//
// Concurrency is bounded by Config.MaxConcurrency (defaulting to the number
// of CPUs, capped at the branch count). Every branch runs regardless of
// other branches' failures; failures are aggregated into a ParallelError
// while successful branch outputs are still returned.
type Parallel struct {
	branches map[string]Runnable
}

// NewParallel creates a Parallel from the given named branches.
func NewParallel(branches map[string]Runnable) *Parallel {
	copied := make(map[string]Runnable, len(branches))
	for name, r := range branches {
		copied[name] = r
	}
	return &Parallel{branches: copied}
}

// Branches returns the branch names in sorted order.
func (p *Parallel) Branches() []string {
	names := make([]string, 0, len(p.branches))
	for name := range p.branches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p *Parallel) Invoke(ctx context.Context, input any, cfg *Config) (any, error) {
	observer, err := observability.GetObserver(cfg.observerName())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve observer: %w", err)
	}

	names := p.Branches()
	workers := workerCount(cfg, len(names))

	observer.OnEvent(ctx, observability.Event{
		Type:      EventParallelStart,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "runnables.Parallel",
		Data: map[string]any{
			"branch_count": len(names),
			"worker_count": workers,
		},
	})

	if len(names) == 0 {
		observer.OnEvent(ctx, observability.Event{
			Type:      EventParallelComplete,
			Level:     observability.LevelInfo,
			Timestamp: time.Now(),
			Source:    "runnables.Parallel",
			Data: map[string]any{
				"branches_failed": 0,
				"error":           false,
			},
		})
		return map[string]any{}, nil
	}

	type branchResult struct {
		name   string
		output any
		err    error
	}

	work := make(chan string, len(names))
	results := make(chan branchResult, len(names))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range work {
				output, err := p.branches[name].Invoke(ctx, input, cfg)
				results <- branchResult{name: name, output: output, err: err}

				observer.OnEvent(ctx, observability.Event{
					Type:      EventBranchComplete,
					Level:     observability.LevelVerbose,
					Timestamp: time.Now(),
					Source:    "runnables.Parallel",
					Data: map[string]any{
						"branch": name,
						"error":  err != nil,
					},
				})
			}
		}()
	}

	for _, name := range names {
		work <- name
	}
	close(work)

	wg.Wait()
	close(results)

	outputs := make(map[string]any, len(names))
	var failures []BranchError
	for r := range results {
		if r.err != nil {
			failures = append(failures, BranchError{Branch: r.name, Err: r.err})
			continue
		}
		outputs[r.name] = r.output
	}
	sort.Slice(failures, func(i, j int) bool {
		return failures[i].Branch < failures[j].Branch
	})

	observer.OnEvent(ctx, observability.Event{
		Type:      EventParallelComplete,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "runnables.Parallel",
		Data: map[string]any{
			"branches_failed": len(failures),
			"error":           len(failures) > 0,
		},
	})

	if len(failures) > 0 {
		return outputs, &ParallelError{Errors: failures}
	}
	return outputs, nil
}

// Batch invokes r once per input with bounded concurrency. Outputs are
// returned in input order. Failures are collected into a BatchError while
// successful outputs remain at their positions (failed positions are nil).
func Batch(ctx context.Context, r Runnable, inputs []any, cfg *Config) ([]any, error) {
	observer, err := observability.GetObserver(cfg.observerName())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve observer: %w", err)
	}

	observer.OnEvent(ctx, observability.Event{
		Type:      EventBatchStart,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "runnables.Batch",
		Data:      map[string]any{"input_count": len(inputs)},
	})

	outputs := make([]any, len(inputs))
	if len(inputs) == 0 {
		observer.OnEvent(ctx, observability.Event{
			Type:      EventBatchComplete,
			Level:     observability.LevelInfo,
			Timestamp: time.Now(),
			Source:    "runnables.Batch",
			Data:      map[string]any{"inputs_failed": 0, "error": false},
		})
		return outputs, nil
	}

	workers := workerCount(cfg, len(inputs))
	work := make(chan int, len(inputs))
	errs := make([]error, len(inputs))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				outputs[i], errs[i] = r.Invoke(ctx, inputs[i], cfg)
			}
		}()
	}

	for i := range inputs {
		work <- i
	}
	close(work)
	wg.Wait()

	var failures []IndexedError
	for i, err := range errs {
		if err != nil {
			outputs[i] = nil
			failures = append(failures, IndexedError{Index: i, Err: err})
		}
	}

	observer.OnEvent(ctx, observability.Event{
		Type:      EventBatchComplete,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "runnables.Batch",
		Data: map[string]any{
			"inputs_failed": len(failures),
			"error":         len(failures) > 0,
		},
	})

	if len(failures) > 0 {
		return outputs, &BatchError{Errors: failures}
	}
	return outputs, nil
}

// workerCount bounds concurrency by Config.MaxConcurrency, defaulting to
// the CPU count, never exceeding the amount of work.
func workerCount(cfg *Config, work int) int {
	max := runtime.NumCPU()
	if cfg != nil && cfg.MaxConcurrency > 0 {
		max = cfg.MaxConcurrency
	}
	if max > work {
		max = work
	}
	if max < 1 {
		max = 1
	}
	return max
}
