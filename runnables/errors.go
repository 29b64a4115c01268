package runnables

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for runnable composition.
var (
	// ErrNilFunc is returned when invoking a Lambda constructed without a function.
	ErrNilFunc = errors.New("lambda function is nil")
	// ErrNoSteps is returned when constructing a Sequence with no steps.
	ErrNoSteps = errors.New("sequence has no steps")
)

// SequenceError wraps a step failure during sequential execution with the
// index of the failing step. Implements Unwrap for errors.Is and errors.As.
type SequenceError struct {
	// Step is the 0-based index of the step that failed
	Step int

	// Err is the underlying error returned by the step
	Err error
}

func (e *SequenceError) Error() string {
	return fmt.Sprintf("sequence failed at step %d: %v", e.Step, e.Err)
}

func (e *SequenceError) Unwrap() error {
	return e.Err
}

// BranchError captures the failure of one named branch in parallel execution.
type BranchError struct {
	// Branch is the name of the branch that failed
	Branch string

	// Err is the underlying error returned by the branch
	Err error
}

// ParallelError aggregates branch failures from parallel execution. The
// error message categorizes failures by message with counts, most frequent
// first. Unwrap returns all underlying errors for Go 1.20+ unwrapping.
type ParallelError struct {
	Errors []BranchError
}

func (e *ParallelError) Error() string {
	if len(e.Errors) == 0 {
		return "parallel execution failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("parallel execution failed: branch %q: %v",
			e.Errors[0].Branch, e.Errors[0].Err,
		)
	}

	counts := make(map[string]int)
	for _, be := range e.Errors {
		counts[be.Err.Error()]++
	}

	type summary struct {
		msg   string
		count int
	}
	summaries := make([]summary, 0, len(counts))
	for msg, count := range counts {
		summaries = append(summaries, summary{msg, count})
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].count != summaries[j].count {
			return summaries[i].count > summaries[j].count
		}
		return summaries[i].msg < summaries[j].msg
	})

	parts := make([]string, 0, len(summaries))
	for _, s := range summaries {
		if s.count == 1 {
			parts = append(parts, fmt.Sprintf("'%s' (1 branch)", s.msg))
		} else {
			parts = append(parts, fmt.Sprintf("'%s' (%d branches)", s.msg, s.count))
		}
	}

	return fmt.Sprintf(
		"parallel execution failed: %d branches failed with %d error types: %s",
		len(e.Errors), len(counts), strings.Join(parts, ", "),
	)
}

func (e *ParallelError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, be := range e.Errors {
		errs[i] = be.Err
	}
	return errs
}

// BatchError aggregates per-input failures from Batch. Index correlates to
// the position in the original inputs slice.
type BatchError struct {
	Errors []IndexedError
}

// IndexedError captures the failure of one input in a batch.
type IndexedError struct {
	Index int
	Err   error
}

func (e *BatchError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("batch failed: input %d: %v", e.Errors[0].Index, e.Errors[0].Err)
	}
	return fmt.Sprintf("batch failed: %d inputs errored", len(e.Errors))
}

func (e *BatchError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, ie := range e.Errors {
		errs[i] = ie.Err
	}
	return errs
}
