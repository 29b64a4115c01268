package runnables

import (
	"context"
	"fmt"
	"time"

	"github.com/physaikat/langchain/observability"
)

// Sequence composes runnables left to right: the output of each step is the
// input of the next. Execution stops on the first error (fail-fast), which
// is wrapped in a SequenceError carrying the failing step index. Context
// cancellation is checked before each step.
//
// Observer events are emitted at all key execution points: EventSequenceStart
// before processing, EventStepStart/EventStepComplete around each step, and
// EventSequenceComplete when the sequence finishes. The observer is resolved
// per call from Config.Observer.
type Sequence struct {
	steps []Runnable
}

// NewSequence creates a Sequence from the given steps.
// Returns ErrNoSteps when called with no steps.
func NewSequence(steps ...Runnable) (*Sequence, error) {
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}
	return &Sequence{steps: steps}, nil
}

// Pipe creates a Sequence starting from first followed by rest. Unlike
// NewSequence it cannot fail: a single runnable is a valid pipeline.
func Pipe(first Runnable, rest ...Runnable) *Sequence {
	steps := make([]Runnable, 0, len(rest)+1)
	steps = append(steps, first)
	steps = append(steps, rest...)
	return &Sequence{steps: steps}
}

// Steps returns a copy of the composed steps in execution order.
func (s *Sequence) Steps() []Runnable {
	out := make([]Runnable, len(s.steps))
	copy(out, s.steps)
	return out
}

func (s *Sequence) Invoke(ctx context.Context, input any, cfg *Config) (any, error) {
	observer, err := observability.GetObserver(cfg.observerName())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve observer: %w", err)
	}

	observer.OnEvent(ctx, observability.Event{
		Type:      EventSequenceStart,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "runnables.Sequence",
		Data: map[string]any{
			"step_count": len(s.steps),
		},
	})

	current := input

	for i, step := range s.steps {
		if err := ctx.Err(); err != nil {
			seqErr := &SequenceError{
				Step: i,
				Err:  fmt.Errorf("invocation cancelled: %w", err),
			}
			observer.OnEvent(ctx, observability.Event{
				Type:      EventSequenceComplete,
				Level:     observability.LevelWarning,
				Timestamp: time.Now(),
				Source:    "runnables.Sequence",
				Data: map[string]any{
					"steps_completed": i,
					"error":           true,
					"error_type":      "cancellation",
				},
			})
			return nil, seqErr
		}

		observer.OnEvent(ctx, observability.Event{
			Type:      EventStepStart,
			Level:     observability.LevelVerbose,
			Timestamp: time.Now(),
			Source:    "runnables.Sequence",
			Data: map[string]any{
				"step_index":  i,
				"total_steps": len(s.steps),
			},
		})

		output, err := step.Invoke(ctx, current, cfg)
		if err != nil {
			observer.OnEvent(ctx, observability.Event{
				Type:      EventStepComplete,
				Level:     observability.LevelWarning,
				Timestamp: time.Now(),
				Source:    "runnables.Sequence",
				Data: map[string]any{
					"step_index":  i,
					"total_steps": len(s.steps),
					"error":       true,
				},
			})
			observer.OnEvent(ctx, observability.Event{
				Type:      EventSequenceComplete,
				Level:     observability.LevelWarning,
				Timestamp: time.Now(),
				Source:    "runnables.Sequence",
				Data: map[string]any{
					"steps_completed": i,
					"error":           true,
					"error_type":      "step",
				},
			})
			return nil, &SequenceError{Step: i, Err: err}
		}

		current = output

		observer.OnEvent(ctx, observability.Event{
			Type:      EventStepComplete,
			Level:     observability.LevelVerbose,
			Timestamp: time.Now(),
			Source:    "runnables.Sequence",
			Data: map[string]any{
				"step_index":  i,
				"total_steps": len(s.steps),
				"error":       false,
			},
		})
	}

	observer.OnEvent(ctx, observability.Event{
		Type:      EventSequenceComplete,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "runnables.Sequence",
		Data: map[string]any{
			"steps_completed": len(s.steps),
			"error":           false,
		},
	})

	return current, nil
}

// observerName is a nil-safe accessor for Config.Observer.
func (c *Config) observerName() string {
	if c == nil {
		return ""
	}
	return c.Observer
}
