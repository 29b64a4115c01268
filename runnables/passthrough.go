package runnables

import (
	"context"
	"fmt"
	"maps"
)

// Passthrough returns its input unchanged. Useful as an identity step when
// composing branches that need the original input alongside derived values.
type Passthrough struct{}

// NewPassthrough creates a Passthrough runnable.
func NewPassthrough() Passthrough {
	return Passthrough{}
}

func (Passthrough) Invoke(ctx context.Context, input any, cfg *Config) (any, error) {
	return input, nil
}

// Assign runs named branches against a map input and merges each branch's
// output into a copy of the input under the branch's name. The original
// input map is never mutated. Branches execute through Parallel, so their
// failures surface as a ParallelError.
type Assign struct {
	parallel *Parallel
}

// NewAssign creates an Assign from the given named branches.
func NewAssign(branches map[string]Runnable) *Assign {
	return &Assign{parallel: NewParallel(branches)}
}

func (a *Assign) Invoke(ctx context.Context, input any, cfg *Config) (any, error) {
	base, ok := input.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("assign requires map[string]any input, got %T", input)
	}

	derived, err := a.parallel.Invoke(ctx, input, cfg)
	if err != nil {
		return nil, err
	}

	out := maps.Clone(base)
	maps.Copy(out, derived.(map[string]any))
	return out, nil
}
