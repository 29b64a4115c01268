// Package runnables provides the invocation substrate of the library:
// a Runnable interface for composable units of work, an invocation Config
// carried per call, and composition primitives (Lambda, Sequence, Parallel,
// Passthrough, Binding).
//
// Runnables are immutable by convention. Composition and binding operations
// return new values; no call mutates the receiver or the wrapped runnable.
package runnables

import "context"

// Runnable is a single unit of work that transforms an input into an output.
// Implementations must treat cfg as call-scoped and read-only; a nil cfg is
// valid and means "no overrides".
type Runnable interface {
	Invoke(ctx context.Context, input any, cfg *Config) (any, error)
}

// Func is the signature for plain-function runnables.
type Func func(ctx context.Context, input any, cfg *Config) (any, error)

// Lambda wraps a plain function as a Runnable.
type Lambda struct {
	name string
	fn   Func
}

// NewLambda creates a Lambda runnable with the given name. The name is used
// in observability events and error messages.
func NewLambda(name string, fn Func) *Lambda {
	return &Lambda{name: name, fn: fn}
}

// Name returns the lambda's display name.
func (l *Lambda) Name() string {
	return l.name
}

func (l *Lambda) Invoke(ctx context.Context, input any, cfg *Config) (any, error) {
	if l.fn == nil {
		return nil, ErrNilFunc
	}
	return l.fn(ctx, input, cfg)
}
