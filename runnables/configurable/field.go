// Package configurable implements the field overlay for runnables: declaring
// fields of a wrapped runnable as externally overridable at call time, and
// swapping the wrapped runnable for a named alternative based on a selector
// key in the invocation configuration.
//
// Both overlays are thin per-call proxies. Applying an invocation
// configuration never mutates the wrapped runnable; each call resolves a
// transient substituted copy scoped to that call only. The resolution order
// for a field is: explicit per-call configuration, then configuration bound
// via WithConfig, then the wrapped runnable's original value.
package configurable

import (
	"context"
	"errors"

	"github.com/physaikat/langchain/runnables"
)

// Sentinel errors for overlay construction and method delegation.
var (
	// ErrUnknownMethod is the attribute-resolution failure: the requested
	// method exists on neither the overlay nor the active target.
	ErrUnknownMethod = errors.New("unknown method")
	// ErrNilTarget is returned when constructing an overlay without a target.
	ErrNilTarget = errors.New("target is nil")
	// ErrEmptyFieldID is returned when a declared field has no external key.
	ErrEmptyFieldID = errors.New("field id is empty")
	// ErrDuplicateFieldID is returned when two declared fields share an
	// external key.
	ErrDuplicateFieldID = errors.New("duplicate field id")
	// ErrEmptyAlternative is returned when an alternative has no name.
	ErrEmptyAlternative = errors.New("alternative name is empty")
)

// Field declares one overridable aspect of a wrapped runnable: ID is the
// external key consulted in the invocation configuration's Configurable
// mapping, Name and Description are human-readable annotations surfaced to
// configuration UIs.
type Field struct {
	ID          string
	Name        string
	Description string
}

// Target is the contract for runnables wrappable by the Fields overlay.
// WithFieldValues must return a new copy with the given overrides applied,
// keyed by internal field name, never mutating the receiver. Construction-
// time invariants (derived fields, unsettable fields) must hold for the
// copy exactly as they do for a directly constructed value.
type Target interface {
	runnables.Runnable

	WithFieldValues(overrides map[string]any) (Target, error)
}

// MethodCaller is the optional dynamic method surface of a target. Call
// dispatches by method name; implementations must return ErrUnknownMethod
// (wrapped with the name) for unresolvable names. Methods that read
// configuration receive the fully resolved per-call config.
type MethodCaller interface {
	Call(ctx context.Context, method string, cfg *runnables.Config) (any, error)
}
