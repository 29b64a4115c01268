package configurable

import (
	"context"
	"fmt"

	"github.com/physaikat/langchain/runnables"
)

// Fields wraps a Target and makes a declared set of its fields overridable
// per call. The declaration maps internal field names to Field descriptors;
// each descriptor's ID is the external key looked up in the invocation
// configuration's Configurable mapping.
//
// Method calls not part of the overlay's own surface delegate to the target
// through its MethodCaller implementation, against the same transient
// substituted copy that Invoke would use. Override keys that match no
// declared field are ignored by this layer.
type Fields struct {
	target Target
	fields map[string]Field
	bound  *runnables.Config
}

// NewFields wraps target with the given field declarations, keyed by
// internal field name. Declaration conflicts (empty or duplicate external
// keys) are construction-time errors.
func NewFields(target Target, fields map[string]Field) (*Fields, error) {
	if target == nil {
		return nil, ErrNilTarget
	}

	seen := make(map[string]string, len(fields))
	copied := make(map[string]Field, len(fields))
	for internal, field := range fields {
		if field.ID == "" {
			return nil, fmt.Errorf("%w: field %s", ErrEmptyFieldID, internal)
		}
		if prev, exists := seen[field.ID]; exists {
			return nil, fmt.Errorf("%w: %s declared by %s and %s", ErrDuplicateFieldID, field.ID, prev, internal)
		}
		seen[field.ID] = internal
		copied[internal] = field
	}

	return &Fields{target: target, fields: copied}, nil
}

// WithConfig returns a new overlay pre-bound to cfg. The receiver is not
// mutated. Configuration supplied to later calls merges over the bound
// configuration with the per-call values taking precedence.
func (f *Fields) WithConfig(cfg *runnables.Config) *Fields {
	return &Fields{
		target: f.target,
		fields: f.fields,
		bound:  runnables.MergeConfigs(f.bound, cfg),
	}
}

// WithAlternatives composes this overlay with whole-target substitution:
// the returned Alternatives overlay swaps the wrapped target for a named
// candidate when the selector's external key appears in the resolved
// configuration.
func (f *Fields) WithAlternatives(selector Field, alternatives map[string]runnables.Runnable) (*Alternatives, error) {
	return NewAlternatives(f, selector, alternatives)
}

// Invoke delegates to the target, substituting declared fields from the
// resolved configuration for the duration of this call.
func (f *Fields) Invoke(ctx context.Context, input any, cfg *runnables.Config) (any, error) {
	target, resolved, err := f.prepare(cfg)
	if err != nil {
		return nil, err
	}
	return target.Invoke(ctx, input, resolved)
}

// Call delegates a named method call to the target with field substitution
// applied, so methods observe overridden values exactly as Invoke does.
// Returns ErrUnknownMethod when the target has no dynamic method surface or
// does not resolve the name.
func (f *Fields) Call(ctx context.Context, method string, cfg *runnables.Config) (any, error) {
	target, resolved, err := f.prepare(cfg)
	if err != nil {
		return nil, err
	}

	caller, ok := target.(MethodCaller)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
	return caller.Call(ctx, method, resolved)
}

// prepare resolves the effective configuration (bound then per-call, later
// wins) and produces the call-scoped target: the original when no declared
// field is overridden, otherwise a transient copy with overrides applied.
func (f *Fields) prepare(cfg *runnables.Config) (Target, *runnables.Config, error) {
	resolved := runnables.MergeConfigs(f.bound, cfg)

	var overrides map[string]any
	for internal, field := range f.fields {
		if value, ok := resolved.Value(field.ID); ok {
			if overrides == nil {
				overrides = make(map[string]any)
			}
			overrides[internal] = value
		}
	}

	if len(overrides) == 0 {
		return f.target, resolved, nil
	}

	substituted, err := f.target.WithFieldValues(overrides)
	if err != nil {
		return nil, nil, fmt.Errorf("field substitution failed: %w", err)
	}
	return substituted, resolved, nil
}
