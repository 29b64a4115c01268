package configurable

import (
	"context"
	"fmt"

	"github.com/physaikat/langchain/runnables"
)

// Alternatives composes with Fields to allow swapping the wrapped runnable
// entirely based on a selector key in the invocation configuration. The
// wrapped Fields overlay is the default selection; candidates are arbitrary
// runnables keyed by name.
//
// Selection happens fresh on every call from the resolved configuration:
// a selector value naming a known candidate routes the call to it, any
// other value (or no selector at all) falls back to the default. When a
// candidate is active, delegation targets it exclusively — methods that
// exist only on the default are unreachable for that call and fail with
// ErrUnknownMethod, matching the Fields delegation failure mode.
type Alternatives struct {
	def          *Fields
	selector     Field
	alternatives map[string]runnables.Runnable
	bound        *runnables.Config
}

// NewAlternatives wraps the default overlay with named candidates selected
// by the given selector field. Empty candidate names are construction-time
// errors.
func NewAlternatives(def *Fields, selector Field, alternatives map[string]runnables.Runnable) (*Alternatives, error) {
	if def == nil {
		return nil, ErrNilTarget
	}
	if selector.ID == "" {
		return nil, fmt.Errorf("%w: selector", ErrEmptyFieldID)
	}

	copied := make(map[string]runnables.Runnable, len(alternatives))
	for name, candidate := range alternatives {
		if name == "" {
			return nil, ErrEmptyAlternative
		}
		if candidate == nil {
			return nil, fmt.Errorf("%w: alternative %s", ErrNilTarget, name)
		}
		copied[name] = candidate
	}

	return &Alternatives{
		def:          def,
		selector:     selector,
		alternatives: copied,
	}, nil
}

// WithConfig returns a new overlay pre-bound to cfg; the receiver is not
// mutated. Bound configuration participates in both alternative selection
// and the selected target's own field substitution.
func (a *Alternatives) WithConfig(cfg *runnables.Config) *Alternatives {
	return &Alternatives{
		def:          a.def,
		selector:     a.selector,
		alternatives: a.alternatives,
		bound:        runnables.MergeConfigs(a.bound, cfg),
	}
}

// Invoke delegates to the selected target. When the default is active its
// declared field overrides still apply; when a candidate is active the
// candidate's own configuration handling (if any) applies instead.
func (a *Alternatives) Invoke(ctx context.Context, input any, cfg *runnables.Config) (any, error) {
	target, resolved := a.active(cfg)
	return target.Invoke(ctx, input, resolved)
}

// Call delegates a named method call to the selected target. Targets without
// a dynamic method surface fail with ErrUnknownMethod for every name.
func (a *Alternatives) Call(ctx context.Context, method string, cfg *runnables.Config) (any, error) {
	target, resolved := a.active(cfg)

	caller, ok := target.(MethodCaller)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
	return caller.Call(ctx, method, resolved)
}

// active resolves the effective configuration and selects the call-scoped
// target: a named candidate when the selector matches, the default overlay
// otherwise. No cross-call state is involved beyond the bound config.
func (a *Alternatives) active(cfg *runnables.Config) (runnables.Runnable, *runnables.Config) {
	resolved := runnables.MergeConfigs(a.bound, cfg)

	if value, ok := resolved.Value(a.selector.ID); ok {
		if name, isString := value.(string); isString {
			if candidate, exists := a.alternatives[name]; exists {
				return candidate, resolved
			}
		}
	}

	return a.def, resolved
}
