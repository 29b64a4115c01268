package runnables

import "context"

// Binding wraps a runnable with a pre-bound invocation Config. Calls without
// an explicit config use the bound one; calls that do supply a config have it
// merged over the bound config, the per-call values taking precedence.
//
// Bind never mutates the wrapped runnable or the receiver; each Bind returns
// a new Binding.
type Binding struct {
	inner Runnable
	bound *Config
}

// Bind returns a Binding of r pre-bound to cfg. Binding an already-bound
// runnable stacks: the outer bind's values win where they overlap.
func Bind(r Runnable, cfg *Config) *Binding {
	if b, ok := r.(*Binding); ok {
		return &Binding{
			inner: b.inner,
			bound: MergeConfigs(b.bound, cfg),
		}
	}
	return &Binding{inner: r, bound: cfg.Copy()}
}

// Bound returns a copy of the bound configuration.
func (b *Binding) Bound() *Config {
	return b.bound.Copy()
}

// Unwrap returns the wrapped runnable.
func (b *Binding) Unwrap() Runnable {
	return b.inner
}

func (b *Binding) Invoke(ctx context.Context, input any, cfg *Config) (any, error) {
	return b.inner.Invoke(ctx, input, MergeConfigs(b.bound, cfg))
}
