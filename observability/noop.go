package observability

import "context"

// NoOpObserver discards all events. It is the registry default, so pipeline
// steps, agent iterations, and script runs emit unconditionally and the cost
// of an unconfigured observer stays negligible.
type NoOpObserver struct{}

func (NoOpObserver) OnEvent(ctx context.Context, event Event) {}
