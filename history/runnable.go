package history

import (
	"context"
	"fmt"

	"github.com/physaikat/langchain/core/protocol"
	"github.com/physaikat/langchain/runnables"
)

// SessionKey is the configurable key carrying the session identifier.
const SessionKey = "session_id"

// WithHistory wraps a runnable with per-session conversation memory. Each
// invocation resolves its session from the "session_id" configurable key,
// prepends that session's messages to the input, and records both the input
// and the output message after a successful call.
type WithHistory struct {
	inner runnables.Runnable
	store Store
}

// Wrap creates a history-injecting wrapper around inner backed by store.
func Wrap(inner runnables.Runnable, store Store) *WithHistory {
	return &WithHistory{inner: inner, store: store}
}

func (w *WithHistory) Invoke(ctx context.Context, input any, cfg *runnables.Config) (any, error) {
	sessionID, err := sessionFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	h := w.store.GetOrCreate(sessionID)

	incoming, err := coerceMessages(input)
	if err != nil {
		return nil, err
	}
	merged := append(h.Messages(), incoming...)

	out, err := w.inner.Invoke(ctx, merged, cfg)
	if err != nil {
		return nil, err
	}

	h.Append(incoming...)
	if msg, ok := out.(protocol.Message); ok {
		h.Append(msg)
	}
	return out, nil
}

func sessionFromConfig(cfg *runnables.Config) (string, error) {
	value, ok := cfg.Value(SessionKey)
	if !ok {
		return "", ErrNoSessionID
	}
	id, ok := value.(string)
	if !ok || id == "" {
		return "", fmt.Errorf("%w: got %v (%T)", ErrNoSessionID, value, value)
	}
	return id, nil
}

func coerceMessages(input any) ([]protocol.Message, error) {
	switch v := input.(type) {
	case string:
		return protocol.InitMessages(protocol.RoleUser, v), nil
	case protocol.Message:
		return []protocol.Message{v}, nil
	case []protocol.Message:
		return v, nil
	}
	return nil, fmt.Errorf("%w, got %T", ErrBadInput, input)
}
