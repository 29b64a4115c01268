package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/physaikat/langchain/runnables"
)

type toolRunnable struct {
	name string
}

// Runnable adapts a registered tool into a pipeline step. Input is the
// tool's arguments: json.RawMessage and []byte pass through, strings are
// treated as encoded JSON, and any other value is JSON-encoded. Output is
// the tool result content; a result flagged IsError fails the step with
// ErrFailed.
func Runnable(name string) runnables.Runnable {
	return &toolRunnable{name: name}
}

func (t *toolRunnable) Invoke(ctx context.Context, input any, cfg *runnables.Config) (any, error) {
	args, err := encodeArgs(input)
	if err != nil {
		return nil, fmt.Errorf("tool %s: %w", t.name, err)
	}

	result, err := Execute(ctx, t.name, args)
	if err != nil {
		return nil, err
	}
	if result.IsError {
		return nil, fmt.Errorf("%w: %s: %s", ErrFailed, t.name, result.Content)
	}
	return result.Content, nil
}

func encodeArgs(input any) (json.RawMessage, error) {
	switch v := input.(type) {
	case json.RawMessage:
		return v, nil
	case []byte:
		return json.RawMessage(v), nil
	case string:
		return json.RawMessage(v), nil
	case nil:
		return json.RawMessage(`{}`), nil
	}
	encoded, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("encoding arguments: %w", err)
	}
	return json.RawMessage(encoded), nil
}
