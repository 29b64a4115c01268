package agents

import "errors"

// Sentinel errors for the agent executor.
var (
	// ErrMaxIterations is returned by Run when the loop exhausts its
	// iteration budget without the model producing a final response.
	ErrMaxIterations = errors.New("max iterations reached")
	// ErrBadInput is returned by Invoke for non-string, non-message input.
	ErrBadInput = errors.New("executor input must be a string or message list")
)
