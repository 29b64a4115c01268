// Package history manages conversation message history and injects it into
// pipeline invocations keyed by a session identifier.
package history

import (
	"errors"

	"github.com/physaikat/langchain/core/protocol"
)

// Sentinel errors for the history package.
var (
	ErrNoSessionID = errors.New("no session_id in configuration")
	ErrBadInput    = errors.New("history input must be a string, message, or message list")
)

// History holds an ordered sequence of conversation messages. Implementations
// must be safe for concurrent use.
type History interface {
	// ID returns the unique history identifier.
	ID() string
	// Append adds messages to the conversation history.
	Append(msgs ...protocol.Message)
	// Messages returns a defensive copy of the conversation history.
	Messages() []protocol.Message
	// Clear resets the conversation history.
	Clear()
}

// Store resolves session identifiers to their histories. Implementations
// must be safe for concurrent use.
type Store interface {
	// GetOrCreate returns the history for the given session identifier,
	// creating an empty one on first access.
	GetOrCreate(sessionID string) History
}
