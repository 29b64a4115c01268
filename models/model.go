// Package models defines the chat model abstraction and the Chat runnable
// that adapts a model into composable pipelines. Chat declares its sampling
// parameters and the model itself as substitutable fields, so pipelines can
// reconfigure or swap models per invocation without rebuilding.
package models

import (
	"context"

	"github.com/physaikat/langchain/core/protocol"
)

// Usage reports token accounting for one generation.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// Generation is one model completion.
type Generation struct {
	Message protocol.Message
	Model   string
	Usage   Usage
}

// Options carries per-request sampling parameters and tool definitions.
type Options struct {
	Temperature float64
	MaxTokens   int
	Stop        []string
	Tools       []protocol.Tool
}

// Model is the provider-facing contract: turn a message list into one
// completion. Implementations must be safe for concurrent use.
type Model interface {
	Name() string
	Generate(ctx context.Context, messages []protocol.Message, opts *Options) (*Generation, error)
}
