// Package parsers provides output parsers that transform model output into
// plain values. Parsers implement runnables.Runnable so they compose as the
// trailing steps of a sequence.
package parsers

import (
	"context"
	"errors"
	"fmt"

	"github.com/physaikat/langchain/core/protocol"
	"github.com/physaikat/langchain/runnables"
)

// Sentinel errors for output parsing.
var (
	ErrUnparsableInput = errors.New("unparsable input")
	ErrNoMatch         = errors.New("no match for path")
)

// Str extracts plain text from a model output: strings pass through,
// messages yield their text content, and message lists yield the text of
// the final message.
type Str struct{}

// NewStr creates a Str parser.
func NewStr() Str {
	return Str{}
}

func (Str) Invoke(ctx context.Context, input any, cfg *runnables.Config) (any, error) {
	switch v := input.(type) {
	case string:
		return v, nil
	case protocol.Message:
		return v.Text(), nil
	case []protocol.Message:
		if len(v) == 0 {
			return "", nil
		}
		return v[len(v)-1].Text(), nil
	case fmt.Stringer:
		return v.String(), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnparsableInput, input)
}
