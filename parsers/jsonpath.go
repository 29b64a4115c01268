package parsers

import (
	"context"
	"fmt"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/physaikat/langchain/core/protocol"
	"github.com/physaikat/langchain/runnables"
)

// JSONPath extracts a value from JSON model output using a JSONPath
// expression. String and message inputs are parsed as JSON documents;
// already-decoded values (maps, slices) are queried directly.
//
// A single match is returned bare, multiple matches as a []any. No match
// fails with ErrNoMatch unless a default was set with WithDefault.
type JSONPath struct {
	expr       string
	path       jp.Expr
	defaultVal any
	hasDefault bool
}

// NewJSONPath compiles the given JSONPath expression.
func NewJSONPath(expr string) (*JSONPath, error) {
	path, err := jp.ParseString(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONPath expression %q: %w", expr, err)
	}
	return &JSONPath{expr: expr, path: path}, nil
}

// WithDefault returns a copy of the parser that yields v instead of
// ErrNoMatch when the path matches nothing.
func (p *JSONPath) WithDefault(v any) *JSONPath {
	out := *p
	out.defaultVal = v
	out.hasDefault = true
	return &out
}

// Expression returns the source JSONPath expression.
func (p *JSONPath) Expression() string {
	return p.expr
}

func (p *JSONPath) Invoke(ctx context.Context, input any, cfg *runnables.Config) (any, error) {
	data, err := p.document(input)
	if err != nil {
		return nil, err
	}

	results := p.path.Get(data)
	if len(results) == 0 {
		if p.hasDefault {
			return p.defaultVal, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrNoMatch, p.expr)
	}
	if len(results) == 1 {
		return results[0], nil
	}
	return results, nil
}

func (p *JSONPath) document(input any) (any, error) {
	switch v := input.(type) {
	case string:
		data, err := oj.ParseString(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnparsableInput, err)
		}
		return data, nil
	case []byte:
		data, err := oj.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnparsableInput, err)
		}
		return data, nil
	case protocol.Message:
		return p.document(v.Text())
	case nil:
		return nil, fmt.Errorf("%w: nil input", ErrUnparsableInput)
	}
	return input, nil
}
