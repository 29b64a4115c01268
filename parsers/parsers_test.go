package parsers_test

import (
	"context"
	"errors"
	"testing"

	"github.com/physaikat/langchain/core/protocol"
	"github.com/physaikat/langchain/parsers"
)

func TestStr_Invoke(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
		wantErr  error
	}{
		{
			name:     "string passes through",
			input:    "hello",
			expected: "hello",
		},
		{
			name:     "message yields text",
			input:    protocol.NewMessage(protocol.RoleAssistant, "answer"),
			expected: "answer",
		},
		{
			name: "message list yields final text",
			input: []protocol.Message{
				protocol.NewMessage(protocol.RoleUser, "question"),
				protocol.NewMessage(protocol.RoleAssistant, "answer"),
			},
			expected: "answer",
		},
		{
			name:     "empty message list",
			input:    []protocol.Message{},
			expected: "",
		},
		{
			name:    "unsupported input",
			input:   42,
			wantErr: parsers.ErrUnparsableInput,
		},
	}

	parser := parsers.NewStr()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parser.Invoke(context.Background(), tt.input, nil)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Invoke() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Invoke() failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Invoke() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestJSONPath_Invoke(t *testing.T) {
	tests := []struct {
		name     string
		expr     string
		input    any
		expected any
		wantErr  error
	}{
		{
			name:     "field from JSON string",
			expr:     "$.result.value",
			input:    `{"result": {"value": "ok"}}`,
			expected: "ok",
		},
		{
			name:     "field from decoded map",
			expr:     "$.count",
			input:    map[string]any{"count": int64(3)},
			expected: int64(3),
		},
		{
			name:     "field from message content",
			expr:     "$.answer",
			input:    protocol.NewMessage(protocol.RoleAssistant, `{"answer": "yes"}`),
			expected: "yes",
		},
		{
			name:    "no match without default",
			expr:    "$.missing",
			input:   `{"present": 1}`,
			wantErr: parsers.ErrNoMatch,
		},
		{
			name:    "invalid JSON input",
			expr:    "$.x",
			input:   "{not json",
			wantErr: parsers.ErrUnparsableInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser, err := parsers.NewJSONPath(tt.expr)
			if err != nil {
				t.Fatalf("NewJSONPath() failed: %v", err)
			}
			got, err := parser.Invoke(context.Background(), tt.input, nil)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Invoke() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Invoke() failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Invoke() = %v (%T), want %v (%T)", got, got, tt.expected, tt.expected)
			}
		})
	}
}

func TestJSONPath_MultipleMatches(t *testing.T) {
	parser, err := parsers.NewJSONPath("$.items[*].id")
	if err != nil {
		t.Fatalf("NewJSONPath() failed: %v", err)
	}

	got, err := parser.Invoke(context.Background(), `{"items": [{"id": "a"}, {"id": "b"}]}`, nil)
	if err != nil {
		t.Fatalf("Invoke() failed: %v", err)
	}

	ids, ok := got.([]any)
	if !ok {
		t.Fatalf("Invoke() = %T, want []any", got)
	}
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("Invoke() = %v, want [a b]", ids)
	}
}

func TestJSONPath_WithDefault(t *testing.T) {
	parser, err := parsers.NewJSONPath("$.missing")
	if err != nil {
		t.Fatalf("NewJSONPath() failed: %v", err)
	}

	got, err := parser.WithDefault("fallback").Invoke(context.Background(), `{}`, nil)
	if err != nil {
		t.Fatalf("Invoke() failed: %v", err)
	}
	if got != "fallback" {
		t.Errorf("Invoke() = %v, want fallback", got)
	}

	// The receiver keeps its no-default behavior.
	if _, err := parser.Invoke(context.Background(), `{}`, nil); !errors.Is(err, parsers.ErrNoMatch) {
		t.Errorf("Invoke() error = %v, want ErrNoMatch", err)
	}
}

func TestJSONPath_InvalidExpression(t *testing.T) {
	if _, err := parsers.NewJSONPath("$.[unclosed"); err == nil {
		t.Error("expected error for invalid expression")
	}
}
