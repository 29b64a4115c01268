package tools_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/physaikat/langchain/core/protocol"
	"github.com/physaikat/langchain/tools"
)

func testTool(name string) protocol.Tool {
	return protocol.Tool{
		Name:        name,
		Description: "test tool: " + name,
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"input": map[string]any{"type": "string"},
			},
		},
	}
}

func echoHandler(_ context.Context, args json.RawMessage) (tools.Result, error) {
	return tools.Result{Content: string(args)}, nil
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name    string
		tool    protocol.Tool
		wantErr error
	}{
		{
			name: "valid tool",
			tool: testTool("register_valid"),
		},
		{
			name:    "empty name",
			tool:    protocol.Tool{Name: ""},
			wantErr: tools.ErrEmptyName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tools.Register(tt.tool, echoHandler)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Errorf("Register() unexpected error: %v", err)
			}
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	tool := testTool("register_duplicate")

	if err := tools.Register(tool, echoHandler); err != nil {
		t.Fatalf("first Register() failed: %v", err)
	}

	err := tools.Register(tool, echoHandler)
	if !errors.Is(err, tools.ErrAlreadyExists) {
		t.Errorf("second Register() error = %v, want %v", err, tools.ErrAlreadyExists)
	}
}

func TestReplace(t *testing.T) {
	tool := testTool("replace_existing")

	if err := tools.Register(tool, echoHandler); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	replaced := func(_ context.Context, _ json.RawMessage) (tools.Result, error) {
		return tools.Result{Content: "replaced"}, nil
	}
	if err := tools.Replace(tool, replaced); err != nil {
		t.Fatalf("Replace() failed: %v", err)
	}

	result, err := tools.Execute(context.Background(), tool.Name, json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if result.Content != "replaced" {
		t.Errorf("got content %q, want replaced", result.Content)
	}
}

func TestReplace_NotFound(t *testing.T) {
	err := tools.Replace(testTool("replace_missing"), echoHandler)
	if !errors.Is(err, tools.ErrNotFound) {
		t.Errorf("Replace() error = %v, want %v", err, tools.ErrNotFound)
	}
}

func TestGet(t *testing.T) {
	tool := testTool("get_existing")

	if err := tools.Register(tool, echoHandler); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	if _, ok := tools.Get(tool.Name); !ok {
		t.Error("Get() did not find registered tool")
	}
	if _, ok := tools.Get("get_missing"); ok {
		t.Error("Get() found unregistered tool")
	}
}

func TestExecute(t *testing.T) {
	tool := testTool("execute_echo")

	if err := tools.Register(tool, echoHandler); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	args := json.RawMessage(`{"input": "hello"}`)
	result, err := tools.Execute(context.Background(), tool.Name, args)
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if result.Content != string(args) {
		t.Errorf("got content %q, want %q", result.Content, args)
	}
}

func TestExecute_NotFound(t *testing.T) {
	_, err := tools.Execute(context.Background(), "execute_missing", nil)
	if !errors.Is(err, tools.ErrNotFound) {
		t.Errorf("Execute() error = %v, want %v", err, tools.ErrNotFound)
	}
}

func TestExecute_HandlerError(t *testing.T) {
	tool := testTool("execute_failing")

	failing := func(_ context.Context, _ json.RawMessage) (tools.Result, error) {
		return tools.Result{}, errors.New("boom")
	}
	if err := tools.Register(tool, failing); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	_, err := tools.Execute(context.Background(), tool.Name, nil)
	if err == nil || !strings.Contains(err.Error(), tool.Name) {
		t.Errorf("Execute() error = %v, want handler error naming the tool", err)
	}
}

func TestDefinitions(t *testing.T) {
	names := []string{"definitions_b", "definitions_a"}
	for _, name := range names {
		if err := tools.Register(testTool(name), echoHandler); err != nil {
			t.Fatalf("Register() failed: %v", err)
		}
	}

	defs, err := tools.Definitions(names)
	if err != nil {
		t.Fatalf("Definitions() failed: %v", err)
	}
	if len(defs) != 2 || defs[0].Name != "definitions_b" || defs[1].Name != "definitions_a" {
		t.Errorf("Definitions() = %v, want declared order preserved", defs)
	}

	if _, err := tools.Definitions([]string{"definitions_missing"}); !errors.Is(err, tools.ErrNotFound) {
		t.Errorf("Definitions() error = %v, want %v", err, tools.ErrNotFound)
	}
}

func TestRunnable(t *testing.T) {
	tool := testTool("runnable_echo")
	if err := tools.Register(tool, echoHandler); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	step := tools.Runnable(tool.Name)

	out, err := step.Invoke(context.Background(), map[string]any{"input": "x"}, nil)
	if err != nil {
		t.Fatalf("Invoke() failed: %v", err)
	}
	if out != `{"input":"x"}` {
		t.Errorf("Invoke() = %v, want encoded args echoed", out)
	}
}

func TestRunnable_Failure(t *testing.T) {
	tool := testTool("runnable_failing")
	failing := func(_ context.Context, _ json.RawMessage) (tools.Result, error) {
		return tools.Result{Content: "bad arguments", IsError: true}, nil
	}
	if err := tools.Register(tool, failing); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	if _, err := tools.Runnable(tool.Name).Invoke(context.Background(), nil, nil); !errors.Is(err, tools.ErrFailed) {
		t.Errorf("Invoke() error = %v, want %v", err, tools.ErrFailed)
	}
}

func TestRunnable_NotFound(t *testing.T) {
	if _, err := tools.Runnable("runnable_missing").Invoke(context.Background(), nil, nil); !errors.Is(err, tools.ErrNotFound) {
		t.Errorf("Invoke() error = %v, want %v", err, tools.ErrNotFound)
	}
}
