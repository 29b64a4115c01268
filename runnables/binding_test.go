package runnables_test

import (
	"context"
	"testing"

	"github.com/physaikat/langchain/runnables"
)

// configEcho returns the configurable value for "k", or the original input
// when no override is present.
func configEcho() *runnables.Lambda {
	return runnables.NewLambda("config_echo", func(ctx context.Context, input any, cfg *runnables.Config) (any, error) {
		if v, ok := cfg.Value("k"); ok {
			return v, nil
		}
		return input, nil
	})
}

func TestBind_AppliesBoundConfig(t *testing.T) {
	bound := runnables.Bind(configEcho(), runnables.WithConfigurable(map[string]any{"k": "b"}))

	out, err := bound.Invoke(context.Background(), "a", nil)
	if err != nil {
		t.Fatalf("Invoke() failed: %v", err)
	}
	if out != "b" {
		t.Errorf("output = %v, want b", out)
	}
}

func TestBind_PerCallConfigWins(t *testing.T) {
	bound := runnables.Bind(configEcho(), runnables.WithConfigurable(map[string]any{"k": "b"}))

	out, err := bound.Invoke(context.Background(), "a", runnables.WithConfigurable(map[string]any{"k": "c"}))
	if err != nil {
		t.Fatalf("Invoke() failed: %v", err)
	}
	if out != "c" {
		t.Errorf("output = %v, want c", out)
	}
}

func TestBind_StacksWithOuterPrecedence(t *testing.T) {
	inner := runnables.Bind(configEcho(), runnables.WithConfigurable(map[string]any{"k": "inner"}))
	outer := runnables.Bind(inner, runnables.WithConfigurable(map[string]any{"k": "outer"}))

	out, err := outer.Invoke(context.Background(), "a", nil)
	if err != nil {
		t.Fatalf("Invoke() failed: %v", err)
	}
	if out != "outer" {
		t.Errorf("output = %v, want outer", out)
	}
}

func TestBind_DoesNotMutateOriginal(t *testing.T) {
	original := configEcho()
	runnables.Bind(original, runnables.WithConfigurable(map[string]any{"k": "b"}))

	out, err := original.Invoke(context.Background(), "a", nil)
	if err != nil {
		t.Fatalf("Invoke() failed: %v", err)
	}
	if out != "a" {
		t.Errorf("original runnable affected by Bind: output = %v, want a", out)
	}
}

func TestPassthrough(t *testing.T) {
	out, err := runnables.NewPassthrough().Invoke(context.Background(), 42, nil)
	if err != nil {
		t.Fatalf("Invoke() failed: %v", err)
	}
	if out != 42 {
		t.Errorf("output = %v, want 42", out)
	}
}

func TestAssign_MergesBranchOutputs(t *testing.T) {
	assign := runnables.NewAssign(map[string]runnables.Runnable{
		"doubled": runnables.NewLambda("doubled", func(ctx context.Context, input any, cfg *runnables.Config) (any, error) {
			m := input.(map[string]any)
			return m["n"].(int) * 2, nil
		}),
	})

	input := map[string]any{"n": 21}
	out, err := assign.Invoke(context.Background(), input, nil)
	if err != nil {
		t.Fatalf("Invoke() failed: %v", err)
	}

	m := out.(map[string]any)
	if m["n"] != 21 || m["doubled"] != 42 {
		t.Errorf("output = %v", m)
	}
	if _, exists := input["doubled"]; exists {
		t.Error("Assign mutated its input map")
	}
}

func TestAssign_RejectsNonMapInput(t *testing.T) {
	assign := runnables.NewAssign(nil)
	if _, err := assign.Invoke(context.Background(), "not a map", nil); err == nil {
		t.Error("expected error for non-map input")
	}
}
