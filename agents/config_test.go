package agents_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/physaikat/langchain/agents"
)

func TestDefaultConfig(t *testing.T) {
	cfg := agents.DefaultConfig()

	if cfg.MaxIterations != 10 {
		t.Errorf("got MaxIterations %d, want 10", cfg.MaxIterations)
	}
	if cfg.SystemPrompt != "" {
		t.Errorf("got SystemPrompt %q, want empty", cfg.SystemPrompt)
	}
}

func TestConfig_Merge(t *testing.T) {
	cfg := agents.DefaultConfig()
	cfg.Merge(&agents.Config{
		SystemPrompt:  "custom",
		MaxIterations: 5,
		Tools:         []string{"lookup"},
	})

	if cfg.SystemPrompt != "custom" {
		t.Errorf("got SystemPrompt %q, want custom", cfg.SystemPrompt)
	}
	if cfg.MaxIterations != 5 {
		t.Errorf("got MaxIterations %d, want 5", cfg.MaxIterations)
	}
	if len(cfg.Tools) != 1 || cfg.Tools[0] != "lookup" {
		t.Errorf("got Tools %v, want [lookup]", cfg.Tools)
	}

	// Zero values leave defaults in place.
	cfg.Merge(&agents.Config{})
	if cfg.MaxIterations != 5 || cfg.SystemPrompt != "custom" {
		t.Errorf("zero-value merge clobbered config: %+v", cfg)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"model": {"model": "fake", "temperature": 0.3},
		"max_iterations": 7,
		"system_prompt": "from file"
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := agents.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Model.Model != "fake" || cfg.Model.Temperature != 0.3 {
		t.Errorf("model config = %+v", cfg.Model)
	}
	if cfg.MaxIterations != 7 {
		t.Errorf("got MaxIterations %d, want 7", cfg.MaxIterations)
	}
	if cfg.SystemPrompt != "from file" {
		t.Errorf("got SystemPrompt %q, want from file", cfg.SystemPrompt)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	if _, err := agents.LoadConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := agents.LoadConfig(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
