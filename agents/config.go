package agents

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/physaikat/langchain/models"
)

const defaultMaxIterations = 10

// Config holds initialization parameters for the executor.
type Config struct {
	Model         models.Config `json:"model"`
	Tools         []string      `json:"tools,omitempty"`
	MaxIterations int           `json:"max_iterations,omitempty"`
	SystemPrompt  string        `json:"system_prompt,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Model:         models.DefaultConfig(),
		MaxIterations: defaultMaxIterations,
	}
}

// Merge applies non-zero values from source into c, delegating to the model
// section's Merge method.
func (c *Config) Merge(source *Config) {
	c.Model.Merge(&source.Model)

	if source.MaxIterations > 0 {
		c.MaxIterations = source.MaxIterations
	}
	if source.SystemPrompt != "" {
		c.SystemPrompt = source.SystemPrompt
	}
	if len(source.Tools) > 0 {
		c.Tools = source.Tools
	}
}

// LoadConfig reads a JSON config file, merges it with defaults, and returns
// the resulting Config.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
