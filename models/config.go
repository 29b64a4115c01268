package models

// Config holds chat step initialization parameters.
type Config struct {
	Model       string  `json:"model,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

// DefaultConfig returns the default chat configuration.
func DefaultConfig() Config {
	return Config{}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Model != "" {
		c.Model = source.Model
	}
	if source.Temperature != 0 {
		c.Temperature = source.Temperature
	}
	if source.MaxTokens != 0 {
		c.MaxTokens = source.MaxTokens
	}
}

// ChatFromConfig builds a Chat step from configuration, resolving the model
// by name against the registry.
func ChatFromConfig(registry *Registry, cfg *Config) (*Chat, error) {
	if cfg.Model == "" {
		return nil, ErrEmptyModelName
	}

	model, err := registry.Get(cfg.Model)
	if err != nil {
		return nil, err
	}

	return NewChat(model,
		WithTemperature(cfg.Temperature),
		WithMaxTokens(cfg.MaxTokens),
		WithRegistry(registry),
	)
}
