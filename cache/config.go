package cache

// Config holds cache initialization parameters.
type Config struct {
	Path string `json:"path,omitempty"` // FileStore root directory; empty disables caching.
}

// DefaultConfig returns the default cache configuration (disabled).
func DefaultConfig() Config {
	return Config{}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Path != "" {
		c.Path = source.Path
	}
}

// NewStore creates a Store from configuration. Returns nil Store when Path
// is empty, indicating caching is disabled.
func NewStore(cfg *Config) (Store, error) {
	if cfg.Path == "" {
		return nil, nil
	}
	return NewFileStore(cfg.Path), nil
}
