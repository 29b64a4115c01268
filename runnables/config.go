package runnables

import (
	"maps"
	"slices"

	"github.com/google/uuid"
)

const defaultRecursionLimit = 25

// Config is the per-call invocation configuration. Configurable is the
// reserved override sub-mapping consulted by the configurable overlays:
// keys are external field ids, values replace the declared field for the
// duration of one call. Unmatched keys are ignored by the field-substitution
// layer and may be consumed elsewhere.
//
// A Config is never persisted on a runnable by Invoke; only an explicit
// bind (Bind, WithConfig) carries configuration across calls.
type Config struct {
	Configurable   map[string]any `json:"configurable,omitempty"`
	Tags           []string       `json:"tags,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	RunID          string         `json:"run_id,omitempty"`
	Observer       string         `json:"observer,omitempty"`
	MaxConcurrency int            `json:"max_concurrency,omitempty"`
	RecursionLimit int            `json:"recursion_limit,omitempty"`
}

// WithConfigurable builds a Config carrying only the given override mapping.
// Convenience constructor for the common invocation shape
// {"configurable": {key: value}}.
func WithConfigurable(kv map[string]any) *Config {
	return &Config{Configurable: maps.Clone(kv)}
}

// Value looks up a key in the Configurable sub-mapping. Safe on a nil Config.
func (c *Config) Value(key string) (any, bool) {
	if c == nil || c.Configurable == nil {
		return nil, false
	}
	v, ok := c.Configurable[key]
	return v, ok
}

// Copy returns an independent shallow copy of the Config. Safe on nil,
// returning an empty Config.
func (c *Config) Copy() *Config {
	if c == nil {
		return &Config{}
	}
	return &Config{
		Configurable:   maps.Clone(c.Configurable),
		Tags:           slices.Clone(c.Tags),
		Metadata:       maps.Clone(c.Metadata),
		RunID:          c.RunID,
		Observer:       c.Observer,
		MaxConcurrency: c.MaxConcurrency,
		RecursionLimit: c.RecursionLimit,
	}
}

// EnsureConfig returns a non-nil copy of cfg with defaults filled in:
// a fresh RunID, a non-nil Configurable map, and the default recursion
// limit. The input is never mutated.
func EnsureConfig(cfg *Config) *Config {
	out := cfg.Copy()

	if out.Configurable == nil {
		out.Configurable = make(map[string]any)
	}
	if out.RunID == "" {
		out.RunID = uuid.New().String()
	}
	if out.RecursionLimit == 0 {
		out.RecursionLimit = defaultRecursionLimit
	}
	return out
}

// MergeConfigs combines configs left to right into a new Config; later
// entries win. Configurable and Metadata merge per key, Tags append with
// duplicates removed, and scalar fields take the last non-zero value.
// Nil entries are skipped. None of the inputs are mutated.
func MergeConfigs(configs ...*Config) *Config {
	merged := &Config{}

	for _, cfg := range configs {
		if cfg == nil {
			continue
		}

		if len(cfg.Configurable) > 0 {
			if merged.Configurable == nil {
				merged.Configurable = make(map[string]any, len(cfg.Configurable))
			}
			maps.Copy(merged.Configurable, cfg.Configurable)
		}
		if len(cfg.Metadata) > 0 {
			if merged.Metadata == nil {
				merged.Metadata = make(map[string]any, len(cfg.Metadata))
			}
			maps.Copy(merged.Metadata, cfg.Metadata)
		}
		for _, tag := range cfg.Tags {
			if !slices.Contains(merged.Tags, tag) {
				merged.Tags = append(merged.Tags, tag)
			}
		}

		if cfg.RunID != "" {
			merged.RunID = cfg.RunID
		}
		if cfg.Observer != "" {
			merged.Observer = cfg.Observer
		}
		if cfg.MaxConcurrency > 0 {
			merged.MaxConcurrency = cfg.MaxConcurrency
		}
		if cfg.RecursionLimit > 0 {
			merged.RecursionLimit = cfg.RecursionLimit
		}
	}

	return merged
}
