package models

import (
	"context"
	"fmt"

	"github.com/physaikat/langchain/core/protocol"
	"github.com/physaikat/langchain/runnables"
	"github.com/physaikat/langchain/runnables/configurable"
)

// Chat adapts a Model into a runnable step. Input may be a string (treated
// as a single user message), a protocol.Message, or a []protocol.Message;
// output is the assistant protocol.Message of the generation.
//
// Chat supports per-call field substitution: "temperature", "max_tokens",
// and "model" can be overridden through a configurable.Fields overlay. A
// model override is resolved by name against the registry the Chat was
// built with.
type Chat struct {
	model       Model
	registry    *Registry
	temperature float64
	maxTokens   int
}

// ChatOption customizes Chat construction.
type ChatOption func(*Chat)

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float64) ChatOption {
	return func(c *Chat) { c.temperature = temperature }
}

// WithMaxTokens caps the completion length.
func WithMaxTokens(maxTokens int) ChatOption {
	return func(c *Chat) { c.maxTokens = maxTokens }
}

// WithRegistry enables by-name model substitution against the given registry.
func WithRegistry(registry *Registry) ChatOption {
	return func(c *Chat) { c.registry = registry }
}

// NewChat creates a Chat step for the given model.
func NewChat(model Model, opts ...ChatOption) (*Chat, error) {
	if model == nil {
		return nil, ErrNilModel
	}
	c := &Chat{model: model}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Model returns the wrapped model.
func (c *Chat) Model() Model {
	return c.model
}

// Temperature returns the configured sampling temperature.
func (c *Chat) Temperature() float64 {
	return c.temperature
}

func (c *Chat) Invoke(ctx context.Context, input any, cfg *runnables.Config) (any, error) {
	messages, err := coerceMessages(input)
	if err != nil {
		return nil, err
	}

	gen, err := c.model.Generate(ctx, messages, &Options{
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", c.model.Name(), err)
	}
	return gen.Message, nil
}

// WithFieldValues returns a copy of the Chat with the given field overrides
// applied. The receiver is never modified. Recognized fields are
// "temperature" (number), "max_tokens" (integer), and "model" (model name
// resolved against the registry, or a Model value).
func (c *Chat) WithFieldValues(overrides map[string]any) (configurable.Target, error) {
	out := *c
	for name, value := range overrides {
		switch name {
		case "temperature":
			t, ok := asFloat(value)
			if !ok {
				return nil, fmt.Errorf("%w: temperature %v (%T)", ErrBadFieldValue, value, value)
			}
			out.temperature = t
		case "max_tokens":
			n, ok := asInt(value)
			if !ok {
				return nil, fmt.Errorf("%w: max_tokens %v (%T)", ErrBadFieldValue, value, value)
			}
			out.maxTokens = n
		case "model":
			model, err := c.resolveModel(value)
			if err != nil {
				return nil, err
			}
			out.model = model
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
	}
	return &out, nil
}

// Call exposes Chat's dynamic method surface for overlay delegation.
func (c *Chat) Call(ctx context.Context, method string, cfg *runnables.Config) (any, error) {
	switch method {
	case "ModelName":
		return c.model.Name(), nil
	case "Temperature":
		return c.temperature, nil
	case "MaxTokens":
		return c.maxTokens, nil
	}
	return nil, fmt.Errorf("%w: %s", configurable.ErrUnknownMethod, method)
}

// Configurable wraps the Chat in a field overlay with the standard external
// keys: "model_name" for the model and "temperature" for sampling.
func (c *Chat) Configurable() (*configurable.Fields, error) {
	return configurable.NewFields(c, map[string]configurable.Field{
		"model": {
			ID:          "model_name",
			Name:        "Model",
			Description: "Registered name of the chat model to use",
		},
		"temperature": {
			ID:          "temperature",
			Name:        "Temperature",
			Description: "Sampling temperature",
		},
	})
}

func (c *Chat) resolveModel(value any) (Model, error) {
	switch v := value.(type) {
	case Model:
		return v, nil
	case string:
		if c.registry == nil {
			return nil, fmt.Errorf("%w: no registry to resolve model %q", ErrModelNotFound, v)
		}
		return c.registry.Get(v)
	}
	return nil, fmt.Errorf("%w: model %v (%T)", ErrBadFieldValue, value, value)
}

func coerceMessages(input any) ([]protocol.Message, error) {
	switch v := input.(type) {
	case string:
		return protocol.InitMessages(protocol.RoleUser, v), nil
	case protocol.Message:
		return []protocol.Message{v}, nil
	case []protocol.Message:
		return v, nil
	}
	return nil, fmt.Errorf("%w, got %T", ErrBadInput, input)
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func asInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	}
	return 0, false
}
