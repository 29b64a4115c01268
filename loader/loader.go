// Package loader builds runnable pipelines from YAML chain definitions.
// Definitions are decoded strictly — unknown fields are errors — then
// validated and assembled into a Sequence of the declared steps.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/physaikat/langchain/history"
	"github.com/physaikat/langchain/models"
	"github.com/physaikat/langchain/parsers"
	"github.com/physaikat/langchain/prompts"
	"github.com/physaikat/langchain/runnables"
	"github.com/physaikat/langchain/runnables/configurable"
	"github.com/physaikat/langchain/script"
	"github.com/physaikat/langchain/tools"
)

// Sentinel errors for chain loading.
var (
	ErrNoSteps         = errors.New("chain has no steps")
	ErrUnknownStepType = errors.New("unknown step type")
	ErrMissingField    = errors.New("missing required field")
)

// Definition is the YAML shape of a chain. History marks the chain as
// session-aware: invocations resolve conversation memory from the
// "session_id" configurable key and record each exchange.
type Definition struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	History     bool   `yaml:"history,omitempty"`
	Steps       []Step `yaml:"steps"`
}

// Step is one pipeline stage in a chain definition. Type selects the stage
// kind; the remaining fields apply to specific kinds only.
type Step struct {
	Type string `yaml:"type"`
	Name string `yaml:"name,omitempty"`

	// prompt
	Template string `yaml:"template,omitempty"`

	// chat
	Model        string            `yaml:"model,omitempty"`
	Temperature  float64           `yaml:"temperature,omitempty"`
	MaxTokens    int               `yaml:"max_tokens,omitempty"`
	Configurable map[string]Field  `yaml:"configurable,omitempty"`
	Alternatives map[string]string `yaml:"alternatives,omitempty"`
	Selector     *Field            `yaml:"selector,omitempty"`

	// parser
	Parser  string `yaml:"parser,omitempty"`
	Path    string `yaml:"path,omitempty"`
	Default any    `yaml:"default,omitempty"`

	// script
	Source string `yaml:"source,omitempty"`

	// tool
	Tool string `yaml:"tool,omitempty"`
}

// Field declares an externally overridable field of a chat step.
type Field struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// Chain is a loaded, ready-to-run pipeline.
type Chain struct {
	Definition Definition
	runnable   runnables.Runnable
}

// Invoke runs the chain.
func (c *Chain) Invoke(ctx context.Context, input any, cfg *runnables.Config) (any, error) {
	return c.runnable.Invoke(ctx, input, cfg)
}

// Loader builds chains, resolving chat steps against its model registry and
// backing history-aware chains with its session store.
type Loader struct {
	registry *models.Registry
	sessions history.Store
}

// Option configures a Loader.
type Option func(*Loader)

// WithSessionStore sets the store backing history-aware chains. Defaults to
// an in-memory store.
func WithSessionStore(store history.Store) Option {
	return func(l *Loader) {
		l.sessions = store
	}
}

// New creates a Loader over the given model registry.
func New(registry *models.Registry, opts ...Option) *Loader {
	l := &Loader{
		registry: registry,
		sessions: history.NewMemoryStore(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Parse decodes and builds a chain from YAML bytes.
func (l *Loader) Parse(data []byte) (*Chain, error) {
	var def Definition

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Strict mode: error on unknown fields

	if err := decoder.Decode(&def); err != nil {
		return nil, fmt.Errorf("decoding chain: %w", err)
	}

	return l.build(def)
}

// ParseFile decodes and builds a chain from a YAML file.
func (l *Loader) ParseFile(path string) (*Chain, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading chain file: %w", err)
	}
	return l.Parse(data)
}

func (l *Loader) build(def Definition) (*Chain, error) {
	if len(def.Steps) == 0 {
		return nil, ErrNoSteps
	}

	steps := make([]runnables.Runnable, 0, len(def.Steps))
	for i, stepDef := range def.Steps {
		step, err := l.buildStep(stepDef)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, stepDef.Type, err)
		}
		steps = append(steps, step)
	}

	seq, err := runnables.NewSequence(steps...)
	if err != nil {
		return nil, err
	}

	var runnable runnables.Runnable = seq
	if def.History {
		runnable = history.Wrap(seq, l.sessions)
	}
	return &Chain{Definition: def, runnable: runnable}, nil
}

func (l *Loader) buildStep(def Step) (runnables.Runnable, error) {
	switch def.Type {
	case "prompt":
		if def.Template == "" {
			return nil, fmt.Errorf("%w: template", ErrMissingField)
		}
		return prompts.NewTemplate(def.Template), nil

	case "chat":
		return l.buildChat(def)

	case "parser":
		return buildParser(def)

	case "script":
		if def.Source == "" {
			return nil, fmt.Errorf("%w: source", ErrMissingField)
		}
		name := def.Name
		if name == "" {
			name = "script"
		}
		return script.NewJS(name, def.Source)

	case "tool":
		if def.Tool == "" {
			return nil, fmt.Errorf("%w: tool", ErrMissingField)
		}
		return tools.Runnable(def.Tool), nil

	case "passthrough":
		return runnables.NewPassthrough(), nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownStepType, def.Type)
}

func (l *Loader) buildChat(def Step) (runnables.Runnable, error) {
	if def.Model == "" {
		return nil, fmt.Errorf("%w: model", ErrMissingField)
	}

	chat, err := l.newChat(def, def.Model)
	if err != nil {
		return nil, err
	}

	if len(def.Configurable) == 0 && len(def.Alternatives) == 0 {
		return chat, nil
	}

	fields := make(map[string]configurable.Field, len(def.Configurable))
	for internal, field := range def.Configurable {
		fields[internal] = configurable.Field{
			ID:          field.ID,
			Name:        field.Name,
			Description: field.Description,
		}
	}
	overlay, err := configurable.NewFields(chat, fields)
	if err != nil {
		return nil, err
	}

	if len(def.Alternatives) == 0 {
		return overlay, nil
	}
	if def.Selector == nil || def.Selector.ID == "" {
		return nil, fmt.Errorf("%w: selector", ErrMissingField)
	}

	candidates := make(map[string]runnables.Runnable, len(def.Alternatives))
	for name, modelName := range def.Alternatives {
		candidate, err := l.newChat(def, modelName)
		if err != nil {
			return nil, fmt.Errorf("alternative %s: %w", name, err)
		}
		candidates[name] = candidate
	}

	selector := configurable.Field{
		ID:          def.Selector.ID,
		Name:        def.Selector.Name,
		Description: def.Selector.Description,
	}
	return overlay.WithAlternatives(selector, candidates)
}

func (l *Loader) newChat(def Step, modelName string) (*models.Chat, error) {
	model, err := l.registry.Get(modelName)
	if err != nil {
		return nil, err
	}
	return models.NewChat(model,
		models.WithTemperature(def.Temperature),
		models.WithMaxTokens(def.MaxTokens),
		models.WithRegistry(l.registry),
	)
}

func buildParser(def Step) (runnables.Runnable, error) {
	switch def.Parser {
	case "", "str":
		return parsers.NewStr(), nil
	case "jsonpath":
		if def.Path == "" {
			return nil, fmt.Errorf("%w: path", ErrMissingField)
		}
		p, err := parsers.NewJSONPath(def.Path)
		if err != nil {
			return nil, err
		}
		if def.Default != nil {
			p = p.WithDefault(def.Default)
		}
		return p, nil
	}
	return nil, fmt.Errorf("%w: parser %s", ErrUnknownStepType, def.Parser)
}
