// Package agents implements the tool-calling executor loop that composes a
// chat model, the tools registry, and conversation history into the
// observe/think/act/repeat cycle.
//
// The executor initializes from configuration via New, creating all
// subsystems internally. Functional options allow test overrides of any
// subsystem.
//
//	e, err := agents.New(&cfg, agents.WithModel(model))
//	result, err := e.Run(ctx, "What's the weather in Boston?", nil)
package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/physaikat/langchain/core/protocol"
	"github.com/physaikat/langchain/history"
	"github.com/physaikat/langchain/models"
	"github.com/physaikat/langchain/observability"
	"github.com/physaikat/langchain/runnables"
	"github.com/physaikat/langchain/tools"
)

// Result holds the outcome of an executor Run invocation.
type Result struct {
	Response   string           // Final text response from the model.
	Iterations int              // Number of loop cycles completed.
	ToolCalls  []ToolCallRecord // Log of all tool invocations.
}

// ToolCallRecord captures one tool invocation made during a run.
type ToolCallRecord struct {
	protocol.ToolCall
	Iteration int    // Loop cycle in which the call occurred.
	Result    string // Tool execution output.
	IsError   bool   // Whether execution returned an error.
}

// ToolExecutor abstracts tool listing and execution for testability.
// The default implementation delegates to the global tools package.
type ToolExecutor interface {
	List() []protocol.Tool
	Execute(ctx context.Context, name string, args json.RawMessage) (tools.Result, error)
}

type globalToolExecutor struct{}

func (globalToolExecutor) List() []protocol.Tool {
	return tools.List()
}

func (globalToolExecutor) Execute(ctx context.Context, name string, args json.RawMessage) (tools.Result, error) {
	return tools.Execute(ctx, name, args)
}

// Option configures an Executor after config-driven initialization.
// Applied by New after cold start; overrides replace config-created defaults.
type Option func(*Executor)

// WithModel overrides the config-resolved model.
func WithModel(m models.Model) Option {
	return func(e *Executor) { e.model = m }
}

// WithHistory overrides the config-created conversation history.
func WithHistory(h history.History) Option {
	return func(e *Executor) { e.history = h }
}

// WithToolExecutor overrides the default global tool executor.
func WithToolExecutor(t ToolExecutor) Option {
	return func(e *Executor) { e.tools = t }
}

// Executor is the single-agent runtime that executes the tool-calling loop.
type Executor struct {
	model         models.Model
	history       history.History
	tools         ToolExecutor
	toolNames     []string
	maxIterations int
	systemPrompt  string
	temperature   float64
}

// New creates an Executor from configuration. The model is resolved by name
// against the registry; tools default to the global registry. Functional
// options applied after initialization can override any subsystem.
func New(registry *models.Registry, cfg *Config, opts ...Option) (*Executor, error) {
	e := &Executor{
		history:       history.NewMemory(),
		tools:         globalToolExecutor{},
		toolNames:     cfg.Tools,
		maxIterations: cfg.MaxIterations,
		systemPrompt:  cfg.SystemPrompt,
		temperature:   cfg.Model.Temperature,
	}

	if cfg.Model.Model != "" {
		m, err := registry.Get(cfg.Model.Model)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve model: %w", err)
		}
		e.model = m
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.model == nil {
		return nil, models.ErrNilModel
	}
	return e, nil
}

// History returns the executor's conversation history.
func (e *Executor) History() history.History {
	return e.history
}

// Run executes the observe/think/act/repeat loop for the given prompt.
// Returns a Result with the final response, iteration count, and tool call
// log. When maxIterations is 0, the loop runs until the model produces a
// final response or the context is cancelled. Returns ErrMaxIterations if a
// non-zero iteration budget is exhausted.
func (e *Executor) Run(ctx context.Context, prompt string, cfg *runnables.Config) (*Result, error) {
	observer, err := observability.GetObserver(observerName(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve observer: %w", err)
	}

	e.history.Append(protocol.NewMessage(protocol.RoleUser, prompt))

	result := &Result{}
	defs := e.toolDefinitions()

	observer.OnEvent(ctx, observability.Event{
		Type:      EventRunStart,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "agents.Executor",
		Data: map[string]any{
			"prompt_length":  len(prompt),
			"max_iterations": e.maxIterations,
			"tools":          len(defs),
		},
	})

	for iteration := 0; e.maxIterations == 0 || iteration < e.maxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		observer.OnEvent(ctx, observability.Event{
			Type:      EventIterationStart,
			Level:     observability.LevelVerbose,
			Timestamp: time.Now(),
			Source:    "agents.Executor",
			Data:      map[string]any{"iteration": iteration + 1},
		})

		gen, err := e.model.Generate(ctx, e.buildMessages(), &models.Options{
			Temperature: e.temperature,
			Tools:       defs,
		})
		if err != nil {
			return result, fmt.Errorf("model call failed: %w", err)
		}

		reply := gen.Message
		result.Iterations = iteration + 1

		if len(reply.ToolCalls) == 0 {
			e.history.Append(protocol.NewMessage(protocol.RoleAssistant, reply.Content))
			result.Response = reply.Text()

			observer.OnEvent(ctx, observability.Event{
				Type:      EventResponse,
				Level:     observability.LevelInfo,
				Timestamp: time.Now(),
				Source:    "agents.Executor",
				Data: map[string]any{
					"iteration":       iteration + 1,
					"response_length": len(result.Response),
				},
			})

			return result, nil
		}

		e.history.Append(reply)

		for _, tc := range reply.ToolCalls {
			observer.OnEvent(ctx, observability.Event{
				Type:      EventToolCall,
				Level:     observability.LevelVerbose,
				Timestamp: time.Now(),
				Source:    "agents.Executor",
				Data: map[string]any{
					"iteration": iteration + 1,
					"name":      tc.Name,
				},
			})

			record := ToolCallRecord{ToolCall: tc, Iteration: iteration + 1}

			toolResult, toolErr := e.tools.Execute(ctx, tc.Name, json.RawMessage(tc.Arguments))
			if toolErr != nil {
				record.Result = fmt.Sprintf("error: %s", toolErr)
				record.IsError = true
			} else {
				record.Result = toolResult.Content
				record.IsError = toolResult.IsError
			}

			e.history.Append(protocol.Message{
				Role:       protocol.RoleTool,
				Content:    record.Result,
				ToolCallID: tc.ID,
			})

			observer.OnEvent(ctx, observability.Event{
				Type:      EventToolComplete,
				Level:     observability.LevelVerbose,
				Timestamp: time.Now(),
				Source:    "agents.Executor",
				Data: map[string]any{
					"iteration": iteration + 1,
					"name":      tc.Name,
					"error":     record.IsError,
				},
			})

			result.ToolCalls = append(result.ToolCalls, record)
		}
	}

	observer.OnEvent(ctx, observability.Event{
		Type:      EventError,
		Level:     observability.LevelWarning,
		Timestamp: time.Now(),
		Source:    "agents.Executor",
		Data: map[string]any{
			"error":      "max iterations reached",
			"iterations": e.maxIterations,
		},
	})

	return result, ErrMaxIterations
}

// Invoke runs the executor as a pipeline step: string input is the prompt,
// output is the final response text.
func (e *Executor) Invoke(ctx context.Context, input any, cfg *runnables.Config) (any, error) {
	prompt, ok := input.(string)
	if !ok {
		return nil, fmt.Errorf("%w, got %T", ErrBadInput, input)
	}
	result, err := e.Run(ctx, prompt, cfg)
	if err != nil {
		return nil, err
	}
	return result.Response, nil
}

func (e *Executor) buildMessages() []protocol.Message {
	msgs := e.history.Messages()
	if e.systemPrompt == "" {
		return msgs
	}

	out := make([]protocol.Message, 0, len(msgs)+1)
	out = append(out, protocol.NewMessage(protocol.RoleSystem, e.systemPrompt))
	out = append(out, msgs...)
	return out
}

// toolDefinitions restricts the advertised tools to the configured names,
// or exposes everything the executor's tool source lists.
func (e *Executor) toolDefinitions() []protocol.Tool {
	all := e.tools.List()
	if len(e.toolNames) == 0 {
		return all
	}

	byName := make(map[string]protocol.Tool, len(all))
	for _, def := range all {
		byName[def.Name] = def
	}

	defs := make([]protocol.Tool, 0, len(e.toolNames))
	for _, name := range e.toolNames {
		if def, ok := byName[name]; ok {
			defs = append(defs, def)
		}
	}
	return defs
}

func observerName(cfg *runnables.Config) string {
	if cfg == nil {
		return ""
	}
	return cfg.Observer
}
