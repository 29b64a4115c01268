// Package script executes JavaScript transform steps with the goja engine.
// Scripts receive the step input and the invocation configuration as globals
// and their completion value becomes the step output.
package script

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dop251/goja"

	"github.com/physaikat/langchain/observability"
	"github.com/physaikat/langchain/runnables"
)

// Sentinel errors for script steps.
var (
	ErrEmptyScript = errors.New("script source is empty")
	ErrScriptError = errors.New("script error")
)

// Script event types.
const (
	EventScriptComplete observability.EventType = "script.complete"
	EventScriptFailed   observability.EventType = "script.failed"
)

// JS is a runnable JavaScript transform. The source is compiled once at
// construction; each invocation runs in a fresh VM so scripts cannot leak
// state between calls. Inside the script, `input` is the step input,
// `config` exposes the invocation configuration, and `console` collects
// log output.
type JS struct {
	name   string
	source string
	prog   *goja.Program
}

// NewJS compiles source into a script step. Syntax errors surface here
// rather than at invocation time.
func NewJS(name, source string) (*JS, error) {
	if strings.TrimSpace(source) == "" {
		return nil, ErrEmptyScript
	}

	prog, err := goja.Compile(name, source, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScriptError, err)
	}
	return &JS{name: name, source: source, prog: prog}, nil
}

// Name returns the script step name.
func (s *JS) Name() string {
	return s.name
}

func (s *JS) Invoke(ctx context.Context, input any, cfg *runnables.Config) (any, error) {
	observer, err := observability.GetObserver(observerName(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve observer: %w", err)
	}

	vm := goja.New()

	var logs []string
	if err := setupConsole(vm, &logs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScriptError, err)
	}
	vm.Set("input", input)
	vm.Set("config", configGlobal(cfg))

	// Cancel the VM when the context ends mid-script.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	value, err := vm.RunProgram(s.prog)
	if err != nil {
		observer.OnEvent(ctx, observability.Event{
			Type:      EventScriptFailed,
			Level:     observability.LevelWarning,
			Timestamp: time.Now(),
			Source:    "script.JS",
			Data: map[string]any{
				"script":  s.name,
				"error":   err.Error(),
				"console": logs,
			},
		})
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrScriptError, s.name, err)
	}

	observer.OnEvent(ctx, observability.Event{
		Type:      EventScriptComplete,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "script.JS",
		Data: map[string]any{
			"script":  s.name,
			"console": logs,
		},
	})

	return value.Export(), nil
}

func setupConsole(vm *goja.Runtime, logs *[]string) error {
	console := vm.NewObject()

	logFn := func(level string) func(call goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			args := make([]string, len(call.Arguments))
			for i, arg := range call.Arguments {
				args[i] = fmt.Sprintf("%v", arg.Export())
			}
			*logs = append(*logs, fmt.Sprintf("[%s] %s", level, strings.Join(args, " ")))
			return goja.Undefined()
		}
	}

	console.Set("log", logFn("LOG"))
	console.Set("info", logFn("INFO"))
	console.Set("warn", logFn("WARN"))
	console.Set("error", logFn("ERROR"))
	console.Set("debug", logFn("DEBUG"))

	return vm.Set("console", console)
}

// configGlobal projects the invocation configuration into a plain map for
// the VM. Scripts read it; mutations never propagate back.
func configGlobal(cfg *runnables.Config) map[string]any {
	out := map[string]any{
		"configurable": map[string]any{},
		"tags":         []string{},
		"metadata":     map[string]any{},
		"run_id":       "",
	}
	if cfg == nil {
		return out
	}

	if len(cfg.Configurable) > 0 {
		configurable := make(map[string]any, len(cfg.Configurable))
		for k, v := range cfg.Configurable {
			configurable[k] = v
		}
		out["configurable"] = configurable
	}
	if len(cfg.Tags) > 0 {
		out["tags"] = append([]string{}, cfg.Tags...)
	}
	if len(cfg.Metadata) > 0 {
		metadata := make(map[string]any, len(cfg.Metadata))
		for k, v := range cfg.Metadata {
			metadata[k] = v
		}
		out["metadata"] = metadata
	}
	out["run_id"] = cfg.RunID

	return out
}

func observerName(cfg *runnables.Config) string {
	if cfg == nil {
		return ""
	}
	return cfg.Observer
}
