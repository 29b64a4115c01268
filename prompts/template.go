// Package prompts renders parameterized prompt text and chat message lists
// from variable maps. Templates implement runnables.Runnable over
// map[string]any input so they compose directly into sequences.
package prompts

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/physaikat/langchain/runnables"
)

// Sentinel errors for template rendering.
var (
	ErrMissingVariable = errors.New("missing template variable")
	ErrBadInput        = errors.New("template input must be map[string]any")
)

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// Template is a single text template with {name} placeholders.
type Template struct {
	text string
}

// NewTemplate creates a Template from the given text.
func NewTemplate(text string) *Template {
	return &Template{text: text}
}

// Variables returns the placeholder names in order of first appearance.
func (t *Template) Variables() []string {
	matches := placeholderPattern.FindAllStringSubmatch(t.text, -1)
	var names []string
	seen := make(map[string]bool)
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// Format substitutes variables into the template. Every placeholder must be
// present in vars; a missing one fails with ErrMissingVariable naming it.
func (t *Template) Format(vars map[string]any) (string, error) {
	var missing string
	out := placeholderPattern.ReplaceAllStringFunc(t.text, func(match string) string {
		name := match[1 : len(match)-1]
		value, ok := vars[name]
		if !ok {
			if missing == "" {
				missing = name
			}
			return match
		}
		return fmt.Sprintf("%v", value)
	})
	if missing != "" {
		return "", fmt.Errorf("%w: %s", ErrMissingVariable, missing)
	}
	return out, nil
}

// Invoke renders the template from a map[string]any input.
func (t *Template) Invoke(ctx context.Context, input any, cfg *runnables.Config) (any, error) {
	vars, ok := input.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w, got %T", ErrBadInput, input)
	}
	return t.Format(vars)
}

// String returns the raw template text.
func (t *Template) String() string {
	return t.text
}

// normalizeRole maps common chat template role spellings onto protocol roles.
func normalizeRole(role string) (string, error) {
	switch strings.ToLower(role) {
	case "system":
		return "system", nil
	case "human", "user":
		return "user", nil
	case "ai", "assistant":
		return "assistant", nil
	case "tool":
		return "tool", nil
	}
	return "", fmt.Errorf("unknown message role: %s", role)
}
