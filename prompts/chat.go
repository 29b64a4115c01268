package prompts

import (
	"context"
	"fmt"

	"github.com/physaikat/langchain/core/protocol"
	"github.com/physaikat/langchain/runnables"
)

// MessageTemplate pairs a role with a text template for one chat message.
type MessageTemplate struct {
	Role     protocol.Role
	Template *Template
}

// ChatTemplate renders an ordered list of role-tagged message templates.
// All templates share one variable map.
type ChatTemplate struct {
	messages []MessageTemplate
}

// NewChatTemplate creates a ChatTemplate from role/text pairs. Role accepts
// the common spellings "system", "human"/"user", "ai"/"assistant", "tool".
//
//	tmpl, err := prompts.NewChatTemplate(
//		[2]string{"system", systemText},
//		[2]string{"human", "{question}"},
//	)
func NewChatTemplate(pairs ...[2]string) (*ChatTemplate, error) {
	messages := make([]MessageTemplate, 0, len(pairs))
	for i, pair := range pairs {
		role, err := normalizeRole(pair[0])
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		messages = append(messages, MessageTemplate{
			Role:     protocol.Role(role),
			Template: NewTemplate(pair[1]),
		})
	}
	return &ChatTemplate{messages: messages}, nil
}

// Variables returns the union of placeholder names across all messages in
// order of first appearance.
func (c *ChatTemplate) Variables() []string {
	var names []string
	seen := make(map[string]bool)
	for _, msg := range c.messages {
		for _, name := range msg.Template.Variables() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// Format renders all message templates with the given variables.
func (c *ChatTemplate) Format(vars map[string]any) ([]protocol.Message, error) {
	out := make([]protocol.Message, 0, len(c.messages))
	for i, msg := range c.messages {
		content, err := msg.Template.Format(vars)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		out = append(out, protocol.NewMessage(msg.Role, content))
	}
	return out, nil
}

// Invoke renders the chat template from a map[string]any input, producing
// []protocol.Message for a downstream model step.
func (c *ChatTemplate) Invoke(ctx context.Context, input any, cfg *runnables.Config) (any, error) {
	vars, ok := input.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w, got %T", ErrBadInput, input)
	}
	return c.Format(vars)
}
