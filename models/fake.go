package models

import (
	"context"
	"sync"

	"github.com/physaikat/langchain/core/protocol"
)

// Fake is a scripted in-process model for tests and offline pipelines. It
// replays its responses in order, repeating the last one when exhausted,
// and records every message list it was asked to complete.
type Fake struct {
	mu        sync.Mutex
	name      string
	responses []protocol.Message
	calls     [][]protocol.Message
	index     int
}

// NewFake creates a Fake that answers with the given texts as assistant
// messages.
func NewFake(name string, texts ...string) *Fake {
	responses := make([]protocol.Message, 0, len(texts))
	for _, text := range texts {
		responses = append(responses, protocol.NewMessage(protocol.RoleAssistant, text))
	}
	return &Fake{name: name, responses: responses}
}

// NewFakeMessages creates a Fake that replays the given messages verbatim,
// for scripting tool-call turns.
func NewFakeMessages(name string, responses ...protocol.Message) *Fake {
	return &Fake{name: name, responses: responses}
}

func (f *Fake) Name() string {
	return f.name
}

func (f *Fake) Generate(ctx context.Context, messages []protocol.Message, opts *Options) (*Generation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	recorded := make([]protocol.Message, len(messages))
	copy(recorded, messages)
	f.calls = append(f.calls, recorded)

	message := protocol.NewMessage(protocol.RoleAssistant, "")
	if len(f.responses) > 0 {
		i := f.index
		if i >= len(f.responses) {
			i = len(f.responses) - 1
		}
		message = f.responses[i]
		f.index++
	}

	return &Generation{Message: message, Model: f.name}, nil
}

// Calls returns a copy of the recorded message lists in call order.
func (f *Fake) Calls() [][]protocol.Message {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([][]protocol.Message, len(f.calls))
	copy(out, f.calls)
	return out
}
