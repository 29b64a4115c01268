package main

import (
	"context"
	"fmt"

	"github.com/physaikat/langchain/core/protocol"
	"github.com/physaikat/langchain/models"
)

// echoModel is the default offline model: it answers with the text of the
// last user message.
type echoModel struct{}

func (echoModel) Name() string { return "echo" }

func (echoModel) Generate(ctx context.Context, messages []protocol.Message, opts *models.Options) (*models.Generation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content := ""
	for _, msg := range messages {
		if msg.Role == protocol.RoleUser {
			content = msg.Text()
		}
	}

	return &models.Generation{
		Message: protocol.NewMessage(protocol.RoleAssistant, content),
		Model:   "echo",
	}, nil
}

// builtinModels registers the models available to chain definitions.
func builtinModels() *models.Registry {
	registry := models.NewRegistry()

	must(registry.RegisterModel("echo", echoModel{}))
	must(registry.RegisterModel("upper-echo", models.NewFake("upper-echo", "FAKE RESPONSE")))

	return registry
}

func must(err error) {
	if err != nil {
		panic(fmt.Sprintf("failed to register model: %v", err))
	}
}
