package agents

import "github.com/physaikat/langchain/observability"

// Executor event types emitted during the tool-calling loop.
const (
	EventRunStart       observability.EventType = "agents.run.start"
	EventIterationStart observability.EventType = "agents.iteration.start"
	EventToolCall       observability.EventType = "agents.tool.call"
	EventToolComplete   observability.EventType = "agents.tool.complete"
	EventResponse       observability.EventType = "agents.response"
	EventError          observability.EventType = "agents.error"
)
