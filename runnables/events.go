package runnables

import "github.com/physaikat/langchain/observability"

const (
	// Sequential composition
	EventSequenceStart    observability.EventType = "sequence.start"
	EventSequenceComplete observability.EventType = "sequence.complete"
	EventStepStart        observability.EventType = "step.start"
	EventStepComplete     observability.EventType = "step.complete"

	// Parallel composition
	EventParallelStart    observability.EventType = "parallel.start"
	EventParallelComplete observability.EventType = "parallel.complete"
	EventBranchComplete   observability.EventType = "branch.complete"

	// Batch execution
	EventBatchStart    observability.EventType = "batch.start"
	EventBatchComplete observability.EventType = "batch.complete"
)
