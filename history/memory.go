package history

import (
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/physaikat/langchain/core/protocol"
)

type memoryHistory struct {
	id       string
	messages []protocol.Message
	mu       sync.RWMutex
}

// NewMemory creates a History backed by an in-memory slice.
// The history is assigned a unique UUIDv7 identifier.
func NewMemory() History {
	return newMemory(uuid.Must(uuid.NewV7()).String())
}

func newMemory(id string) History {
	return &memoryHistory{id: id}
}

func (h *memoryHistory) ID() string {
	return h.id
}

func (h *memoryHistory) Append(msgs ...protocol.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, msgs...)
}

func (h *memoryHistory) Messages() []protocol.Message {
	h.mu.RLock()
	defer h.mu.RUnlock()

	copied := make([]protocol.Message, len(h.messages))
	for i, msg := range h.messages {
		copied[i] = msg
		copied[i].ToolCalls = slices.Clone(msg.ToolCalls)
	}
	return copied
}

func (h *memoryHistory) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = nil
}

type memoryStore struct {
	mu        sync.Mutex
	histories map[string]History
}

// NewMemoryStore creates a Store keeping every session's history in memory.
func NewMemoryStore() Store {
	return &memoryStore{histories: make(map[string]History)}
}

func (s *memoryStore) GetOrCreate(sessionID string) History {
	s.mu.Lock()
	defer s.mu.Unlock()

	if h, exists := s.histories[sessionID]; exists {
		return h
	}
	h := newMemory(sessionID)
	s.histories[sessionID] = h
	return h
}
