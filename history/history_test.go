package history_test

import (
	"context"
	"errors"
	"testing"

	"github.com/physaikat/langchain/core/protocol"
	"github.com/physaikat/langchain/history"
	"github.com/physaikat/langchain/models"
	"github.com/physaikat/langchain/runnables"
)

func TestMemory_AppendAndMessages(t *testing.T) {
	h := history.NewMemory()

	if h.ID() == "" {
		t.Error("ID() is empty")
	}

	h.Append(
		protocol.NewMessage(protocol.RoleUser, "hi"),
		protocol.NewMessage(protocol.RoleAssistant, "hello"),
	)

	msgs := h.Messages()
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].Text() != "hi" || msgs[1].Text() != "hello" {
		t.Errorf("messages = %v", msgs)
	}

	// Mutating the copy must not affect the history.
	msgs[0].Content = "changed"
	if h.Messages()[0].Text() != "hi" {
		t.Error("Messages() did not return a defensive copy")
	}
}

func TestMemory_Clear(t *testing.T) {
	h := history.NewMemory()
	h.Append(protocol.NewMessage(protocol.RoleUser, "hi"))
	h.Clear()

	if len(h.Messages()) != 0 {
		t.Error("Clear() did not reset history")
	}
}

func TestMemoryStore_GetOrCreate(t *testing.T) {
	store := history.NewMemoryStore()

	a := store.GetOrCreate("session-a")
	a.Append(protocol.NewMessage(protocol.RoleUser, "hi"))

	if got := store.GetOrCreate("session-a"); len(got.Messages()) != 1 {
		t.Error("GetOrCreate did not return the same history")
	}
	if got := store.GetOrCreate("session-b"); len(got.Messages()) != 0 {
		t.Error("sessions are not isolated")
	}
}

func TestWrap_InjectsAndRecords(t *testing.T) {
	fake := models.NewFake("fake", "first answer", "second answer")
	chat, err := models.NewChat(fake)
	if err != nil {
		t.Fatalf("NewChat failed: %v", err)
	}

	store := history.NewMemoryStore()
	wrapped := history.Wrap(chat, store)
	cfg := runnables.WithConfigurable(map[string]any{history.SessionKey: "s1"})

	if _, err := wrapped.Invoke(context.Background(), "first question", cfg); err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if _, err := wrapped.Invoke(context.Background(), "second question", cfg); err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	// The second model call sees the full first exchange.
	calls := fake.Calls()
	if len(calls) != 2 {
		t.Fatalf("got %d calls, want 2", len(calls))
	}
	second := calls[1]
	if len(second) != 3 {
		t.Fatalf("second call saw %d messages, want 3", len(second))
	}
	if second[0].Text() != "first question" || second[1].Text() != "first answer" || second[2].Text() != "second question" {
		t.Errorf("second call messages = %v", second)
	}

	if got := store.GetOrCreate("s1").Messages(); len(got) != 4 {
		t.Errorf("recorded %d messages, want 4", len(got))
	}
}

func TestWrap_SessionIsolation(t *testing.T) {
	chat, err := models.NewChat(models.NewFake("fake", "a"))
	if err != nil {
		t.Fatalf("NewChat failed: %v", err)
	}

	store := history.NewMemoryStore()
	wrapped := history.Wrap(chat, store)

	for _, session := range []string{"s1", "s2"} {
		cfg := runnables.WithConfigurable(map[string]any{history.SessionKey: session})
		if _, err := wrapped.Invoke(context.Background(), "q", cfg); err != nil {
			t.Fatalf("Invoke failed: %v", err)
		}
	}

	if got := store.GetOrCreate("s1").Messages(); len(got) != 2 {
		t.Errorf("s1 recorded %d messages, want 2", len(got))
	}
	if got := store.GetOrCreate("s2").Messages(); len(got) != 2 {
		t.Errorf("s2 recorded %d messages, want 2", len(got))
	}
}

func TestWrap_MissingSession(t *testing.T) {
	chat, err := models.NewChat(models.NewFake("fake"))
	if err != nil {
		t.Fatalf("NewChat failed: %v", err)
	}
	wrapped := history.Wrap(chat, history.NewMemoryStore())

	if _, err := wrapped.Invoke(context.Background(), "q", nil); !errors.Is(err, history.ErrNoSessionID) {
		t.Errorf("got error %v, want ErrNoSessionID", err)
	}
}
