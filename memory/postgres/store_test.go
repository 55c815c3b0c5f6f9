package postgres

import (
	"context"
	"os"
	"testing"

	mem "github.com/KamdynS/weather-agent/memory"
)

// Tests require a reachable PostgreSQL; set DATABASE_URL to enable them.
func testStore(t *testing.T) *ConversationStore {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	cs, err := NewConversationStore(context.Background(), dsn)
	if err != nil {
		t.Skipf("postgres not reachable: %v", err)
	}
	t.Cleanup(cs.Close)
	return cs
}

func TestConversationRoundTrip(t *testing.T) {
	ctx := context.Background()
	cs := testStore(t)
	session := "pgtest-s1"
	t.Cleanup(func() { _ = cs.ClearSession(ctx, session) })

	msgs := []mem.Message{
		{Role: "user", Content: "any alerts in TX?"},
		{Role: "tool", Name: "get_alerts", ToolCallID: "call_9", Content: "Event: Heat Advisory"},
		{Role: "assistant", Content: "Texas has a heat advisory.", Meta: map[string]string{"model": "gpt-4o-mini"}},
	}
	for _, m := range msgs {
		if err := cs.AppendMessage(ctx, session, m); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := cs.GetMessages(ctx, session)
	if err != nil {
		t.Fatalf("get messages: %v", err)
	}
	if len(got) != len(msgs) {
		t.Fatalf("want %d messages got %d", len(msgs), len(got))
	}
	if got[1].ToolCallID != "call_9" || got[1].Name != "get_alerts" {
		t.Fatalf("tool message did not round-trip: %+v", got[1])
	}
	if got[2].Meta["model"] != "gpt-4o-mini" {
		t.Fatalf("meta did not round-trip: %+v", got[2])
	}

	if err := cs.ClearSession(ctx, session); err != nil {
		t.Fatalf("clear session: %v", err)
	}
	got, err = cs.GetMessages(ctx, session)
	if err != nil {
		t.Fatalf("get after clear: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected 0 after clear, got %d", len(got))
	}
}

func TestStateRoundTrip(t *testing.T) {
	ctx := context.Background()
	cs := testStore(t)
	t.Cleanup(func() { _ = cs.Delete(ctx, "pgtest-k1") })

	if err := cs.Store(ctx, "pgtest-k1", "v1"); err != nil {
		t.Fatalf("store: %v", err)
	}
	// Upsert overwrites.
	if err := cs.Store(ctx, "pgtest-k1", "v2"); err != nil {
		t.Fatalf("store overwrite: %v", err)
	}
	v, err := cs.Retrieve(ctx, "pgtest-k1")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if v.(string) != "v2" {
		t.Fatalf("want v2 got %v", v)
	}
	if err := cs.Delete(ctx, "pgtest-k1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := cs.Retrieve(ctx, "pgtest-k1"); err == nil {
		t.Fatal("expected error for missing key")
	}
}
