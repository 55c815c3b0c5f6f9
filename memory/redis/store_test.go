package redis

import (
	"context"
	"os"
	"testing"
	"time"

	rds "github.com/redis/go-redis/v9"

	mem "github.com/KamdynS/weather-agent/memory"
)

// Tests require a reachable Redis; set REDIS_ADDR to enable them.
func testClient(t *testing.T) *rds.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := rds.NewClient(&rds.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis not reachable at %s: %v", addr, err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore(testClient(t), time.Minute, "weathertest")
	t.Cleanup(func() { _ = s.Clear(ctx) })

	if err := s.Store(ctx, "k1", "v1"); err != nil {
		t.Fatalf("store: %v", err)
	}
	v, err := s.Retrieve(ctx, "k1")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if v.(string) != "v1" {
		t.Fatalf("want v1 got %v", v)
	}
	if err := s.Delete(ctx, "k1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Retrieve(ctx, "k1"); err == nil {
		t.Fatal("expected error for missing key")
	}
}

func TestConversationStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	cs := NewConversationStore(testClient(t), "weathertest", time.Minute)
	t.Cleanup(func() { _ = cs.Clear(ctx) })

	session := "s1"
	msgs := []mem.Message{
		{Role: "user", Content: "forecast for Sacramento?"},
		{Role: "tool", Name: "get_forecast", ToolCallID: "call_1", Content: "Today: Sunny."},
		{Role: "assistant", Content: "Sacramento will be sunny today."},
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
	if got[1].ToolCallID != "call_1" || got[1].Name != "get_forecast" {
		t.Fatalf("tool message did not round-trip: %+v", got[1])
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
