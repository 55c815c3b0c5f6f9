package observability

import (
	"sync"
	"testing"
	"time"
)

func TestDefaultMetricsCounters(t *testing.T) {
	m := NewDefaultMetrics()

	m.IncrementRequests(nil)
	m.IncrementRequests(map[string]string{"tool_name": "get_forecast"})
	m.IncrementTokensUsed(120, nil)
	m.RecordLatency(50*time.Millisecond, nil)
	m.RecordError("tool_error", nil)
	m.RecordError("tool_error", nil)

	requests, tokens, latency, errs := m.Snapshot()
	if requests != 2 {
		t.Errorf("expected 2 requests, got %d", requests)
	}
	if tokens != 120 {
		t.Errorf("expected 120 tokens, got %d", tokens)
	}
	if latency != 50*time.Millisecond {
		t.Errorf("expected 50ms total latency, got %v", latency)
	}
	if errs["tool_error"] != 2 {
		t.Errorf("expected 2 tool errors, got %d", errs["tool_error"])
	}
}

func TestDefaultMetricsConcurrency(t *testing.T) {
	m := NewDefaultMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.IncrementRequests(nil)
			m.IncrementTokensUsed(1, nil)
		}()
	}
	wg.Wait()

	requests, tokens, _, _ := m.Snapshot()
	if requests != 50 || tokens != 50 {
		t.Errorf("expected 50/50, got %d/%d", requests, tokens)
	}
}

func TestGlobalSwap(t *testing.T) {
	orig := MetricsImpl
	defer SetMetrics(orig)

	m := NewDefaultMetrics()
	SetMetrics(m)
	MetricsImpl.IncrementRequests(nil)

	requests, _, _, _ := m.Snapshot()
	if requests != 1 {
		t.Errorf("expected swapped metrics to receive the increment")
	}
}
