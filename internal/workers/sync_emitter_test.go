package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"maverick/dispatch/internal/logging"
	"maverick/dispatch/internal/metrics"
	"maverick/dispatch/internal/models/entities"
)

// Mock SyncSink
type mockSink struct {
	name string

	mu       sync.Mutex
	events   []entities.SyncEvent
	recordFn func(ctx context.Context, event entities.SyncEvent) error
}

func (m *mockSink) Name() string { return m.name }

func (m *mockSink) Record(ctx context.Context, event entities.SyncEvent) error {
	if m.recordFn != nil {
		if err := m.recordFn(ctx, event); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockSink) Events() []entities.SyncEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entities.SyncEvent(nil), m.events...)
}

func newTestMetrics() *metrics.MetricsRegistry {
	logging.SetLogger(zap.NewNop().Sugar())
	return metrics.NewMetricsRegistry(prometheus.NewRegistry())
}

func runEmitter(t *testing.T, e *AsyncSyncEmitter) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background()) }()
	return done
}

func closeEmitter(t *testing.T, e *AsyncSyncEmitter, done <-chan error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Close(ctx); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("Run returned %v", err)
	}
}

func TestAsyncSyncEmitter_DeliversToEverySink(t *testing.T) {
	reg := newTestMetrics()
	sqlSink := &mockSink{name: "sql_log"}
	streamSink := &mockSink{name: "redis_stream"}

	e := NewAsyncSyncEmitter(SyncEmitterOptions{Buffer: 16, Workers: 2}, reg, sqlSink, streamSink)
	done := runEmitter(t, e)

	e.Emit("SORTIE_CREATED", "sortie", "s-1", map[string]any{"tenant_id": "tenant-a"})
	e.Emit("SORTIE_UPDATED", "sortie", "s-1", map[string]any{"tenant_id": "tenant-a"})

	closeEmitter(t, e, done)

	for _, sink := range []*mockSink{sqlSink, streamSink} {
		events := sink.Events()
		if len(events) != 2 {
			t.Fatalf("%s: expected 2 events, got %d", sink.name, len(events))
		}
		for _, ev := range events {
			if ev.ID == "" || ev.OccurredAt.IsZero() {
				t.Errorf("%s: expected id and timestamp, got %+v", sink.name, ev)
			}
			if ev.TenantID != "tenant-a" {
				t.Errorf("%s: expected tenant lifted from payload, got %q", sink.name, ev.TenantID)
			}
		}
	}

	if got := testutil.ToFloat64(reg.SyncEventsEmitted.WithLabelValues("sql_log")); got != 2 {
		t.Errorf("Expected 2 delivered to sql_log, got %v", got)
	}
}

func TestAsyncSyncEmitter_SinkFailureIsSwallowed(t *testing.T) {
	reg := newTestMetrics()
	failing := &mockSink{name: "redis_stream", recordFn: func(ctx context.Context, event entities.SyncEvent) error {
		return errors.New("connection refused")
	}}
	healthy := &mockSink{name: "sql_log"}

	e := NewAsyncSyncEmitter(SyncEmitterOptions{Buffer: 4, Workers: 1}, reg, failing, healthy)
	done := runEmitter(t, e)

	e.Emit("DISPATCH_ANNOTATED", "dispatch_annotation", "a-1", nil)
	closeEmitter(t, e, done)

	if len(healthy.Events()) != 1 {
		t.Errorf("Expected healthy sink to still receive the event")
	}
	if got := testutil.ToFloat64(reg.SyncSinkFailures.WithLabelValues("redis_stream")); got != 1 {
		t.Errorf("Expected 1 failure recorded, got %v", got)
	}
}

func TestAsyncSyncEmitter_DropsWhenFull(t *testing.T) {
	reg := newTestMetrics()
	sink := &mockSink{name: "sql_log"}

	// not running: nothing drains the queue
	e := NewAsyncSyncEmitter(SyncEmitterOptions{Buffer: 2, Workers: 1}, reg, sink)

	start := time.Now()
	for i := 0; i < 5; i++ {
		e.Emit("SORTIE_UPDATED", "sortie", "s-1", nil)
	}
	if time.Since(start) > time.Second {
		t.Error("Emit must not block on a full queue")
	}

	if e.QueueDepth() != 2 {
		t.Errorf("Expected 2 queued, got %d", e.QueueDepth())
	}
	if got := testutil.ToFloat64(reg.SyncEventsDropped); got != 3 {
		t.Errorf("Expected 3 dropped, got %v", got)
	}

	done := runEmitter(t, e)
	closeEmitter(t, e, done)
	if len(sink.Events()) != 2 {
		t.Errorf("Expected queued events to drain on close, got %d", len(sink.Events()))
	}
}

func TestAsyncSyncEmitter_SinkCallsAreBounded(t *testing.T) {
	reg := newTestMetrics()
	slow := &mockSink{name: "redis_stream", recordFn: func(ctx context.Context, event entities.SyncEvent) error {
		<-ctx.Done()
		return ctx.Err()
	}}

	e := NewAsyncSyncEmitter(SyncEmitterOptions{Buffer: 1, Workers: 1, SinkTimeout: 20 * time.Millisecond}, reg, slow)
	done := runEmitter(t, e)

	e.Emit("SORTIE_UPDATED", "sortie", "s-1", nil)
	closeEmitter(t, e, done)

	if got := testutil.ToFloat64(reg.SyncSinkFailures.WithLabelValues("redis_stream")); got != 1 {
		t.Errorf("Expected timed-out call counted as failure, got %v", got)
	}
}

func TestAsyncSyncEmitter_EmitAfterCloseIsNoop(t *testing.T) {
	reg := newTestMetrics()
	sink := &mockSink{name: "sql_log"}

	e := NewAsyncSyncEmitter(SyncEmitterOptions{Buffer: 1, Workers: 1}, reg, sink)
	done := runEmitter(t, e)
	closeEmitter(t, e, done)

	e.Emit("SORTIE_UPDATED", "sortie", "s-1", nil)
	if len(sink.Events()) != 0 {
		t.Error("Expected no delivery after close")
	}
}
