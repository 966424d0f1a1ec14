package workers

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"maverick/dispatch/internal/logging"
	"maverick/dispatch/internal/metrics"
	"maverick/dispatch/internal/models/entities"
)

// SyncSink is one destination for sync events
type SyncSink interface {
	Name() string
	Record(ctx context.Context, event entities.SyncEvent) error
}

// SyncEmitterOptions configures AsyncSyncEmitter
type SyncEmitterOptions struct {
	Buffer      int
	Workers     int
	SinkTimeout time.Duration
}

// AsyncSyncEmitter hands sync events to background workers.
// Emit never blocks: a full queue drops the event and counts it.
// Sink failures are logged and counted, never returned.
type AsyncSyncEmitter struct {
	sinks   []SyncSink
	queue   chan entities.SyncEvent
	workers int
	timeout time.Duration
	metrics *metrics.MetricsRegistry
	now     func() time.Time

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewAsyncSyncEmitter(opts SyncEmitterOptions, metricsReg *metrics.MetricsRegistry, sinks ...SyncSink) *AsyncSyncEmitter {
	if opts.Buffer <= 0 {
		opts.Buffer = 1024
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.SinkTimeout <= 0 {
		opts.SinkTimeout = 3 * time.Second
	}

	return &AsyncSyncEmitter{
		sinks:   sinks,
		queue:   make(chan entities.SyncEvent, opts.Buffer),
		workers: opts.Workers,
		timeout: opts.SinkTimeout,
		metrics: metricsReg,
		now:     time.Now,
		done:    make(chan struct{}),
	}
}

// Emit enqueues one event; it is a no-op after Close
func (e *AsyncSyncEmitter) Emit(eventType, entityType, entityID string, payload map[string]any) {
	event := entities.SyncEvent{
		ID:         uuid.NewString(),
		EventType:  eventType,
		EntityType: entityType,
		EntityID:   entityID,
		Payload:    payload,
		OccurredAt: e.now().UTC(),
	}
	if tenant, ok := payload["tenant_id"].(string); ok {
		event.TenantID = tenant
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		e.metrics.ObserveSyncDropped()
		return
	}

	select {
	case e.queue <- event:
		e.metrics.SetSyncQueueDepth(len(e.queue))
	default:
		e.metrics.ObserveSyncDropped()
		logging.Warn("Sync queue full, dropping event",
			"event_type", eventType,
			"entity_type", entityType,
			"entity_id", entityID,
		)
	}
}

// Run starts the workers and blocks until the queue is closed and drained.
// Sink calls are detached from ctx cancellation and bounded by the sink timeout instead.
func (e *AsyncSyncEmitter) Run(ctx context.Context) error {
	defer close(e.done)

	logging.Info("Sync emitter started", "workers", e.workers, "sinks", len(e.sinks))

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < e.workers; i++ {
		workerID := i
		g.Go(func() error {
			for event := range e.queue {
				e.metrics.SetSyncQueueDepth(len(e.queue))
				e.deliver(gctx, event)
			}
			logging.Debug("Sync worker stopped", "worker", workerID)
			return nil
		})
	}
	return g.Wait()
}

// Close stops accepting events and waits for Run to drain the queue or for ctx to expire
func (e *AsyncSyncEmitter) Close(ctx context.Context) error {
	e.mu.Lock()
	if !e.closed {
		e.closed = true
		close(e.queue)
	}
	e.mu.Unlock()

	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
		logging.Warn("Sync emitter closed before queue drained", "pending", len(e.queue))
		return ctx.Err()
	}
}

// QueueDepth reports how many events are waiting
func (e *AsyncSyncEmitter) QueueDepth() int {
	return len(e.queue)
}

func (e *AsyncSyncEmitter) deliver(ctx context.Context, event entities.SyncEvent) {
	for _, sink := range e.sinks {
		sinkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
		err := sink.Record(sinkCtx, event)
		cancel()

		if err != nil {
			e.metrics.ObserveSyncFailure(sink.Name())
			logging.Warn("Sync sink failed",
				"sink", sink.Name(),
				"event_id", event.ID,
				"event_type", event.EventType,
				"entity_id", event.EntityID,
				"error", err.Error(),
			)
			continue
		}
		e.metrics.ObserveSyncDelivered(sink.Name())
	}
}
