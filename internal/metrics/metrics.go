package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the dispatch service.
// A nil *MetricsRegistry is valid and records nothing.
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Business Metrics
	SortiesScheduledTotal prometheus.Counter
	SortieTransitions     *prometheus.CounterVec
	TransitionConflicts   prometheus.Counter
	AnnotationsTotal      *prometheus.CounterVec
	SnapshotsIngested     *prometheus.CounterVec

	// Sync emitter Metrics
	SyncEventsEmitted *prometheus.CounterVec
	SyncEventsDropped prometheus.Counter
	SyncSinkFailures  *prometheus.CounterVec
	SyncQueueDepth    prometheus.Gauge
}

// NewMetricsRegistry registers every metric with reg.
// Pass prometheus.DefaultRegisterer in main and prometheus.NewRegistry() in tests.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dispatch_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "dispatch_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		SortiesScheduledTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "dispatch_sorties_scheduled_total",
				Help: "Total sorties created",
			},
		),
		SortieTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_sortie_transitions_total",
				Help: "Successful sortie status transitions by from/to status",
			},
			[]string{"from", "to"},
		),
		TransitionConflicts: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "dispatch_sortie_transition_conflicts_total",
				Help: "Conditional status updates that lost a race",
			},
		),
		AnnotationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_annotations_total",
				Help: "Dispatch annotations written by risk level",
			},
			[]string{"risk_level"},
		),
		SnapshotsIngested: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_environment_snapshots_ingested_total",
				Help: "Environment snapshots ingested by scope (tenant or global)",
			},
			[]string{"scope"},
		),

		SyncEventsEmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_sync_events_emitted_total",
				Help: "Sync events delivered by sink",
			},
			[]string{"sink"},
		),
		SyncEventsDropped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "dispatch_sync_events_dropped_total",
				Help: "Sync events dropped because the emitter queue was full or closed",
			},
		),
		SyncSinkFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_sync_sink_failures_total",
				Help: "Sync event delivery failures by sink",
			},
			[]string{"sink"},
		),
		SyncQueueDepth: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "dispatch_sync_queue_depth",
				Help: "Events waiting in the sync emitter queue",
			},
		),
	}
}

func (m *MetricsRegistry) ObserveTransition(from, to string) {
	if m == nil {
		return
	}
	m.SortieTransitions.WithLabelValues(from, to).Inc()
}

func (m *MetricsRegistry) ObserveTransitionConflict() {
	if m == nil {
		return
	}
	m.TransitionConflicts.Inc()
}

func (m *MetricsRegistry) ObserveSortieScheduled() {
	if m == nil {
		return
	}
	m.SortiesScheduledTotal.Inc()
}

func (m *MetricsRegistry) ObserveAnnotation(riskLevel string) {
	if m == nil {
		return
	}
	m.AnnotationsTotal.WithLabelValues(riskLevel).Inc()
}

func (m *MetricsRegistry) ObserveIngest(scope string) {
	if m == nil {
		return
	}
	m.SnapshotsIngested.WithLabelValues(scope).Inc()
}

func (m *MetricsRegistry) ObserveCache(pattern string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHitsTotal.WithLabelValues(pattern).Inc()
		return
	}
	m.CacheMissesTotal.WithLabelValues(pattern).Inc()
}

func (m *MetricsRegistry) ObserveSyncDelivered(sink string) {
	if m == nil {
		return
	}
	m.SyncEventsEmitted.WithLabelValues(sink).Inc()
}

func (m *MetricsRegistry) ObserveSyncFailure(sink string) {
	if m == nil {
		return
	}
	m.SyncSinkFailures.WithLabelValues(sink).Inc()
}

func (m *MetricsRegistry) ObserveSyncDropped() {
	if m == nil {
		return
	}
	m.SyncEventsDropped.Inc()
}

func (m *MetricsRegistry) SetSyncQueueDepth(n int) {
	if m == nil {
		return
	}
	m.SyncQueueDepth.Set(float64(n))
}
