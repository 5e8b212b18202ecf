package metrics

import "github.com/prometheus/client_golang/prometheus"

// AnalyticsMetrics tracks the analytics ingestion pipeline.
type AnalyticsMetrics struct {
	EventsEnqueued *prometheus.CounterVec
	EventsInserted prometheus.Counter
	EventsDropped  prometheus.Counter
	EventsFailed   prometheus.Counter
	QueueDepth     prometheus.Gauge
}

// NewAnalyticsMetrics creates and registers analytics metrics on the given registry.
func NewAnalyticsMetrics(reg prometheus.Registerer) *AnalyticsMetrics {
	m := &AnalyticsMetrics{
		EventsEnqueued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "events_enqueued_total",
			Help:      "Analytics events accepted into the dispatch queue.",
		}, []string{"event_type"}),
		EventsInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "events_inserted_total",
			Help:      "Analytics events persisted to the database.",
		}),
		EventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "events_dropped_total",
			Help:      "Analytics events dropped because the queue was full.",
		}),
		EventsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "events_failed_total",
			Help:      "Analytics events whose insert failed.",
		}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "queue_depth",
			Help:      "Current number of analytics events waiting in the queue.",
		}),
	}

	reg.MustRegister(m.EventsEnqueued, m.EventsInserted, m.EventsDropped, m.EventsFailed, m.QueueDepth)
	return m
}
