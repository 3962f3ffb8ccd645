package observability

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type eventMetrics struct {
	journaled *prometheus.CounterVec
	failures  *prometheus.CounterVec
}

var (
	eventMetricsOnce sync.Once
	eventRegistry    *eventMetrics
)

// Events returns the metrics registry tracking the event journal.
func Events() *eventMetrics {
	eventMetricsOnce.Do(func() {
		eventRegistry = &eventMetrics{
			journaled: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "launchpad",
				Subsystem: "events",
				Name:      "journaled_total",
				Help:      "Count of engine events written to the journal segmented by type.",
			}, []string{"type"}),
			failures: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "launchpad",
				Subsystem: "events",
				Name:      "journal_failures_total",
				Help:      "Count of engine events the journal failed to persist.",
			}, []string{"type"}),
		}
		prometheus.MustRegister(eventRegistry.journaled, eventRegistry.failures)
	})
	return eventRegistry
}

func eventLabel(eventType string) string {
	normalized := strings.TrimSpace(strings.ToLower(eventType))
	if normalized == "" {
		return "unknown"
	}
	return normalized
}

// RecordJournaled increments the journal counter for the supplied event type.
func (m *eventMetrics) RecordJournaled(eventType string) {
	if m == nil {
		return
	}
	m.journaled.WithLabelValues(eventLabel(eventType)).Inc()
}

// RecordFailure counts an event the journal could not persist.
func (m *eventMetrics) RecordFailure(eventType string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(eventLabel(eventType)).Inc()
}
