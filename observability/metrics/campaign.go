package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CampaignMetrics tracks campaign engine transitions and payouts.
type CampaignMetrics struct {
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	payouts    *prometheus.CounterVec
	raised     *prometheus.CounterVec
	settled    *prometheus.CounterVec
}

var (
	campaignOnce     sync.Once
	campaignRegistry *CampaignMetrics
)

// Campaign returns the lazily registered campaign metrics.
func Campaign() *CampaignMetrics {
	campaignOnce.Do(func() {
		campaignRegistry = &CampaignMetrics{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "launchpad",
				Subsystem: "campaign",
				Name:      "operations_total",
				Help:      "Count of campaign engine operations by operation and outcome.",
			}, []string{"operation", "outcome"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "launchpad",
				Subsystem: "campaign",
				Name:      "operation_duration_seconds",
				Help:      "Latency distribution for campaign engine operations.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"operation"}),
			payouts: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "launchpad",
				Subsystem: "campaign",
				Name:      "payout_units_total",
				Help:      "Base units paid out of campaign vaults by payout kind.",
			}, []string{"kind"}),
			raised: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "launchpad",
				Subsystem: "campaign",
				Name:      "raised_units_total",
				Help:      "Base units contributed to campaigns by tier scheme.",
			}, []string{"scheme"}),
			settled: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "launchpad",
				Subsystem: "campaign",
				Name:      "settlements_total",
				Help:      "Count of settled campaigns by outcome.",
			}, []string{"outcome"}),
		}
		prometheus.MustRegister(
			campaignRegistry.operations,
			campaignRegistry.latency,
			campaignRegistry.payouts,
			campaignRegistry.raised,
			campaignRegistry.settled,
		)
	})
	return campaignRegistry
}

// ObserveOperation records the outcome and latency of an engine operation.
func (m *CampaignMetrics) ObserveOperation(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	op := strings.TrimSpace(operation)
	if op == "" {
		op = "unknown"
	}
	outcome := "success"
	if err != nil {
		outcome = "rejected"
	}
	m.operations.WithLabelValues(op, outcome).Inc()
	m.latency.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordPayout adds amount to the payout counter for kind.
func (m *CampaignMetrics) RecordPayout(kind string, amount uint64) {
	if m == nil || amount == 0 {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	m.payouts.WithLabelValues(kind).Add(float64(amount))
}

// RecordSupport adds a contribution to the raised counter.
func (m *CampaignMetrics) RecordSupport(scheme string, amount uint64) {
	if m == nil || amount == 0 {
		return
	}
	if scheme == "" {
		scheme = "unknown"
	}
	m.raised.WithLabelValues(scheme).Add(float64(amount))
}

// RecordSettlement counts a settlement outcome.
func (m *CampaignMetrics) RecordSettlement(success bool) {
	if m == nil {
		return
	}
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.settled.WithLabelValues(outcome).Inc()
}
