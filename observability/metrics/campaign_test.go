package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCampaignMetricsCounters(t *testing.T) {
	m := Campaign()
	require.Same(t, m, Campaign())

	before := testutil.ToFloat64(m.operations.WithLabelValues("support", "rejected"))
	m.ObserveOperation("support", time.Millisecond, errors.New("boom"))
	require.Equal(t, before+1, testutil.ToFloat64(m.operations.WithLabelValues("support", "rejected")))

	raised := testutil.ToFloat64(m.raised.WithLabelValues("gradual"))
	m.RecordSupport("gradual", 500)
	m.RecordSupport("gradual", 0)
	require.Equal(t, raised+500, testutil.ToFloat64(m.raised.WithLabelValues("gradual")))

	payouts := testutil.ToFloat64(m.payouts.WithLabelValues("unknown"))
	m.RecordPayout("", 7)
	require.Equal(t, payouts+7, testutil.ToFloat64(m.payouts.WithLabelValues("unknown")))

	settled := testutil.ToFloat64(m.settled.WithLabelValues("failure"))
	m.RecordSettlement(false)
	require.Equal(t, settled+1, testutil.ToFloat64(m.settled.WithLabelValues("failure")))
}

func TestNilCampaignMetricsIsSafe(t *testing.T) {
	var m *CampaignMetrics
	m.ObserveOperation("settle", time.Second, nil)
	m.RecordPayout("refund", 1)
	m.RecordSupport("immediate", 1)
	m.RecordSettlement(true)
}
