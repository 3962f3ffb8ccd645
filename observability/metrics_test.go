package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRPCObserveSplitsOutcomes(t *testing.T) {
	m := RPC()
	ok := testutil.ToFloat64(m.requests.WithLabelValues("campaign_get", "success"))
	failed := testutil.ToFloat64(m.requests.WithLabelValues("campaign_get", "error"))
	codes := testutil.ToFloat64(m.errors.WithLabelValues("campaign_get", "-32031"))

	m.Observe("campaign_get", 0, time.Millisecond)
	m.Observe("campaign_get", -32031, time.Millisecond)

	require.Equal(t, ok+1, testutil.ToFloat64(m.requests.WithLabelValues("campaign_get", "success")))
	require.Equal(t, failed+1, testutil.ToFloat64(m.requests.WithLabelValues("campaign_get", "error")))
	require.Equal(t, codes+1, testutil.ToFloat64(m.errors.WithLabelValues("campaign_get", "-32031")))
}

func TestThrottleAndJournalCounters(t *testing.T) {
	throttles := testutil.ToFloat64(RPC().throttles.WithLabelValues("unspecified"))
	RPC().RecordThrottle("")
	require.Equal(t, throttles+1, testutil.ToFloat64(RPC().throttles.WithLabelValues("unspecified")))

	journaled := testutil.ToFloat64(Events().journaled.WithLabelValues("campaign.created"))
	Events().RecordJournaled(" Campaign.Created ")
	require.Equal(t, journaled+1, testutil.ToFloat64(Events().journaled.WithLabelValues("campaign.created")))

	failures := testutil.ToFloat64(Events().failures.WithLabelValues("unknown"))
	Events().RecordFailure("")
	require.Equal(t, failures+1, testutil.ToFloat64(Events().failures.WithLabelValues("unknown")))
}
