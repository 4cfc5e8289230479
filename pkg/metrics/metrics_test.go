package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, vec *prometheus.CounterVec, label string) float64 {
	t.Helper()
	counter, err := vec.GetMetricWithLabelValues(label)
	require.NoError(t, err)
	var m dto.Metric
	require.NoError(t, counter.Write(&m))
	return m.GetCounter().GetValue()
}

func TestCheckoutMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCheckoutMetrics(reg)

	m.IncSubmission("success")
	m.IncSubmission("success")
	m.IncSubmission("declined")
	m.IncTransition("advance")
	m.IncGuardRejection("")
	m.ObserveSubmissionDuration(250 * time.Millisecond)

	assert.Equal(t, 2.0, counterValue(t, m.submissions, "success"))
	assert.Equal(t, 1.0, counterValue(t, m.submissions, "declined"))
	assert.Equal(t, 1.0, counterValue(t, m.stepTransitions, "advance"))
	assert.Equal(t, 1.0, counterValue(t, m.guardRejections, "unknown"))
}

func TestNilRegistererIsNoop(t *testing.T) {
	m := NewCheckoutMetrics(nil)
	m.IncSubmission("success")
	m.IncTransition("advance")
	m.ObserveSubmissionDuration(time.Second)

	var nilMetrics *CheckoutMetrics
	nilMetrics.IncSubmission("success")
}
