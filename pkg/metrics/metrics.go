package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records counters for the checkout wizard flow.
type CheckoutMetrics struct {
	submissions        *prometheus.CounterVec
	submissionDuration prometheus.Histogram
	stepTransitions    *prometheus.CounterVec
	guardRejections    *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_submissions_total",
		Help: "Transaction submissions by result.",
	}, []string{"result"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_submission_duration_seconds",
		Help:    "Duration of transaction submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_step_transitions_total",
		Help: "Step transitions by direction.",
	}, []string{"direction"})
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_guard_rejections_total",
		Help: "Step-advance attempts blocked by a guard, by step.",
	}, []string{"step"})
	reg.MustRegister(submissions, duration, transitions, rejections)
	return &CheckoutMetrics{
		submissions:        submissions,
		submissionDuration: duration,
		stepTransitions:    transitions,
		guardRejections:    rejections,
	}
}

// IncSubmission counts one submission outcome ("success", "declined", ...).
func (c *CheckoutMetrics) IncSubmission(result string) {
	if c == nil || c.submissions == nil {
		return
	}
	c.submissions.WithLabelValues(normalizeLabel(result)).Inc()
}

// ObserveSubmissionDuration records how long a submission took.
func (c *CheckoutMetrics) ObserveSubmissionDuration(duration time.Duration) {
	if c == nil || c.submissionDuration == nil {
		return
	}
	c.submissionDuration.Observe(duration.Seconds())
}

// IncTransition counts a step transition ("advance", "retreat", "retry").
func (c *CheckoutMetrics) IncTransition(direction string) {
	if c == nil || c.stepTransitions == nil {
		return
	}
	c.stepTransitions.WithLabelValues(normalizeLabel(direction)).Inc()
}

// IncGuardRejection counts a blocked advance for the given step.
func (c *CheckoutMetrics) IncGuardRejection(step string) {
	if c == nil || c.guardRejections == nil {
		return
	}
	c.guardRejections.WithLabelValues(normalizeLabel(step)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
