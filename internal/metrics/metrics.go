// Package metrics holds the Prometheus collectors for ledger, audit, feed
// and AI activity. A nil *Metrics is valid and records nothing.
package metrics

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "blueprint"

// AI request outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeRejected = "rejected"
)

// Metrics owns a registry and the collectors registered on it.
type Metrics struct {
	Registry *prometheus.Registry

	rewards       *prometheus.CounterVec
	rewardAmount  *prometheus.CounterVec
	auditWrites   *prometheus.CounterVec
	notifications *prometheus.CounterVec
	aiRequests    *prometheus.CounterVec
	aiDuration    *prometheus.HistogramVec
}

// New creates a Metrics with a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		rewards: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ledger",
				Name:      "rewards_total",
				Help:      "Total number of rewards issued.",
			},
			[]string{"token_type"},
		),
		rewardAmount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ledger",
				Name:      "reward_amount_total",
				Help:      "Sum of issued reward amounts.",
			},
			[]string{"token_type"},
		),
		auditWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "audit",
				Name:      "writes_total",
				Help:      "Audit entry writes by result.",
			},
			[]string{"result"},
		),
		notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "feed",
				Name:      "notifications_total",
				Help:      "Notifications added to the feed.",
			},
			[]string{"type"},
		),
		aiRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ai",
				Name:      "requests_total",
				Help:      "AI analysis calls by operation and outcome.",
			},
			[]string{"operation", "outcome"},
		),
		aiDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "ai",
				Name:      "request_duration_seconds",
				Help:      "Duration of AI generation requests.",
				Buckets:   prometheus.ExponentialBuckets(0.25, 2, 8), // 250ms to ~32s
			},
			[]string{"operation"},
		),
	}
	m.Registry.MustRegister(
		m.rewards,
		m.rewardAmount,
		m.auditWrites,
		m.notifications,
		m.aiRequests,
		m.aiDuration,
	)
	return m
}

// RewardIssued counts one reward of amount tokens.
func (m *Metrics) RewardIssued(tokenType string, amount float64) {
	if m == nil {
		return
	}
	m.rewards.WithLabelValues(tokenType).Inc()
	m.rewardAmount.WithLabelValues(tokenType).Add(amount)
}

// AuditWrite counts an audit write attempt.
func (m *Metrics) AuditWrite(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.auditWrites.WithLabelValues(result).Inc()
}

// NotificationAdded counts a notification of the given type.
func (m *Metrics) NotificationAdded(notificationType string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(notificationType).Inc()
}

// AIRequest counts an AI call. A zero duration is not observed.
func (m *Metrics) AIRequest(operation, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.aiRequests.WithLabelValues(operation, outcome).Inc()
	if d > 0 {
		m.aiDuration.WithLabelValues(operation).Observe(d.Seconds())
	}
}

// WriteText writes every metric family in the Prometheus text format.
func (m *Metrics) WriteText(w io.Writer) error {
	if m == nil {
		return nil
	}
	families, err := m.Registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
