package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type IRecorder interface {
	ObserveDispatch(platform, feature, outcome string, elapsed time.Duration)
	CallRecorded(actionType string, status int)
	AuditFailure(stage string)
}

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	dispatchTotal    *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec
	callRecords      *prometheus.CounterVec
	auditFailures    *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		dispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "social_dispatch_total",
			Help: "Dispatch attempts by platform, feature and outcome.",
		}, []string{"platform", "feature", "outcome"}),
		dispatchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "social_dispatch_duration_seconds",
			Help:    "Time spent in the platform adapter.",
			Buckets: prometheus.DefBuckets,
		}, []string{"platform", "feature"}),
		callRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "social_call_records_total",
			Help: "Call records persisted, by action type and upstream status.",
		}, []string{"action_type", "status"}),
		auditFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "social_audit_failures_total",
			Help: "Audit writes that failed, by stage.",
		}, []string{"stage"}),
	}
	reg.MustRegister(m.dispatchTotal, m.dispatchDuration, m.callRecords, m.auditFailures)
	return m
}

func (m *Metrics) ObserveDispatch(platform, feature, outcome string, elapsed time.Duration) {
	m.dispatchTotal.WithLabelValues(platform, feature, outcome).Inc()
	m.dispatchDuration.WithLabelValues(platform, feature).Observe(elapsed.Seconds())
}

func (m *Metrics) CallRecorded(actionType string, status int) {
	m.callRecords.WithLabelValues(actionType, strconv.Itoa(status)).Inc()
}

func (m *Metrics) AuditFailure(stage string) {
	m.auditFailures.WithLabelValues(stage).Inc()
}

// Noop discards everything.
type Noop struct{}

func (Noop) ObserveDispatch(string, string, string, time.Duration) {}
func (Noop) CallRecorded(string, int) {}
func (Noop) AuditFailure(string) {}

// Handler exposes the gatherer in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}
