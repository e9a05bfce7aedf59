// Package metrics holds the Prometheus collectors for the intake server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	RemoteCalls       *prometheus.CounterVec
	RemoteDuration    *prometheus.HistogramVec
	Fallbacks         *prometheus.CounterVec
	GateRejections    *prometheus.CounterVec
	ActiveSessions    prometheus.Gauge
	ProposalsExported *prometheus.CounterVec
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RemoteCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_remote_calls_total",
				Help: "Calls to the advisory backend by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		RemoteDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "intake_remote_call_duration_seconds",
				Help:    "Duration of advisory backend calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		Fallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_fallback_total",
				Help: "Results served by the local calculators, by operation and failure reason",
			},
			[]string{"operation", "reason"},
		),
		GateRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_gate_rejections_total",
				Help: "Navigation attempts refused by the step gate, by target step",
			},
			[]string{"step"},
		),
		ActiveSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "intake_active_sessions",
				Help: "Wizard sessions currently held in memory",
			},
		),
		ProposalsExported: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_proposals_exported_total",
				Help: "Proposal exports by format and result",
			},
			[]string{"format", "result"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRemote records one backend call.
func (m *Metrics) ObserveRemote(operation string, ok bool, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	m.RemoteCalls.WithLabelValues(operation, outcome).Inc()
	m.RemoteDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// ObserveFallback records one result served locally.
func (m *Metrics) ObserveFallback(operation, reason string) {
	if m == nil {
		return
	}
	m.Fallbacks.WithLabelValues(operation, reason).Inc()
}

// ObserveGateRejection records a refused navigation.
func (m *Metrics) ObserveGateRejection(step string) {
	if m == nil {
		return
	}
	m.GateRejections.WithLabelValues(step).Inc()
}

// ObserveExport records one proposal export.
func (m *Metrics) ObserveExport(format string, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.ProposalsExported.WithLabelValues(format, result).Inc()
}

// SetActiveSessions updates the session gauge.
func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.ActiveSessions.Set(float64(n))
}
