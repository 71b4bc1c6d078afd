// Package metrics provides Prometheus metrics for the tool host and the agent loop.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// Namespace prefix for all metrics
	namespace = "agentkit"

	subsystemToolHost = "toolhost"
	subsystemAgent    = "agent"
	subsystemProvider = "provider"
)

// DurationBuckets for call durations
var DurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120}

// Recorder owns a registry and the collectors registered on it.
type Recorder struct {
	registry *prometheus.Registry

	toolCalls        *prometheus.CounterVec
	toolCallDuration *prometheus.HistogramVec
	agentRuns        *prometheus.CounterVec
	agentIterations  prometheus.Counter
	providerDuration *prometheus.HistogramVec
}

// New creates a Recorder with a private registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		toolCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystemToolHost,
				Name:      "calls_total",
				Help:      "Total number of tool calls dispatched by the tool host",
			},
			[]string{"tool", "status"},
		),
		toolCallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystemToolHost,
				Name:      "call_duration_seconds",
				Help:      "Tool call latency in seconds",
				Buckets:   DurationBuckets,
			},
			[]string{"tool"},
		),
		agentRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystemAgent,
				Name:      "runs_total",
				Help:      "Total number of agent runs by outcome",
			},
			[]string{"outcome"},
		),
		agentIterations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystemAgent,
				Name:      "iterations_total",
				Help:      "Total number of tool-use rounds across all runs",
			},
		),
		providerDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystemProvider,
				Name:      "request_duration_seconds",
				Help:      "Model request latency in seconds",
				Buckets:   DurationBuckets,
			},
			[]string{"stop_reason"},
		),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.toolCalls,
		r.toolCallDuration,
		r.agentRuns,
		r.agentIterations,
		r.providerDuration,
	)
	return r
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler returns an HTTP handler serving the registry.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// RecordToolCall records a dispatched tool call. status is "ok", "error" or "unknown".
func (r *Recorder) RecordToolCall(tool, status string, d time.Duration) {
	if r == nil {
		return
	}
	r.toolCalls.WithLabelValues(tool, status).Inc()
	if status != "unknown" {
		r.toolCallDuration.WithLabelValues(tool).Observe(d.Seconds())
	}
}

// RecordRun records the outcome of an agent run.
func (r *Recorder) RecordRun(outcome string) {
	if r == nil {
		return
	}
	r.agentRuns.WithLabelValues(outcome).Inc()
}

// RecordIteration counts one tool-use round.
func (r *Recorder) RecordIteration() {
	if r == nil {
		return
	}
	r.agentIterations.Inc()
}

// RecordProviderRequest records the latency of one model round.
func (r *Recorder) RecordProviderRequest(stopReason string, d time.Duration) {
	if r == nil {
		return
	}
	r.providerDuration.WithLabelValues(stopReason).Observe(d.Seconds())
}
