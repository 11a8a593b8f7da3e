// Package metrics exposes Prometheus collectors for the snippet engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "snippet_engine"

// Metrics holds every collector of the service on its own registry. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	JobsProcessed    *prometheus.CounterVec
	JobDuration      *prometheus.HistogramVec
	JobRetries       *prometheus.CounterVec
	DeadLetters      *prometheus.CounterVec
	PipelineRuns     *prometheus.CounterVec
	PipelineDuration *prometheus.HistogramVec
	TokenRefreshes   *prometheus.CounterVec
}

// New creates the collectors and registers them, together with the Go and
// process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		JobsProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "jobs",
				Name:      "processed_total",
				Help:      "Stream messages handled, by job type and outcome",
			},
			[]string{"job", "outcome"},
		),
		JobDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "jobs",
				Name:      "duration_seconds",
				Help:      "Time spent handling one stream message",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"job"},
		),
		JobRetries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "jobs",
				Name:      "retries_total",
				Help:      "In-process retries of failed jobs",
			},
			[]string{"job"},
		),
		DeadLetters: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "jobs",
				Name:      "dead_letters_total",
				Help:      "Messages moved to a dead-letter stream, by failure kind",
			},
			[]string{"job", "kind"},
		),
		PipelineRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "runs_total",
				Help:      "Pipeline runs, by operation and result",
			},
			[]string{"operation", "result"},
		),
		PipelineDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "duration_seconds",
				Help:      "Pipeline run duration",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		TokenRefreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "auth",
				Name:      "token_refreshes_total",
				Help:      "Access token fetches from the issuer, by result",
			},
			[]string{"result"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.JobsProcessed,
		m.JobDuration,
		m.JobRetries,
		m.DeadLetters,
		m.PipelineRuns,
		m.PipelineDuration,
		m.TokenRefreshes,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordJob counts a handled message and observes its duration.
func (m *Metrics) RecordJob(job, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.JobsProcessed.WithLabelValues(job, outcome).Inc()
	m.JobDuration.WithLabelValues(job).Observe(d.Seconds())
}

// RecordRetry counts one retry of a job.
func (m *Metrics) RecordRetry(job string) {
	if m == nil {
		return
	}
	m.JobRetries.WithLabelValues(job).Inc()
}

// RecordDeadLetter counts a message moved to the dead-letter stream.
func (m *Metrics) RecordDeadLetter(job, kind string) {
	if m == nil {
		return
	}
	m.DeadLetters.WithLabelValues(job, kind).Inc()
}

// RecordPipeline counts a pipeline run and observes its duration.
func (m *Metrics) RecordPipeline(operation, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.PipelineRuns.WithLabelValues(operation, result).Inc()
	m.PipelineDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// RecordTokenRefresh counts a token fetch.
func (m *Metrics) RecordTokenRefresh(ok bool) {
	if m == nil {
		return
	}
	result := "success"
	if !ok {
		result = "failure"
	}
	m.TokenRefreshes.WithLabelValues(result).Inc()
}
