// SPDX-License-Identifier: EPL-2.0

// Package metrics holds the Prometheus metrics of the transcription proxy.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "audsqueeze"

// Metrics are registered on their own registry so several instances can
// coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	UploadSize             prometheus.Histogram
	TranscriptionRequests  prometheus.Counter
	TranscriptionFailures  *prometheus.CounterVec
	TranscriptionDuration  prometheus.Histogram
	TranscriptionsInFlight prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status_code"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),

		UploadSize: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upload_size_bytes",
			Help:      "Size of uploaded audio files",
			Buckets:   prometheus.ExponentialBuckets(64<<10, 2, 10), // 64KiB to 32MiB
		}),
		TranscriptionRequests: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcription_requests_total",
			Help:      "Total number of requests forwarded upstream",
		}),
		TranscriptionFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcription_failures_total",
			Help:      "Total number of failed transcriptions",
		}, []string{"reason"}),
		TranscriptionDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transcription_duration_seconds",
			Help:      "Duration of upstream transcription calls",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10), // 0.5s to ~4 minutes
		}),
		TranscriptionsInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "transcriptions_in_flight",
			Help:      "Upstream calls currently running",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) RecordHTTPRequest(method, endpoint string, status int, d time.Duration) {
	m.HTTPRequests.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(d.Seconds())
}

func (m *Metrics) RecordUpload(size int64) {
	m.UploadSize.Observe(float64(size))
}

// StartTranscription counts a forwarded request and returns the function
// that records its duration and, for a non-empty reason, its failure.
func (m *Metrics) StartTranscription() func(failure string) {
	m.TranscriptionRequests.Inc()
	m.TranscriptionsInFlight.Inc()
	start := time.Now()

	return func(failure string) {
		m.TranscriptionsInFlight.Dec()
		m.TranscriptionDuration.Observe(time.Since(start).Seconds())
		if failure != "" {
			m.TranscriptionFailures.WithLabelValues(failure).Inc()
		}
	}
}
