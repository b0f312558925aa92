// Package metrics collects gateway counters and exposes them for scraping.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/truemediaorg/mediagateway/model"
)

const namespace = "mediagateway"

// Metrics owns its registry so several instances can live side by side in
// tests.
type Metrics struct {
	registry *prometheus.Registry

	providerAttempts *prometheus.CounterVec
	providerLatency  *prometheus.HistogramVec
	resolutions      *prometheus.CounterVec
	profileLookups   *prometheus.CounterVec

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		providerAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_attempts_total",
				Help:      "Provider attempts by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		providerLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "provider_attempt_duration_seconds",
				Help:      "Duration of provider attempts in seconds",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20},
			},
			[]string{"provider"},
		),
		resolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resolutions_total",
				Help:      "Media resolutions by platform and final status",
			},
			[]string{"platform", "status"},
		),
		profileLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "profile_lookups_total",
				Help:      "Profile lookups by whether a placeholder was returned",
			},
			[]string{"placeholder"},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// Handler returns an HTTP handler exposing this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveAttempt(attempt model.ProviderAttempt) {
	m.providerAttempts.WithLabelValues(attempt.ProviderName, string(attempt.Outcome)).Inc()
	m.providerLatency.WithLabelValues(attempt.ProviderName).Observe(attempt.Latency.Seconds())
}

func (m *Metrics) ObserveResolution(platform model.Platform, status model.ResolutionStatus) {
	m.resolutions.WithLabelValues(string(platform), string(status)).Inc()
}

func (m *Metrics) ObserveProfile(placeholder bool) {
	m.profileLookups.WithLabelValues(strconv.FormatBool(placeholder)).Inc()
}

func (m *Metrics) ObserveRequest(method string, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
