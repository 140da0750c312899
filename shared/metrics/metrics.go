// Package metrics provides Prometheus metrics for the pricing service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "car_price"

// Prediction outcomes.
const (
	OutcomeSuccess          = "success"
	OutcomeModelUnavailable = "model_unavailable"
	OutcomeInferenceError   = "inference_error"
)

// Metrics holds all collectors, registered on one registry.
type Metrics struct {
	registry *prometheus.Registry

	// Prediction metrics
	PredictionsTotal   *prometheus.CounterVec
	ValidationFailures prometheus.Counter
	InferenceDuration  prometheus.Histogram
	ModelLoaded        prometheus.Gauge

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New registers every collector, plus Go runtime and process collectors,
// on reg.
func New(reg *prometheus.Registry) *Metrics {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		PredictionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "prediction",
			Name:      "requests_total",
			Help:      "Total number of prediction attempts by outcome",
		}, []string{"outcome"}),
		ValidationFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "prediction",
			Name:      "validation_failures_total",
			Help:      "Total number of prediction requests rejected by schema validation",
		}),
		InferenceDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "prediction",
			Name:      "inference_duration_seconds",
			Help:      "Model inference latency in seconds",
			Buckets:   []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05, .1},
		}),
		ModelLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "model",
			Name:      "loaded",
			Help:      "1 when a model is loaded and serving, 0 otherwise",
		}),

		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// RecordPrediction counts a prediction outcome and, for attempts that
// reached the model, its inference latency.
func (m *Metrics) RecordPrediction(outcome string, seconds float64) {
	m.PredictionsTotal.WithLabelValues(outcome).Inc()
	if outcome != OutcomeModelUnavailable {
		m.InferenceDuration.Observe(seconds)
	}
}

// SetModelLoaded flips the model gauge.
func (m *Metrics) SetModelLoaded(loaded bool) {
	if loaded {
		m.ModelLoaded.Set(1)
		return
	}
	m.ModelLoaded.Set(0)
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
