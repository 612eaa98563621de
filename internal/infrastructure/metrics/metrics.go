package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPMetrics captures request metrics for the router.
type HTTPMetrics interface {
	ObserveRequest(method, route, status string, durationSeconds float64)
}

// ImageMetrics captures image service outcomes.
type ImageMetrics interface {
	IncUploads(outcome string)
	IncTransforms(kind, outcome string)
	IncExports(format, outcome string)
	AddStoredBytes(source string, n int)
}

// Noop implements every metrics interface without emitting anything.
type Noop struct{}

func (Noop) ObserveRequest(string, string, string, float64) {}
func (Noop) IncUploads(string)                              {}
func (Noop) IncTransforms(string, string)                   {}
func (Noop) IncExports(string, string)                      {}
func (Noop) AddStoredBytes(string, int)                     {}

// Prom implements HTTPMetrics and ImageMetrics backed by Prometheus.
type Prom struct {
	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	uploads     *prometheus.CounterVec
	transforms  *prometheus.CounterVec
	exports     *prometheus.CounterVec
	storedBytes *prometheus.CounterVec
}

func NewProm(namespace string, reg prometheus.Registerer) (*Prom, error) {
	p := &Prom{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method/route/status",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method/route",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "route"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Image uploads by outcome",
		}, []string{"outcome"}),
		transforms: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transforms_total",
			Help:      "Image transforms by kind and outcome",
		}, []string{"kind", "outcome"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Image exports by format and outcome",
		}, []string{"format", "outcome"}),
		storedBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stored_bytes_total",
			Help:      "Bytes written to storage by source",
		}, []string{"source"}),
	}

	for _, c := range []prometheus.Collector{p.requests, p.latency, p.uploads, p.transforms, p.exports, p.storedBytes} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering collector: %w", err)
		}
	}
	return p, nil
}

func (p *Prom) ObserveRequest(method, route, status string, durationSeconds float64) {
	p.requests.WithLabelValues(method, route, status).Inc()
	p.latency.WithLabelValues(method, route).Observe(durationSeconds)
}

func (p *Prom) IncUploads(outcome string) {
	p.uploads.WithLabelValues(outcome).Inc()
}

func (p *Prom) IncTransforms(kind, outcome string) {
	p.transforms.WithLabelValues(kind, outcome).Inc()
}

func (p *Prom) IncExports(format, outcome string) {
	p.exports.WithLabelValues(format, outcome).Inc()
}

func (p *Prom) AddStoredBytes(source string, n int) {
	p.storedBytes.WithLabelValues(source).Add(float64(n))
}

// Handler returns an HTTP handler for /metrics.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
