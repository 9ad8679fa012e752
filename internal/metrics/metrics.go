// Package metrics exposes Prometheus collectors for the request bridge.
package metrics

import (
	"net/http"
	"time"

	"github.com/OliveiraNt/offset-scout/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "offset_scout"

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Registry owns a private Prometheus registry and the bridge collectors.
type Registry struct {
	prom *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	TimeoutsTotal   *prometheus.CounterVec
}

// Options controls which runtime collectors are registered next to the bridge ones.
type Options struct {
	IncludeGoCollector      bool
	IncludeProcessCollector bool
}

// DefaultOptions registers both runtime collectors.
func DefaultOptions() Options {
	return Options{IncludeGoCollector: true, IncludeProcessCollector: true}
}

// NewRegistry creates a registry with every collector registered.
func NewRegistry(opts Options) *Registry {
	r := &Registry{
		prom: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bridge",
			Name:      "requests_total",
			Help:      "Requests served by the bridge, by op, outcome and error kind.",
		}, []string{"op", "outcome", "kind"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "bridge",
			Name:      "request_duration_seconds",
			Help:      "Time from request to terminal event.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15, 30, 60},
		}, []string{"op"}),
		TimeoutsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bridge",
			Name:      "timeouts_total",
			Help:      "Requests that ended with a Timeout error.",
		}, []string{"op"}),
	}

	r.prom.MustRegister(r.RequestsTotal, r.RequestDuration, r.TimeoutsTotal)
	if opts.IncludeGoCollector {
		r.prom.MustRegister(collectors.NewGoCollector())
	}
	if opts.IncludeProcessCollector {
		r.prom.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	return r
}

// ObserveRequest records one terminal event. kind is empty for successes.
func (r *Registry) ObserveRequest(op string, kind domain.Kind, d time.Duration) {
	if r == nil {
		return
	}
	outcome := OutcomeSuccess
	if kind != "" {
		outcome = OutcomeError
	}
	r.RequestsTotal.WithLabelValues(op, outcome, string(kind)).Inc()
	r.RequestDuration.WithLabelValues(op).Observe(d.Seconds())
	if kind == domain.KindTimeout {
		r.TimeoutsTotal.WithLabelValues(op).Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.prom, promhttp.HandlerOpts{Registry: r.prom})
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.prom
}
