package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	CounterRequests       *prometheus.CounterVec
	CounterLoginFailures  prometheus.Counter
	CounterIkanMutations  *prometheus.CounterVec
	CounterExternalRemove prometheus.Counter
	CounterRequestPanics  prometheus.Counter

	HistRequestDuration prometheus.Histogram
}

func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "The total number of incoming requests",
		}, []string{"method", "status"}),
		CounterLoginFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_failures_total",
			Help:      "Failed admin logins",
		}),
		CounterIkanMutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ikan_mutations_total",
			Help:      "Product create, update and delete operations",
		}, []string{"op"}),
		CounterExternalRemove: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_removed_externally_total",
			Help:      "Uploaded files deleted from disk outside the API",
		}),
		CounterRequestPanics: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "request_panics_total",
			Help:      "The total number of recovered handler panics",
		}),
		HistRequestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
