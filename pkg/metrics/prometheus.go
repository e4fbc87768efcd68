package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Recorder collects bias engine metrics on its own registry.
type Recorder struct {
	registry       *prometheus.Registry
	runsTotal      *prometheus.CounterVec
	runDuration    *prometheus.HistogramVec
	providerErrors *prometheus.CounterVec
	eventsIngested *prometheus.CounterVec
	fallbacksTotal *prometheus.CounterVec
}

// New creates a Recorder and registers its collectors.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bias",
				Name:      "runs_total",
				Help:      "Total number of scoring runs by mode and status",
			},
			[]string{"mode", "status"},
		),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "bias",
				Name:      "run_duration_seconds",
				Help:      "Duration of scoring runs in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"mode"},
		),
		providerErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bias",
				Name:      "provider_errors_total",
				Help:      "Failed calls to external signal providers",
			},
			[]string{"provider"},
		),
		eventsIngested: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bias",
				Name:      "events_ingested_total",
				Help:      "Newly persisted calendar events by impact",
			},
			[]string{"impact"},
		),
		fallbacksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bias",
				Name:      "market_provenance_total",
				Help:      "Resolved market quotes by provenance",
			},
			[]string{"provenance"},
		),
	}
	r.registry.MustRegister(
		r.runsTotal,
		r.runDuration,
		r.providerErrors,
		r.eventsIngested,
		r.fallbacksTotal,
		prometheus.NewGoCollector(),
	)
	return r
}

// RecordRun records a finished run.
func (r *Recorder) RecordRun(mode, status string, seconds float64) {
	if r == nil {
		return
	}
	r.runsTotal.WithLabelValues(mode, status).Inc()
	r.runDuration.WithLabelValues(mode).Observe(seconds)
}

// RecordProviderError records a failed provider call.
func (r *Recorder) RecordProviderError(provider string) {
	if r == nil {
		return
	}
	r.providerErrors.WithLabelValues(provider).Inc()
}

// RecordEventIngested records one newly inserted calendar event.
func (r *Recorder) RecordEventIngested(impact string) {
	if r == nil {
		return
	}
	r.eventsIngested.WithLabelValues(impact).Inc()
}

// RecordProvenance records which link of the market chain served a quote.
func (r *Recorder) RecordProvenance(provenance string) {
	if r == nil {
		return
	}
	r.fallbacksTotal.WithLabelValues(provenance).Inc()
}

// Handler exposes the registry for scraping.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gatherer returns the underlying registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Push sends the current metrics to a Pushgateway. One-shot CLI runs use this
// since they exit before any scrape.
func (r *Recorder) Push(url, job string) error {
	if r == nil || url == "" {
		return nil
	}
	return push.New(url, job).Gatherer(r.registry).Push()
}
