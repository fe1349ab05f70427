package observability

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Classification outcomes.
const (
	OutcomeSuccess         = "success"
	OutcomeUnconfigured    = "unconfigured"
	OutcomeUpstreamError   = "upstream_error"
	OutcomeInvalidResponse = "invalid_response"
)

// Metrics is nil-safe: every method is a no-op on a nil receiver.
type Metrics struct {
	Classifications    *prometheus.CounterVec
	RegulationLookups  *prometheus.CounterVec
	CompletionDuration prometheus.Histogram
	CacheHits          prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Classifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tariff_classifications_total",
				Help: "Total de classificações por resultado",
			},
			[]string{"outcome"},
		),
		RegulationLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tariff_regulation_lookups_total",
				Help: "Consultas na tabela de regulamentação (match ou default)",
			},
			[]string{"result"},
		),
		CompletionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tariff_completion_duration_seconds",
				Help:    "Latência da chamada ao modelo",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
		),
		CacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tariff_cache_hits_total",
				Help: "Classificações servidas pelo cache",
			},
		),
	}
	reg.MustRegister(m.Classifications, m.RegulationLookups, m.CompletionDuration, m.CacheHits)
	return m
}

func (m *Metrics) ObserveClassification(outcome string) {
	if m == nil {
		return
	}
	m.Classifications.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveLookup(matched bool) {
	if m == nil {
		return
	}
	result := "default"
	if matched {
		result = "match"
	}
	m.RegulationLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveCompletion(d time.Duration) {
	if m == nil {
		return
	}
	m.CompletionDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveCacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

// Start serves /metrics for gatherer on its own port. The returned server is
// nil when port is empty.
func Start(port string, gatherer prometheus.Gatherer) *http.Server {
	if port == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server stopped", "error", err)
		}
	}()
	return srv
}
