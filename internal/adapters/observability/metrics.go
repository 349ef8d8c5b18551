package observability

import (
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	ExternalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "uaeedu", Name: "external_requests_total", Help: "Outbound fetches."},
		[]string{"host", "outcome"}, // outcome: ok|error
	)
	ExternalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "uaeedu", Name: "external_request_duration_seconds",
			Help:    "Outbound fetch duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"host"},
	)
	ParseSkips = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "uaeedu", Name: "parse_skips_total", Help: "Records skipped while parsing."},
		[]string{"source"},
	)
	ValidationDrops = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "uaeedu", Name: "validation_drops_total", Help: "Records excluded by validation."},
		[]string{"entity"}, // entity: university|course
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "uaeedu", Name: "cache_events_total", Help: "Page cache hits/misses/sets."},
		[]string{"cache", "event"}, // event: hit|miss|set
	)
)

// Serve exposes /metrics on METRICS_ADDR; disabled when unset.
func Serve() {
	addr := os.Getenv("METRICS_ADDR")
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(ExternalRequests, ExternalLatency, ParseSkips, ValidationDrops, CacheEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveExternal(host string, ok bool, dur time.Duration) {
	outcome := "error"
	if ok {
		outcome = "ok"
	}
	ExternalRequests.WithLabelValues(host, outcome).Inc()
	ExternalLatency.WithLabelValues(host).Observe(dur.Seconds())
}

func ObserveParseSkip(source string) { ParseSkips.WithLabelValues(source).Inc() }

func ObserveValidationDrop(entity string) { ValidationDrops.WithLabelValues(entity).Inc() }

func ObserveCache(cache, event string) { CacheEvents.WithLabelValues(cache, event).Inc() }
