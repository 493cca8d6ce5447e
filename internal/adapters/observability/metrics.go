package observability

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tripmarket", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tripmarket", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tripmarket", Name: "cache_events_total", Help: "Cache swaps/patches/hits/misses."},
		[]string{"cache", "event"}, // event: swap|patch|hit|miss
	)
	Reloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tripmarket", Name: "reloads_total", Help: "Full cache reloads by outcome."},
		[]string{"outcome"}, // ok|error|fixture
	)
	ReloadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "tripmarket", Name: "reload_duration_seconds",
			Help:    "Full cache reload duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)
	Mutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tripmarket", Name: "mutations_total", Help: "Mutation operations by outcome."},
		[]string{"op", "outcome"}, // outcome: ok|error|rollback
	)
)

func Serve() {
	addr := os.Getenv("METRICS_ADDR")
	if addr == "" {
		return // disabled
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
	reg.MustRegister(HTTPRequests, HTTPLatency, CacheEvents, Reloads, ReloadDuration, Mutations)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveCache(cache, event string) {
	CacheEvents.WithLabelValues(cache, event).Inc()
}

func ObserveReload(outcome string, dur time.Duration) {
	Reloads.WithLabelValues(outcome).Inc()
	ReloadDuration.Observe(dur.Seconds())
}

func ObserveMutation(op, outcome string) {
	Mutations.WithLabelValues(op, outcome).Inc()
}

func LabelErr(err error) string {
	if err == nil {
		return "none"
	}
	return fmt.Sprintf("%T", err)
}
