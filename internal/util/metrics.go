package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CartMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Total number of cart mutations applied locally",
	}, []string{"op"})

	CartSyncFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_sync_failures_total",
		Help: "Total number of cart mutations the server rejected or that failed in transit",
	}, []string{"op", "reason"})

	CartRollbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_rollbacks_total",
		Help: "Total number of optimistic cart mutations rolled back",
	}, []string{"strategy"})

	CheckoutAttemptsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkout_attempts_total",
		Help: "Total number of checkout attempts",
	})

	CheckoutPriceMismatchTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkout_price_mismatch_total",
		Help: "Total number of checkouts rejected for a total disagreement",
	})

	PromoValidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promo_validations_total",
		Help: "Total number of promo code validation attempts",
	}, []string{"result"})

	PromoInvalidationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "promo_invalidations_total",
		Help: "Total number of promo attachments discarded by cart mutations",
	})

	FeedEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_events_total",
		Help: "Total number of push events received, by event and outcome",
	}, []string{"event", "outcome"})

	MenuCacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "menu_cache_requests_total",
		Help: "Menu cache lookups by result",
	}, []string{"result"})

	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "api_request_duration_seconds",
		Help:    "Latency of calls against the ordering API",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "status"})

	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "api_requests_total",
		Help: "Total number of calls against the ordering API",
	}, []string{"operation", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency of the kiosk ops surface",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests served by the kiosk ops surface",
	}, []string{"method", "path", "status"})
)
