package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ListingsPublished = promauto.NewCounter(prometheus.CounterOpts{Namespace: "carshare", Name: "listings_published_total", Help: "Total listings successfully published"})
	CatalogLookups    = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "carshare", Name: "catalog_lookups_total", Help: "Vehicle catalog lookups by result"},
		[]string{"result"},
	)
	GeocodeFallbacks   = promauto.NewCounter(prometheus.CounterOpts{Namespace: "carshare", Name: "geocode_fallbacks_total", Help: "Address resolutions that degraded to the null fallback"})
	BookingTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "carshare", Name: "booking_transitions_total", Help: "Completed booking lifecycle transitions"},
		[]string{"status"},
	)
	FeedDeliveries = promauto.NewCounter(prometheus.CounterOpts{Namespace: "carshare", Name: "feed_deliveries_total", Help: "Booking feed snapshot deliveries"})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "carshare", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "carshare",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
