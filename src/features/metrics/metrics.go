package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors shared by the whole application. The SoundCloud session, the
// cache backends and the HTTP middleware all report here.
var (
	APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "soundbridge_soundcloud_requests_total",
		Help: "Requests issued against the SoundCloud API.",
	}, []string{"host", "status"})

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "soundbridge_cache_hits_total",
		Help: "Cache lookups that returned a value.",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "soundbridge_cache_misses_total",
		Help: "Cache lookups that missed or expired.",
	})

	StreamResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "soundbridge_stream_resolutions_total",
		Help: "Stream URLs handed out, by transport protocol.",
	}, []string{"protocol"})

	ClientIDRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "soundbridge_client_id_refreshes_total",
		Help: "Times the public client id was re-scraped.",
	})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "soundbridge_http_request_duration_seconds",
		Help:    "Duration of handled HTTP requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)
