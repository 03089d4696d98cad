package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Engagement metrics
	LikeTogglesTotal          *prometheus.CounterVec
	SubscriptionTogglesTotal  *prometheus.CounterVec
	VideoViewsTotal           prometheus.Counter
	VideosPublishedTotal      prometheus.Counter
	MediaUploadDuration       *prometheus.HistogramVec
	MediaUploadFailuresTotal  *prometheus.CounterVec
	CacheHitsTotal            *prometheus.CounterVec
	CacheMissesTotal          *prometheus.CounterVec
	EventPublishFailuresTotal prometheus.Counter
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		LikeTogglesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "like_toggles_total",
				Help: "Total number of like/dislike toggles",
			},
			[]string{"subject_type", "result"},
		),
		SubscriptionTogglesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subscription_toggles_total",
				Help: "Total number of subscription toggles",
			},
			[]string{"result"},
		),
		VideoViewsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "video_views_total",
				Help: "Total number of registered video views",
			},
		),
		VideosPublishedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "videos_published_total",
				Help: "Total number of videos published",
			},
		),
		MediaUploadDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "media_upload_duration_seconds",
				Help:    "Time taken to upload media to the host",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
			},
			[]string{"kind"},
		),
		MediaUploadFailuresTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "media_upload_failures_total",
				Help: "Total number of failed media uploads",
			},
			[]string{"kind"},
		),
		CacheHitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of read-model cache hits",
			},
			[]string{"view"},
		),
		CacheMissesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of read-model cache misses",
			},
			[]string{"view"},
		),
		EventPublishFailuresTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "event_publish_failures_total",
				Help: "Total number of failed engagement event publishes",
			},
		),
	}
}

// Middleware records per-request counters and latency. Paths are recorded
// by route template to keep cardinality bounded.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RequestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// RecordLikeToggle records one toggle outcome.
func (m *Metrics) RecordLikeToggle(subjectType, result string) {
	m.LikeTogglesTotal.WithLabelValues(subjectType, result).Inc()
}

// RecordSubscriptionToggle records one subscription toggle outcome.
func (m *Metrics) RecordSubscriptionToggle(result string) {
	m.SubscriptionTogglesTotal.WithLabelValues(result).Inc()
}

// RecordMediaUpload records a completed upload.
func (m *Metrics) RecordMediaUpload(kind string, duration time.Duration) {
	m.MediaUploadDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordMediaUploadFailure records a failed upload.
func (m *Metrics) RecordMediaUploadFailure(kind string) {
	m.MediaUploadFailuresTotal.WithLabelValues(kind).Inc()
}

// RecordCacheHit records a read-model cache hit.
func (m *Metrics) RecordCacheHit(view string) {
	m.CacheHitsTotal.WithLabelValues(view).Inc()
}

// RecordCacheMiss records a read-model cache miss.
func (m *Metrics) RecordCacheMiss(view string) {
	m.CacheMissesTotal.WithLabelValues(view).Inc()
}

// RecordVideoView records one registered view.
func (m *Metrics) RecordVideoView() {
	m.VideoViewsTotal.Inc()
}

// RecordVideoPublished records one published video.
func (m *Metrics) RecordVideoPublished() {
	m.VideosPublishedTotal.Inc()
}

// RecordEventPublishFailure records one failed engagement event publish.
func (m *Metrics) RecordEventPublishFailure() {
	m.EventPublishFailuresTotal.Inc()
}
