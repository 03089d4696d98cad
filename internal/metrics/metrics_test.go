package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHelpers(t *testing.T) {
	// collectors register on the default registry, so one instance serves
	// the whole test
	m := NewMetrics()

	m.RecordLikeToggle("video", "liked")
	m.RecordLikeToggle("video", "liked")
	m.RecordSubscriptionToggle("subscribed")
	m.RecordVideoView()
	m.RecordVideoPublished()
	m.RecordCacheHit("video_detail")
	m.RecordCacheMiss("video_detail")
	m.RecordEventPublishFailure()
	m.RecordMediaUpload("image", 120*time.Millisecond)
	m.RecordMediaUploadFailure("video")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.LikeTogglesTotal.WithLabelValues("video", "liked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SubscriptionTogglesTotal.WithLabelValues("subscribed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.VideoViewsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.VideosPublishedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHitsTotal.WithLabelValues("video_detail")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheMissesTotal.WithLabelValues("video_detail")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventPublishFailuresTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MediaUploadFailuresTotal.WithLabelValues("video")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.MediaUploadDuration))
}
