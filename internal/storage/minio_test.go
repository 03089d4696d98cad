package storage

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProbeDuration(t *testing.T) {
	t.Run("reads format duration", func(t *testing.T) {
		out := `{"format": {"filename": "clip.mp4", "duration": "123.456000"}}`
		duration, err := parseProbeDuration(out)
		require.NoError(t, err)
		assert.InDelta(t, 123.456, duration, 0.001)
	})

	t.Run("missing duration fails", func(t *testing.T) {
		_, err := parseProbeDuration(`{"format": {"filename": "clip.mp4"}}`)
		assert.Error(t, err)
	})

	t.Run("invalid json fails", func(t *testing.T) {
		_, err := parseProbeDuration("not json")
		assert.Error(t, err)
	})

	t.Run("non-numeric duration fails", func(t *testing.T) {
		_, err := parseProbeDuration(`{"format": {"duration": "N/A"}}`)
		assert.Error(t, err)
	})
}

func TestObjectNameFor(t *testing.T) {
	name := objectNameFor("videos", "/tmp/upload-1.mp4")

	assert.True(t, strings.HasPrefix(name, "videos/"))
	assert.True(t, strings.HasSuffix(name, ".mp4"))

	// two uploads of the same file never collide
	assert.NotEqual(t, name, objectNameFor("videos", "/tmp/upload-1.mp4"))
}

type fakeUploadRecorder struct {
	uploads  []string
	failures []string
}

func (f *fakeUploadRecorder) RecordMediaUpload(kind string, _ time.Duration) {
	f.uploads = append(f.uploads, kind)
}

func (f *fakeUploadRecorder) RecordMediaUploadFailure(kind string) {
	f.failures = append(f.failures, kind)
}

func TestObserveUpload(t *testing.T) {
	recorder := &fakeUploadRecorder{}
	s := &MediaStorage{metrics: recorder}

	s.observeUpload("image", time.Now(), nil)
	s.observeUpload("video", time.Now(), errors.New("host down"))

	assert.Equal(t, []string{"image"}, recorder.uploads)
	assert.Equal(t, []string{"video"}, recorder.failures)
}

func TestObserveUploadWithoutRecorder(t *testing.T) {
	s := &MediaStorage{}

	// no recorder wired, nothing to panic on
	s.observeUpload("image", time.Now(), nil)
	s.observeUpload("video", time.Now(), errors.New("host down"))
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "video/mp4", contentTypeFor("/tmp/a.mp4"))
	assert.Equal(t, "image/png", contentTypeFor("/tmp/a.png"))
	assert.Equal(t, "application/octet-stream", contentTypeFor("/tmp/mystery"))
}
