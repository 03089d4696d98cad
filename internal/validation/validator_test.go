package validation

import (
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestObjectID(t *testing.T) {
	t.Run("valid hex parses", func(t *testing.T) {
		want := primitive.NewObjectID()
		got, err := ObjectID("videoId", want.Hex())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("empty is rejected", func(t *testing.T) {
		_, err := ObjectID("videoId", "")
		assert.EqualError(t, err, "videoId is required")
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := ObjectID("videoId", "not-an-id")
		assert.EqualError(t, err, "videoId is not a valid id")
	})
}

func uploadHeader(contentType string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: "clip.mp4",
		Size:     size,
		Header:   textproto.MIMEHeader{"Content-Type": []string{contentType}},
	}
}

func TestUpload(t *testing.T) {
	allowed := map[string]bool{"video/mp4": true}

	t.Run("accepts allowed type within size", func(t *testing.T) {
		err := Upload("videoFile", uploadHeader("video/mp4", 1024), allowed, 2048)
		assert.NoError(t, err)
	})

	t.Run("rejects missing file", func(t *testing.T) {
		err := Upload("videoFile", nil, allowed, 2048)
		assert.Error(t, err)
	})

	t.Run("rejects oversize file", func(t *testing.T) {
		err := Upload("videoFile", uploadHeader("video/mp4", 4096), allowed, 2048)
		assert.Error(t, err)
	})

	t.Run("rejects disallowed type", func(t *testing.T) {
		err := Upload("videoFile", uploadHeader("application/x-msdownload", 10), allowed, 2048)
		assert.Error(t, err)
	})
}
