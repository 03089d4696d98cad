package rest

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/video-sharing-platform/internal/config"
)

func uploadTestConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		TempUploadDir:     t.TempDir(),
		MaxImageSize:      1024,
		MaxVideoSize:      1024,
		AllowedImageTypes: map[string]bool{"image/png": true},
		AllowedVideoTypes: map[string]bool{"video/mp4": true},
	}
}

func writeFormFile(t *testing.T, w *multipart.Writer, field, filename, contentType, content string) {
	t.Helper()
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
}

func stagedFiles(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return entries
}

func TestUpdateAvatarDiscardsRejectedUpload(t *testing.T) {
	cfg := uploadTestConfig(t)
	h := NewUserHandler(nil, cfg)

	router := gin.New()
	router.PATCH("/avatar", h.updateAvatar)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	writeFormFile(t, form, "avatar", "avatar.txt", "text/plain", "not an image")
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPatch, "/avatar", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	// the rejected file does not linger in the staging dir
	assert.Empty(t, stagedFiles(t, cfg.TempUploadDir))
}

func TestPublishDiscardsVideoWhenThumbnailMissing(t *testing.T) {
	cfg := uploadTestConfig(t)
	h := NewVideoHandler(nil, cfg)

	router := gin.New()
	router.POST("/videos", h.publish)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	writeFormFile(t, form, "videoFile", "clip.mp4", "video/mp4", "frames")
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/videos", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	// the staged video goes too once the request is rejected
	assert.Empty(t, stagedFiles(t, cfg.TempUploadDir))
}
