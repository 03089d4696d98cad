package rest

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yourusername/video-sharing-platform/internal/config"
	"github.com/yourusername/video-sharing-platform/internal/validation"
)

// saveUpload writes a multipart form file to the temp upload dir and
// returns its local path. A missing file returns an empty path without
// error so callers can treat fields as optional.
func saveUpload(c *gin.Context, field, dir string) (string, *multipart.FileHeader, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return "", nil, nil
	}

	localPath := filepath.Join(dir, uuid.New().String()+filepath.Ext(header.Filename))
	if err := c.SaveUploadedFile(header, localPath); err != nil {
		return "", nil, fmt.Errorf("failed to save uploaded %s: %w", field, err)
	}
	return localPath, header, nil
}

// discardUploads removes staged temp files when a request is rejected
// before the media host takes ownership of them. Already-consumed paths
// are skipped silently.
func discardUploads(paths ...string) {
	for _, path := range paths {
		if path != "" {
			_ = os.Remove(path)
		}
	}
}

func validateImage(field string, header *multipart.FileHeader, cfg *config.Config) error {
	return validation.Upload(field, header, cfg.AllowedImageTypes, cfg.MaxImageSize)
}

func validateVideo(field string, header *multipart.FileHeader, cfg *config.Config) error {
	return validation.Upload(field, header, cfg.AllowedVideoTypes, cfg.MaxVideoSize)
}
