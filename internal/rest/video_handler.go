package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/video-sharing-platform/internal/config"
	"github.com/yourusername/video-sharing-platform/internal/middleware"
	"github.com/yourusername/video-sharing-platform/internal/service"
	"github.com/yourusername/video-sharing-platform/internal/validation"
	"github.com/yourusername/video-sharing-platform/internal/views"
)

type VideoHandler struct {
	videos *service.VideoService
	cfg    *config.Config
}

func NewVideoHandler(videos *service.VideoService, cfg *config.Config) *VideoHandler {
	return &VideoHandler{videos: videos, cfg: cfg}
}

func (h *VideoHandler) RegisterRoutes(rg *gin.RouterGroup, auth, optionalAuth, uploadLimit gin.HandlerFunc) {
	videos := rg.Group("/videos")
	{
		videos.GET("", optionalAuth, h.list)
		videos.POST("", auth, uploadLimit, h.publish)
		videos.GET("/:videoId", optionalAuth, h.detail)
		videos.PATCH("/:videoId", auth, h.update)
		videos.DELETE("/:videoId", auth, h.delete)
		videos.PATCH("/toggle/publish/:videoId", auth, h.togglePublish)
		videos.PATCH("/view/:videoId", optionalAuth, h.registerView)
	}
}

func (h *VideoHandler) list(c *gin.Context) {
	q := views.ListQuery{
		Page:      queryInt64(c, "page", 1),
		Limit:     queryInt64(c, "limit", h.cfg.DefaultPage),
		Search:    c.Query("query"),
		SortBy:    c.Query("sortBy"),
		SortOrder: sortOrder(c.Query("sortType")),
	}
	if q.Limit > h.cfg.MaxPage {
		q.Limit = h.cfg.MaxPage
	}
	if userID := c.Query("userId"); userID != "" {
		ownerID, err := validation.ObjectID("userId", userID)
		if err != nil {
			respondBadRequest(c, err.Error())
			return
		}
		q.OwnerID = &ownerID
	}

	page, err := h.videos.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, page, "videos fetched successfully")
}

func (h *VideoHandler) publish(c *gin.Context) {
	videoPath, videoHeader, err := saveUpload(c, "videoFile", h.cfg.TempUploadDir)
	if err != nil {
		respondError(c, err)
		return
	}
	if videoHeader == nil {
		respondBadRequest(c, "videoFile is required")
		return
	}
	if err := validateVideo("videoFile", videoHeader, h.cfg); err != nil {
		discardUploads(videoPath)
		respondBadRequest(c, err.Error())
		return
	}

	thumbPath, thumbHeader, err := saveUpload(c, "thumbnail", h.cfg.TempUploadDir)
	if err != nil {
		discardUploads(videoPath)
		respondError(c, err)
		return
	}
	if thumbHeader == nil {
		discardUploads(videoPath)
		respondBadRequest(c, "thumbnail is required")
		return
	}
	if err := validateImage("thumbnail", thumbHeader, h.cfg); err != nil {
		discardUploads(videoPath, thumbPath)
		respondBadRequest(c, err.Error())
		return
	}

	video, err := h.videos.Publish(c.Request.Context(), middleware.CallerID(c), service.PublishInput{
		Title:         c.PostForm("title"),
		Description:   c.PostForm("description"),
		VideoPath:     videoPath,
		ThumbnailPath: thumbPath,
	})
	if err != nil {
		// uploads the media host already consumed are gone; the rest are
		// still staged
		discardUploads(videoPath, thumbPath)
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, video, "video published successfully")
}

func (h *VideoHandler) detail(c *gin.Context) {
	videoID, err := validation.ObjectID("videoId", c.Param("videoId"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	detail, err := h.videos.Detail(c.Request.Context(), videoID, middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, detail, "video fetched successfully")
}

func (h *VideoHandler) update(c *gin.Context) {
	videoID, err := validation.ObjectID("videoId", c.Param("videoId"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	thumbPath, thumbHeader, err := saveUpload(c, "thumbnail", h.cfg.TempUploadDir)
	if err != nil {
		respondError(c, err)
		return
	}
	if thumbHeader != nil {
		if err := validateImage("thumbnail", thumbHeader, h.cfg); err != nil {
			discardUploads(thumbPath)
			respondBadRequest(c, err.Error())
			return
		}
	}

	video, err := h.videos.Update(c.Request.Context(), videoID, middleware.CallerID(c), c.PostForm("title"), c.PostForm("description"), thumbPath)
	if err != nil {
		discardUploads(thumbPath)
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, video, "video updated successfully")
}

func (h *VideoHandler) delete(c *gin.Context) {
	videoID, err := validation.ObjectID("videoId", c.Param("videoId"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.videos.Delete(c.Request.Context(), videoID, middleware.CallerID(c)); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "video deleted successfully")
}

func (h *VideoHandler) togglePublish(c *gin.Context) {
	videoID, err := validation.ObjectID("videoId", c.Param("videoId"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	video, err := h.videos.TogglePublish(c.Request.Context(), videoID, middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, video, "publish status toggled successfully")
}

func (h *VideoHandler) registerView(c *gin.Context) {
	videoID, err := validation.ObjectID("videoId", c.Param("videoId"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	viewTotal, err := h.videos.RegisterView(c.Request.Context(), videoID, middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"views": viewTotal}, "view registered successfully")
}

// sortOrder maps the sortType query value onto a mongo sort direction,
// defaulting to descending.
func sortOrder(raw string) int {
	switch raw {
	case "asc", "1":
		return 1
	default:
		return -1
	}
}

func queryInt64(c *gin.Context, name string, fallback int64) int64 {
	if raw := c.Query(name); raw != "" {
		if val, err := strconv.ParseInt(raw, 10, 64); err == nil && val > 0 {
			return val
		}
	}
	return fallback
}
