package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/video-sharing-platform/internal/middleware"
	"github.com/yourusername/video-sharing-platform/internal/models"
	"github.com/yourusername/video-sharing-platform/internal/service"
	"github.com/yourusername/video-sharing-platform/internal/validation"
)

type LikeHandler struct {
	likes *service.LikeService
}

func NewLikeHandler(likes *service.LikeService) *LikeHandler {
	return &LikeHandler{likes: likes}
}

func (h *LikeHandler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	likes := rg.Group("/likes", auth)
	{
		likes.GET("/toggle", h.toggle)
		likes.GET("/videos", h.likedVideos)
	}
}

// toggle applies one like/dislike transition. Exactly one of videoId,
// commentId or tweetId selects the subject; toggleLike picks the target
// polarity.
func (h *LikeHandler) toggle(c *gin.Context) {
	subject, ok := subjectFromQuery(c)
	if !ok {
		return
	}

	toggleLike := c.Query("toggleLike")
	if toggleLike != "true" && toggleLike != "false" {
		respondBadRequest(c, "toggleLike must be true or false")
		return
	}

	status, err := h.likes.Toggle(c.Request.Context(), subject, middleware.CallerID(c), toggleLike == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, status, "toggled successfully")
}

func (h *LikeHandler) likedVideos(c *gin.Context) {
	videos, err := h.likes.LikedVideos(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, videos, "liked videos fetched successfully")
}

func subjectFromQuery(c *gin.Context) (models.SubjectRef, bool) {
	params := []struct {
		name string
		kind models.SubjectType
	}{
		{"videoId", models.SubjectVideo},
		{"commentId", models.SubjectComment},
		{"tweetId", models.SubjectTweet},
	}

	var subject models.SubjectRef
	found := 0
	for _, p := range params {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		id, err := validation.ObjectID(p.name, raw)
		if err != nil {
			respondBadRequest(c, err.Error())
			return models.SubjectRef{}, false
		}
		subject = models.SubjectRef{Type: p.kind, ID: id}
		found++
	}

	if found != 1 {
		respondBadRequest(c, "exactly one of videoId, commentId or tweetId is required")
		return models.SubjectRef{}, false
	}
	return subject, true
}
