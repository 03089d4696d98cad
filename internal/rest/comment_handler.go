package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/video-sharing-platform/internal/middleware"
	"github.com/yourusername/video-sharing-platform/internal/service"
	"github.com/yourusername/video-sharing-platform/internal/validation"
)

type CommentHandler struct {
	comments *service.CommentService
}

func NewCommentHandler(comments *service.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

func (h *CommentHandler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	comments := rg.Group("/comments")
	{
		comments.GET("/:videoId", h.listByVideo)
		comments.POST("/:videoId", auth, h.add)
		comments.PATCH("/c/:commentId", auth, h.update)
		comments.DELETE("/c/:commentId", auth, h.delete)
	}
}

func (h *CommentHandler) listByVideo(c *gin.Context) {
	videoID, err := validation.ObjectID("videoId", c.Param("videoId"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	comments, paging, err := h.comments.ListByVideo(c.Request.Context(), videoID, queryInt64(c, "page", 1), queryInt64(c, "limit", 10))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{
		"comments":   comments,
		"pagingInfo": paging,
	}, "comments fetched successfully")
}

type commentRequest struct {
	Content string `json:"content"`
}

func (h *CommentHandler) add(c *gin.Context) {
	videoID, err := validation.ObjectID("videoId", c.Param("videoId"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	comment, err := h.comments.Add(c.Request.Context(), videoID, middleware.CallerID(c), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, comment, "comment added successfully")
}

func (h *CommentHandler) update(c *gin.Context) {
	commentID, err := validation.ObjectID("commentId", c.Param("commentId"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	comment, err := h.comments.Update(c.Request.Context(), commentID, middleware.CallerID(c), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, comment, "comment updated successfully")
}

func (h *CommentHandler) delete(c *gin.Context) {
	commentID, err := validation.ObjectID("commentId", c.Param("commentId"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.comments.Delete(c.Request.Context(), commentID, middleware.CallerID(c)); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "comment deleted successfully")
}
