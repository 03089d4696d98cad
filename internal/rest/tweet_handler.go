package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/video-sharing-platform/internal/middleware"
	"github.com/yourusername/video-sharing-platform/internal/service"
	"github.com/yourusername/video-sharing-platform/internal/validation"
)

type TweetHandler struct {
	tweets *service.TweetService
}

func NewTweetHandler(tweets *service.TweetService) *TweetHandler {
	return &TweetHandler{tweets: tweets}
}

func (h *TweetHandler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	tweets := rg.Group("/tweets")
	{
		tweets.POST("", auth, h.create)
		tweets.GET("/user/:userId", h.listByUser)
		tweets.PATCH("/:tweetId", auth, h.update)
		tweets.DELETE("/:tweetId", auth, h.delete)
	}
}

type tweetRequest struct {
	Content string `json:"content"`
}

func (h *TweetHandler) create(c *gin.Context) {
	var req tweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	tweet, err := h.tweets.Create(c.Request.Context(), middleware.CallerID(c), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, tweet, "tweet created successfully")
}

func (h *TweetHandler) listByUser(c *gin.Context) {
	userID, err := validation.ObjectID("userId", c.Param("userId"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	tweets, err := h.tweets.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, tweets, "tweets fetched successfully")
}

func (h *TweetHandler) update(c *gin.Context) {
	tweetID, err := validation.ObjectID("tweetId", c.Param("tweetId"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	var req tweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	tweet, err := h.tweets.Update(c.Request.Context(), tweetID, middleware.CallerID(c), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, tweet, "tweet updated successfully")
}

func (h *TweetHandler) delete(c *gin.Context) {
	tweetID, err := validation.ObjectID("tweetId", c.Param("tweetId"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.tweets.Delete(c.Request.Context(), tweetID, middleware.CallerID(c)); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "tweet deleted successfully")
}
