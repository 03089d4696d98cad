package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/video-sharing-platform/internal/middleware"
	"github.com/yourusername/video-sharing-platform/internal/service"
	"github.com/yourusername/video-sharing-platform/internal/validation"
)

type SubscriptionHandler struct {
	subscriptions *service.SubscriptionService
}

func NewSubscriptionHandler(subscriptions *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

func (h *SubscriptionHandler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	subscriptions := rg.Group("/subscriptions")
	{
		subscriptions.POST("/c/:channelId", auth, h.toggle)
		subscriptions.GET("/c/:channelId", h.subscribers)
		subscriptions.GET("/u/:subscriberId", h.subscribedChannels)
	}
}

func (h *SubscriptionHandler) toggle(c *gin.Context) {
	channelID, err := validation.ObjectID("channelId", c.Param("channelId"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	subscribed, err := h.subscriptions.Toggle(c.Request.Context(), middleware.CallerID(c), channelID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"subscribed": subscribed}, "subscription toggled successfully")
}

func (h *SubscriptionHandler) subscribers(c *gin.Context) {
	channelID, err := validation.ObjectID("channelId", c.Param("channelId"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	subscribers, err := h.subscriptions.Subscribers(c.Request.Context(), channelID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, subscribers, "subscribers fetched successfully")
}

func (h *SubscriptionHandler) subscribedChannels(c *gin.Context) {
	subscriberID, err := validation.ObjectID("subscriberId", c.Param("subscriberId"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	channels, err := h.subscriptions.SubscribedChannels(c.Request.Context(), subscriberID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, channels, "subscribed channels fetched successfully")
}
