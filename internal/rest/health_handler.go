package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type HealthHandler struct {
	mongo   *mongo.Client
	started time.Time
}

func NewHealthHandler(client *mongo.Client) *HealthHandler {
	return &HealthHandler{mongo: client, started: time.Now()}
}

func (h *HealthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/healthcheck", h.healthcheck)
}

func (h *HealthHandler) healthcheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "ok"
	status := http.StatusOK
	if err := h.mongo.Ping(ctx, readpref.Primary()); err != nil {
		dbStatus = "unreachable"
		status = http.StatusServiceUnavailable
	}

	respond(c, status, gin.H{
		"database": dbStatus,
		"uptime":   time.Since(h.started).String(),
	}, "health check")
}
