package rest

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yourusername/video-sharing-platform/internal/config"
	"github.com/yourusername/video-sharing-platform/internal/metrics"
	"github.com/yourusername/video-sharing-platform/internal/middleware"
	"github.com/yourusername/video-sharing-platform/internal/service"
)

// Services bundles everything the REST surface depends on.
type Services struct {
	Users         *service.UserService
	Videos        *service.VideoService
	Comments      *service.CommentService
	Tweets        *service.TweetService
	Likes         *service.LikeService
	Playlists     *service.PlaylistService
	Subscriptions *service.SubscriptionService
	JWT           *service.JWTService
}

// NewRouter assembles the gin engine: global middleware, the /api/v1 route
// groups and the Prometheus scrape endpoint.
func NewRouter(cfg *config.Config, svcs Services, mongoClient *mongo.Client, m *metrics.Metrics, logger *logrus.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging(logger))
	if m != nil {
		router.Use(m.Middleware())
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	auth := middleware.RequireAuth(svcs.JWT)
	optionalAuth := middleware.OptionalAuth(svcs.JWT)
	uploadLimit := middleware.NewUploadLimiter(cfg.UploadRatePerMin, cfg.UploadRateBurst).Middleware()

	v1 := router.Group("/api/v1")
	NewHealthHandler(mongoClient).RegisterRoutes(v1)
	NewUserHandler(svcs.Users, cfg).RegisterRoutes(v1, auth, optionalAuth)
	NewVideoHandler(svcs.Videos, cfg).RegisterRoutes(v1, auth, optionalAuth, uploadLimit)
	NewCommentHandler(svcs.Comments).RegisterRoutes(v1, auth)
	NewTweetHandler(svcs.Tweets).RegisterRoutes(v1, auth)
	NewLikeHandler(svcs.Likes).RegisterRoutes(v1, auth)
	NewPlaylistHandler(svcs.Playlists).RegisterRoutes(v1, auth)
	NewSubscriptionHandler(svcs.Subscriptions).RegisterRoutes(v1, auth)

	if m != nil {
		router.GET("/metrics", m.Handler())
	}

	return router
}
