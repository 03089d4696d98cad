package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/yourusername/video-sharing-platform/internal/cache"
	"github.com/yourusername/video-sharing-platform/internal/config"
	"github.com/yourusername/video-sharing-platform/internal/kafka"
	"github.com/yourusername/video-sharing-platform/internal/logger"
	"github.com/yourusername/video-sharing-platform/internal/metrics"
	"github.com/yourusername/video-sharing-platform/internal/repository"
	"github.com/yourusername/video-sharing-platform/internal/rest"
	"github.com/yourusername/video-sharing-platform/internal/service"
	"github.com/yourusername/video-sharing-platform/internal/storage"
	"github.com/yourusername/video-sharing-platform/internal/views"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	log := logger.NewLogger(cfg.LogLevel, cfg.Environment)
	log.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"port":        cfg.ServicePort,
	}).Info("starting video sharing platform")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	mongoClient, err := mongo.Connect(ctx, mongooptions.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		cancel()
		log.WithError(err).Fatal("failed to connect to mongodb")
	}
	if err := mongoClient.Ping(ctx, readpref.Primary()); err != nil {
		cancel()
		log.WithError(err).Fatal("failed to ping mongodb")
	}
	cancel()
	log.Info("connected to mongodb")

	db := mongoClient.Database(cfg.MongoDatabase)

	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	tweetRepo := repository.NewTweetRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	playlistRepo := repository.NewPlaylistRepository(db)
	subjectChecker := repository.NewSubjectChecker(db)

	indexCtx, indexCancel := context.WithTimeout(context.Background(), 30*time.Second)
	for name, ensure := range map[string]func(context.Context) error{
		"users":         userRepo.EnsureIndexes,
		"videos":        videoRepo.EnsureIndexes,
		"comments":      commentRepo.EnsureIndexes,
		"tweets":        tweetRepo.EnsureIndexes,
		"likes":         likeRepo.EnsureIndexes,
		"subscriptions": subscriptionRepo.EnsureIndexes,
		"playlists":     playlistRepo.EnsureIndexes,
	} {
		if err := ensure(indexCtx); err != nil {
			indexCancel()
			log.WithError(err).WithField("collection", name).Fatal("failed to ensure indexes")
		}
	}
	indexCancel()
	log.Info("database indexes ensured")

	m := metrics.NewMetrics()

	media, err := storage.NewMediaStorage(storage.Options{
		Endpoint:           cfg.MinioEndpoint,
		PublicURL:          cfg.MinioPublicURL,
		AccessKey:          cfg.MinioAccessKey,
		SecretKey:          cfg.MinioSecretKey,
		Bucket:             cfg.MinioBucket,
		UseSSL:             cfg.MinioUseSSL,
		VideoUploadTimeout: cfg.VideoUploadTimeout,
		BreakerMaxRequests: cfg.BreakerMaxRequests,
		BreakerTimeout:     cfg.BreakerTimeout,
	}, m, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize media storage")
	}
	log.Info("media storage ready")

	var readCache *cache.Cache
	if cfg.RedisEnabled {
		readCache, err = cache.NewCache(cache.Options{
			Addr:         cfg.RedisAddr,
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			PoolSize:     cfg.RedisPoolSize,
			MinIdleConns: cfg.RedisMinIdleConns,
			TTL:          cfg.RedisCacheTTL,
		}, log)
		if err != nil {
			log.WithError(err).Warn("redis unavailable, read models served uncached")
			readCache = nil
		} else {
			log.Info("redis cache ready")
		}
	}

	var producer *kafka.Producer
	if cfg.KafkaEnabled {
		producer = kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, 3, log)
		log.WithField("topic", cfg.KafkaTopic).Info("kafka producer ready")
	}

	composer := views.NewComposer(db)
	jwtSvc := service.NewJWTService(cfg.JWTSecret, cfg.AccessTokenExpiry, cfg.RefreshTokenExpiry)
	passwordSvc := service.NewPasswordService()

	// nil interface values must stay nil, not wrap a nil pointer
	var profileCache service.ProfileCache
	var modelCache service.ReadModelCache
	if readCache != nil {
		profileCache = readCache
		modelCache = readCache
	}
	var events service.EventPublisher
	if producer != nil {
		events = producer
	}

	svcs := rest.Services{
		Users:         service.NewUserService(userRepo, composer, media, jwtSvc, passwordSvc, profileCache, m, log),
		Videos:        service.NewVideoService(videoRepo, userRepo, composer, media, profileCache, events, m, log),
		Comments:      service.NewCommentService(commentRepo, videoRepo, log),
		Tweets:        service.NewTweetService(tweetRepo, userRepo, log),
		Likes:         service.NewLikeService(likeRepo, subjectChecker, composer, modelCache, events, m, log),
		Playlists:     service.NewPlaylistService(playlistRepo, videoRepo, log),
		Subscriptions: service.NewSubscriptionService(subscriptionRepo, userRepo, modelCache, events, m, log),
		JWT:           jwtSvc,
	}

	router := rest.NewRouter(cfg, svcs, mongoClient, m, log)

	srv := &http.Server{
		Addr:              cfg.ServiceHost + ":" + cfg.ServicePort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http server shutdown failed")
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			log.WithError(err).Error("kafka producer close failed")
		}
	}
	if readCache != nil {
		if err := readCache.Close(); err != nil {
			log.WithError(err).Error("redis close failed")
		}
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.WithError(err).Error("mongodb disconnect failed")
	}
	log.Info("shutdown complete")
}
