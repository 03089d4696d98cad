package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Service configuration constants
const (
	DefaultMaxVideoSize        = 2 * 1024 * 1024 * 1024 // 2GB
	DefaultMaxImageSize        = 10 * 1024 * 1024       // 10MB
	DefaultPageSize            = 10
	DefaultMaxPageSize         = 100
	DefaultQueryTimeout        = 5 * time.Second
	DefaultOperationTimeout    = 30 * time.Second
	DefaultVideoUploadTimeout  = 10 * time.Minute
	DefaultShutdownTimeout     = 10 * time.Second
	DefaultAccessTokenExpiry   = 15 * time.Minute
	DefaultRefreshTokenExpiry  = 10 * 24 * time.Hour
	DefaultUploadRatePerMinute = 5
	DefaultUploadRateBurst     = 5
	DefaultBreakerMaxRequests  = 3
	DefaultBreakerTimeout      = 30 * time.Second
	// Redis defaults
	DefaultRedisCacheTTL     = 2 * time.Minute
	DefaultRedisPoolSize     = 10
	DefaultRedisMinIdleConns = 5
)

type Config struct {
	ServicePort        string
	ServiceHost        string
	MongoURI           string
	MongoDatabase      string
	MinioEndpoint      string
	MinioPublicURL     string
	MinioAccessKey     string
	MinioSecretKey     string
	MinioBucket        string
	MinioUseSSL        bool
	JWTSecret          string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	Environment        string
	LogLevel           string
	TempUploadDir      string
	MaxVideoSize       int64
	MaxImageSize       int64
	DefaultPage        int64
	MaxPage            int64
	QueryTimeout       time.Duration
	OperationTimeout   time.Duration
	VideoUploadTimeout time.Duration
	ShutdownTimeout    time.Duration
	UploadRatePerMin   int
	UploadRateBurst    int
	BreakerMaxRequests uint32
	BreakerTimeout     time.Duration
	AllowedImageTypes  map[string]bool
	AllowedVideoTypes  map[string]bool
	CORSOrigins        []string
	// Redis configuration
	RedisEnabled      bool
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	RedisCacheTTL     time.Duration
	RedisPoolSize     int
	RedisMinIdleConns int
	// Kafka configuration
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

func Load() (*Config, error) {
	mongoURI := getEnv("MONGO_URI", "")
	if mongoURI == "" {
		return nil, errors.New("MONGO_URI is required environment variable")
	}

	minioAccessKey := getEnv("MINIO_ACCESS_KEY", "")
	minioSecretKey := getEnv("MINIO_SECRET_KEY", "")
	if minioAccessKey == "" || minioSecretKey == "" {
		return nil, errors.New("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required environment variables")
	}

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET is required environment variable")
	}

	kafkaEnabled := getEnv("KAFKA_ENABLED", "false") == "true"
	kafkaBrokers := getEnv("KAFKA_BROKERS", "")
	if kafkaEnabled && kafkaBrokers == "" {
		return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED=true")
	}

	return &Config{
		ServicePort:        getEnv("SERVICE_PORT", "8080"),
		ServiceHost:        getEnv("SERVICE_HOST", "0.0.0.0"),
		MongoURI:           mongoURI,
		MongoDatabase:      getEnv("MONGO_DATABASE", "videotube"),
		MinioEndpoint:      getEnv("MINIO_ENDPOINT", "minio:9000"),
		MinioPublicURL:     getEnv("MINIO_PUBLIC_URL", "http://localhost:9000"),
		MinioAccessKey:     minioAccessKey,
		MinioSecretKey:     minioSecretKey,
		MinioBucket:        getEnv("MINIO_BUCKET", "videotube-media"),
		MinioUseSSL:        getEnv("MINIO_USE_SSL", "false") == "true",
		JWTSecret:          jwtSecret,
		AccessTokenExpiry:  getEnvDuration("ACCESS_TOKEN_EXPIRY", DefaultAccessTokenExpiry),
		RefreshTokenExpiry: getEnvDuration("REFRESH_TOKEN_EXPIRY", DefaultRefreshTokenExpiry),
		Environment:        getEnv("ENVIRONMENT", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		TempUploadDir:      getEnv("TEMP_UPLOAD_DIR", os.TempDir()),
		MaxVideoSize:       getEnvInt64("MAX_VIDEO_SIZE", DefaultMaxVideoSize),
		MaxImageSize:       getEnvInt64("MAX_IMAGE_SIZE", DefaultMaxImageSize),
		DefaultPage:        int64(getEnvInt("DEFAULT_PAGE_SIZE", DefaultPageSize)),
		MaxPage:            int64(getEnvInt("MAX_PAGE_SIZE", DefaultMaxPageSize)),
		QueryTimeout:       getEnvDuration("QUERY_TIMEOUT", DefaultQueryTimeout),
		OperationTimeout:   getEnvDuration("OPERATION_TIMEOUT", DefaultOperationTimeout),
		VideoUploadTimeout: getEnvDuration("VIDEO_UPLOAD_TIMEOUT", DefaultVideoUploadTimeout),
		ShutdownTimeout:    getEnvDuration("SHUTDOWN_TIMEOUT", DefaultShutdownTimeout),
		UploadRatePerMin:   getEnvInt("UPLOAD_RATE_PER_MINUTE", DefaultUploadRatePerMinute),
		UploadRateBurst:    getEnvInt("UPLOAD_RATE_BURST", DefaultUploadRateBurst),
		BreakerMaxRequests: uint32(getEnvInt("BREAKER_MAX_REQUESTS", DefaultBreakerMaxRequests)),
		BreakerTimeout:     getEnvDuration("BREAKER_TIMEOUT", DefaultBreakerTimeout),
		AllowedImageTypes:  getAllowedTypes("ALLOWED_IMAGE_TYPES", defaultImageTypes),
		AllowedVideoTypes:  getAllowedTypes("ALLOWED_VIDEO_TYPES", defaultVideoTypes),
		CORSOrigins:        strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		// Redis configuration
		RedisEnabled:      getEnv("REDIS_ENABLED", "true") == "true",
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		RedisCacheTTL:     getEnvDuration("REDIS_CACHE_TTL", DefaultRedisCacheTTL),
		RedisPoolSize:     getEnvInt("REDIS_POOL_SIZE", DefaultRedisPoolSize),
		RedisMinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", DefaultRedisMinIdleConns),
		// Kafka configuration
		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: strings.Split(kafkaBrokers, ","),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "videotube-events"),
	}, nil
}

var defaultImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var defaultVideoTypes = map[string]bool{
	"video/mp4":        true,
	"video/mpeg":       true,
	"video/quicktime":  true,
	"video/webm":       true,
	"video/x-matroska": true,
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getAllowedTypes(key string, defaults map[string]bool) map[string]bool {
	if customTypes := os.Getenv(key); customTypes != "" {
		result := make(map[string]bool)
		for _, mimeType := range strings.Split(customTypes, ",") {
			result[strings.TrimSpace(mimeType)] = true
		}
		return result
	}
	return defaults
}
