package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("MINIO_ACCESS_KEY", "minioadmin")
	t.Setenv("MINIO_SECRET_KEY", "minioadmin")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServicePort)
	assert.Equal(t, "videotube", cfg.MongoDatabase)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenExpiry)
	assert.Equal(t, 10*24*time.Hour, cfg.RefreshTokenExpiry)
	assert.Equal(t, int64(10), cfg.DefaultPage)
	assert.Equal(t, int64(100), cfg.MaxPage)
	assert.True(t, cfg.AllowedVideoTypes["video/mp4"])
	assert.True(t, cfg.AllowedImageTypes["image/png"])
	assert.False(t, cfg.KafkaEnabled)
}

func TestLoadRequiredVariables(t *testing.T) {
	tests := []struct {
		name  string
		unset string
	}{
		{"mongo uri", "MONGO_URI"},
		{"minio access key", "MINIO_ACCESS_KEY"},
		{"jwt secret", "JWT_SECRET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.unset, "")

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadKafkaRequiresBrokers(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("KAFKA_ENABLED", "true")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVICE_PORT", "9999")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "30m")
	t.Setenv("ALLOWED_IMAGE_TYPES", "image/png, image/webp")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.ServicePort)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenExpiry)
	assert.True(t, cfg.AllowedImageTypes["image/webp"])
	assert.False(t, cfg.AllowedImageTypes["image/jpeg"])
}
