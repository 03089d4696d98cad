package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Cache is a read-model cache over Redis. All failures are logged and
// swallowed: a cache outage degrades to database reads, never to request
// errors.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

type Options struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	TTL          time.Duration
}

func NewCache(opts Options, logger *logrus.Logger) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     opts.PoolSize,
		MinIdleConns: opts.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Cache{
		client: client,
		ttl:    opts.TTL,
		logger: logger,
	}, nil
}

// Get loads a cached value into dest, reporting whether it was present.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WithError(err).WithField("key", key).Warn("cache read failed")
		}
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("cache entry corrupt, dropping")
		c.client.Del(ctx, key)
		return false
	}
	return true
}

func (c *Cache) Set(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("cache marshal failed")
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("cache write failed")
	}
}

func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.WithError(err).Warn("cache delete failed")
	}
}

// DeleteByPattern removes every key matching the pattern. Used to drop all
// viewer-specific variants of a read model at once.
func (c *Cache) DeleteByPattern(ctx context.Context, pattern string) {
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.WithError(err).WithField("pattern", pattern).Warn("cache scan failed")
		return
	}
	c.Delete(ctx, keys...)
}

func (c *Cache) Close() error {
	return c.client.Close()
}

// VideoDetailKey is the cache key for one viewer's video detail read model.
func VideoDetailKey(videoID, viewerID string) string {
	return fmt.Sprintf("video:detail:%s:%s", videoID, viewerID)
}

// VideoDetailPattern matches every viewer variant for a video.
func VideoDetailPattern(videoID string) string {
	return fmt.Sprintf("video:detail:%s:*", videoID)
}

// ChannelProfileKey is the cache key for one viewer's channel profile.
func ChannelProfileKey(username, viewerID string) string {
	return fmt.Sprintf("channel:profile:%s:%s", username, viewerID)
}

// ChannelProfilePattern matches every viewer variant for a channel.
func ChannelProfilePattern(username string) string {
	return fmt.Sprintf("channel:profile:%s:*", username)
}
