// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"time"

	"techmate/config"

	"github.com/go-redis/redis/v8"
)

// RedisClient is the shared client used for health checks.
var RedisClient *redis.Client

// InitRedis initializes the shared Redis client and verifies connectivity.
func InitRedis() error {
	RedisClient = NewRedisClient(config.AppConfig.RedisCacheDB)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := RedisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return nil
}

// NewRedisClient builds a client for the given logical database.
func NewRedisClient(db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
}

// GetRedisClient returns the shared client, creating it lazily.
func GetRedisClient() *redis.Client {
	if RedisClient == nil {
		RedisClient = NewRedisClient(config.AppConfig.RedisCacheDB)
	}
	return RedisClient
}
