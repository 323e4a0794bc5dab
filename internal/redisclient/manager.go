package redisclient

import (
	"context"
	"fmt"
	"sync"
	"time"

	"socialhub/internal/config"
	"socialhub/internal/logger"

	"github.com/go-redis/redis/v8"
)

var (
	redisClient *redis.Client
	mutex       sync.RWMutex
)

// InitRedis 按配置连接 Redis；未启用时返回 nil 客户端和 nil 错误
func InitRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if !cfg.Redis.Enabled {
		logger.Info("Redis 未启用，好友关系缓存关闭")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("Redis连接失败 %s: %w", cfg.RedisAddr(), err)
	}

	mutex.Lock()
	if redisClient != nil {
		redisClient.Close()
	}
	redisClient = client
	mutex.Unlock()

	logger.Info("Redis连接成功", "addr", cfg.RedisAddr(), "db", cfg.Redis.DB)
	return client, nil
}

// GetRedisClient 获取Redis客户端实例
func GetRedisClient() *redis.Client {
	mutex.RLock()
	defer mutex.RUnlock()
	return redisClient
}

// CloseRedis 关闭Redis连接
func CloseRedis() error {
	mutex.Lock()
	defer mutex.Unlock()

	if redisClient == nil {
		return nil
	}
	err := redisClient.Close()
	redisClient = nil
	return err
}
