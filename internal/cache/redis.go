package cache

import (
	"context"
	"fmt"
	"strings"

	"github.com/learnchat-next/internal/config"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client
var redisPrefix string

// InitRedis 初始化 Redis 客户端
func InitRedis(cfg *config.RedisConfig) error {
	addr := strings.TrimSpace(cfg.Host)
	if addr == "" {
		addr = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	redisPrefix = strings.TrimSpace(cfg.Prefix)
	if redisPrefix == "" {
		redisPrefix = "lc"
	}

	redisClient = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", addr, port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return redisClient.Ping(context.Background()).Err()
}

// Client 获取 Redis 客户端
func Client() *redis.Client {
	return redisClient
}

// Prefix 获取键前缀
func Prefix() string {
	return redisPrefix
}

// Close 关闭 Redis 连接
func Close() error {
	if redisClient == nil {
		return nil
	}
	return redisClient.Close()
}

func buildKey(prefix, key string) string {
	if strings.TrimSpace(prefix) == "" {
		return key
	}
	return fmt.Sprintf("%s:%s", prefix, key)
}
