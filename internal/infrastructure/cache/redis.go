package cache

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"skill-barter/internal/config"

	"github.com/redis/go-redis/v9"
)

// NewClient builds the shared Redis client. An unreachable Redis at boot is
// logged but not fatal: the skill index degrades to its directory-scan
// fallback and recovers once Redis is back.
func NewClient(cfg config.RedisConfig, logger *log.Logger) *redis.Client {
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "localhost"
	}
	port := strings.TrimSpace(cfg.Port)
	if port == "" {
		port = "6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil && logger != nil {
		logger.Printf("[Cache] Redis unavailable at startup, index will degrade to directory scan: %v", err)
	}

	return client
}
