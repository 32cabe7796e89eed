package database

import (
	"context"
	"fmt"
	"net"
	"time"

	"kidkicks/internal/config"

	"github.com/redis/go-redis/v9"
)

// Service wraps the store client as an explicitly constructed dependency
// injected at startup, so tests can substitute their own client.
type Service struct {
	client *redis.Client
}

// New creates the Redis-backed store service
func New(cfg *config.RedisConfig) *Service {
	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &Service{client: client}
}

// Client returns the underlying store client
func (s *Service) Client() *redis.Client {
	return s.client
}

// Health reports whether the store is reachable
func (s *Service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.client.Ping(ctx).Err(); err != nil {
		return map[string]string{
			"status": "down",
			"error":  fmt.Sprintf("redis down: %v", err),
		}
	}

	return map[string]string{
		"status":  "up",
		"message": "It's healthy",
	}
}

// Close releases the store connection
func (s *Service) Close() error {
	return s.client.Close()
}
