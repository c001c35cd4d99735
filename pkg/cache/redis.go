package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Limiter grants at most one action per key per window across all server
// processes. A Limiter without a client allows everything.
type Limiter struct {
	client *redis.Client
	log    *zap.Logger
}

// NewLimiter connects to Redis. An empty url returns a disabled limiter.
func NewLimiter(url string, log *zap.Logger) (*Limiter, error) {
	log = log.With(zap.String("component", "limiter"))
	if url == "" {
		log.Info("REDIS_URL not set, resend cooldown disabled")
		return &Limiter{log: log}, nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Limiter{client: client, log: log}, nil
}

// NewLimiterWithClient wraps an existing client.
func NewLimiterWithClient(client *redis.Client, log *zap.Logger) *Limiter {
	return &Limiter{client: client, log: log}
}

// Allow reports whether the caller may act on key now, reserving the window if so.
func (l *Limiter) Allow(ctx context.Context, key string, window time.Duration) (bool, error) {
	if l == nil || l.client == nil || window <= 0 {
		return true, nil
	}

	ok, err := l.client.SetNX(ctx, "yamdb:cooldown:"+key, time.Now().Unix(), window).Result()
	if err != nil {
		l.log.Warn("Cooldown check failed", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("cooldown %s: %w", key, err)
	}
	return ok, nil
}

func (l *Limiter) Close() error {
	if l == nil || l.client == nil {
		return nil
	}
	return l.client.Close()
}
