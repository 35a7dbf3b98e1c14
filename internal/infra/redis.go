package infra

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const multiplierKey = "fielbet:event:xp-multiplier"

// NewRedisClient connects to Redis using the configured URL and verifies
// the connection with a ping.
func NewRedisClient(ctx context.Context, cfg *Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// EventMultiplier stores the community XP event multiplier in Redis so the
// API and the scheduler agree on it without sharing process state. When no
// event is active (key missing, expired or Redis down) the multiplier is 1.
type EventMultiplier struct {
	client *redis.Client
	logger *slog.Logger
}

// NewEventMultiplier creates the multiplier store.
func NewEventMultiplier(client *redis.Client, logger *slog.Logger) *EventMultiplier {
	return &EventMultiplier{client: client, logger: logger}
}

// ActiveMultiplier returns the current XP multiplier, or 1 if no event is
// running. Redis failures degrade to 1; settlement never blocks on Redis.
func (m *EventMultiplier) ActiveMultiplier(ctx context.Context) int {
	val, err := m.client.Get(ctx, multiplierKey).Result()
	if err == redis.Nil {
		return 1
	}
	if err != nil {
		m.logger.Warn("event multiplier read failed, defaulting to 1", "error", err)
		return 1
	}

	n, err := strconv.Atoi(val)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// StartEvent activates an XP event with the given multiplier and duration.
func (m *EventMultiplier) StartEvent(ctx context.Context, multiplier int, duration time.Duration) error {
	if multiplier < 2 {
		return fmt.Errorf("event multiplier must be at least 2, got %d", multiplier)
	}
	return m.client.Set(ctx, multiplierKey, strconv.Itoa(multiplier), duration).Err()
}

// StopEvent ends the active XP event, if any.
func (m *EventMultiplier) StopEvent(ctx context.Context) error {
	return m.client.Del(ctx, multiplierKey).Err()
}
