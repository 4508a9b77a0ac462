package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/timecard-bot/internal/config"
)

// Slack event IDs are claimed under this prefix so the keyspace stays
// inspectable next to whatever else shares the instance.
const eventKeyPrefix = "slack:event:"

// Redis wraps the go-redis client. Its single duty here is remembering which
// Slack event IDs have already been processed, so redeliveries are dropped
// instead of replayed.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis; event dedup degraded", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client}
}

// ClaimEvent marks a Slack event ID as processed and reports whether this
// call was the first to claim it. The claim expires after ttl; an expired
// redelivery is harmless because record writes are keyed by message
// timestamp. An unreachable Redis claims nothing and returns the error.
func (r *Redis) ClaimEvent(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	if r == nil || r.Client == nil {
		return false, errors.New("redis client not configured")
	}
	return r.Client.SetNX(ctx, eventKeyPrefix+eventID, 1, ttl).Result()
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}
