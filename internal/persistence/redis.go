package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/project-tracker/internal/config"
)

// Redis wraps the go-redis client.
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
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client}
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

const revokedKeyPrefix = "revoked_user:"

// RevocationStore invalidates outstanding tokens for a user by denylisting
// the user id until the longest possible token lifetime has passed. Used when
// an account is deleted so its bearer tokens stop working immediately.
type RevocationStore struct {
	client *redis.Client
}

// NewRevocationStore builds a redis-backed revocation store.
func NewRevocationStore(r *Redis) *RevocationStore {
	if r == nil {
		return &RevocationStore{}
	}
	return &RevocationStore{client: r.Client}
}

// Revoke denylists all tokens of the user for ttl.
func (s *RevocationStore) Revoke(ctx context.Context, userID int64, ttl time.Duration) error {
	if s.client == nil {
		return errors.New("redis client not configured")
	}
	return s.client.Set(ctx, revokedKey(userID), 1, ttl).Err()
}

// IsRevoked reports whether the user's tokens are denylisted.
func (s *RevocationStore) IsRevoked(ctx context.Context, userID int64) (bool, error) {
	if s.client == nil {
		return false, errors.New("redis client not configured")
	}
	n, err := s.client.Exists(ctx, revokedKey(userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func revokedKey(userID int64) string {
	return fmt.Sprintf("%s%d", revokedKeyPrefix, userID)
}
