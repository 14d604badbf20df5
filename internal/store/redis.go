package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/watchtally/watchtally/internal/models"
)

const redisKeyPrefix = "session:"

// RedisStore persists sessions in Redis with native TTL expiry
type RedisStore struct {
	client *redis.Client
	logger *logrus.Logger
}

// NewRedisStore connects to Redis and verifies the connection
func NewRedisStore(addr string, logger *logrus.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.WithField("addr", addr).Info("Connected to Redis")

	return &RedisStore{client: client, logger: logger}, nil
}

// Save serializes and stores the session under its key with the given TTL
func (s *RedisStore) Save(ctx context.Context, sessionID string, session *models.Session, ttl time.Duration) error {
	doc, err := session.MarshalDocument()
	if err != nil {
		return fmt.Errorf("failed to serialize session %s: %w", sessionID, err)
	}

	if err := s.client.Set(ctx, redisKeyPrefix+sessionID, doc, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session %s: %w", sessionID, err)
	}

	return nil
}

// Load fetches and deserializes the session, or ErrNotFound
func (s *RedisStore) Load(ctx context.Context, sessionID string) (*models.Session, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	return models.UnmarshalSession(sessionID, data)
}

// Delete removes the session from the store
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	return nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
