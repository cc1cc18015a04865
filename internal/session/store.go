// internal/session/store.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrNotFound     = errors.New("SESSION_NOT_FOUND")
	ErrStoreFailure = errors.New("SESSION_STORE_FAILED")
)

// Store persists sessions between requests.
type Store interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// RedisStore keeps each session as one JSON value with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	config *Config
	logger Logger
}

func NewRedisStore(client *redis.Client, config *Config, log Logger) *RedisStore {
	return &RedisStore{
		client: client,
		config: config,
		logger: log.With(map[string]interface{}{
			"component": "session-store",
		}),
	}
}

func (r *RedisStore) key(id string) string {
	return r.config.KeyPrefix + id
}

func (r *RedisStore) Load(ctx context.Context, id string) (*Session, error) {
	val, err := r.client.Get(ctx, r.key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get: %v", ErrStoreFailure, err)
	}

	var s Session
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		r.logger.Error("corrupt session payload", map[string]interface{}{
			"sessionId": id,
			"error":     err.Error(),
		})
		return nil, fmt.Errorf("%w: decode: %v", ErrStoreFailure, err)
	}
	if s.State == nil {
		return nil, fmt.Errorf("%w: session %s has no state", ErrStoreFailure, id)
	}
	return &s, nil
}

// Save writes the session and restarts its TTL.
func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	s.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrStoreFailure, err)
	}
	if err := r.client.Set(ctx, r.key(s.ID), data, r.config.TTL).Err(); err != nil {
		return fmt.Errorf("%w: set: %v", ErrStoreFailure, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := r.client.Del(ctx, r.key(id)).Result()
	if err != nil {
		return fmt.Errorf("%w: del: %v", ErrStoreFailure, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
