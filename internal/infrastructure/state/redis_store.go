package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/inventorypro/client-go/internal/core/ports"
)

const connectTimeout = 5 * time.Second

// RedisConfig captures the settings for establishing a Redis connection.
type RedisConfig struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// Connect initialises a Redis client and validates connectivity with a ping.
// A default timeout is applied when none is provided.
func Connect(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = connectTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// RedisStore persists the session record under a single namespaced Redis
// key, for deployments where several client processes share one identity
// (warehouse kiosks, headless integrations).
type RedisStore struct {
	client *redis.Client
	key    string
	log    zerolog.Logger
}

func NewRedisStore(client *redis.Client, namespace string, log zerolog.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		key:    fmt.Sprintf("%s:session", namespace),
		log:    log,
	}
}

func (s *RedisStore) Load(ctx context.Context) (*ports.PersistedSession, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("state: get %s: %w", s.key, err)
	}

	rec, migrated, err := decodeRecord(data)
	if err != nil {
		return nil, err
	}
	if migrated {
		if err := s.Save(ctx, rec); err != nil {
			s.log.Warn().Err(err).Msg("failed to rewrite migrated session record")
		} else {
			s.log.Info().Str("key", s.key).Msg("migrated legacy session record")
		}
	}
	return rec, nil
}

func (s *RedisStore) Save(ctx context.Context, rec *ports.PersistedSession) error {
	data, err := encodeRecord(rec)
	if err != nil {
		return fmt.Errorf("state: encode session record: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("state: set %s: %w", s.key, err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("state: del %s: %w", s.key, err)
	}
	return nil
}
