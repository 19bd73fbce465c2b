package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jrsteele09/go-jobportal-client/token"
	"github.com/redis/go-redis/v9"
)

var (
	_ token.KV            = (*RedisStore)(nil)
	_ token.ConditionalKV = (*RedisStore)(nil)
)

const (
	DefaultPrefix  = "jobportal:session:"
	defaultTimeout = 3 * time.Second
)

// RedisStore keeps the session in Redis so several client processes can share one login.
type RedisStore struct {
	client  redis.UniversalClient
	prefix  string
	timeout time.Duration
}

type Option func(*RedisStore)

func WithPrefix(prefix string) Option {
	return func(r *RedisStore) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

// WithTimeout bounds each Redis round-trip
func WithTimeout(timeout time.Duration) Option {
	return func(r *RedisStore) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

func New(client redis.UniversalClient, options ...Option) *RedisStore {
	r := &RedisStore{
		client:  client,
		prefix:  DefaultPrefix,
		timeout: defaultTimeout,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Dial connects to Redis and verifies the connection with a PING.
func Dial(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

func (r *RedisStore) Get(key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	v, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("[redisstore Get] %s: %w", key, err)
	}
	return v, true, nil
}

// Set writes all values in one MULTI/EXEC so readers never see half a session.
func (r *RedisStore) Set(values map[string]string) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	pipe := r.client.TxPipeline()
	for k, v := range values {
		pipe.Set(ctx, r.prefix+k, v, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("[redisstore Set] %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	prefixed := make([]string, 0, len(keys))
	for _, k := range keys {
		prefixed = append(prefixed, r.prefix+k)
	}
	if err := r.client.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("[redisstore Delete] %w", err)
	}
	return nil
}

// SetIf writes values only while guardKey holds expected. The guard is WATCHed so a
// concurrent writer in another process aborts the transaction.
func (r *RedisStore) SetIf(guardKey, expected string, values map[string]string) (bool, error) {
	return r.whileEquals(guardKey, expected, func(ctx context.Context, pipe redis.Pipeliner) {
		for k, v := range values {
			pipe.Set(ctx, r.prefix+k, v, 0)
		}
	})
}

// DeleteIf removes keys only while guardKey holds expected.
func (r *RedisStore) DeleteIf(guardKey, expected string, keys ...string) (bool, error) {
	return r.whileEquals(guardKey, expected, func(ctx context.Context, pipe redis.Pipeliner) {
		for _, k := range keys {
			pipe.Del(ctx, r.prefix+k)
		}
	})
}

func (r *RedisStore) whileEquals(guardKey, expected string, write func(context.Context, redis.Pipeliner)) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	guard := r.prefix + guardKey
	written := false
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, guard).Result()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}
		if current != expected {
			return nil
		}

		if _, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			write(ctx, pipe)
			return nil
		}); err != nil {
			return err
		}
		written = true
		return nil
	}, guard)

	if errors.Is(err, redis.TxFailedErr) {
		// guard changed between the read and EXEC
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("[redisstore whileEquals] %s: %w", guardKey, err)
	}
	return written, nil
}
