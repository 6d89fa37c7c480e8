package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// recordFailureScript crea el contador con el TTL de la ventana solo si no existe y despues incrementa.
// Los fallos siguientes no extienden la ventana.
const recordFailureScript = `
redis.call("SET", KEYS[1], 0, "PX", ARGV[1], "NX")
return redis.call("INCR", KEYS[1])
`

type redisLimiterClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisLoginLimiter struct {
	client      redisLimiterClient
	window      time.Duration
	maxFailures int
	prefix      string
	timeout     time.Duration
}

// NewRedisLoginLimiter comparte el conteo de fallos entre instancias.
func NewRedisLoginLimiter(client *redis.Client, prefix string, window time.Duration, maxFailures int) LoginLimiter {
	if client == nil {
		return nil
	}
	window, maxFailures = limiterDefaults(window, maxFailures)
	return &redisLoginLimiter{
		client:      client,
		window:      window,
		maxFailures: maxFailures,
		prefix:      prefix,
		timeout:     500 * time.Millisecond,
	}
}

func (l *redisLoginLimiter) Blocked(ctx context.Context, username string) (bool, error) {
	key := limiterKey(username)
	if key == "" {
		return false, nil
	}
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	count, err := l.client.Get(ctx, l.prefix+key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("read login failures: %w", err)
	}
	return count >= l.maxFailures, nil
}

func (l *redisLoginLimiter) RecordFailure(ctx context.Context, username string) error {
	key := limiterKey(username)
	if key == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	if err := l.client.Eval(ctx, recordFailureScript, []string{l.prefix + key}, l.window.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("record login failure: %w", err)
	}
	return nil
}

func (l *redisLoginLimiter) Reset(ctx context.Context, username string) error {
	key := limiterKey(username)
	if key == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	if err := l.client.Del(ctx, l.prefix+key).Err(); err != nil {
		return fmt.Errorf("reset login failures: %w", err)
	}
	return nil
}
