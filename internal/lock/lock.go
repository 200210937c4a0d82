package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrNotAcquired is returned when another process holds the lock and
// all acquisition attempts are exhausted.
var ErrNotAcquired = errors.New("lock not acquired")

// releaseScript deletes the key only when this process still owns it,
// so an expired-and-reacquired lock is never released by the old owner.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Locker serializes batch runs across process instances with a Redis
// lock. The lock expires on its own so a crashed worker cannot wedge a
// batch forever.
type Locker struct {
	client     *redis.Client
	expiry     time.Duration
	tries      int
	retryDelay time.Duration
	log        zerolog.Logger
}

func New(client *redis.Client, log zerolog.Logger) *Locker {
	return &Locker{
		client:     client,
		expiry:     5 * time.Minute,
		tries:      3,
		retryDelay: 500 * time.Millisecond,
		log:        log,
	}
}

// WithLock runs fn while holding the named lock. The lock is released
// when fn returns; fn's error passes through unchanged semantics-wise.
func (l *Locker) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	token := uuid.NewString()

	acquired := false
	for attempt := 1; attempt <= l.tries; attempt++ {
		ok, err := l.client.SetNX(ctx, key, token, l.expiry).Result()
		if err != nil {
			return fmt.Errorf("acquiring lock %s: %w", key, err)
		}
		if ok {
			acquired = true
			break
		}
		if attempt == l.tries {
			break
		}
		select {
		case <-time.After(l.retryDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if !acquired {
		return fmt.Errorf("%w: %s", ErrNotAcquired, key)
	}

	defer func() {
		if _, err := releaseScript.Run(ctx, l.client, []string{key}, token).Result(); err != nil {
			l.log.Warn().Err(err).Str("key", key).Msg("lock release failed, it will expire on its own")
		}
	}()

	return fn(ctx)
}

// NopLocker satisfies the locker contract without any coordination, for
// single-process runs and tests.
type NopLocker struct{}

func (NopLocker) WithLock(ctx context.Context, _ string, fn func(context.Context) error) error {
	return fn(ctx)
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return client, nil
}
