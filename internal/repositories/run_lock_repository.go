package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RunLock serializes finder runs across processes
type RunLock interface {
	// Acquire returns ok=false when another holder owns key
	Acquire(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	// Release frees key only if token still owns it
	Release(ctx context.Context, key, token string) error
}

// RedisRunLock implements RunLock with SET NX and a compare-and-delete script
type RedisRunLock struct {
	client *redis.Client
}

// NewRedisRunLock creates a new RedisRunLock
func NewRedisRunLock(client *redis.Client) *RedisRunLock {
	return &RedisRunLock{client: client}
}

var _ RunLock = (*RedisRunLock)(nil)

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (l *RedisRunLock) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

func (l *RedisRunLock) Release(ctx context.Context, key, token string) error {
	return releaseScript.Run(ctx, l.client, []string{key}, token).Err()
}

// nopRunLock always grants the lock
type nopRunLock struct{}

func NewNopRunLock() RunLock {
	return nopRunLock{}
}

func (nopRunLock) Acquire(context.Context, string, time.Duration) (string, bool, error) {
	return "", true, nil
}

func (nopRunLock) Release(context.Context, string, string) error { return nil }
