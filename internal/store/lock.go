package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockTimeout 表示在等待时间内未能拿到锁。
var ErrLockTimeout = errors.New("lock wait timeout")

// Locker 提供按名称互斥的锁，返回的 unlock 必须被调用。
type Locker interface {
	Lock(ctx context.Context, name string) (unlock func(), err error)
}

// NopLocker 不做任何互斥，用于关闭 redis.id_lock 的部署。
type NopLocker struct{}

func (NopLocker) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}

// 只有持有者（token 相同）才能释放锁，避免误删别人续上的锁。
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLocker 基于 SET NX PX 的单实例 Redis 锁。
type RedisLocker struct {
	client   redis.UniversalClient
	ttl      time.Duration
	wait     time.Duration
	interval time.Duration
}

// NewRedisLocker 创建锁；ttl 是锁的最长持有时间，超时后自动释放。
func NewRedisLocker(client redis.UniversalClient, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &RedisLocker{
		client:   client,
		ttl:      ttl,
		wait:     ttl,
		interval: 50 * time.Millisecond,
	}
}

func lockKey(name string) string {
	return "hrportal:lock:" + name
}

func (l *RedisLocker) Lock(ctx context.Context, name string) (func(), error) {
	key := lockKey(name)
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", name, err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, name)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.interval):
		}
	}

	return func() {
		// 请求 ctx 可能已取消，释放锁使用独立的短超时。
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err()
	}, nil
}
