package repository

import (
	"context"
	"fmt"
	"time"

	"shareit/internal/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Удаляем ключ только если он всё ещё принадлежит нам
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
    return redis.call("del", KEYS[1])
end
return 0
`)

// NewRedisClient создает новый клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

// RedisLocker is a single-instance Redis lock: SET NX PX with a random token, released
// by a compare-and-delete script so an expired holder cannot drop someone else's lock.
type RedisLocker struct {
	client   *redis.Client
	wait     time.Duration
	interval time.Duration
}

func NewRedisLocker(client *redis.Client, wait time.Duration) *RedisLocker {
	return &RedisLocker{
		client:   client,
		wait:     wait,
		interval: 25 * time.Millisecond,
	}
}

func (l *RedisLocker) Lock(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	if l.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}

	redisKey := lockKey(key)
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, ttl).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("failed to acquire redis lock: %w", err)
		}
		if ok {
			return func() { l.release(redisKey, token) }, nil
		}

		if !time.Now().Before(deadline) {
			return nil, fmt.Errorf("%s: %w", key, ErrLockTimeout)
		}

		timer := time.NewTimer(l.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (l *RedisLocker) release(redisKey, token string) {
	// Контекст запроса может быть уже отменен, освобождаем независимо от него
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	// при ошибке ключ истечет сам по TTL
	_ = releaseScript.Run(ctx, l.client, []string{redisKey}, token).Err()
}

// Ping проверяет соединение с Redis
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close закрывает соединение с Redis
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
