package cache

import (
	"context"
	"encoding/json"
	"time"

	"homeinsight-propcache/pkg/metrics"

	"github.com/go-redis/redis/v8"
)

// NewClient connects to Redis and verifies the connection with a ping.
func NewClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	_, err := client.Ping(ctx).Result()
	metrics.RedisOperationDuration.WithLabelValues("ping").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RedisErrorsTotal.WithLabelValues("ping").Inc()
		client.Close()
		return nil, NewCacheError("ping", "", err)
	}
	return client, nil
}

// Redis is the Backend implementation over a Redis client.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	start := time.Now()
	val, err := r.client.Get(ctx, key).Result()
	metrics.RedisOperationDuration.WithLabelValues("get").Observe(time.Since(start).Seconds())
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		metrics.RedisErrorsTotal.WithLabelValues("get").Inc()
		return false, NewCacheError("get", key, err)
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		metrics.RedisErrorsTotal.WithLabelValues("get_unmarshal").Inc()
		return false, NewCacheError("unmarshal", key, err)
	}
	return true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		metrics.RedisErrorsTotal.WithLabelValues("set_marshal").Inc()
		return NewCacheError("marshal", key, err)
	}
	start := time.Now()
	err = r.client.Set(ctx, key, data, ttl).Err()
	metrics.RedisOperationDuration.WithLabelValues("set").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RedisErrorsTotal.WithLabelValues("set").Inc()
		return NewCacheError("set", key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	start := time.Now()
	count, err := r.client.Del(ctx, keys...).Result()
	metrics.RedisOperationDuration.WithLabelValues("del").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RedisErrorsTotal.WithLabelValues("del").Inc()
		return 0, NewCacheError("delete", "", err)
	}
	return count, nil
}

func (r *Redis) Keys(ctx context.Context, pattern string) ([]string, error) {
	start := time.Now()
	keys, err := r.client.Keys(ctx, pattern).Result()
	metrics.RedisOperationDuration.WithLabelValues("keys").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RedisErrorsTotal.WithLabelValues("keys").Inc()
		return nil, NewCacheError("keys", pattern, err)
	}
	return keys, nil
}

func (r *Redis) TTL(ctx context.Context, key string) (time.Duration, bool, error) {
	start := time.Now()
	d, err := r.client.TTL(ctx, key).Result()
	metrics.RedisOperationDuration.WithLabelValues("ttl").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RedisErrorsTotal.WithLabelValues("ttl").Inc()
		return 0, false, NewCacheError("ttl", key, err)
	}
	// Redis reports -2 for a missing key and -1 for a key with no expiry.
	if d < 0 {
		return 0, false, nil
	}
	return d, true, nil
}
