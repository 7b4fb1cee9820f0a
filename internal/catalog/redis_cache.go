package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/example/carshare/internal/models"
)

// RedisCache stores the decoded catalog snapshot as a JSON blob so a
// restarted server can answer lookups before the upstream feed call
// completes (or when it fails).
type RedisCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedisCache(addr, password, key string, ttl time.Duration) *RedisCache {
	c := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	if key == "" {
		key = "vehicle_catalog"
	}
	return &RedisCache{client: c, key: key, ttl: ttl}
}

func (r *RedisCache) Get(ctx context.Context) ([]models.VehicleSpec, error) {
	b, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		return nil, err
	}
	var specs []models.VehicleSpec
	if err := json.Unmarshal(b, &specs); err != nil {
		return nil, err
	}
	return specs, nil
}

func (r *RedisCache) Set(ctx context.Context, specs []models.VehicleSpec) error {
	b, err := json.Marshal(specs)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key, b, r.ttl).Err()
}
