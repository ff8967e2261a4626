package cache

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"ikam/internal/domain/entity"
	"ikam/internal/domain/service"
	"ikam/pkg/errors"
)

func profileKey(uid string) string {
	return "userData:" + uid
}

type RedisProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(addr, password string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	log.Println("Redis initialized with address:", addr)
	return client
}

func NewRedisProfileCache(client *redis.Client, ttl time.Duration) service.ProfileCache {
	return &RedisProfileCache{client: client, ttl: ttl}
}

func (c *RedisProfileCache) Put(ctx context.Context, profile *entity.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return errors.Internal("Failed to encode profile", err)
	}
	if err := c.client.Set(ctx, profileKey(profile.UID), data, c.ttl).Err(); err != nil {
		return errors.Internal("Failed to cache profile", err)
	}
	return nil
}

func (c *RedisProfileCache) Get(ctx context.Context, uid string) (*entity.UserProfile, error) {
	data, err := c.client.Get(ctx, profileKey(uid)).Bytes()
	if err == redis.Nil {
		return nil, errors.NotFound("Cached profile", nil)
	}
	if err != nil {
		return nil, errors.Internal("Failed to read cached profile", err)
	}

	var profile entity.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, errors.Internal("Failed to decode cached profile", err)
	}
	return &profile, nil
}

// MemoryProfileCache keeps the encoded profile in process memory.
type MemoryProfileCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemoryProfileCache() *MemoryProfileCache {
	return &MemoryProfileCache{entries: make(map[string][]byte)}
}

func (c *MemoryProfileCache) Put(ctx context.Context, profile *entity.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return errors.Internal("Failed to encode profile", err)
	}
	c.mu.Lock()
	c.entries[profileKey(profile.UID)] = data
	c.mu.Unlock()
	return nil
}

func (c *MemoryProfileCache) Get(ctx context.Context, uid string) (*entity.UserProfile, error) {
	c.mu.RLock()
	data, ok := c.entries[profileKey(uid)]
	c.mu.RUnlock()
	if !ok {
		return nil, errors.NotFound("Cached profile", nil)
	}

	var profile entity.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, errors.Internal("Failed to decode cached profile", err)
	}
	return &profile, nil
}
