package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a TTL-bounded Redis look-aside cache for directory lookups.
// Only positive results are cached: a miss on a bad project key must keep
// hitting the store so newly created tenants become visible immediately.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(redisURL string, ttl time.Duration) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &Cache{client: client, ttl: ttl}, nil
}

// NewCacheWithClient wraps an existing Redis client, used by tests.
func NewCacheWithClient(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) Close() error {
	return c.client.Close()
}

func projectCacheKey(projectKey string) string {
	return "directory:project:" + projectKey
}

func integrationCacheKey(projectID, provider string) string {
	return "directory:integration:" + projectID + ":" + provider
}

func (c *Cache) get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

func (c *Cache) getProject(ctx context.Context, projectKey string, dest interface{}) (bool, error) {
	return c.get(ctx, projectCacheKey(projectKey), dest)
}

func (c *Cache) setProject(ctx context.Context, projectKey string, value interface{}) error {
	return c.set(ctx, projectCacheKey(projectKey), value)
}

func (c *Cache) getIntegration(ctx context.Context, projectID, provider string, dest interface{}) (bool, error) {
	return c.get(ctx, integrationCacheKey(projectID, provider), dest)
}

func (c *Cache) setIntegration(ctx context.Context, projectID, provider string, value interface{}) error {
	return c.set(ctx, integrationCacheKey(projectID, provider), value)
}

func (c *Cache) deleteIntegration(ctx context.Context, projectID, provider string) error {
	return c.client.Del(ctx, integrationCacheKey(projectID, provider)).Err()
}
