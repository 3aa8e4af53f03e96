package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"gopress-cms/models"
)

// TagCache is a read-through cache for slug-keyed tag lookups. Tags are
// never renamed or removed, so entries only expire, they never go wrong.
type TagCache interface {
	GetTag(ctx context.Context, slug string) (*models.Tag, error)
	SetTag(ctx context.Context, tag *models.Tag) error
}

type redisTagCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisTagCache(rdb *redis.Client, ttl time.Duration) TagCache {
	return &redisTagCache{rdb: rdb, ttl: ttl}
}

func tagKey(slug string) string {
	return "tag:slug:" + slug
}

// GetTag returns (nil, nil) on a cache miss.
func (c *redisTagCache) GetTag(ctx context.Context, slug string) (*models.Tag, error) {
	raw, err := c.rdb.Get(ctx, tagKey(slug)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var tag models.Tag
	if err := json.Unmarshal([]byte(raw), &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

func (c *redisTagCache) SetTag(ctx context.Context, tag *models.Tag) error {
	raw, err := json.Marshal(tag)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, tagKey(tag.Slug), raw, c.ttl).Err()
}
