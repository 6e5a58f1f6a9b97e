// Package cache adds a redis read-through in front of user lookups. Cache
// trouble is logged and bypassed, never surfaced: the store stays the source
// of truth.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fathima-sithara/chat-data/internal/models"
	"github.com/fathima-sithara/chat-data/internal/repository"
)

type UserCache struct {
	inner  *repository.UserRepository
	client *redis.Client
	prefix string
	ttl    time.Duration
	log    *zap.SugaredLogger
}

func NewUserCache(inner *repository.UserRepository, client *redis.Client, prefix string, ttl time.Duration, log *zap.SugaredLogger) *UserCache {
	return &UserCache{inner: inner, client: client, prefix: prefix, ttl: ttl, log: log}
}

func (c *UserCache) key(id string) string {
	return fmt.Sprintf("%s:user:%s", c.prefix, id)
}

func (c *UserCache) GetByID(ctx context.Context, id string) (*models.User, error) {
	if b, err := c.client.Get(ctx, c.key(id)).Bytes(); err == nil {
		var u models.User
		if err := json.Unmarshal(b, &u); err == nil {
			return &u, nil
		}
	}
	u, err := c.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(u); err == nil {
		if err := c.client.Set(ctx, c.key(id), b, c.ttl).Err(); err != nil {
			c.log.Warnw("user cache set failed", "user_id", id, "err", err)
		}
	}
	return u, nil
}

func (c *UserCache) Update(ctx context.Context, patch *models.UserPatch) error {
	if err := c.inner.Update(ctx, patch); err != nil {
		return err
	}
	c.invalidate(ctx, patch.ID)
	return nil
}

func (c *UserCache) Delete(ctx context.Context, id string) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *UserCache) invalidate(ctx context.Context, id string) {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		c.log.Warnw("user cache invalidation failed", "user_id", id, "err", err)
	}
}
