// Package cache keeps assembled public receipt views in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sangkips/receipts-api/internal/domain/entity"
	domainRepo "github.com/sangkips/receipts-api/internal/domain/repository"
)

const keyPrefix = "public-receipt"

// ConnectRedis initializes a Redis client and checks it is reachable
func ConnectRedis(addr, password string, db int) (*redis.Client, error) {
	// Accept redis://host:port as well as host:port
	addr = strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Printf("Successfully connected to Redis at %s", addr)
	return rdb, nil
}

type redisPublicReceiptCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisPublicReceiptCache creates a cache whose entries live for ttl
func NewRedisPublicReceiptCache(client *redis.Client, ttl time.Duration) domainRepo.PublicReceiptCache {
	return &redisPublicReceiptCache{client: client, ttl: ttl}
}

func key(projectCode string, receiptID uint64) string {
	return fmt.Sprintf("%s:%s:%d", keyPrefix, projectCode, receiptID)
}

func (c *redisPublicReceiptCache) Get(ctx context.Context, projectCode string, receiptID uint64) (*entity.PublicReceipt, error) {
	data, err := c.client.Get(ctx, key(projectCode, receiptID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var view entity.PublicReceipt
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *redisPublicReceiptCache) Set(ctx context.Context, view *entity.PublicReceipt) error {
	if view == nil || view.Receipt == nil {
		return nil
	}
	data, err := json.Marshal(view)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(view.Project.Code, view.Receipt.ID), data, c.ttl).Err()
}

// InvalidateProject walks the project's keys with SCAN so a large cache never
// blocks Redis the way KEYS would.
func (c *redisPublicReceiptCache) InvalidateProject(ctx context.Context, projectCode string) error {
	pattern := fmt.Sprintf("%s:%s:*", keyPrefix, escapeGlob(projectCode))
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()

	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			if err := c.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return c.client.Del(ctx, batch...).Err()
	}
	return nil
}

func escapeGlob(s string) string {
	return strings.NewReplacer(`\`, `\\`, "*", `\*`, "?", `\?`, "[", `\[`, "]", `\]`).Replace(s)
}

// noopPublicReceiptCache is used when no Redis address is configured
type noopPublicReceiptCache struct{}

// NewNoopPublicReceiptCache creates a cache that never stores anything
func NewNoopPublicReceiptCache() domainRepo.PublicReceiptCache {
	return noopPublicReceiptCache{}
}

func (noopPublicReceiptCache) Get(context.Context, string, uint64) (*entity.PublicReceipt, error) {
	return nil, nil
}

func (noopPublicReceiptCache) Set(context.Context, *entity.PublicReceipt) error {
	return nil
}

func (noopPublicReceiptCache) InvalidateProject(context.Context, string) error {
	return nil
}
