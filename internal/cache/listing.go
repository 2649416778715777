package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/linemk/agri-market/internal/domain/models"
)

var ErrCacheMiss = errors.New("cache miss")

// ListingCache хранит объявления, подтянутые при починке заказов.
type ListingCache struct {
	client    *redis.Client
	baseTTL   time.Duration
	maxJitter time.Duration
}

func NewListingCache(client *redis.Client, baseTTL time.Duration) *ListingCache {
	return &ListingCache{
		client:    client,
		baseTTL:   baseTTL,
		maxJitter: baseTTL / 5,
	}
}

func (c *ListingCache) Get(ctx context.Context, id int64) (*models.Listing, error) {
	data, err := c.client.Get(ctx, listingKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var l models.Listing
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("unmarshal listing failed: %w", err)
	}
	return &l, nil
}

func (c *ListingCache) Set(ctx context.Context, l *models.Listing) error {
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("marshal listing failed: %w", err)
	}

	// разброс TTL, чтобы ключи не протухали одновременно
	ttl := c.baseTTL
	if c.maxJitter > 0 {
		ttl += time.Duration(rand.Int63n(int64(c.maxJitter)))
	}
	if err := c.client.Set(ctx, listingKey(l.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *ListingCache) Delete(ctx context.Context, id int64) error {
	if err := c.client.Del(ctx, listingKey(id)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func listingKey(id int64) string {
	return fmt.Sprintf("listing:%d", id)
}
