package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"inmoplaza/internal/models"

	"github.com/redis/go-redis/v9"
)

// RatingCache caches per-listing rating aggregates in Redis. The aggregate is
// cheap to recompute, so every failure degrades to a recomputation rather
// than an error; the only hard contract is invalidation on comment mutation.
type RatingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRatingCache returns a RatingCache backed by the given client.
// A nil client yields a cache that always misses.
func NewRatingCache(client *redis.Client) *RatingCache {
	return &RatingCache{
		client: client,
		ttl:    10 * time.Minute,
	}
}

func ratingKey(listingID uint) string {
	return fmt.Sprintf("listing:%d:rating", listingID)
}

// Get returns the cached aggregate for the listing, or ok=false on miss.
func (c *RatingCache) Get(ctx context.Context, listingID uint) (*models.RatingAggregate, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, ratingKey(listingID)).Bytes()
	if err != nil {
		return nil, false
	}

	var agg models.RatingAggregate
	if err := json.Unmarshal(raw, &agg); err != nil {
		return nil, false
	}
	return &agg, true
}

// Set stores the aggregate for the listing.
func (c *RatingCache) Set(ctx context.Context, listingID uint, agg *models.RatingAggregate) {
	if c == nil || c.client == nil || agg == nil {
		return
	}

	raw, err := json.Marshal(agg)
	if err != nil {
		return
	}
	c.client.Set(ctx, ratingKey(listingID), raw, c.ttl)
}

// Invalidate drops the cached aggregate for the listing. Called on every
// comment insert and delete.
func (c *RatingCache) Invalidate(ctx context.Context, listingID uint) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, ratingKey(listingID))
}
