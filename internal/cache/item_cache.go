package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"boardspace-backend/internal/itemable"
)

const keyPrefix = "boardspace:items:"

// RootScope is the scope key of a board's root level.
const RootScope = "root"

// ItemCache caches folder-scoped item listings in Redis. A nil *ItemCache
// is valid and behaves as an always-missing cache.
type ItemCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewItemCache returns a new ItemCache.
func NewItemCache(rdb *redis.Client, ttl time.Duration) *ItemCache {
	return &ItemCache{rdb: rdb, ttl: ttl}
}

// Connect parses a redis:// URL and verifies the server answers.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// Listings are keyed by a per-board generation. InvalidateBoard bumps the
// generation, so a fill that read the database before a write lands under a
// key no reader asks for anymore.
func listingKey(boardID uint, gen int64, scope string) string {
	return fmt.Sprintf("%s%d:%d:%s", keyPrefix, boardID, gen, scope)
}

func generationKey(boardID uint) string {
	return fmt.Sprintf("%sgen:%d", keyPrefix, boardID)
}

// Generation returns the current listing generation of a board. Callers read
// it before querying the database and pass it to GetListing and SetListing.
func (c *ItemCache) Generation(ctx context.Context, boardID uint) (int64, error) {
	if c == nil {
		return 0, nil
	}
	gen, err := c.rdb.Get(ctx, generationKey(boardID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// GetListing returns the cached listing, or ok=false on a miss.
func (c *ItemCache) GetListing(ctx context.Context, boardID uint, gen int64, scope string) (list []itemable.Resource, ok bool, err error) {
	if c == nil {
		return nil, false, nil
	}
	b, err := c.rdb.Get(ctx, listingKey(boardID, gen, scope)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	// keep ids exact instead of going through float64
	dec.UseNumber()
	if err := dec.Decode(&list); err != nil {
		return nil, false, err
	}
	return list, true, nil
}

// SetListing stores a listing for one board scope under generation gen.
func (c *ItemCache) SetListing(ctx context.Context, boardID uint, gen int64, scope string, list []itemable.Resource) error {
	if c == nil {
		return nil
	}
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, listingKey(boardID, gen, scope), b, c.ttl).Err()
}

// InvalidateBoard bumps the board generation and drops every cached scope.
func (c *ItemCache) InvalidateBoard(ctx context.Context, boardID uint) error {
	if c == nil {
		return nil
	}
	if err := c.rdb.Incr(ctx, generationKey(boardID)).Err(); err != nil {
		return err
	}
	iter := c.rdb.Scan(ctx, 0, fmt.Sprintf("%s%d:*", keyPrefix, boardID), 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
