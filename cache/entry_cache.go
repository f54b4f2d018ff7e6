package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"musiclib/logger"
	"musiclib/model"

	"github.com/go-redis/redis/v8"
)

const entryKeyPrefix = "music:entry:"

// EntryKey returns the Redis key for a music entry ID.
func EntryKey(id int64) string {
	return entryKeyPrefix + strconv.FormatInt(id, 10)
}

// RedisEntryCache keeps JSON-encoded music entries in Redis with a TTL.
type RedisEntryCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisEntryCache creates an entry cache. A ttl of zero keeps keys until evicted.
func NewRedisEntryCache(client redis.UniversalClient, ttl time.Duration) *RedisEntryCache {
	return &RedisEntryCache{client: client, ttl: ttl}
}

// Get returns (nil, nil) on a miss.
func (c *RedisEntryCache) Get(ctx context.Context, id int64) (*model.MusicEntry, error) {
	data, err := c.client.Get(ctx, EntryKey(id)).Bytes()
	if err != nil {
		if isMiss(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cached entry %d: %w", id, err)
	}

	var entry model.MusicEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		// A corrupt value is treated as a miss and removed.
		logger.Warn("dropping undecodable cached entry", logger.Int64("id", id), logger.ErrorField(err))
		_ = c.client.Del(ctx, EntryKey(id)).Err()
		return nil, nil
	}
	return &entry, nil
}

func (c *RedisEntryCache) Set(ctx context.Context, entry *model.MusicEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode entry %d: %w", entry.ID, err)
	}
	if err := c.client.Set(ctx, EntryKey(entry.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache entry %d: %w", entry.ID, err)
	}
	return nil
}

func (c *RedisEntryCache) Delete(ctx context.Context, id int64) error {
	if err := c.client.Del(ctx, EntryKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to evict entry %d: %w", id, err)
	}
	return nil
}

// Flush removes every cached entry and returns how many keys were deleted.
func (c *RedisEntryCache) Flush(ctx context.Context) (int64, error) {
	var removed int64
	iter := c.client.Scan(ctx, 0, entryKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		n, err := c.client.Del(ctx, iter.Val()).Result()
		if err != nil {
			return removed, fmt.Errorf("failed to delete %s: %w", iter.Val(), err)
		}
		removed += n
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("failed to scan cached entries: %w", err)
	}
	return removed, nil
}
