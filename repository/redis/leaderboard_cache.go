package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/hunter/domain"
	"github.com/fastygo/hunter/repository"
)

const scanBatch = 100

type leaderboardCache struct {
	client redislib.Cmdable
	prefix string
	ttl    time.Duration
}

// NewLeaderboardCache keeps each computed leaderboard under its own key,
// leaderboard:<limit>, expiring ttl after it was written. Invalidate drops
// every board.
func NewLeaderboardCache(client redislib.Cmdable, ttl time.Duration) repository.LeaderboardCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &leaderboardCache{
		client: client,
		prefix: "leaderboard:",
		ttl:    ttl,
	}
}

func (c *leaderboardCache) key(limit int) string {
	return c.prefix + strconv.Itoa(limit)
}

func (c *leaderboardCache) Get(ctx context.Context, limit int) ([]domain.LeaderboardEntry, bool, error) {
	payload, err := c.client.Get(ctx, c.key(limit)).Bytes()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var entries []domain.LeaderboardEntry
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, false, err
	}
	return entries, true, nil
}

func (c *leaderboardCache) Set(ctx context.Context, limit int, entries []domain.LeaderboardEntry) error {
	payload, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(limit), payload, c.ttl).Err()
}

func (c *leaderboardCache) Invalidate(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+"*", scanBatch).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
