package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// LeaderboardCache ranks learners by verified projects using a Redis ZSET
type LeaderboardCache interface {
	IncrProofs(ctx context.Context, email string) error
	GetTop(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	GetRank(ctx context.Context, email string) (int64, error)
}

// LeaderboardEntry represents a single leaderboard entry
type LeaderboardEntry struct {
	Email  string `json:"email"`
	Proofs int    `json:"proofs"`
	Rank   int    `json:"rank"`
}

const leaderboardKey = "leaderboard:proofs"

type leaderboardCache struct {
	client *redis.Client
}

// NewLeaderboardCache creates a new leaderboard cache
func NewLeaderboardCache(client *redis.Client) LeaderboardCache {
	return &leaderboardCache{
		client: client,
	}
}

func (c *leaderboardCache) IncrProofs(ctx context.Context, email string) error {
	return c.client.ZIncrBy(ctx, leaderboardKey, 1, email).Err()
}

func (c *leaderboardCache) GetTop(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(results))
	for i, z := range results {
		member, _ := z.Member.(string)
		entries[i] = LeaderboardEntry{
			Email:  member,
			Proofs: int(z.Score),
			Rank:   i + 1,
		}
	}
	return entries, nil
}

// GetRank returns the 1-based rank, or 0 when the learner has no proofs
func (c *leaderboardCache) GetRank(ctx context.Context, email string) (int64, error) {
	rank, err := c.client.ZRevRank(ctx, leaderboardKey, email).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return rank + 1, nil
}
