package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ProofKeyCache guards proof persistence with one key per mint transaction
type ProofKeyCache interface {
	// Claim returns false when another writer already holds the key
	Claim(ctx context.Context, txHash string) (bool, error)
	Release(ctx context.Context, txHash string) error
}

type proofKeyCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProofKeyCache creates a new idempotency key cache
func NewProofKeyCache(client *redis.Client) ProofKeyCache {
	return &proofKeyCache{
		client: client,
		ttl:    time.Minute,
	}
}

func (c *proofKeyCache) key(txHash string) string {
	return fmt.Sprintf("proof:tx:%s", txHash)
}

func (c *proofKeyCache) Claim(ctx context.Context, txHash string) (bool, error) {
	return c.client.SetNX(ctx, c.key(txHash), time.Now().Unix(), c.ttl).Result()
}

func (c *proofKeyCache) Release(ctx context.Context, txHash string) error {
	return c.client.Del(ctx, c.key(txHash)).Err()
}
