package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"nishtha/internal/model"
)

// SessionCache stores checkpoint player session metadata
type SessionCache interface {
	Set(ctx context.Context, session *model.PlayerSession) error
	Get(ctx context.Context, id string) (*model.PlayerSession, error)
	Delete(ctx context.Context, id string) error
	ListByLearner(ctx context.Context, email string) ([]string, error)
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionCache(client *redis.Client) SessionCache {
	return &sessionCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (c *sessionCache) Set(ctx context.Context, session *model.PlayerSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, "session:"+session.ID, data, c.ttl)
	pipe.SAdd(ctx, "learner:"+session.Email+":sessions", session.ID)
	pipe.Expire(ctx, "learner:"+session.Email+":sessions", c.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (c *sessionCache) Get(ctx context.Context, id string) (*model.PlayerSession, error) {
	data, err := c.client.Get(ctx, "session:"+id).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session model.PlayerSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *sessionCache) Delete(ctx context.Context, id string) error {
	session, err := c.Get(ctx, id)
	if err != nil {
		return err
	}
	pipe := c.client.TxPipeline()
	pipe.Del(ctx, "session:"+id)
	if session != nil {
		pipe.SRem(ctx, "learner:"+session.Email+":sessions", id)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (c *sessionCache) ListByLearner(ctx context.Context, email string) ([]string, error) {
	return c.client.SMembers(ctx, "learner:"+email+":sessions").Result()
}
