package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"strayl-feedback/internal/model"
)

const (
	sessionKeyPrefix = "feedback:session:"
	submitKeyPrefix  = "feedback:submitting:"

	// submitClaimTTL bounds how long a crashed pipeline can wedge a
	// session; a live pipeline releases its claim well before this.
	submitClaimTTL = 2 * time.Minute
)

// SessionCache stores in-progress wizard sessions. A nil session from Get
// means the key does not exist (expired or never created).
type SessionCache interface {
	Set(ctx context.Context, session *model.Session) error
	Get(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error

	// ClaimSubmit atomically claims the session for one submission
	// pipeline run. It returns false when another run holds the claim.
	ClaimSubmit(ctx context.Context, id string) (bool, error)
	ReleaseSubmit(ctx context.Context, id string) error
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionCache(client *redis.Client, ttl time.Duration) SessionCache {
	return &sessionCache{
		client: client,
		ttl:    ttl,
	}
}

// Set writes the session and refreshes its TTL, so the expiry slides with
// activity.
func (c *sessionCache) Set(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, sessionKeyPrefix+session.ID, data, c.ttl).Err()
}

func (c *sessionCache) Get(ctx context.Context, id string) (*model.Session, error) {
	data, err := c.client.Get(ctx, sessionKeyPrefix+id).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session model.Session
	err = json.Unmarshal([]byte(data), &session)
	return &session, err
}

func (c *sessionCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, sessionKeyPrefix+id).Err()
}

func (c *sessionCache) ClaimSubmit(ctx context.Context, id string) (bool, error) {
	return c.client.SetNX(ctx, submitKeyPrefix+id, "1", submitClaimTTL).Result()
}

func (c *sessionCache) ReleaseSubmit(ctx context.Context, id string) error {
	return c.client.Del(ctx, submitKeyPrefix+id).Err()
}
