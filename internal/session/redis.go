package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "storefront:session:"

var _ Store = (*Redis)(nil)

// Redis stores session state as JSON documents in Redis with a TTL, so
// abandoned sessions expire on their own.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a Store over an existing Redis client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Load fetches and decodes the state for id. Unknown ids return (nil, nil).
func (r *Redis) Load(ctx context.Context, id string) (*State, error) {
	raw, err := r.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get session")
	}

	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		// A corrupt document is treated as no session rather than locking
		// the user out of the site.
		return nil, nil
	}
	return &st, nil
}

// Save encodes and stores the state under id with the given TTL.
func (r *Redis) Save(ctx context.Context, id string, st *State, ttl time.Duration) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return errors.Wrap(err, "marshal session")
	}
	if err := r.client.Set(ctx, redisKeyPrefix+id, raw, ttl).Err(); err != nil {
		return errors.Wrap(err, "set session")
	}
	return nil
}

// Delete removes the state for id.
func (r *Redis) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return errors.Wrap(err, "del session")
	}
	return nil
}
