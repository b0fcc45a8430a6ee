package wizard

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// RedisRepository shares state between bot replicas through Redis
type RedisRepository struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ Repository = (*RedisRepository)(nil)

// NewRedisRepository stores state under prefix+identity with ttl (0 disables expiry)
func NewRedisRepository(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisRepository {
	if prefix == "" {
		prefix = "animebot:wizard:"
	}
	return &RedisRepository{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisRepository) Load(ctx context.Context, identity int64) (*State, error) {
	raw, err := r.client.Get(ctx, r.prefix+key(identity)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *RedisRepository) Save(ctx context.Context, identity int64, s *State) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.prefix+key(identity), raw, r.ttl).Err()
}

func (r *RedisRepository) Delete(ctx context.Context, identity int64) error {
	return r.client.Del(ctx, r.prefix+key(identity)).Err()
}
