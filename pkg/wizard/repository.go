package wizard

import (
	"context"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
)

// Repository stores one State per identity. Load returns nil, nil when none exists
// or the state has outlived the repository TTL.
type Repository interface {
	Load(ctx context.Context, identity int64) (*State, error)
	Save(ctx context.Context, identity int64, s *State) error
	Delete(ctx context.Context, identity int64) error
}

// MemoryRepository keeps state in process memory with a TTL
type MemoryRepository struct {
	cache *cache.Cache
	ttl   time.Duration
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository creates an in-process repository. ttl <= 0 keeps state forever.
func NewMemoryRepository(ttl time.Duration) *MemoryRepository {
	expiration := ttl
	if ttl <= 0 {
		expiration = cache.NoExpiration
	}
	return &MemoryRepository{cache: cache.New(expiration, time.Minute), ttl: expiration}
}

func (r *MemoryRepository) Load(_ context.Context, identity int64) (*State, error) {
	v, ok := r.cache.Get(key(identity))
	if !ok {
		return nil, nil
	}
	return copyState(v.(*State)), nil
}

func (r *MemoryRepository) Save(_ context.Context, identity int64, s *State) error {
	r.cache.Set(key(identity), copyState(s), r.ttl)
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, identity int64) error {
	r.cache.Delete(key(identity))
	return nil
}

// Len returns the number of live states
func (r *MemoryRepository) Len() int {
	return r.cache.ItemCount()
}

func copyState(s *State) *State {
	out := *s
	if s.Values != nil {
		out.Values = s.Values.Clone()
	}
	return &out
}

func key(identity int64) string {
	return strconv.FormatInt(identity, 10)
}
