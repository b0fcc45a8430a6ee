// Package admins answers "is this identity an admin". Owners come from configuration
// and cannot be changed at runtime; further admins live in the database.
package admins

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/PancyStudios/AnimeBotGo/pkg/errors"
	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"github.com/patrickmn/go-cache"
)

// Directory is the single admin lookup used across the bot
type Directory interface {
	IsAdmin(ctx context.Context, telegramID int64) (bool, error)
	IsOwner(telegramID int64) bool
	// All returns owners first, then stored admins, without duplicates
	All(ctx context.Context) ([]int64, error)
	Add(ctx context.Context, actor int64, admin models.Admin) error
	Remove(ctx context.Context, actor, telegramID int64) error
}

// Store persists the runtime admins
type Store interface {
	Add(ctx context.Context, a *models.Admin) error
	Remove(ctx context.Context, telegramID int64) error
	List(ctx context.Context) ([]models.Admin, error)
}

const storedKey = "stored"

// Registry implements Directory over configured owners and a Store
type Registry struct {
	owners     map[int64]struct{}
	ownerOrder []int64
	store      Store
	cache      *cache.Cache
}

var _ Directory = (*Registry)(nil)

// New creates a Registry. Stored admins are cached for ttl.
func New(owners []int64, store Store, ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = time.Minute
	}
	r := &Registry{
		owners: make(map[int64]struct{}, len(owners)),
		store:  store,
		cache:  cache.New(ttl, 2*ttl),
	}
	for _, id := range owners {
		if _, dup := r.owners[id]; dup {
			continue
		}
		r.owners[id] = struct{}{}
		r.ownerOrder = append(r.ownerOrder, id)
	}
	return r
}

func (r *Registry) IsOwner(telegramID int64) bool {
	_, ok := r.owners[telegramID]
	return ok
}

func (r *Registry) IsAdmin(ctx context.Context, telegramID int64) (bool, error) {
	if r.IsOwner(telegramID) {
		return true, nil
	}
	stored, err := r.stored(ctx)
	if err != nil {
		return false, err
	}
	_, ok := stored[telegramID]
	return ok, nil
}

func (r *Registry) All(ctx context.Context) ([]int64, error) {
	stored, err := r.stored(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]int64, 0, len(r.ownerOrder)+len(stored))
	out = append(out, r.ownerOrder...)

	extra := make([]int64, 0, len(stored))
	for id := range stored {
		if !r.IsOwner(id) {
			extra = append(extra, id)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(out, extra...), nil
}

// List returns the stored admins
func (r *Registry) List(ctx context.Context) ([]models.Admin, error) {
	return r.store.List(ctx)
}

// Add makes admin.TelegramID an admin. The actor must be an admin.
func (r *Registry) Add(ctx context.Context, actor int64, admin models.Admin) error {
	if err := r.authorize(ctx, actor); err != nil {
		return err
	}
	if r.IsOwner(admin.TelegramID) {
		return errors.Conflict("Bu foydalanuvchi asosiy admin")
	}
	if err := r.store.Add(ctx, &admin); err != nil {
		return err
	}
	r.cache.Delete(storedKey)
	logger.Info(fmt.Sprintf("Admin %d añadido por %d", admin.TelegramID, actor), "Admins")
	return nil
}

// Remove demotes a stored admin. Owners cannot be removed.
func (r *Registry) Remove(ctx context.Context, actor, telegramID int64) error {
	if err := r.authorize(ctx, actor); err != nil {
		return err
	}
	if r.IsOwner(telegramID) {
		return errors.Authorization("Bu asosiy admin, uni o'chirib bo'lmaydi!")
	}
	if err := r.store.Remove(ctx, telegramID); err != nil {
		return err
	}
	r.cache.Delete(storedKey)
	logger.Info(fmt.Sprintf("Admin %d eliminado por %d", telegramID, actor), "Admins")
	return nil
}

func (r *Registry) authorize(ctx context.Context, actor int64) error {
	ok, err := r.IsAdmin(ctx, actor)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Authorization("Bu amal faqat adminlar uchun")
	}
	return nil
}

func (r *Registry) stored(ctx context.Context) (map[int64]struct{}, error) {
	if v, ok := r.cache.Get(storedKey); ok {
		return v.(map[int64]struct{}), nil
	}
	list, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[int64]struct{}, len(list))
	for _, a := range list {
		set[a.TelegramID] = struct{}{}
	}
	r.cache.SetDefault(storedKey, set)
	return set, nil
}

// Label renders an admin id for menus
func Label(a models.Admin) string {
	if a.FullName != "" {
		return a.FullName + " (" + strconv.FormatInt(a.TelegramID, 10) + ")"
	}
	return strconv.FormatInt(a.TelegramID, 10)
}
