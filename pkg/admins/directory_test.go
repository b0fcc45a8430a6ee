package admins

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/PancyStudios/AnimeBotGo/pkg/errors"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	admins map[int64]models.Admin
	lists  int
	err    error
}

func newFakeStore(ids ...int64) *fakeStore {
	s := &fakeStore{admins: make(map[int64]models.Admin)}
	for _, id := range ids {
		s.admins[id] = models.Admin{TelegramID: id}
	}
	return s
}

func (s *fakeStore) Add(_ context.Context, a *models.Admin) error {
	if _, ok := s.admins[a.TelegramID]; ok {
		return errors.Conflict("exists")
	}
	s.admins[a.TelegramID] = *a
	return nil
}

func (s *fakeStore) Remove(_ context.Context, id int64) error {
	if _, ok := s.admins[id]; !ok {
		return errors.NotFound("missing")
	}
	delete(s.admins, id)
	return nil
}

func (s *fakeStore) List(context.Context) ([]models.Admin, error) {
	s.lists++
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.Admin, 0, len(s.admins))
	for _, a := range s.admins {
		out = append(out, a)
	}
	return out, nil
}

func TestIsAdminCoversBothTiers(t *testing.T) {
	ctx := context.Background()
	r := New([]int64{1, 2}, newFakeStore(10), time.Minute)

	tests := []struct {
		id   int64
		want bool
	}{
		{1, true},
		{2, true},
		{10, true},
		{99, false},
	}
	for _, tt := range tests {
		got, err := r.IsAdmin(ctx, tt.id)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "IsAdmin(%d)", tt.id)
	}
	assert.True(t, r.IsOwner(1))
	assert.False(t, r.IsOwner(10))
}

func TestStoredAdminsAreCached(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(10)
	r := New(nil, store, time.Minute)

	for i := 0; i < 5; i++ {
		_, err := r.IsAdmin(ctx, 10)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, store.lists)

	require.NoError(t, r.Add(ctx, 10, models.Admin{TelegramID: 11}))
	ok, err := r.IsAdmin(ctx, 11)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, store.lists)
}

func TestOwnersCannotBeRemoved(t *testing.T) {
	ctx := context.Background()
	r := New([]int64{1}, newFakeStore(10), time.Minute)

	err := r.Remove(ctx, 10, 1)
	assert.True(t, errors.IsKind(err, errors.KindAuthorization))
	err = r.Remove(ctx, 1, 1)
	assert.True(t, errors.IsKind(err, errors.KindAuthorization))

	ok, err := r.IsAdmin(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNonAdminActorsAreRejected(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(10)
	r := New([]int64{1}, store, time.Minute)

	err := r.Add(ctx, 99, models.Admin{TelegramID: 100})
	assert.True(t, errors.IsKind(err, errors.KindAuthorization))
	err = r.Remove(ctx, 99, 10)
	assert.True(t, errors.IsKind(err, errors.KindAuthorization))
	assert.Len(t, store.admins, 1)
}

func TestAddOwnerIsConflict(t *testing.T) {
	r := New([]int64{1}, newFakeStore(), time.Minute)
	err := r.Add(context.Background(), 1, models.Admin{TelegramID: 1})
	assert.True(t, errors.IsKind(err, errors.KindConflict))
}

func TestRemoveDynamicAdmin(t *testing.T) {
	ctx := context.Background()
	r := New([]int64{1}, newFakeStore(10, 20), time.Minute)

	require.NoError(t, r.Remove(ctx, 1, 10))
	ok, err := r.IsAdmin(ctx, 10)
	require.NoError(t, err)
	assert.False(t, ok)

	err = r.Remove(ctx, 1, 10)
	assert.True(t, errors.IsKind(err, errors.KindNotFound))
}

func TestAllListsOwnersFirst(t *testing.T) {
	r := New([]int64{5, 1, 5}, newFakeStore(30, 1, 20), time.Minute)
	all, err := r.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 1, 20, 30}, all)
}

func TestStoreErrorPropagates(t *testing.T) {
	store := newFakeStore()
	store.err = stderrors.New("db down")
	r := New([]int64{1}, store, time.Minute)

	ok, err := r.IsAdmin(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = r.IsAdmin(context.Background(), 2)
	assert.Error(t, err)
}
