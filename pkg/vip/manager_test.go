package vip

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/PancyStudios/AnimeBotGo/pkg/admins"
	"github.com/PancyStudios/AnimeBotGo/pkg/callback"
	"github.com/PancyStudios/AnimeBotGo/pkg/errors"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

type fakeUsers struct {
	users   map[int64]*models.User
	updates int
	err     error
}

func newFakeUsers(users ...models.User) *fakeUsers {
	f := &fakeUsers{users: make(map[int64]*models.User)}
	for i := range users {
		u := users[i]
		f.users[u.TelegramID] = &u
	}
	return f
}

func (f *fakeUsers) Get(_ context.Context, id int64) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, errors.NotFound("Foydalanuvchi topilmadi")
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) UpdateVIP(_ context.Context, id int64, isVIP bool, expire *string) error {
	u, ok := f.users[id]
	if !ok {
		return errors.NotFound("Foydalanuvchi topilmadi")
	}
	f.updates++
	u.IsVIP = isVIP
	u.VipExpireDate = expire
	return nil
}

type fakePlans map[uint]*models.VipPlan

func (f fakePlans) Get(_ context.Context, id uint) (*models.VipPlan, error) {
	p, ok := f[id]
	if !ok {
		return nil, errors.NotFound("Tarif topilmadi")
	}
	return p, nil
}

type sent struct {
	to       int64
	text     string
	fileID   string
	keyboard callback.Keyboard
}

type fakeNotifier struct {
	mu     sync.Mutex
	sent   []sent
	failTo map[int64]bool
}

func (n *fakeNotifier) SendText(_ context.Context, to int64, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failTo[to] {
		return stderrors.New("telegram: bot was blocked by the user (403)")
	}
	n.sent = append(n.sent, sent{to: to, text: text})
	return nil
}

func (n *fakeNotifier) SendPhoto(_ context.Context, to int64, fileID, caption string, kb callback.Keyboard) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failTo[to] {
		return stderrors.New("telegram: chat not found (400)")
	}
	n.sent = append(n.sent, sent{to: to, text: caption, fileID: fileID, keyboard: kb})
	return nil
}

type adminStore struct{ list []models.Admin }

func (s *adminStore) Add(context.Context, *models.Admin) error { return nil }
func (s *adminStore) Remove(context.Context, int64) error      { return nil }
func (s *adminStore) List(context.Context) ([]models.Admin, error) {
	return s.list, nil
}

type publisher struct {
	mu    sync.Mutex
	types []string
}

func (p *publisher) Publish(eventType string, _ interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types = append(p.types, eventType)
}

type fixture struct {
	clock    *fakeClock
	users    *fakeUsers
	notifier *fakeNotifier
	events   *publisher
	m        *Manager
}

const (
	owner  = int64(1)
	admin  = int64(2)
	user1  = int64(100)
	plan30 = uint(1)
	plan7  = uint(2)
)

func newFixture(users ...models.User) *fixture {
	f := &fixture{
		clock:    &fakeClock{now: t0},
		users:    newFakeUsers(users...),
		notifier: &fakeNotifier{failTo: map[int64]bool{}},
		events:   &publisher{},
	}
	plans := fakePlans{
		plan30: {ID: plan30, Name: "1 oylik VIP", Price: 30000, DurationDays: 30},
		plan7:  {ID: plan7, Name: "Haftalik", Price: 10000, DurationDays: 7},
	}
	dir := admins.New([]int64{owner}, &adminStore{list: []models.Admin{{TelegramID: admin}}}, time.Minute)
	f.m = NewManager(f.users, plans, dir, f.notifier, WithClock(f.clock), WithEvents(f.events))
	return f
}

func strptr(s string) *string { return &s }

func TestIsActiveClosure(t *testing.T) {
	expiry := "2026-03-10 00:00:00"
	tests := []struct {
		name string
		user *models.User
		now  time.Time
		want bool
	}{
		{"nil user", nil, t0, false},
		{"flag off", &models.User{IsVIP: false, VipExpireDate: &expiry}, t0, false},
		{"null expiry", &models.User{IsVIP: true}, t0, false},
		{"garbage expiry", &models.User{IsVIP: true, VipExpireDate: strptr("tomorrow")}, t0, false},
		{"before expiry", &models.User{IsVIP: true, VipExpireDate: &expiry}, t0, true},
		{"at expiry", &models.User{IsVIP: true, VipExpireDate: &expiry}, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), false},
		{"after expiry", &models.User{IsVIP: true, VipExpireDate: &expiry}, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), false},
		{"padded expiry", &models.User{IsVIP: true, VipExpireDate: strptr(" 2026-03-10 00:00:00 ")}, t0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsActive(tt.user, tt.now))
		})
	}
}

func TestScenarioThirtyDayPlan(t *testing.T) {
	ctx := context.Background()
	f := newFixture(models.User{TelegramID: user1})

	expiry, err := f.m.Activate(ctx, user1, plan30)
	require.NoError(t, err)
	assert.Equal(t, t0.AddDate(0, 0, 30), expiry)

	f.clock.set(t0.AddDate(0, 0, 29))
	active, err := f.m.IsActive(ctx, user1)
	require.NoError(t, err)
	assert.True(t, active)

	f.clock.set(t0.AddDate(0, 0, 31))
	active, err = f.m.IsActive(ctx, user1)
	require.NoError(t, err)
	assert.False(t, active)

	// The stored flag stays until the next interaction reconciles it
	assert.True(t, f.users.users[user1].IsVIP)
	outcome, err := f.m.Reconcile(ctx, user1)
	require.NoError(t, err)
	assert.Equal(t, Demoted, outcome)
	assert.False(t, f.users.users[user1].IsVIP)
	assert.Nil(t, f.users.users[user1].VipExpireDate)
}

func TestActivationOverwritesInsteadOfStacking(t *testing.T) {
	ctx := context.Background()
	f := newFixture(models.User{TelegramID: user1})

	_, err := f.m.Activate(ctx, user1, plan30)
	require.NoError(t, err)

	now2 := t0.Add(48 * time.Hour)
	f.clock.set(now2)
	expiry, err := f.m.Activate(ctx, user1, plan7)
	require.NoError(t, err)

	assert.Equal(t, now2.AddDate(0, 0, 7), expiry)
	assert.Equal(t, "2026-03-10 12:00:00", *f.users.users[user1].VipExpireDate)
}

func TestScenarioNullExpiryIsDemoted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(models.User{TelegramID: user1, IsVIP: true})

	active, err := f.m.IsActive(ctx, user1)
	require.NoError(t, err)
	assert.False(t, active)

	outcome, err := f.m.Reconcile(ctx, user1)
	require.NoError(t, err)
	assert.Equal(t, Demoted, outcome)
	assert.False(t, f.users.users[user1].IsVIP)
	assert.Contains(t, f.events.types, "vip.demoted")
}

func TestReconcileLeavesActiveAndUnknownAlone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(
		models.User{TelegramID: user1, IsVIP: true, VipExpireDate: strptr("2026-04-01 00:00:00")},
		models.User{TelegramID: 101},
	)

	for _, id := range []int64{user1, 101, 999} {
		outcome, err := f.m.Reconcile(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, Unchanged, outcome, "identity %d", id)
	}
	assert.Zero(t, f.users.updates)
}

func TestScenarioApproveUnknownPlan(t *testing.T) {
	ctx := context.Background()
	f := newFixture(models.User{TelegramID: user1, IsVIP: true, VipExpireDate: strptr("2026-03-05 00:00:00")})

	_, err := f.m.Approve(ctx, owner, user1, 404)
	assert.True(t, errors.IsKind(err, errors.KindNotFound))
	assert.Zero(t, f.users.updates)
	assert.Equal(t, "2026-03-05 00:00:00", *f.users.users[user1].VipExpireDate)
	assert.Empty(t, f.notifier.sent)
}

func TestApproveNotifiesUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(models.User{TelegramID: user1})

	expiry, err := f.m.Approve(ctx, admin, user1, plan30)
	require.NoError(t, err)
	assert.Equal(t, t0.AddDate(0, 0, 30), expiry)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, user1, f.notifier.sent[0].to)
	assert.Contains(t, f.notifier.sent[0].text, "VIP faollashtirildi")
	assert.Contains(t, f.notifier.sent[0].text, "2026-03-31 12:00:00")
}

func TestApproveSurvivesNotificationFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(models.User{TelegramID: user1})
	f.notifier.failTo[user1] = true

	_, err := f.m.Approve(ctx, owner, user1, plan30)
	require.NoError(t, err)
	assert.True(t, f.users.users[user1].IsVIP)
	assert.Contains(t, f.events.types, "vip.activated")
}

func TestNonAdminCannotResolve(t *testing.T) {
	ctx := context.Background()
	f := newFixture(models.User{TelegramID: user1})

	_, err := f.m.Approve(ctx, user1, user1, plan30)
	assert.True(t, errors.IsKind(err, errors.KindAuthorization))
	err = f.m.Reject(ctx, user1, user1)
	assert.True(t, errors.IsKind(err, errors.KindAuthorization))

	assert.False(t, f.users.users[user1].IsVIP)
	assert.Empty(t, f.notifier.sent)
}

func TestRejectOnlyNotifies(t *testing.T) {
	ctx := context.Background()
	f := newFixture(models.User{TelegramID: user1})

	require.NoError(t, f.m.Reject(ctx, admin, user1))
	require.NoError(t, f.m.Reject(ctx, admin, user1))
	assert.Zero(t, f.users.updates)
	require.Len(t, f.notifier.sent, 2)
	assert.Equal(t, RejectedText, f.notifier.sent[0].text)

	f.notifier.failTo[user1] = true
	assert.NoError(t, f.m.Reject(ctx, admin, user1))
}

func TestDoubleApprovalResetsFromNow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(models.User{TelegramID: user1})

	_, err := f.m.Approve(ctx, owner, user1, plan30)
	require.NoError(t, err)
	f.clock.set(t0.Add(time.Minute))
	expiry, err := f.m.Approve(ctx, admin, user1, plan30)
	require.NoError(t, err)
	assert.Equal(t, t0.Add(time.Minute).AddDate(0, 0, 30), expiry)
}

func TestRequestApprovalFansOutAndContinues(t *testing.T) {
	ctx := context.Background()
	f := newFixture(models.User{TelegramID: user1})
	f.notifier.failTo[owner] = true

	d, err := f.m.RequestApproval(ctx, Request{
		UserID:      user1,
		FullName:    "Ali <Valiyev>",
		PlanID:      plan30,
		ProofFileID: "proof-1",
		AnimeTitle:  "Naruto",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, d.RequestID)
	assert.Equal(t, 2, d.Admins)
	assert.Equal(t, 1, d.Sent)
	assert.Equal(t, 1, d.Failed)

	require.Len(t, f.notifier.sent, 1)
	got := f.notifier.sent[0]
	assert.Equal(t, admin, got.to)
	assert.Equal(t, "proof-1", got.fileID)
	assert.Contains(t, got.text, "YANGI VIP ZAYAVKA")
	assert.Contains(t, got.text, "Naruto")
	assert.NotContains(t, got.text, "<Valiyev>")

	require.Len(t, got.keyboard, 1)
	require.Len(t, got.keyboard[0], 2)
	assert.Equal(t, "vip_approve:100:1", got.keyboard[0][0].Data)
	assert.Equal(t, "vip_reject:100", got.keyboard[0][1].Data)
	assert.Zero(t, f.users.updates)
}

func TestRequestApprovalValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(models.User{TelegramID: user1})

	_, err := f.m.RequestApproval(ctx, Request{UserID: user1, PlanID: plan30})
	assert.True(t, errors.IsKind(err, errors.KindValidation))

	_, err = f.m.RequestApproval(ctx, Request{UserID: user1, PlanID: 77, ProofFileID: "p"})
	assert.True(t, errors.IsKind(err, errors.KindNotFound))
	assert.Empty(t, f.notifier.sent)
}

func TestStoreErrorsPropagate(t *testing.T) {
	f := newFixture(models.User{TelegramID: user1})
	f.users.err = errors.Persistence(stderrors.New("disk I/O error"), "Ma'lumotlar bazasida xatolik")

	_, err := f.m.IsActive(context.Background(), user1)
	assert.True(t, errors.IsKind(err, errors.KindPersistence))
	_, err = f.m.Reconcile(context.Background(), user1)
	assert.True(t, errors.IsKind(err, errors.KindPersistence))
}

func TestStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(models.User{TelegramID: user1, IsVIP: true, VipExpireDate: strptr("2026-02-01 00:00:00")})

	u, active, err := f.m.Status(ctx, user1)
	require.NoError(t, err)
	assert.False(t, active)
	assert.False(t, u.IsVIP)

	_, _, err = f.m.Status(ctx, 555)
	assert.True(t, errors.IsKind(err, errors.KindNotFound))
}
