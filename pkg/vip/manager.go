// Package vip owns the VIP grant of an identity: whether it is active right now, lazy
// demotion once it expired, activation from a plan and the admin approval handshake
// for a payment screenshot.
//
// The users table keeps the flag and the expiry denormalized. Only this package writes
// them.
package vip

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PancyStudios/AnimeBotGo/pkg/admins"
	"github.com/PancyStudios/AnimeBotGo/pkg/callback"
	"github.com/PancyStudios/AnimeBotGo/pkg/errors"
	"github.com/PancyStudios/AnimeBotGo/pkg/eventbus"
	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
	"github.com/PancyStudios/AnimeBotGo/pkg/metrics"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"github.com/google/uuid"
)

const notifyTimeout = 10 * time.Second

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock
var SystemClock Clock = ClockFunc(time.Now)

// UserStore is the part of the user table the manager needs
type UserStore interface {
	Get(ctx context.Context, telegramID int64) (*models.User, error)
	UpdateVIP(ctx context.Context, telegramID int64, isVIP bool, expire *string) error
}

// PlanStore looks up VIP plans
type PlanStore interface {
	Get(ctx context.Context, id uint) (*models.VipPlan, error)
}

// Notifier delivers messages to identities. Implementations must respect ctx.
type Notifier interface {
	SendText(ctx context.Context, to int64, text string) error
	SendPhoto(ctx context.Context, to int64, fileID, caption string, keyboard callback.Keyboard) error
}

// Outcome of Reconcile
type Outcome int

const (
	Unchanged Outcome = iota
	Demoted
)

func (o Outcome) String() string {
	if o == Demoted {
		return "demoted"
	}
	return "unchanged"
}

// Request is a submitted payment proof waiting for an admin
type Request struct {
	UserID      int64
	FullName    string
	Username    string
	PlanID      uint
	ProofFileID string
	// AnimeTitle is the anime the user was looking at when they opened the plans, if any
	AnimeTitle string
}

// Delivery reports how the approval request fan-out went
type Delivery struct {
	RequestID string
	Admins    int
	Sent      int
	Failed    int
}

// Manager implements the VIP lifecycle
type Manager struct {
	users    UserStore
	plans    PlanStore
	admins   admins.Directory
	notifier Notifier
	clock    Clock
	events   eventbus.Publisher
	metrics  *metrics.Collector
}

// Option configures a Manager
type Option func(*Manager)

func WithClock(c Clock) Option {
	return func(m *Manager) { m.clock = c }
}

func WithEvents(p eventbus.Publisher) Option {
	return func(m *Manager) { m.events = p }
}

func WithMetrics(c *metrics.Collector) Option {
	return func(m *Manager) { m.metrics = c }
}

// NewManager creates a Manager
func NewManager(users UserStore, plans PlanStore, dir admins.Directory, notifier Notifier, opts ...Option) *Manager {
	m := &Manager{
		users:    users,
		plans:    plans,
		admins:   dir,
		notifier: notifier,
		clock:    SystemClock,
		events:   eventbus.Nop{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// IsActive reports whether u holds a VIP grant at now. A missing or unparseable
// expiry counts as inactive.
func IsActive(u *models.User, now time.Time) bool {
	if u == nil || !u.IsVIP || u.VipExpireDate == nil {
		return false
	}
	expiry, err := ParseExpiry(*u.VipExpireDate, now.Location())
	if err != nil {
		return false
	}
	return now.Before(expiry)
}

// ParseExpiry reads a stored expiry in loc
func ParseExpiry(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(models.ExpiryLayout, strings.TrimSpace(s), loc)
}

// FormatExpiry renders t the way it is stored
func FormatExpiry(t time.Time) string {
	return t.Format(models.ExpiryLayout)
}

// IsActive looks the identity up and applies IsActive. Unknown identities are inactive.
func (m *Manager) IsActive(ctx context.Context, telegramID int64) (bool, error) {
	u, err := m.users.Get(ctx, telegramID)
	if errors.IsKind(err, errors.KindNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return IsActive(u, m.clock.Now()), nil
}

// Reconcile clears the flag and expiry of an identity whose grant is no longer active
func (m *Manager) Reconcile(ctx context.Context, telegramID int64) (Outcome, error) {
	_, outcome, err := m.reconcile(ctx, telegramID)
	return outcome, err
}

// Status reconciles and returns the identity together with its VIP state
func (m *Manager) Status(ctx context.Context, telegramID int64) (*models.User, bool, error) {
	u, _, err := m.reconcile(ctx, telegramID)
	if err != nil {
		return nil, false, err
	}
	if u == nil {
		return nil, false, errors.NotFound("Foydalanuvchi topilmadi")
	}
	return u, IsActive(u, m.clock.Now()), nil
}

func (m *Manager) reconcile(ctx context.Context, telegramID int64) (*models.User, Outcome, error) {
	u, err := m.users.Get(ctx, telegramID)
	if errors.IsKind(err, errors.KindNotFound) {
		return nil, Unchanged, nil
	}
	if err != nil {
		return nil, Unchanged, err
	}
	if !u.IsVIP || IsActive(u, m.clock.Now()) {
		return u, Unchanged, nil
	}

	if err := m.users.UpdateVIP(ctx, telegramID, false, nil); err != nil {
		return nil, Unchanged, err
	}
	previous := u.VipExpireDate
	u.IsVIP = false
	u.VipExpireDate = nil

	logger.Info(fmt.Sprintf("VIP de %d expirado, degradado", telegramID), "VIP")
	m.metrics.RecordVIP("demoted")
	m.events.Publish(eventbus.VIPDemoted, map[string]interface{}{
		"user_id":     telegramID,
		"expire_date": previous,
	})
	return u, Demoted, nil
}

// Activate grants plan planID from now. An existing grant is overwritten, never
// extended.
func (m *Manager) Activate(ctx context.Context, telegramID int64, planID uint) (time.Time, error) {
	_, expiry, err := m.activate(ctx, telegramID, planID, "")
	return expiry, err
}

func (m *Manager) activate(ctx context.Context, telegramID int64, planID uint, correlation string) (*models.VipPlan, time.Time, error) {
	plan, err := m.plans.Get(ctx, planID)
	if err != nil {
		return nil, time.Time{}, err
	}
	if plan.DurationDays < 1 {
		return nil, time.Time{}, errors.Validation("Tarif muddati noto'g'ri")
	}

	expiry := m.clock.Now().AddDate(0, 0, plan.DurationDays).Truncate(time.Second)
	stored := FormatExpiry(expiry)
	if err := m.users.UpdateVIP(ctx, telegramID, true, &stored); err != nil {
		return nil, time.Time{}, err
	}

	logger.Success(fmt.Sprintf("VIP activado para %d con el plan %q hasta %s %s", telegramID, plan.Name, stored, correlation), "VIP")
	m.metrics.RecordVIP("activated")
	m.events.Publish(eventbus.VIPActivated, map[string]interface{}{
		"user_id":     telegramID,
		"plan_id":     plan.ID,
		"plan":        plan.Name,
		"expire_date": stored,
		"correlation": correlation,
	})
	return plan, expiry, nil
}

// RequestApproval sends the proof to every admin with approve and reject buttons.
// A failed send to one admin never stops the others.
func (m *Manager) RequestApproval(ctx context.Context, req Request) (Delivery, error) {
	d := Delivery{RequestID: uuid.NewString()}
	if req.ProofFileID == "" {
		return d, errors.Validation("To'lov chekini rasm sifatida yuboring")
	}
	plan, err := m.plans.Get(ctx, req.PlanID)
	if err != nil {
		return d, err
	}
	ids, err := m.admins.All(ctx)
	if err != nil {
		return d, err
	}

	caption := RequestCaption(req, plan, m.clock.Now())
	keyboard := ApprovalKeyboard(req.UserID, plan.ID)
	d.Admins = len(ids)

	for _, adminID := range ids {
		sendCtx, cancel := context.WithTimeout(ctx, notifyTimeout)
		err := m.notifier.SendPhoto(sendCtx, adminID, req.ProofFileID, caption, keyboard)
		cancel()
		if err != nil {
			d.Failed++
			logger.Warn(fmt.Sprintf("No se pudo enviar la solicitud VIP %s al admin %d: %v", d.RequestID, adminID, err), "VIP")
			continue
		}
		d.Sent++
	}

	logger.Info(fmt.Sprintf("Solicitud VIP %s de %d (plan %d): %d/%d admins", d.RequestID, req.UserID, plan.ID, d.Sent, d.Admins), "VIP")
	m.metrics.RecordVIP("requested")
	m.events.Publish(eventbus.VIPRequested, map[string]interface{}{
		"request_id": d.RequestID,
		"user_id":    req.UserID,
		"plan_id":    plan.ID,
		"sent":       d.Sent,
		"failed":     d.Failed,
	})
	return d, nil
}

// Approve activates the plan for telegramID on behalf of adminID and tells the user.
// The activation stands even when the user cannot be notified.
func (m *Manager) Approve(ctx context.Context, adminID, telegramID int64, planID uint) (time.Time, error) {
	if err := m.authorize(ctx, adminID); err != nil {
		return time.Time{}, err
	}
	correlation := uuid.NewString()
	plan, expiry, err := m.activate(ctx, telegramID, planID, correlation)
	if err != nil {
		return time.Time{}, err
	}
	logger.Info(fmt.Sprintf("Aprobación %s: admin %d -> usuario %d", correlation, adminID, telegramID), "VIP")
	m.notify(ctx, telegramID, ActivatedText(plan, expiry))
	return expiry, nil
}

// Reject tells telegramID their request was declined. Nothing is stored.
func (m *Manager) Reject(ctx context.Context, adminID, telegramID int64) error {
	if err := m.authorize(ctx, adminID); err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("Solicitud VIP de %d rechazada por %d", telegramID, adminID), "VIP")
	m.metrics.RecordVIP("rejected")
	m.events.Publish(eventbus.VIPRejected, map[string]interface{}{
		"user_id":  telegramID,
		"admin_id": adminID,
	})
	m.notify(ctx, telegramID, RejectedText)
	return nil
}

func (m *Manager) authorize(ctx context.Context, adminID int64) error {
	ok, err := m.admins.IsAdmin(ctx, adminID)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Authorization("Bu amal faqat adminlar uchun")
	}
	return nil
}

func (m *Manager) notify(ctx context.Context, to int64, text string) {
	sendCtx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	if err := m.notifier.SendText(sendCtx, to, text); err != nil {
		m.metrics.RecordVIP("notify_failed")
		logger.Warn(fmt.Sprintf("No se pudo notificar a %d: %v", to, err), "VIP")
	}
}
