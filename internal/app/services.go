// Package app wires the stores, the VIP lifecycle and the Telegram client into the
// dependency set every command and event handler receives.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/AnimeBotGo/pkg/access"
	"github.com/PancyStudios/AnimeBotGo/pkg/admins"
	"github.com/PancyStudios/AnimeBotGo/pkg/broadcast"
	"github.com/PancyStudios/AnimeBotGo/pkg/config"
	"github.com/PancyStudios/AnimeBotGo/pkg/database"
	"github.com/PancyStudios/AnimeBotGo/pkg/eventbus"
	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
	"github.com/PancyStudios/AnimeBotGo/pkg/metrics"
	"github.com/PancyStudios/AnimeBotGo/pkg/telegram"
	"github.com/PancyStudios/AnimeBotGo/pkg/vip"
	"github.com/PancyStudios/AnimeBotGo/pkg/wizard"
	"github.com/patrickmn/go-cache"
	tele "gopkg.in/telebot.v3"
)

// handlerTimeout bounds the store calls of one update
const handlerTimeout = 15 * time.Second

// broadcastRate stays under Telegram's 30 messages per second
const broadcastRate = 25

// Services is the dependency set of the handlers
type Services struct {
	Config    *config.Config
	Client    *telegram.Client
	Flow      *telegram.Flow
	Machine   *wizard.Machine
	Admins    *admins.Registry
	VIP       *vip.Manager
	Gate      *access.Gate
	Notifier  *telegram.Notifier
	Broadcast *broadcast.Runner
	Events    eventbus.Publisher
	Metrics   *metrics.Collector
	Database  *database.Database

	Users     *database.UserStore
	Anime     *database.AnimeStore
	Episodes  *database.EpisodeStore
	Favorites *database.FavoriteStore
	Comments  *database.CommentStore
	Plans     *database.PlanStore
	Settings  *database.SettingsStore
	Channels  *database.ChannelStore
	Shorts    *database.ShortStore
	Stats     *database.StatsStore

	searches *cache.Cache
}

// Options are the already-connected pieces New builds on
type Options struct {
	Config   *config.Config
	Database *database.Database
	Client   *telegram.Client
	States   wizard.Repository
	Events   eventbus.Publisher
	Metrics  *metrics.Collector
}

// New builds the handler dependencies. Events and Metrics may be nil.
func New(o Options) (*Services, error) {
	if o.Config == nil || o.Database == nil || o.Client == nil || o.States == nil {
		return nil, fmt.Errorf("app: config, database, client and states are required")
	}
	policy, err := wizard.ParsePolicy(o.Config.WizardPolicy)
	if err != nil {
		return nil, err
	}
	events := o.Events
	if events == nil {
		events = eventbus.Nop{}
	}

	gdb := o.Database.Gorm()
	s := &Services{
		Config:    o.Config,
		Client:    o.Client,
		Events:    events,
		Metrics:   o.Metrics,
		Database:  o.Database,
		Users:     database.NewUserStore(gdb),
		Anime:     database.NewAnimeStore(gdb),
		Episodes:  database.NewEpisodeStore(gdb),
		Favorites: database.NewFavoriteStore(gdb),
		Comments:  database.NewCommentStore(gdb),
		Plans:     database.NewPlanStore(gdb),
		Settings:  database.NewSettingsStore(gdb),
		Channels:  database.NewChannelStore(gdb),
		Shorts:    database.NewShortStore(gdb),
		Stats:     database.NewStatsStore(o.Database.SQLX()),
		searches:  cache.New(o.Config.ConversationTTL, 2*o.Config.ConversationTTL),
	}

	s.Admins = admins.New(o.Config.AdminIDs, database.NewAdminStore(gdb), time.Minute)
	s.Notifier = telegram.NewNotifier(o.Client.Bot)
	s.VIP = vip.NewManager(s.Users, s.Plans, s.Admins, s.Notifier,
		vip.WithEvents(events), vip.WithMetrics(o.Metrics))
	s.Gate = access.NewGate(s.VIP, o.Metrics)
	s.Broadcast = broadcast.NewRunner(s.Notifier, broadcastRate,
		broadcast.WithEvents(events), broadcast.WithMetrics(o.Metrics))

	s.Machine = wizard.NewMachine(o.States,
		wizard.WithPolicy(policy),
		wizard.WithObserver(o.Metrics.RecordWizard),
	)
	s.Flow = &telegram.Flow{Machine: s.Machine, Menu: s.Menu}

	logger.System(fmt.Sprintf("Servicios listos (política de wizard: %s, admins fijos: %d)", o.Config.WizardPolicy, len(o.Config.AdminIDs)), "App")
	return s, nil
}

// Context returns the per-update context handlers pass to the stores
func Context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), handlerTimeout)
}

// IsAdmin reports whether the sender of c is an admin. Lookup errors count as no.
func (s *Services) IsAdmin(c tele.Context) bool {
	sender := c.Sender()
	if sender == nil {
		return false
	}
	ctx, cancel := Context()
	defer cancel()
	ok, err := s.Admins.IsAdmin(ctx, sender.ID)
	if err != nil {
		logger.Warn(fmt.Sprintf("No se pudo comprobar admin %d: %v", sender.ID, err), "App")
		return false
	}
	return ok
}

// AdminGuard is the middleware for admin-only commands and buttons
func (s *Services) AdminGuard() tele.MiddlewareFunc {
	return telegram.AdminOnly(s.Admins)
}

// BotLink is the t.me deep link for payload
func (s *Services) BotLink(payload string) string {
	username := ""
	if me := s.Client.Bot.Me; me != nil {
		username = me.Username
	}
	return fmt.Sprintf("https://t.me/%s?start=%s", username, payload)
}
