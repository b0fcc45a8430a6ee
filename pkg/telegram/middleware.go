package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/AnimeBotGo/pkg/admins"
	"github.com/PancyStudios/AnimeBotGo/pkg/callback"
	"github.com/PancyStudios/AnimeBotGo/pkg/errors"
	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
	"github.com/PancyStudios/AnimeBotGo/pkg/metrics"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v3"
)

// UserRegistrar records every identity that talks to the bot
type UserRegistrar interface {
	Upsert(ctx context.Context, telegramID int64, fullName, username string) (*models.User, error)
}

// SettingReader reads ON/OFF settings
type SettingReader interface {
	Bool(ctx context.Context, key string) bool
}

// ChannelLister lists the mandatory subscription channels
type ChannelLister interface {
	List(ctx context.Context) ([]models.Channel, error)
}

// MemberChecker reports whether userID is subscribed to channelID
type MemberChecker func(channelID, userID int64) (bool, error)

const middlewareTimeout = 5 * time.Second

// Recover turns a handler panic into a generic reply and an anti-crash count
func Recover() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					if h := errors.Get(); h != nil {
						h.HandlePanic(r, "update:"+UpdateKind(c))
					} else {
						logger.Error(fmt.Sprintf("Panic recovered (no handler): %v", r), "AntiCrash")
					}
					err = nil
					_ = c.Send(genericFailure)
				}
			}()
			return next(c)
		}
	}
}

// Logging debug-logs every update and records its kind and latency
func Logging(m *metrics.Collector) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			kind := UpdateKind(c)
			m.RecordUpdate(kind)

			if sender := c.Sender(); sender != nil {
				switch kind {
				case "callback":
					logger.Debug(fmt.Sprintf("Callback | user_id=%d | data=%s", sender.ID, c.Callback().Data), "Updates")
				case "text":
					text := []rune(c.Text())
					if len(text) > 50 {
						text = text[:50]
					}
					logger.Debug(fmt.Sprintf("Mensaje | user_id=%d | text=%s", sender.ID, string(text)), "Updates")
				default:
					logger.Debug(fmt.Sprintf("Mensaje | user_id=%d | [%s]", sender.ID, kind), "Updates")
				}
			}

			start := time.Now()
			err := next(c)
			m.ObserveHandler(time.Since(start).Seconds())
			return err
		}
	}
}

// RegisterUser upserts the sender before any handler runs
func RegisterUser(store UserRegistrar) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil || sender.IsBot {
				return next(c)
			}
			ctx, cancel := context.WithTimeout(context.Background(), middlewareTimeout)
			defer cancel()
			if _, err := store.Upsert(ctx, sender.ID, FullName(sender), sender.Username); err != nil {
				logger.Warn(fmt.Sprintf("No se pudo registrar al usuario %d: %v", sender.ID, err), "Users")
			}
			return next(c)
		}
	}
}

// Throttle lets each non-exempt sender through at most once per every. Excess
// messages are dropped; excess button presses get a short answer.
func Throttle(every time.Duration, exempt func(int64) bool) tele.MiddlewareFunc {
	limiters := cache.New(10*time.Minute, 20*time.Minute)
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil || every <= 0 || (exempt != nil && exempt(sender.ID)) {
				return next(c)
			}

			key := fmt.Sprint(sender.ID)
			var limiter *rate.Limiter
			if v, ok := limiters.Get(key); ok {
				limiter = v.(*rate.Limiter)
			} else {
				limiter = rate.NewLimiter(rate.Every(every), 1)
				limiters.SetDefault(key, limiter)
			}

			if !limiter.Allow() {
				logger.Warn(fmt.Sprintf("Throttle | user_id=%d | demasiado rápido", sender.ID), "Throttle")
				if c.Callback() != nil {
					return c.Respond(&tele.CallbackResponse{Text: "⏳ Biroz kuting..."})
				}
				return nil
			}
			return next(c)
		}
	}
}

// MaintenanceText is shown to users while maintenance mode is on
const MaintenanceText = "🛠 <b>TEXNIK ISHLAR</b>\n━━━━━━━━━━━━━━━━━━\n\n" +
	"⚠️ Botda hozirda texnik sozlash ishlari olib borilmoqda.\n\n" +
	"⏳ <i>Iltimos, birozdan so'ng qayta urinib ko'ring. Noqulayliklar uchun uzr so'raymiz!</i>"

// Maintenance blocks everyone except admins while the maintenance_mode setting is ON
func Maintenance(settings SettingReader, dir admins.Directory) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return next(c)
			}
			ctx, cancel := context.WithTimeout(context.Background(), middlewareTimeout)
			defer cancel()

			if !settings.Bool(ctx, models.SettingMaintenanceMode) {
				return next(c)
			}
			if ok, err := dir.IsAdmin(ctx, sender.ID); err == nil && ok {
				return next(c)
			}
			if c.Callback() != nil {
				return c.Respond(&tele.CallbackResponse{Text: "🛠 Texnik ishlar olib borilmoqda", ShowAlert: true})
			}
			return c.Send(MaintenanceText)
		}
	}
}

// SubscriptionText asks the user to join the mandatory channels
const SubscriptionText = "<b>■ Majburiy obuna</b>\n\nBotdan foydalanish uchun quyidagi kanallarga obuna bo'ling:\n"

// Subscription requires membership in every registered channel. A channel that
// cannot be checked is skipped. Admins bypass the check.
func Subscription(channels ChannelLister, isMember MemberChecker, dir admins.Directory) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil || c.Chat() == nil || c.Chat().Type != tele.ChatPrivate {
				return next(c)
			}
			ctx, cancel := context.WithTimeout(context.Background(), middlewareTimeout)
			defer cancel()

			if ok, err := dir.IsAdmin(ctx, sender.ID); err == nil && ok {
				return next(c)
			}
			list, err := channels.List(ctx)
			if err != nil {
				logger.Warn(fmt.Sprintf("No se pudieron leer los canales: %v", err), "Subscription")
				return next(c)
			}

			missing := MissingChannels(list, sender.ID, isMember)
			if len(missing) == 0 {
				return next(c)
			}

			if c.Callback() != nil {
				_ = c.Respond(&tele.CallbackResponse{Text: "❗ Avval kanallarga obuna bo'ling", ShowAlert: true})
			}
			return c.Send(SubscriptionText, Markup(SubscriptionKeyboard(missing)))
		}
	}
}

// MissingChannels returns the channels userID has left or was kicked from
func MissingChannels(list []models.Channel, userID int64, isMember MemberChecker) []models.Channel {
	var missing []models.Channel
	for _, ch := range list {
		ok, err := isMember(ch.ChannelID, userID)
		if err != nil {
			logger.Warn(fmt.Sprintf("Error verificando el canal | channel=%d | error=%v", ch.ChannelID, err), "Subscription")
			continue
		}
		if !ok {
			missing = append(missing, ch)
		}
	}
	return missing
}

// SubscriptionKeyboard links every missing channel plus a re-check button
func SubscriptionKeyboard(missing []models.Channel) callback.Keyboard {
	kb := make(callback.Keyboard, 0, len(missing)+1)
	for _, ch := range missing {
		kb = append(kb, callback.Row(callback.Link("📢 Kanalga o'tish", ch.ChannelLink)))
	}
	return append(kb, callback.Row(callback.Btn("✅ Tekshirish", callback.CheckSubs)))
}

// BotMemberChecker asks the Bot API about a channel membership
func BotMemberChecker(b *tele.Bot) MemberChecker {
	return func(channelID, userID int64) (bool, error) {
		member, err := b.ChatMemberOf(tele.ChatID(channelID), &tele.User{ID: userID})
		if err != nil {
			return false, err
		}
		return member.Role != tele.Left && member.Role != tele.Kicked, nil
	}
}

// AdminOnly lets only admins through. Others get a short notice.
func AdminOnly(dir admins.Directory) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), middlewareTimeout)
			defer cancel()

			ok, err := dir.IsAdmin(ctx, sender.ID)
			if err != nil {
				return ReplyError(c, err)
			}
			if !ok {
				logger.Warn(fmt.Sprintf("Acceso de admin denegado a %d", sender.ID), "Admins")
				return ReplyError(c, errors.Authorization("Bu amal faqat adminlar uchun"))
			}
			return next(c)
		}
	}
}

// UpdateKind names the update for logs and metrics
func UpdateKind(c tele.Context) string {
	if c.Callback() != nil {
		return "callback"
	}
	msg := c.Message()
	if msg == nil {
		return "other"
	}
	switch {
	case msg.Photo != nil:
		return "photo"
	case msg.Video != nil:
		return "video"
	case msg.Text != "":
		return "text"
	default:
		return "other"
	}
}

// FullName joins first and last name
func FullName(u *tele.User) string {
	if u == nil {
		return ""
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
