package admin

import (
	"context"
	"fmt"

	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/pkg/broadcast"
	"github.com/PancyStudios/AnimeBotGo/pkg/callback"
	"github.com/PancyStudios/AnimeBotGo/pkg/errors"
	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
	"github.com/PancyStudios/AnimeBotGo/pkg/telegram"
	"github.com/PancyStudios/AnimeBotGo/pkg/wizard"
	tele "gopkg.in/telebot.v3"
)

// WizardBroadcast copies one message to every user
const WizardBroadcast = "broadcast"

// broadcaster previews a message and starts the delivery in the background
type broadcaster interface {
	Preview(ctx context.Context, fromChat int64, messageID int) error
	// Start returns the number of recipients once the run has been scheduled
	Start(ctx context.Context, admin, fromChat int64, messageID int) (int, error)
}

func createBroadcastCommand(s *app.Services) *telegram.Command {
	return telegram.NewCommand("broadcast", "Hammaga xabar yuborish", "admin", func(c tele.Context) error {
		return s.Flow.Start(c, WizardBroadcast, nil)
	}).WithAliases(app.BtnBroadcast)
}

func broadcastCallback(s *app.Services) telegram.CallbackFunc {
	return func(c tele.Context, _ callback.Payload) error {
		return s.Flow.Start(c, WizardBroadcast, nil)
	}
}

// BroadcastWizard takes any message, echoes it back as a preview and waits for
// confirmation before the delivery starts
func BroadcastWizard(b broadcaster) *wizard.Wizard {
	return &wizard.Wizard{
		ID: WizardBroadcast,
		Steps: []wizard.Step{
			{
				Name:     "msg",
				Prompt:   wizard.Ask("<b>📤 Xabar yuborish</b>\n\n▸ Barcha foydalanuvchilarga yuboriladigan xabarni yuboring (matn, rasm, video...):"),
				Validate: wizard.Message("msg"),
				Check: func(ctx context.Context, v wizard.Values) error {
					if err := b.Preview(ctx, v.Int64("msg_chat_id"), v.Int("msg_message_id")); err != nil {
						return errors.Validation("Bu xabarni nusxalab bo'lmadi. Boshqa xabar yuboring.")
					}
					return nil
				},
			},
			{
				Name:     "confirm",
				Prompt:   wizard.Ask("☝️ Xabar yuqorida ko'rsatilgandek yuboriladi.\n\nDavom etasizmi?", app.BtnAgree),
				Validate: wizard.Keyword(app.BtnAgree, wizard.Values{"confirmed": true}),
			},
		},
		Commit: func(ctx context.Context, identity int64, v wizard.Values) (wizard.Prompt, error) {
			n, err := b.Start(ctx, identity, v.Int64("msg_chat_id"), v.Int("msg_message_id"))
			if err != nil {
				return wizard.Prompt{}, err
			}
			if n == 0 {
				return wizard.Prompt{Text: "ℹ️ Hozircha foydalanuvchilar yo'q."}, nil
			}
			return wizard.Prompt{Text: fmt.Sprintf("🚀 <b>Yuborish boshlandi!</b>\n\n▸ Qabul qiluvchilar: %d", n)}, nil
		},
	}
}

// runner delivers broadcasts through the shared services
type runner struct {
	s *app.Services
}

func newBroadcaster(s *app.Services) broadcaster {
	return &runner{s: s}
}

func (r *runner) Preview(ctx context.Context, fromChat int64, messageID int) error {
	return r.s.Notifier.Copy(ctx, fromChat, fromChat, messageID)
}

func (r *runner) Start(ctx context.Context, admin, fromChat int64, messageID int) (int, error) {
	ids, err := r.s.Users.IDs(ctx)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	bot := r.s.Client.Bot
	status, err := bot.Send(tele.ChatID(admin), broadcast.ProgressText(broadcast.Report{Total: len(ids)}), tele.ModeHTML)
	if err != nil {
		logger.Warn(fmt.Sprintf("No se pudo enviar el estado del broadcast: %v", err), "Admin")
	}

	go func() {
		defer errors.RecoverMiddleware("broadcast")()
		report, err := r.s.Broadcast.Run(context.Background(), ids, fromChat, messageID, func(rep broadcast.Report) {
			if status == nil {
				return
			}
			if _, err := bot.Edit(status, broadcast.ProgressText(rep), tele.ModeHTML); err != nil {
				logger.Debug(fmt.Sprintf("Progreso del broadcast no actualizado: %v", err), "Admin")
			}
		})
		if err != nil {
			logger.Error(fmt.Sprintf("Broadcast interrumpido: %v", err), "Admin")
		}
		if err := r.s.Notifier.SendText(context.Background(), admin, broadcast.SummaryText(report)); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo enviar el resumen del broadcast a %d: %v", admin, err), "Admin")
		}
	}()
	return len(ids), nil
}
