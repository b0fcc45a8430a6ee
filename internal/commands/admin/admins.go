package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/pkg/admins"
	"github.com/PancyStudios/AnimeBotGo/pkg/callback"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"github.com/PancyStudios/AnimeBotGo/pkg/sanitize"
	"github.com/PancyStudios/AnimeBotGo/pkg/telegram"
	"github.com/PancyStudios/AnimeBotGo/pkg/wizard"
	tele "gopkg.in/telebot.v3"
)

// WizardAddAdmin promotes a user to admin
const WizardAddAdmin = "add_admin"

type adminAdder interface {
	Add(ctx context.Context, actor int64, admin models.Admin) error
}

// adminListCallback is admin_list
func adminListCallback(s *app.Services) telegram.CallbackFunc {
	return func(c tele.Context, _ callback.Payload) error {
		ctx, cancel := app.Context()
		defer cancel()
		stored, err := s.Admins.List(ctx)
		if err != nil {
			return telegram.ReplyError(c, err)
		}
		return app.Show(c, AdminsText(s.Config.AdminIDs, stored), app.Markup(AdminsKeyboard(s.Config.AdminIDs, stored)))
	}
}

// AdminsText lists owners and stored admins
func AdminsText(owners []int64, stored []models.Admin) string {
	var b strings.Builder
	b.WriteString("<b>👥 Adminlar Boshqaruvi</b>\n" + app.Separator + "\n\n")
	fmt.Fprintf(&b, "Asosiy adminlar: %d\nQo'shimcha adminlar: %d\n\nBatafsil ko'rish uchun adminni tanlang:", len(owners), len(stored))
	return b.String()
}

// AdminsKeyboard has a button per admin, owners marked with a crown
func AdminsKeyboard(owners []int64, stored []models.Admin) callback.Keyboard {
	kb := make(callback.Keyboard, 0, len(owners)+len(stored)+2)
	for _, id := range owners {
		kb = append(kb, callback.Row(callback.Btn(fmt.Sprintf("👑 %d", id), callback.AdminView, id)))
	}
	for _, a := range stored {
		kb = append(kb, callback.Row(callback.Btn("👤 "+sanitize.Truncate(admins.Label(a), titleLimit), callback.AdminView, a.TelegramID)))
	}
	kb = append(kb, callback.Row(callback.Btn("➕ Admin qo'shish", callback.AdminAdd)))
	return append(kb, backToDashboard())
}

// adminViewCallback is admin_view:<telegram id>
func adminViewCallback(s *app.Services) telegram.CallbackFunc {
	return func(c tele.Context, p callback.Payload) error {
		id, err := p.Int64(0)
		if err != nil {
			return nil
		}
		back := callback.Row(callback.Btn("⬅️ Orqaga", callback.AdminList))
		if s.Admins.IsOwner(id) {
			return app.Show(c, fmt.Sprintf("<b>👑 Asosiy admin</b>\n\n🆔 <code>%d</code>\n\nBu admin konfiguratsiyada belgilangan va o'chirib bo'lmaydi.", id),
				app.Markup(callback.Keyboard{back}))
		}
		kb := callback.Keyboard{
			callback.Row(callback.Btn("🗑 Adminlikdan olish", callback.AdminDelete, id)),
			back,
		}
		return app.Show(c, fmt.Sprintf("<b>👤 Admin</b>\n\n🆔 <code>%d</code>", id), app.Markup(kb))
	}
}

// adminDeleteCallback is admin_delete:<telegram id>
func adminDeleteCallback(s *app.Services) telegram.CallbackFunc {
	return func(c tele.Context, p callback.Payload) error {
		id, err := p.Int64(0)
		if err != nil {
			return nil
		}
		ctx, cancel := app.Context()
		defer cancel()
		if err := s.Admins.Remove(ctx, c.Sender().ID, id); err != nil {
			return telegram.ReplyError(c, err)
		}
		return app.Show(c, fmt.Sprintf("✔ <code>%d</code> adminlikdan olindi.", id),
			app.Markup(callback.Keyboard{callback.Row(callback.Btn("⬅️ Orqaga", callback.AdminList))}))
	}
}

// adminAddCallback is admin_add
func adminAddCallback(s *app.Services) telegram.CallbackFunc {
	return func(c tele.Context, _ callback.Payload) error {
		return s.Flow.Start(c, WizardAddAdmin, nil)
	}
}

// AddAdminWizard asks for the telegram id and a display name
func AddAdminWizard(registry adminAdder) *wizard.Wizard {
	return &wizard.Wizard{
		ID: WizardAddAdmin,
		Steps: []wizard.Step{
			{
				Name:     "telegram_id",
				Prompt:   wizard.Ask("▸ Yangi adminning Telegram ID raqamini kiriting:"),
				Validate: wizard.Int64("telegram_id"),
			},
			{
				Name:     "full_name",
				Prompt:   wizard.Ask("▸ Admin ismini kiriting:", app.BtnSkip),
				Validate: wizard.Optional(wizard.Text("full_name"), app.BtnSkip, wizard.Values{"full_name": ""}),
			},
		},
		Commit: func(ctx context.Context, identity int64, v wizard.Values) (wizard.Prompt, error) {
			a := models.Admin{
				TelegramID: v.Int64("telegram_id"),
				FullName:   sanitize.Plain(v.String("full_name")),
				Role:       "admin",
			}
			if err := registry.Add(ctx, identity, a); err != nil {
				return wizard.Prompt{}, err
			}
			return wizard.Prompt{Text: fmt.Sprintf("✔ <b>%s</b> admin qilib tayinlandi!", sanitize.Text(admins.Label(a)))}, nil
		},
	}
}
