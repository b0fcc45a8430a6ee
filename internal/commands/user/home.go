package user

import (
	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/pkg/callback"
	"github.com/PancyStudios/AnimeBotGo/pkg/telegram"
	tele "gopkg.in/telebot.v3"
)

const (
	homeText      = "<b>🏠 Bosh sahifa</b>\n\nKerakli bo'limni tanlang:"
	userPanelText = "👤 <b>Foydalanuvchi paneli</b>"
	subsOKText    = "<b>✅ Obuna tasdiqlandi!</b>\n\nFoydalanishda davom eting."
)

func createHomeCommand(s *app.Services) *telegram.Command {
	return telegram.NewCommand(
		"menu",
		"Bosh menyu",
		"user",
		func(c tele.Context) error { return c.Send(homeText, s.Menu(c)) },
	).WithAliases(app.BtnHome, app.BtnBack)
}

// createUserPanelCommand lets an admin switch to the subscriber keyboard
func createUserPanelCommand() *telegram.Command {
	return telegram.NewCommand(
		"user_panel",
		"",
		"user",
		func(c tele.Context) error { return c.Send(userPanelText, app.UserMenu()) },
	).WithAliases(app.BtnUserPanel).AsHidden()
}

func createCancelCommand(s *app.Services) *telegram.Command {
	return telegram.NewCommand(
		"cancel",
		"Joriy amalni bekor qilish",
		"user",
		s.Flow.Cancel,
	).WithAliases(telegram.CancelLabel)
}

func backToMenuCallback(s *app.Services) telegram.CallbackFunc {
	return func(c tele.Context, _ callback.Payload) error {
		_ = c.Delete()
		return c.Send(homeText, s.Menu(c))
	}
}

// checkSubsCallback only runs once the subscription middleware let the press through
func checkSubsCallback(s *app.Services) telegram.CallbackFunc {
	return func(c tele.Context, _ callback.Payload) error {
		_ = c.Delete()
		return c.Send(subsOKText, s.Menu(c))
	}
}

func noopCallback(tele.Context, callback.Payload) error {
	return nil
}
