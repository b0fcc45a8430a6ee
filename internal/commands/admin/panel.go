package admin

import (
	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/pkg/callback"
	"github.com/PancyStudios/AnimeBotGo/pkg/telegram"
	tele "gopkg.in/telebot.v3"
)

const (
	panelText = "<b>🛠 Admin panel</b>\n" + app.Separator + "\n\n" +
		"Quyidagi tugmalar orqali botni boshqaring."
	dashboardText = "<b>🛠 Admin Dashbord</b>\n" + app.Separator + "\n\n" +
		"Botni boshqarish va sozlash uchun quyidagi bo'limlardan birini tanlang:"
)

func createPanelCommand() *telegram.Command {
	return telegram.NewCommand(
		"admin",
		"Admin panel",
		"admin",
		func(c tele.Context) error {
			return c.Send(panelText, app.AdminMenu())
		},
	)
}

func createDashboardCommand(s *app.Services) *telegram.Command {
	return telegram.NewCommand(
		"dashboard",
		"Boshqaruv paneli",
		"admin",
		func(c tele.Context) error {
			return c.Send(dashboardText, app.Markup(DashboardKeyboard()))
		},
	).WithAliases(app.BtnDashboard)
}

func dashboardCallback(c tele.Context, _ callback.Payload) error {
	return app.Show(c, dashboardText, app.Markup(DashboardKeyboard()))
}

// DashboardKeyboard is the inline root of the dashboard
func DashboardKeyboard() callback.Keyboard {
	return app.Grid([]callback.Button{
		callback.Btn("⚙️ Bot Sozlamalari", callback.Setting),
		callback.Btn("👥 Adminlar Boshqaruvi", callback.AdminList),
		callback.Btn("📊 Statistika", callback.Stats),
		callback.Btn("📤 Xabar yuborish", callback.Broadcast),
	}, 2)
}

// backToDashboard is the last row of every dashboard screen
func backToDashboard() []callback.Button {
	return callback.Row(callback.Btn("⬅️ Orqaga", callback.AdminPanel))
}
