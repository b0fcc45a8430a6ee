package user

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"github.com/PancyStudios/AnimeBotGo/pkg/sanitize"
	"github.com/PancyStudios/AnimeBotGo/pkg/telegram"
	tele "gopkg.in/telebot.v3"
)

func createProfileCommand(s *app.Services) *telegram.Command {
	return telegram.NewCommand(
		"profile",
		"Mening profilim",
		"user",
		func(c tele.Context) error { return profileHandler(s, c) },
	).WithAliases(app.BtnProfile)
}

// profileHandler expires a lapsed grant before rendering, so the profile never
// shows a VIP that is already over
func profileHandler(s *app.Services, c tele.Context) error {
	ctx, cancel := app.Context()
	defer cancel()

	u, active, err := s.VIP.Status(ctx, c.Sender().ID)
	if err != nil {
		return telegram.ReplyError(c, err)
	}
	return c.Send(ProfileText(u, active))
}

// ProfileText renders the profile card of u
func ProfileText(u *models.User, active bool) string {
	status, expiry := "👤 Oddiy a'zo", "---"
	if active {
		status = "💎 VIP"
		if u.VipExpireDate != nil {
			expiry = *u.VipExpireDate
		}
	}
	username := "---"
	if u.Username != "" {
		username = "@" + sanitize.Text(u.Username)
	}

	var b strings.Builder
	b.WriteString("<b>👤 Mening Profilim</b>\n" + app.Separator + "\n\n")
	fmt.Fprintf(&b, "▸ <b>Ism:</b> %s\n", sanitize.Text(u.FullName))
	fmt.Fprintf(&b, "▸ <b>Username:</b> %s\n", username)
	fmt.Fprintf(&b, "▸ <b>ID:</b> <code>%d</code>\n", u.TelegramID)
	fmt.Fprintf(&b, "▸ <b>Maqom:</b> %s\n", status)
	fmt.Fprintf(&b, "▸ <b>VIP tugash muddati:</b> %s\n", expiry)
	fmt.Fprintf(&b, "▸ <b>A'zo bo'lgan sana:</b> %s\n\n", u.JoinedDate.Format("2006-01-02"))
	b.WriteString("🚀 <i>Anime olamida maroqli vaqt o'tkazing!</i>")
	return b.String()
}
