package admin

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/pkg/callback"
	"github.com/PancyStudios/AnimeBotGo/pkg/database"
	"github.com/PancyStudios/AnimeBotGo/pkg/sanitize"
	"github.com/PancyStudios/AnimeBotGo/pkg/telegram"
	tele "gopkg.in/telebot.v3"
)

const topLimit = 5

func createStatsCommand(s *app.Services) *telegram.Command {
	return telegram.NewCommand("stats", "Bot statistikasi", "admin", func(c tele.Context) error {
		text, err := statsText(s)
		if err != nil {
			return telegram.ReplyError(c, err)
		}
		return c.Send(text)
	}).WithAliases(app.BtnStats)
}

func statsCallback(s *app.Services) telegram.CallbackFunc {
	return func(c tele.Context, _ callback.Payload) error {
		text, err := statsText(s)
		if err != nil {
			return telegram.ReplyError(c, err)
		}
		return app.Show(c, text, app.Markup(callback.Keyboard{
			callback.Row(callback.Btn("🔄 Yangilash", callback.Stats)),
			backToDashboard(),
		}))
	}
}

func statsText(s *app.Services) (string, error) {
	ctx, cancel := app.Context()
	defer cancel()
	o, err := s.Stats.Overview(ctx)
	if err != nil {
		return "", err
	}
	top, err := s.Stats.TopAnime(ctx, topLimit)
	if err != nil {
		return "", err
	}
	return StatsText(o, top), nil
}

// StatsText renders the counters and the most viewed anime
func StatsText(o *database.Overview, top []database.TopAnime) string {
	var b strings.Builder
	b.WriteString("<b>📊 Bot statistikasi</b>\n" + app.Separator + "\n\n")
	fmt.Fprintf(&b, "👥 Foydalanuvchilar: <b>%d</b>\n", o.TotalUsers)
	fmt.Fprintf(&b, "💎 VIP: <b>%d</b>\n", o.VIPUsers)
	fmt.Fprintf(&b, "🎬 Animelar: <b>%d</b>\n", o.TotalAnime)
	fmt.Fprintf(&b, "📺 Qismlar: <b>%d</b>\n", o.TotalEpisodes)
	fmt.Fprintf(&b, "👁 Ko'rishlar: <b>%d</b>\n", o.TotalViews)
	fmt.Fprintf(&b, "🎞 Shorts: <b>%d</b>\n", o.TotalShorts)
	fmt.Fprintf(&b, "💬 Izohlar: <b>%d</b>\n", o.TotalComments)
	fmt.Fprintf(&b, "⭐️ Sevimlilar: <b>%d</b>\n", o.TotalFavorites)
	if len(top) > 0 {
		b.WriteString("\n<b>🔥 Top animelar:</b>\n")
		for i, a := range top {
			fmt.Fprintf(&b, "%d. %s (👁 %d)\n", i+1, sanitize.Text(a.Title), a.Views)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
