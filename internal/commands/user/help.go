package user

import (
	"fmt"

	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"github.com/PancyStudios/AnimeBotGo/pkg/sanitize"
	"github.com/PancyStudios/AnimeBotGo/pkg/telegram"
	tele "gopkg.in/telebot.v3"
)

func createHelpCommand(s *app.Services) *telegram.Command {
	return telegram.NewCommand(
		"help",
		"Yordam",
		"user",
		func(c tele.Context) error {
			ctx, cancel := app.Context()
			defer cancel()

			fallback := s.Config.SupportLink
			if fallback == "" {
				fallback = "@AdminUsername"
			}
			support := s.Settings.GetOr(ctx, models.SettingSupportLink, fallback)
			username := ""
			if me := c.Bot().Me; me != nil {
				username = me.Username
			}
			return c.Send(HelpText(support, username))
		},
	).WithAliases(app.BtnHelp)
}

// HelpText is the usage guide with the support contact
func HelpText(support, botUsername string) string {
	return "<b>❓ Yordam — Botdan foydalanish bo'yicha qo'llanma</b>\n" +
		"━━━━━━━━━━━━━━━━━━━━━━\n\n" +
		"🔍 <b>Anime qidirish</b> — Nomi, kodi yoki janri bo'yicha animelarni topishingiz mumkin.\n\n" +
		"📺 <b>Ko'rish</b> — Anime sahifasiga o'tib, 'Tomosha qilish' tugmasini bosing va istalgan qismni tanlang.\n\n" +
		"⭐️ <b>Sevimlilar</b> — O'zingizga yoqqan animelarni saqlab qo'ying va ularga tezda kiring.\n\n" +
		"🎬 <b>Shorts</b> — Qisqa va qiziqarli lavhalarni tomosha qiling.\n\n" +
		"💎 <b>VIP</b> — VIP maqomga ega bo'ling va eng yangi animelarni birinchilardan bo'lib, cheklovlarsiz tomosha qiling.\n\n" +
		"━━━━━━━━━━━━━━━━━━━━━━\n" +
		fmt.Sprintf("📩 <b>Savol va takliflar:</b> %s\n", sanitize.Text(support)) +
		fmt.Sprintf("🤖 <b>Botimiz:</b> @%s", botUsername)
}
