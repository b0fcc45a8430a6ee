package user

import (
	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/pkg/callback"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"github.com/PancyStudios/AnimeBotGo/pkg/sanitize"
	"github.com/PancyStudios/AnimeBotGo/pkg/telegram"
	tele "gopkg.in/telebot.v3"
)

const buttonTitleLimit = 40

func createFavoritesCommand(s *app.Services) *telegram.Command {
	return telegram.NewCommand(
		"favorites",
		"Sevimli animelar",
		"user",
		func(c tele.Context) error {
			ctx, cancel := app.Context()
			defer cancel()

			list, err := s.Favorites.List(ctx, c.Sender().ID)
			if err != nil {
				return telegram.ReplyError(c, err)
			}
			if len(list) == 0 {
				return c.Send("ℹ️ <b>Sevimlilar ro'yxati bo'sh.</b>\n\nAnime sahifasidagi ⭐️ tugmasi orqali qo'shishingiz mumkin.")
			}
			return c.Send("<b>⭐️ Sevimli animelaringiz:</b>", app.Markup(FavoritesKeyboard(list)))
		},
	).WithAliases(app.BtnFavorites)
}

// FavoritesKeyboard links every favorite anime, one per row
func FavoritesKeyboard(list []models.Anime) callback.Keyboard {
	kb := make(callback.Keyboard, 0, len(list))
	for _, a := range list {
		kb = append(kb, callback.Row(callback.Btn("⭐️ "+sanitize.Truncate(a.Title, buttonTitleLimit), callback.Anime, a.ID)))
	}
	return kb
}
