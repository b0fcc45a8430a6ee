package user

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/pkg/callback"
	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"github.com/PancyStudios/AnimeBotGo/pkg/sanitize"
	"github.com/PancyStudios/AnimeBotGo/pkg/telegram"
	tele "gopkg.in/telebot.v3"
)

// descriptionLimit leaves room for the rest of the card in a 1024 rune caption
const descriptionLimit = 600

func animeCallback(s *app.Services) telegram.CallbackFunc {
	return func(c tele.Context, p callback.Payload) error {
		id, err := p.Uint(0)
		if err != nil {
			return nil
		}
		return showAnime(s, c, id)
	}
}

// showAnime renders the anime page and counts the visit
func showAnime(s *app.Services, c tele.Context, id uint) error {
	ctx, cancel := app.Context()
	defer cancel()

	anime, err := s.Anime.Get(ctx, id)
	if err != nil {
		return telegram.ReplyError(c, err)
	}
	if err := s.Anime.IncrementViews(ctx, anime.ID); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo contar la vista del anime %d: %v", anime.ID, err), "Anime")
	} else {
		anime.Views++
	}
	episodes, err := s.Episodes.Count(ctx, anime.ID)
	if err != nil {
		return telegram.ReplyError(c, err)
	}
	fav, err := s.Favorites.Has(ctx, c.Sender().ID, anime.ID)
	if err != nil {
		return telegram.ReplyError(c, err)
	}

	text := AnimeText(anime, episodes)
	markup := app.Markup(AnimeKeyboard(anime.ID, fav))
	if poster := posterOf(anime); poster != nil {
		poster.Caption = text
		return app.Show(c, poster, markup)
	}
	return app.Show(c, text, markup)
}

func posterOf(a *models.Anime) *tele.Photo {
	switch {
	case a.PosterFileID != "":
		return &tele.Photo{File: tele.File{FileID: a.PosterFileID}}
	case a.PosterURL != "":
		return &tele.Photo{File: tele.FromURL(a.PosterURL)}
	}
	return nil
}

// AnimeText is the anime card shown above the watch buttons
func AnimeText(a *models.Anime, uploaded int64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>🎬 %s</b>\n%s\n\n", sanitize.Text(a.Title), app.Separator)
	fmt.Fprintf(&b, "🎭 <b>Janr:</b> %s\n", sanitize.Text(a.Genre))
	fmt.Fprintf(&b, "🔢 <b>Qismlar:</b> %d/%d\n", uploaded, a.TotalEpisodes)
	fmt.Fprintf(&b, "📅 <b>Sezonlar:</b> %d\n", a.SeasonCount)
	fmt.Fprintf(&b, "👁 <b>Ko'rilgan:</b> %d\n", a.Views)
	fmt.Fprintf(&b, "🛡 <b>Holati:</b> %s\n", app.VIPBadge(a.IsVIP))
	fmt.Fprintf(&b, "🆔 <b>Kod:</b> <code>%s</code>\n\n", sanitize.Text(a.Code))
	if a.Description != "" {
		fmt.Fprintf(&b, "📝 <b>Tavsif:</b> %s\n\n", sanitize.Truncate(sanitize.Text(a.Description), descriptionLimit))
	}
	b.WriteString("✨ <i>Marhamat, tomosha qiling!</i>")
	return b.String()
}

// AnimeKeyboard is the action keyboard of the anime page
func AnimeKeyboard(animeID uint, favorite bool) callback.Keyboard {
	fav := callback.Btn("⭐️ Sevimlilarga qo'shish", callback.Favorite, animeID)
	if favorite {
		fav = callback.Btn("💔 Sevimlilardan chiqarish", callback.Favorite, animeID)
	}
	return callback.Keyboard{
		callback.Row(callback.Btn("▶️ Tomosha qilish", callback.Seasons, animeID)),
		callback.Row(fav),
		callback.Row(
			callback.Btn("✍️ Izoh qoldirish", callback.AddComment, animeID),
			callback.Btn("💬 Izohlar", callback.Comments, animeID, 0),
		),
		callback.Row(callback.Btn("⬅️ Orqaga", callback.BackToMenu)),
	}
}

// favoriteCallback toggles the favorite and redraws the page buttons
func favoriteCallback(s *app.Services) telegram.CallbackFunc {
	return func(c tele.Context, p callback.Payload) error {
		id, err := p.Uint(0)
		if err != nil {
			return nil
		}
		ctx, cancel := app.Context()
		defer cancel()

		if _, err := s.Anime.Get(ctx, id); err != nil {
			return telegram.ReplyError(c, err)
		}
		added, err := s.Favorites.Toggle(ctx, c.Sender().ID, id)
		if err != nil {
			return telegram.ReplyError(c, err)
		}

		answer := "💔 Sevimlilardan olib tashlandi"
		if added {
			answer = "⭐️ Sevimlilarga qo'shildi"
		}
		if cb := c.Callback(); cb != nil && cb.Message != nil {
			if _, err := c.Bot().EditReplyMarkup(cb.Message, app.Markup(AnimeKeyboard(id, added))); err != nil {
				logger.Debug(fmt.Sprintf("No se pudo actualizar el teclado: %v", err), "Anime")
			}
		}
		return c.Respond(&tele.CallbackResponse{Text: answer})
	}
}
