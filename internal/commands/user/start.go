package user

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
	"github.com/PancyStudios/AnimeBotGo/pkg/sanitize"
	"github.com/PancyStudios/AnimeBotGo/pkg/telegram"
	tele "gopkg.in/telebot.v3"
)

// Deep link payloads of /start
const (
	linkAnime    = "anime_"
	linkFavorite = "fav_"
)

// createStartCommand creates /start with its anime_<id> and fav_<id> deep links
func createStartCommand(s *app.Services) *telegram.Command {
	return telegram.NewCommand(
		"start",
		"Botni ishga tushirish",
		"user",
		func(c tele.Context) error { return startHandler(s, c) },
	)
}

func startHandler(s *app.Services, c tele.Context) error {
	payload := ""
	if msg := c.Message(); msg != nil {
		payload = strings.TrimSpace(msg.Payload)
	}

	if id, ok := deepLinkID(payload, linkAnime); ok {
		return showAnime(s, c, id)
	}
	if id, ok := deepLinkID(payload, linkFavorite); ok {
		return favoriteFromLink(s, c, id)
	}
	if payload != "" {
		logger.Debug("Deep link desconocido: "+payload, "Start")
	}
	return c.Send(WelcomeText(telegram.FullName(c.Sender())), s.Menu(c))
}

// WelcomeText greets name on /start
func WelcomeText(name string) string {
	return fmt.Sprintf("<b>👋 As-salomu alaykum, %s!</b>\n━━━━━━━━━━━━━━━━━━━━━━\n\n"+
		"◈ <b>AnimeBot-ga xush kelibsiz!</b>\n"+
		"▹ Siz bu yerda eng sara va ommabop animelarni\n"+
		"▹ O'zbek tilida, HD sifatda tomosha qilishingiz mumkin.\n\n"+
		"⬇️ <b>Kerakli bo'limni tanlang:</b>", sanitize.Text(name))
}

func deepLinkID(payload, prefix string) (uint, bool) {
	if !strings.HasPrefix(payload, prefix) {
		return 0, false
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(payload, prefix), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// favoriteFromLink adds the anime of a channel post to the sender's favorites
func favoriteFromLink(s *app.Services, c tele.Context, animeID uint) error {
	ctx, cancel := app.Context()
	defer cancel()

	anime, err := s.Anime.Get(ctx, animeID)
	if err != nil {
		return telegram.ReplyError(c, err)
	}
	has, err := s.Favorites.Has(ctx, c.Sender().ID, anime.ID)
	if err != nil {
		return telegram.ReplyError(c, err)
	}
	if has {
		if err := c.Send("ℹ️ <b>Bu anime allaqachon sevimlilaringizda mavjud.</b>", s.Menu(c)); err != nil {
			return err
		}
	} else {
		if err := s.Favorites.Add(ctx, c.Sender().ID, anime.ID); err != nil {
			return telegram.ReplyError(c, err)
		}
		if err := c.Send("⭐️ <b>Muvaffaqiyatli sevimlilarga qo'shildi!</b>", s.Menu(c)); err != nil {
			return err
		}
	}
	return showAnime(s, c, anime.ID)
}
