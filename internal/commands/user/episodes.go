package user

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/internal/commands/premium"
	"github.com/PancyStudios/AnimeBotGo/pkg/access"
	"github.com/PancyStudios/AnimeBotGo/pkg/callback"
	"github.com/PancyStudios/AnimeBotGo/pkg/database"
	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"github.com/PancyStudios/AnimeBotGo/pkg/sanitize"
	"github.com/PancyStudios/AnimeBotGo/pkg/telegram"
	tele "gopkg.in/telebot.v3"
)

const episodesPerRow = 3

// seasonsCallback lists the seasons of an anime. A single season opens directly.
func seasonsCallback(s *app.Services) telegram.CallbackFunc {
	return func(c tele.Context, p callback.Payload) error {
		animeID, err := p.Uint(0)
		if err != nil {
			return nil
		}
		ctx, cancel := app.Context()
		defer cancel()

		anime, err := s.Anime.Get(ctx, animeID)
		if err != nil {
			return telegram.ReplyError(c, err)
		}
		seasons, err := s.Episodes.Seasons(ctx, animeID)
		if err != nil {
			return telegram.ReplyError(c, err)
		}
		switch len(seasons) {
		case 0:
			return app.Alert(c, "ℹ️ Bu animega hali qismlar qo'shilmagan.")
		case 1:
			return showSeason(s, c, anime, seasons[0], 0, false)
		}

		buttons := make([]callback.Button, 0, len(seasons))
		for _, n := range seasons {
			buttons = append(buttons, callback.Btn(fmt.Sprintf("🎞 %d-sezon", n), callback.Season, animeID, n, 0))
		}
		kb := app.Grid(buttons, 2)
		kb = append(kb, callback.Row(callback.Btn("⬅️ Orqaga", callback.Anime, animeID)))

		text := fmt.Sprintf("<b>%s</b>\n%s\n\n📅 <b>Sezonni tanlang:</b>", sanitize.Text(anime.Title), app.Separator)
		return app.Show(c, text, app.Markup(kb))
	}
}

// seasonCallback is season:<anime>:<season>:<page>
func seasonCallback(s *app.Services) telegram.CallbackFunc {
	return func(c tele.Context, p callback.Payload) error {
		animeID, err := p.Uint(0)
		if err != nil {
			return nil
		}
		season, err := p.Int(1)
		if err != nil {
			return nil
		}
		page, _ := p.Int(2)

		ctx, cancel := app.Context()
		defer cancel()

		anime, err := s.Anime.Get(ctx, animeID)
		if err != nil {
			return telegram.ReplyError(c, err)
		}
		seasons, err := s.Episodes.Seasons(ctx, animeID)
		if err != nil {
			return telegram.ReplyError(c, err)
		}
		return showSeason(s, c, anime, season, page, len(seasons) > 1)
	}
}

func showSeason(s *app.Services, c tele.Context, anime *models.Anime, season, page int, manySeasons bool) error {
	ctx, cancel := app.Context()
	defer cancel()

	list, err := s.Episodes.ListBySeason(ctx, anime.ID, season, page, s.Config.EpisodesPerPage)
	if err != nil {
		return telegram.ReplyError(c, err)
	}
	if list.Total == 0 {
		return app.Alert(c, "ℹ️ Bu sezonda hali qismlar yo'q.")
	}

	text := fmt.Sprintf("<b>%s</b> | %d-sezon\n%s\n<b>🎞 Jami:</b> %d\n\n▶️ <b>Marhamat, tanlang:</b>",
		sanitize.Text(anime.Title), season, app.Separator, list.Total)
	return app.Show(c, text, app.Markup(EpisodesKeyboard(anime, season, list, manySeasons)))
}

// EpisodesKeyboard lays out one page of a season, VIP episodes marked
func EpisodesKeyboard(anime *models.Anime, season int, list database.Page[models.Episode], manySeasons bool) callback.Keyboard {
	buttons := make([]callback.Button, 0, len(list.Items))
	for _, e := range list.Items {
		label := fmt.Sprintf("▶️ %d", e.EpisodeNumber)
		if e.IsVIP || anime.IsVIP {
			label += " 💎"
		}
		buttons = append(buttons, callback.Btn(label, callback.Episode, e.ID))
	}
	kb := app.Grid(buttons, episodesPerRow)
	kb = app.Pager(kb, list, callback.Season, anime.ID, season)
	if manySeasons {
		return append(kb, callback.Row(callback.Btn("⬅️ Sezonlarga qaytish", callback.Seasons, anime.ID)))
	}
	return append(kb, callback.Row(callback.Btn("⬅️ Orqaga", callback.Anime, anime.ID)))
}

// episodeCallback asks the gate first and loads the video only when it allows
func episodeCallback(s *app.Services) telegram.CallbackFunc {
	return func(c tele.Context, p callback.Payload) error {
		id, err := p.Uint(0)
		if err != nil {
			return nil
		}
		ctx, cancel := app.Context()
		defer cancel()

		meta, err := s.Episodes.Meta(ctx, id)
		if err != nil {
			return telegram.ReplyError(c, err)
		}
		decision, err := s.Gate.MayView(ctx, c.Sender().ID, meta)
		if err != nil {
			return telegram.ReplyError(c, err)
		}
		if !decision.Allowed {
			_ = c.Respond(&tele.CallbackResponse{Text: "◆ VIP a'zolik talab etiladi.", ShowAlert: true})
			notice := access.DeniedText
			if decision.Demoted {
				notice = access.ExpiredText
			}
			return premium.ShowPlans(s, c, meta.AnimeID, notice)
		}

		episode, err := s.Episodes.Get(ctx, id)
		if err != nil {
			return telegram.ReplyError(c, err)
		}
		if err := s.Episodes.IncrementViews(ctx, id); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo contar la vista del episodio %d: %v", id, err), "Episodes")
		} else {
			episode.Views++
		}

		video := &tele.Video{File: tele.File{FileID: episode.VideoFileID}, Caption: EpisodeCaption(meta, episode.Views)}
		kb := callback.Keyboard{
			callback.Row(callback.Btn("⬅️ Qismlarga qaytish", callback.Season, meta.AnimeID, meta.SeasonNumber, 0)),
			callback.Row(callback.Btn("🏠 Anime sahifasi", callback.Anime, meta.AnimeID)),
		}
		return c.Send(video, app.Markup(kb))
	}
}

// EpisodeCaption is the caption under a delivered episode
func EpisodeCaption(m *models.EpisodeMeta, views int64) string {
	title := m.Title
	if strings.TrimSpace(title) == "" {
		title = "Nomsiz"
	}
	return fmt.Sprintf("<b>🎬 %s</b>\n🎞 <b>S%d | E%d</b>\n%s\n\n📝 <b>Nomi:</b> %s\n🛡 <b>Holati:</b> %s\n👁 <b>Ko'rishlar:</b> %d",
		sanitize.Text(m.AnimeTitle), m.SeasonNumber, m.EpisodeNumber, app.Separator,
		sanitize.Text(title), app.VIPBadge(m.VIPOnly()), views)
}
