package admin

import (
	"fmt"

	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/pkg/callback"
	"github.com/PancyStudios/AnimeBotGo/pkg/database"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"github.com/PancyStudios/AnimeBotGo/pkg/sanitize"
	"github.com/PancyStudios/AnimeBotGo/pkg/telegram"
	tele "gopkg.in/telebot.v3"
)

// Picker purposes, the first argument of pick and pick_ep
const (
	purposeEditAnime     = "edit"
	purposeDeleteAnime   = "del"
	purposeAddEpisode    = "add_ep"
	purposeEditEpisode   = "edit_ep"
	purposeDeleteEpisode = "del_ep"
	purposeAddShort      = "short"
	purposePost          = "post"
)

const (
	animePerPage   = 8
	episodePerPage = 24
	titleLimit     = 40
)

type pickTarget struct {
	header string
	// empty is shown when there is no anime at all
	empty string
}

var pickTargets = map[string]pickTarget{
	purposeEditAnime:     {"<b>✎ Anime tahrirlash</b>\n\nTahrirlash uchun animeni tanlang:", "▸ Hozircha animelar mavjud emas."},
	purposeDeleteAnime:   {"<b>✖ Anime o'chirish</b>\n\nO'chirish uchun animeni tanlang:", "▸ Hozircha animelar mavjud emas."},
	purposeAddEpisode:    {"<b>+ Qism qo'shish</b>\n\nQaysi animega qism qo'shmoqchisiz?", "▸ Avval anime qo'shing."},
	purposeEditEpisode:   {"<b>✎ Qism tahrirlash</b>\n\nAvval animeni tanlang:", "▸ Hozircha animelar mavjud emas."},
	purposeDeleteEpisode: {"<b>✖ Qism o'chirish</b>\n\nAvval animeni tanlang:", "▸ Hozircha animelar mavjud emas."},
	purposeAddShort:      {"<b>🎬 Shorts qo'shish</b>\n\nQaysi animega short qo'shmoqchisiz?", "▸ Avval anime qo'shing."},
	purposePost:          {"<b>➤ Kanalga post</b>\n\nPost uchun animeni tanlang:", "▸ Avval anime qo'shing."},
}

// pickCommand builds a command that opens the anime picker for purpose
func pickCommand(s *app.Services, name, description, alias, purpose string) *telegram.Command {
	return telegram.NewCommand(name, description, "admin", func(c tele.Context) error {
		return showAnimePicker(s, c, purpose, 0)
	}).WithAliases(alias)
}

// pickAnimeCallback is pick:<purpose>:<page>
func pickAnimeCallback(s *app.Services) telegram.CallbackFunc {
	return func(c tele.Context, p callback.Payload) error {
		purpose := p.Arg(0)
		if _, ok := pickTargets[purpose]; !ok {
			return nil
		}
		page, _ := p.Int(1)
		return showAnimePicker(s, c, purpose, page)
	}
}

func showAnimePicker(s *app.Services, c tele.Context, purpose string, page int) error {
	ctx, cancel := app.Context()
	defer cancel()

	list, err := s.Anime.List(ctx, database.ListingLatest, page, animePerPage)
	if err != nil {
		return telegram.ReplyError(c, err)
	}
	target := pickTargets[purpose]
	if list.Total == 0 {
		return app.Show(c, target.empty)
	}
	return app.Show(c, target.header, app.Markup(AnimePickerKeyboard(purpose, list)))
}

// AnimePickerKeyboard lists one page of anime, each button leading to the purpose's
// next screen
func AnimePickerKeyboard(purpose string, list database.Page[models.Anime]) callback.Keyboard {
	kb := make(callback.Keyboard, 0, len(list.Items)+1)
	for _, a := range list.Items {
		text := fmt.Sprintf("📺 %s [%s]", sanitize.Truncate(a.Title, titleLimit), a.Code)
		kb = append(kb, callback.Row(pickedAnimeButton(purpose, text, a.ID)))
	}
	return app.Pager(kb, list, callback.PickAnimeFor, purpose)
}

func pickedAnimeButton(purpose, text string, animeID uint) callback.Button {
	switch purpose {
	case purposeEditAnime:
		return callback.Btn(text, callback.EditAnime, animeID)
	case purposeDeleteAnime:
		return callback.Btn(text, callback.DeleteAnime, animeID)
	case purposeAddEpisode:
		return callback.Btn(text, callback.AddEpisode, animeID)
	case purposeAddShort:
		return callback.Btn(text, callback.AddShort, animeID)
	case purposePost:
		return callback.Btn(text, callback.ChannelPost, animeID)
	default:
		return callback.Btn(text, callback.PickEpisode, purpose, animeID, 0)
	}
}

// pickEpisodeCallback is pick_ep:<purpose>:<anime>:<page>
func pickEpisodeCallback(s *app.Services) telegram.CallbackFunc {
	return func(c tele.Context, p callback.Payload) error {
		purpose := p.Arg(0)
		if purpose != purposeEditEpisode && purpose != purposeDeleteEpisode {
			return nil
		}
		animeID, err := p.Uint(1)
		if err != nil {
			return nil
		}
		page, _ := p.Int(2)

		ctx, cancel := app.Context()
		defer cancel()
		list, err := s.Episodes.ListByAnime(ctx, animeID, page, episodePerPage)
		if err != nil {
			return telegram.ReplyError(c, err)
		}
		if list.Total == 0 {
			return app.Show(c, "▸ Bu animeda qismlar yo'q.",
				app.Markup(callback.Keyboard{callback.Row(callback.Btn("⬅️ Orqaga", callback.PickAnimeFor, purpose, 0))}))
		}
		header := "<b>Tahrirlash uchun qismni tanlang:</b>"
		if purpose == purposeDeleteEpisode {
			header = "<b>O'chirish uchun qismni tanlang:</b>"
		}
		return app.Show(c, header, app.Markup(EpisodePickerKeyboard(purpose, animeID, list)))
	}
}

// EpisodePickerKeyboard lays out S{season}E{episode} buttons three per row
func EpisodePickerKeyboard(purpose string, animeID uint, list database.Page[models.Episode]) callback.Keyboard {
	action := callback.EditEpisode
	mark := "✎"
	if purpose == purposeDeleteEpisode {
		action = callback.DeleteEp
		mark = "✖"
	}
	buttons := make([]callback.Button, 0, len(list.Items))
	for _, e := range list.Items {
		buttons = append(buttons, callback.Btn(fmt.Sprintf("%s S%dE%d", mark, e.SeasonNumber, e.EpisodeNumber), action, e.ID))
	}
	kb := app.Pager(app.Grid(buttons, 3), list, callback.PickEpisode, purpose, animeID)
	return append(kb, callback.Row(callback.Btn("⬅️ Orqaga", callback.PickAnimeFor, purpose, 0)))
}
