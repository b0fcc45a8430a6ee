package admin

import (
	"context"
	"fmt"

	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/pkg/callback"
	"github.com/PancyStudios/AnimeBotGo/pkg/errors"
	"github.com/PancyStudios/AnimeBotGo/pkg/eventbus"
	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"github.com/PancyStudios/AnimeBotGo/pkg/sanitize"
	"github.com/PancyStudios/AnimeBotGo/pkg/telegram"
	"github.com/PancyStudios/AnimeBotGo/pkg/wizard"
	tele "gopkg.in/telebot.v3"
)

// Anime wizards
const (
	WizardAddAnime  = "add_anime"
	WizardEditAnime = "edit_anime"
)

const (
	noDescription = "Tavsif kiritilmagan"
	noGenre       = "Noma'lum"
)

type animeCreator interface {
	CodeExists(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, a *models.Anime) error
}

type animeUpdater interface {
	Get(ctx context.Context, id uint) (*models.Anime, error)
	Update(ctx context.Context, id uint, field models.AnimeField, value interface{}) (*models.Anime, error)
}

func createAddAnimeCommand(s *app.Services) *telegram.Command {
	return telegram.NewCommand("add_anime", "Anime qo'shish", "admin", func(c tele.Context) error {
		return s.Flow.Start(c, WizardAddAnime, nil)
	}).WithAliases(app.BtnAddAnime)
}

func createEditAnimeCommand(s *app.Services) *telegram.Command {
	return pickCommand(s, "edit_anime", "Anime tahrirlash", app.BtnEditAnime, purposeEditAnime)
}

func createDeleteAnimeCommand(s *app.Services) *telegram.Command {
	return pickCommand(s, "delete_anime", "Anime o'chirish", app.BtnDeleteAnime, purposeDeleteAnime)
}

// AddAnimeWizard collects a new anime. The code is checked for uniqueness as soon as
// it is typed; the insert still fails with a conflict if someone took it meanwhile.
func AddAnimeWizard(store animeCreator, events eventbus.Publisher) *wizard.Wizard {
	vipPrompt := func(text string) wizard.Prompt {
		return wizard.Prompt{Text: text + "\n\n💎 Bu anime VIP bo'ladimi?", Choices: []string{app.BtnYes, app.BtnNo}}
	}
	return &wizard.Wizard{
		ID: WizardAddAnime,
		Steps: []wizard.Step{
			{
				Name:     "title",
				Prompt:   wizard.Ask("<b>+ Yangi anime qo'shish</b>\n\n▸ Anime nomini kiriting:"),
				Validate: wizard.Text("title"),
			},
			{
				Name:     "code",
				Prompt:   wizard.Ask("▸ Anime kodini kiriting (unique, masalan: <code>naruto</code>):"),
				Validate: wizard.Slug("code"),
				Check: func(ctx context.Context, v wizard.Values) error {
					taken, err := store.CodeExists(ctx, v.String("code"))
					if err != nil {
						return err
					}
					if taken {
						return errors.Conflict(fmt.Sprintf("\"%s\" kodi allaqachon mavjud. Boshqa kod kiriting", v.String("code")))
					}
					return nil
				},
			},
			{
				Name:     "description",
				Prompt:   wizard.Ask("▸ Anime tavsifini kiriting:", app.BtnSkip),
				Validate: wizard.Optional(wizard.Text("description"), app.BtnSkip, wizard.Values{"description": noDescription}),
			},
			{
				Name:     "genre",
				Prompt:   wizard.Ask("▸ Janrni kiriting (masalan: Action, Romance, Fantasy):", app.BtnSkip),
				Validate: wizard.Optional(wizard.Text("genre"), app.BtnSkip, wizard.Values{"genre": noGenre}),
			},
			{
				Name:     "season_count",
				Prompt:   wizard.Ask("▸ Sezonlar sonini kiriting (raqam):"),
				Validate: wizard.IntAtLeast("season_count", 1),
			},
			{
				Name:     "total_episodes",
				Prompt:   wizard.Ask("▸ Umumiy qismlar sonini kiriting (raqam):"),
				Validate: wizard.IntAtLeast("total_episodes", 0),
			},
			{
				Name:   "poster",
				Prompt: wizard.Ask("▸ Poster rasmini yuboring (yoki o'tkazib yuboring):", app.BtnSkip),
				Validate: wizard.Alternatives(
					"Iltimos, rasm yuboring yoki rasm (URL) manzilini kiriting.",
					wizard.Photo("poster_file_id"),
					wizard.URL("poster_url"),
					wizard.Keyword(app.BtnSkip, wizard.Values{"poster_file_id": "", "poster_url": ""}),
				),
			},
			{
				Name: "is_vip",
				Prompt: func(v wizard.Values) wizard.Prompt {
					switch {
					case v.String("poster_file_id") != "":
						return vipPrompt("✅ <b>Poster rasm sifatida qabul qilindi.</b>")
					case v.String("poster_url") != "":
						return vipPrompt(fmt.Sprintf("✅ <b>Poster URL sifatida qabul qilindi:</b>\n<code>%s</code>", sanitize.Text(v.String("poster_url"))))
					default:
						return vipPrompt("⏩ <b>Poster o'tkazib yuborildi.</b>")
					}
				},
				Validate: wizard.YesNo("is_vip", app.BtnYes, app.BtnNo),
			},
		},
		Commit: func(ctx context.Context, identity int64, v wizard.Values) (wizard.Prompt, error) {
			a := &models.Anime{
				Title:         v.String("title"),
				Code:          v.String("code"),
				Description:   v.String("description"),
				Genre:         v.String("genre"),
				SeasonCount:   v.Int("season_count"),
				TotalEpisodes: v.Int("total_episodes"),
				PosterFileID:  v.String("poster_file_id"),
				PosterURL:     v.String("poster_url"),
				IsVIP:         v.Bool("is_vip"),
			}
			if err := store.Create(ctx, a); err != nil {
				return wizard.Prompt{}, err
			}
			logger.Info(fmt.Sprintf("Anime %d (%s) creado por %d", a.ID, a.Code, identity), "Admin")
			events.Publish(eventbus.AnimeCreated, map[string]interface{}{
				"id":     a.ID,
				"code":   a.Code,
				"title":  a.Title,
				"is_vip": a.IsVIP,
				"by":     identity,
			})
			return wizard.Prompt{Text: AnimeCreatedText(a)}, nil
		},
	}
}

// AnimeCreatedText confirms a new anime
func AnimeCreatedText(a *models.Anime) string {
	status := "○ Oddiy"
	if a.IsVIP {
		status = "◆ VIP"
	}
	return fmt.Sprintf("✔ <b>Anime muvaffaqiyatli qo'shildi!</b>\n\n▸ Nom: %s\n▸ Kod: %s\n▸ Janr: %s\n▸ Sezonlar: %d\n▸ Holat: %s\n▸ ID: %d",
		sanitize.Text(a.Title), sanitize.Text(a.Code), sanitize.Text(a.Genre), a.SeasonCount, status, a.ID)
}

// EditAnimeWizard is seeded with anime_id. The field is picked from the closed set of
// editable columns and the value is parsed by that field's kind.
func EditAnimeWizard(store animeUpdater) *wizard.Wizard {
	options, labels := fieldChoice(models.AnimeFields())
	return &wizard.Wizard{
		ID: WizardEditAnime,
		Steps: []wizard.Step{
			{
				Name:     "field",
				Prompt:   wizard.Ask("▸ Qaysi maydonni tahrirlaysiz?", labels...),
				Validate: wizard.Choice("field", options),
			},
			{
				Name: "value",
				Prompt: func(v wizard.Values) wizard.Prompt {
					return valuePrompt(models.AnimeField(v.String("field")))
				},
				Validate: func(in wizard.Input, v wizard.Values) (wizard.Values, error) {
					return typedValue(models.AnimeField(v.String("field")).Kind())(in, v)
				},
			},
		},
		Commit: func(ctx context.Context, identity int64, v wizard.Values) (wizard.Prompt, error) {
			f := models.AnimeField(v.String("field"))
			a, err := store.Update(ctx, v.Uint("anime_id"), f, v["value"])
			if err != nil {
				return wizard.Prompt{}, err
			}
			logger.Info(fmt.Sprintf("Anime %d: %s editado por %d", a.ID, f, identity), "Admin")
			return wizard.Prompt{Text: fmt.Sprintf("✔ <b>Anime yangilandi!</b>\n\n▸ Anime: %s\n▸ Maydon: %s\n▸ Yangi qiymat: %s",
				sanitize.Text(a.Title), f.Label(), shownValue(f.Kind(), v["value"]))}, nil
		},
	}
}

// editAnimeCallback is edit_anime:<anime>
func editAnimeCallback(s *app.Services) telegram.CallbackFunc {
	return func(c tele.Context, p callback.Payload) error {
		id, err := p.Uint(0)
		if err != nil {
			return nil
		}
		ctx, cancel := app.Context()
		defer cancel()
		a, err := s.Anime.Get(ctx, id)
		if err != nil {
			return telegram.ReplyError(c, err)
		}
		if err := app.Show(c, fmt.Sprintf("<b>✎ %s tahrirlash</b>", sanitize.Text(a.Title))); err != nil {
			return err
		}
		return s.Flow.Start(c, WizardEditAnime, wizard.Values{"anime_id": a.ID})
	}
}

// deleteAnimeCallback is del_anime:<anime> for the confirmation and
// del_anime:<anime>:ok for the delete itself
func deleteAnimeCallback(s *app.Services) telegram.CallbackFunc {
	return func(c tele.Context, p callback.Payload) error {
		id, err := p.Uint(0)
		if err != nil {
			return nil
		}
		ctx, cancel := app.Context()
		defer cancel()
		a, err := s.Anime.Get(ctx, id)
		if err != nil {
			return telegram.ReplyError(c, err)
		}

		if p.Arg(1) != "ok" {
			kb := callback.Keyboard{
				callback.Row(
					callback.Btn("✅ Ha, o'chirish", callback.DeleteAnime, a.ID, "ok"),
					callback.Btn("❌ Yo'q", callback.PickAnimeFor, purposeDeleteAnime, 0),
				),
			}
			return app.Show(c, fmt.Sprintf("⚠️ <b>\"%s\"</b> va uning barcha qismlari, shortslari, izohlari o'chiriladi.\n\nDavom etasizmi?",
				sanitize.Text(a.Title)), app.Markup(kb))
		}

		if err := s.Anime.Delete(ctx, a.ID); err != nil {
			return telegram.ReplyError(c, err)
		}
		logger.Info(fmt.Sprintf("Anime %d (%s) eliminado por %d", a.ID, a.Code, c.Sender().ID), "Admin")
		s.Events.Publish(eventbus.AnimeDeleted, map[string]interface{}{"id": a.ID, "code": a.Code, "by": c.Sender().ID})
		return app.Show(c, fmt.Sprintf("✅ <b>\"%s\"</b> muvaffaqiyatli o'chirildi!", sanitize.Text(a.Title)))
	}
}
