package admin

import (
	"context"
	"fmt"

	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/pkg/callback"
	"github.com/PancyStudios/AnimeBotGo/pkg/eventbus"
	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"github.com/PancyStudios/AnimeBotGo/pkg/sanitize"
	"github.com/PancyStudios/AnimeBotGo/pkg/telegram"
	"github.com/PancyStudios/AnimeBotGo/pkg/wizard"
	tele "gopkg.in/telebot.v3"
)

// Episode wizards
const (
	WizardAddEpisode  = "add_episode"
	WizardEditEpisode = "edit_episode"
)

type animeGetter interface {
	Get(ctx context.Context, id uint) (*models.Anime, error)
}

type episodeCreator interface {
	Create(ctx context.Context, e *models.Episode) error
}

type episodeUpdater interface {
	Update(ctx context.Context, id uint, field models.EpisodeField, value interface{}) (*models.Episode, error)
}

func createAddEpisodeCommand(s *app.Services) *telegram.Command {
	return pickCommand(s, "add_episode", "Qism qo'shish", app.BtnAddEpisode, purposeAddEpisode)
}

func createEditEpisodeCommand(s *app.Services) *telegram.Command {
	return pickCommand(s, "edit_episode", "Qism tahrirlash", app.BtnEditEpisode, purposeEditEpisode)
}

func createDeleteEpisodeCommand(s *app.Services) *telegram.Command {
	return pickCommand(s, "delete_episode", "Qism o'chirish", app.BtnDeleteEpisode, purposeDeleteEpisode)
}

// AddEpisodeWizard is seeded with anime_id
func AddEpisodeWizard(anime animeGetter, episodes episodeCreator, events eventbus.Publisher) *wizard.Wizard {
	return &wizard.Wizard{
		ID: WizardAddEpisode,
		Steps: []wizard.Step{
			{
				Name:     "season_number",
				Prompt:   wizard.Ask("▸ Sezon raqamini kiriting:"),
				Validate: wizard.IntAtLeast("season_number", 1),
			},
			{
				Name:     "episode_number",
				Prompt:   wizard.Ask("▸ Qism raqamini kiriting:"),
				Validate: wizard.IntAtLeast("episode_number", 1),
			},
			{
				Name:     "title",
				Prompt:   wizard.Ask("▸ Qism nomini kiriting (ixtiyoriy):", app.BtnSkip),
				Validate: wizard.Optional(wizard.Text("title"), app.BtnSkip, wizard.Values{"title": ""}),
			},
			{
				Name:     "video",
				Prompt:   wizard.Ask("▸ Qism videosini yuboring:"),
				Validate: wizard.Video("video_file_id"),
			},
			{
				Name:     "is_vip",
				Prompt:   wizard.Ask("▸ Bu qism VIP bo'ladimi?", app.BtnYes, app.BtnNo),
				Validate: wizard.YesNo("is_vip", app.BtnYes, app.BtnNo),
			},
		},
		Commit: func(ctx context.Context, identity int64, v wizard.Values) (wizard.Prompt, error) {
			a, err := anime.Get(ctx, v.Uint("anime_id"))
			if err != nil {
				return wizard.Prompt{}, err
			}
			e := &models.Episode{
				AnimeID:       a.ID,
				SeasonNumber:  v.Int("season_number"),
				EpisodeNumber: v.Int("episode_number"),
				Title:         v.String("title"),
				VideoFileID:   v.String("video_file_id"),
				IsVIP:         v.Bool("is_vip"),
			}
			if err := episodes.Create(ctx, e); err != nil {
				return wizard.Prompt{}, err
			}
			logger.Info(fmt.Sprintf("Episodio %d (anime %d S%dE%d) creado por %d", e.ID, a.ID, e.SeasonNumber, e.EpisodeNumber, identity), "Admin")
			events.Publish(eventbus.EpisodeCreated, map[string]interface{}{
				"id":       e.ID,
				"anime_id": a.ID,
				"season":   e.SeasonNumber,
				"episode":  e.EpisodeNumber,
				"is_vip":   e.IsVIP,
			})
			status := "○ Oddiy"
			if e.IsVIP {
				status = "◆ VIP"
			}
			return wizard.Prompt{Text: fmt.Sprintf("✔ <b>Qism muvaffaqiyatli qo'shildi!</b>\n\n▸ Anime: %s\n▸ Sezon: %d\n▸ Qism: %d\n▸ Holat: %s\n▸ ID: %d",
				sanitize.Text(a.Title), e.SeasonNumber, e.EpisodeNumber, status, e.ID)}, nil
		},
	}
}

// EditEpisodeWizard is seeded with episode_id
func EditEpisodeWizard(store episodeUpdater) *wizard.Wizard {
	options, labels := fieldChoice(models.EpisodeFields())
	return &wizard.Wizard{
		ID: WizardEditEpisode,
		Steps: []wizard.Step{
			{
				Name:     "field",
				Prompt:   wizard.Ask("▸ Qaysi maydonni o'zgartirasiz?", labels...),
				Validate: wizard.Choice("field", options),
			},
			{
				Name: "value",
				Prompt: func(v wizard.Values) wizard.Prompt {
					return valuePrompt(models.EpisodeField(v.String("field")))
				},
				Validate: func(in wizard.Input, v wizard.Values) (wizard.Values, error) {
					return typedValue(models.EpisodeField(v.String("field")).Kind())(in, v)
				},
			},
		},
		Commit: func(ctx context.Context, identity int64, v wizard.Values) (wizard.Prompt, error) {
			f := models.EpisodeField(v.String("field"))
			e, err := store.Update(ctx, v.Uint("episode_id"), f, v["value"])
			if err != nil {
				return wizard.Prompt{}, err
			}
			logger.Info(fmt.Sprintf("Episodio %d: %s editado por %d", e.ID, f, identity), "Admin")
			return wizard.Prompt{Text: fmt.Sprintf("✔ <b>Qism yangilandi!</b>\n\n▸ Qism: S%dE%d\n▸ Maydon: %s\n▸ Yangi qiymat: %s",
				e.SeasonNumber, e.EpisodeNumber, f.Label(), shownValue(f.Kind(), v["value"]))}, nil
		},
	}
}

// addEpisodeCallback is add_episode:<anime>
func addEpisodeCallback(s *app.Services) telegram.CallbackFunc {
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
		if err := app.Show(c, fmt.Sprintf("<b>%s</b>", sanitize.Text(a.Title))); err != nil {
			return err
		}
		return s.Flow.Start(c, WizardAddEpisode, wizard.Values{"anime_id": a.ID})
	}
}

// editEpisodeCallback is edit_episode:<episode>
func editEpisodeCallback(s *app.Services) telegram.CallbackFunc {
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
		if err := app.Show(c, fmt.Sprintf("<b>%s S%dE%d</b>", sanitize.Text(meta.AnimeTitle), meta.SeasonNumber, meta.EpisodeNumber)); err != nil {
			return err
		}
		return s.Flow.Start(c, WizardEditEpisode, wizard.Values{"episode_id": meta.ID})
	}
}

// deleteEpisodeCallback is del_episode:<episode>
func deleteEpisodeCallback(s *app.Services) telegram.CallbackFunc {
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
		if err := s.Episodes.Delete(ctx, id); err != nil {
			return telegram.ReplyError(c, err)
		}
		logger.Info(fmt.Sprintf("Episodio %d eliminado por %d", id, c.Sender().ID), "Admin")
		kb := callback.Keyboard{callback.Row(callback.Btn("⬅️ Qismlar", callback.PickEpisode, purposeDeleteEpisode, meta.AnimeID, 0))}
		return app.Show(c, fmt.Sprintf("✅ S%dE%d o'chirildi!", meta.SeasonNumber, meta.EpisodeNumber), app.Markup(kb))
	}
}
