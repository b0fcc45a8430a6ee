package admin

import (
	"context"
	"fmt"

	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/pkg/callback"
	"github.com/PancyStudios/AnimeBotGo/pkg/errors"
	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"github.com/PancyStudios/AnimeBotGo/pkg/sanitize"
	"github.com/PancyStudios/AnimeBotGo/pkg/telegram"
	"github.com/PancyStudios/AnimeBotGo/pkg/wizard"
	tele "gopkg.in/telebot.v3"
)

// WizardAddShort takes one short clip for an anime
const WizardAddShort = "add_short"

type shortCreator interface {
	Create(ctx context.Context, sh *models.Short) error
}

func createAddShortCommand(s *app.Services) *telegram.Command {
	return pickCommand(s, "add_short", "Shorts qo'shish", app.BtnAddShort, purposeAddShort)
}

// AddShortWizard is seeded with anime_id
func AddShortWizard(anime animeGetter, shorts shortCreator) *wizard.Wizard {
	video := wizard.Video("video_file_id")
	return &wizard.Wizard{
		ID: WizardAddShort,
		Steps: []wizard.Step{{
			Name:   "video",
			Prompt: wizard.Ask("▸ Qisqa videoni yuboring:"),
			Validate: func(in wizard.Input, v wizard.Values) (wizard.Values, error) {
				out, err := video(in, v)
				if err != nil {
					return nil, errors.Validation("Iltimos, video fayl yuboring.")
				}
				return out, nil
			},
		}},
		Commit: func(ctx context.Context, identity int64, v wizard.Values) (wizard.Prompt, error) {
			a, err := anime.Get(ctx, v.Uint("anime_id"))
			if err != nil {
				return wizard.Prompt{}, err
			}
			sh := &models.Short{AnimeID: a.ID, VideoFileID: v.String("video_file_id")}
			if err := shorts.Create(ctx, sh); err != nil {
				return wizard.Prompt{}, err
			}
			logger.Info(fmt.Sprintf("Short %d (anime %d) creado por %d", sh.ID, a.ID, identity), "Admin")
			return wizard.Prompt{Text: fmt.Sprintf("✔ <b>Short qo'shildi!</b>\n\n▸ Anime: %s\n▸ ID: %d", sanitize.Text(a.Title), sh.ID)}, nil
		},
	}
}

// addShortCallback is add_short:<anime>
func addShortCallback(s *app.Services) telegram.CallbackFunc {
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
		return s.Flow.Start(c, WizardAddShort, wizard.Values{"anime_id": a.ID})
	}
}
