package admin

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/internal/commands/user"
	"github.com/PancyStudios/AnimeBotGo/pkg/callback"
	"github.com/PancyStudios/AnimeBotGo/pkg/errors"
	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"github.com/PancyStudios/AnimeBotGo/pkg/sanitize"
	"github.com/PancyStudios/AnimeBotGo/pkg/telegram"
	"github.com/PancyStudios/AnimeBotGo/pkg/wizard"
	tele "gopkg.in/telebot.v3"
)

// WizardChannelPost publishes an anime card to a channel. It is seeded with anime_id.
const WizardChannelPost = "channel_post"

// Post formats
const (
	postBig   = "big"
	postSmall = "small"

	btnPostBig   = "🖼 Katta post"
	btnPostSmall = "📄 Kichik post"
)

type episodeCounter interface {
	Count(ctx context.Context, animeID uint) (int64, error)
}

// postSender delivers the card to target, an @username or a numeric chat id
type postSender interface {
	Post(ctx context.Context, target string, a *models.Anime, uploaded int64, format string) error
}

func createChannelPostCommand(s *app.Services) *telegram.Command {
	return pickCommand(s, "channel_post", "Kanalga post", app.BtnChannelPost, purposePost)
}

// channelPostCallback is channel_post:<anime>
func channelPostCallback(s *app.Services) telegram.CallbackFunc {
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
		if err := app.Show(c, fmt.Sprintf("<b>➤ %s</b>", sanitize.Text(a.Title))); err != nil {
			return err
		}
		return s.Flow.Start(c, WizardChannelPost, wizard.Values{"anime_id": a.ID})
	}
}

// chatTarget accepts @username or a numeric chat id such as -100123456789
func chatTarget(field string) wizard.Validator {
	return func(in wizard.Input, _ wizard.Values) (wizard.Values, error) {
		text := strings.TrimSpace(in.Text)
		if in.Kind != wizard.InputText || text == "" {
			return nil, errors.Validation("Kanal username (@kanal) yoki ID kiriting.")
		}
		if strings.HasPrefix(text, "@") && len(text) > 1 && !strings.ContainsAny(text, " \t") {
			return wizard.Values{field: text}, nil
		}
		if _, err := strconv.ParseInt(text, 10, 64); err == nil {
			return wizard.Values{field: text}, nil
		}
		return nil, errors.Validation("Kanal username (@kanal) yoki ID kiriting.")
	}
}

// ChannelPostWizard asks where to post and in which format
func ChannelPostWizard(anime animeGetter, episodes episodeCounter, sender postSender) *wizard.Wizard {
	return &wizard.Wizard{
		ID: WizardChannelPost,
		Steps: []wizard.Step{
			{
				Name:     "target",
				Prompt:   wizard.Ask("▸ Kanal username yoki ID kiriting\n(masalan: <code>@anime_uz</code> yoki <code>-100123456789</code>):"),
				Validate: chatTarget("target"),
			},
			{
				Name:     "format",
				Prompt:   wizard.Ask("▸ Post formatini tanlang:", btnPostBig, btnPostSmall),
				Validate: wizard.Choice("format", map[string]any{btnPostBig: postBig, btnPostSmall: postSmall}),
			},
		},
		Commit: func(ctx context.Context, identity int64, v wizard.Values) (wizard.Prompt, error) {
			a, err := anime.Get(ctx, v.Uint("anime_id"))
			if err != nil {
				return wizard.Prompt{}, err
			}
			uploaded, err := episodes.Count(ctx, a.ID)
			if err != nil {
				return wizard.Prompt{}, err
			}
			target := v.String("target")
			if err := sender.Post(ctx, target, a, uploaded, v.String("format")); err != nil {
				return wizard.Prompt{}, err
			}
			logger.Info(fmt.Sprintf("Anime %d publicado en %s por %d", a.ID, target, identity), "Admin")
			return wizard.Prompt{Text: fmt.Sprintf("✔ Post <b>%s</b> ga yuborildi!", sanitize.Text(target))}, nil
		},
	}
}

// PostText is the small card; the big one is the anime page text
func PostText(a *models.Anime, uploaded int64, format string) string {
	if format == postBig {
		return user.AnimeText(a, uploaded)
	}
	return fmt.Sprintf("<b>🎬 %s</b>\n\n🔢 Qismlar: %d/%d\n🛡 %s\n🆔 Kod: <code>%s</code>",
		sanitize.Text(a.Title), uploaded, a.TotalEpisodes, app.VIPBadge(a.IsVIP), sanitize.Text(a.Code))
}

// PostKeyboard links back into the bot
func PostKeyboard(watch, favorite string) callback.Keyboard {
	return callback.Keyboard{
		callback.Row(callback.Link("▶️ Tomosha qilish", watch)),
		callback.Row(callback.Link("⭐️ Sevimlilarga qo'shish", favorite)),
	}
}

// chatRecipient addresses a chat by @username or id
type chatRecipient string

func (r chatRecipient) Recipient() string { return string(r) }

type channelPoster struct {
	s *app.Services
}

func newPostSender(s *app.Services) postSender {
	return &channelPoster{s: s}
}

func (p *channelPoster) Post(ctx context.Context, target string, a *models.Anime, uploaded int64, format string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	text := PostText(a, uploaded, format)
	markup := app.Markup(PostKeyboard(
		p.s.BotLink(fmt.Sprintf("anime_%d", a.ID)),
		p.s.BotLink(fmt.Sprintf("fav_%d", a.ID)),
	))

	var what interface{} = text
	switch {
	case a.PosterFileID != "":
		what = &tele.Photo{File: tele.File{FileID: a.PosterFileID}, Caption: text}
	case a.PosterURL != "":
		what = &tele.Photo{File: tele.FromURL(a.PosterURL), Caption: text}
	}
	if _, err := p.s.Client.Bot.Send(chatRecipient(target), what, markup, tele.ModeHTML); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo publicar en %s: %v", target, err), "Admin")
		return errors.Validation("Kanalga yuborib bo'lmadi. Bot kanalda admin ekanligini tekshiring.")
	}
	return nil
}
