package user

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/pkg/callback"
	"github.com/PancyStudios/AnimeBotGo/pkg/database"
	"github.com/PancyStudios/AnimeBotGo/pkg/errors"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"github.com/PancyStudios/AnimeBotGo/pkg/sanitize"
	"github.com/PancyStudios/AnimeBotGo/pkg/telegram"
	"github.com/PancyStudios/AnimeBotGo/pkg/wizard"
	tele "gopkg.in/telebot.v3"
)

// WizardComment collects one comment on an anime
const WizardComment = "comment"

const (
	commentMaxRunes = 1000
	commentsPerPage = 5
)

func registerCommentWizard(s *app.Services) {
	s.Machine.MustRegister(CommentWizard(s.Anime, s.Comments, s.Users))
}

type animeGetter interface {
	Get(ctx context.Context, id uint) (*models.Anime, error)
}

type commentCreator interface {
	Create(ctx context.Context, c *models.Comment) error
}

type userGetter interface {
	Get(ctx context.Context, telegramID int64) (*models.User, error)
}

// CommentWizard is seeded with anime_id and asks for the text
func CommentWizard(anime animeGetter, comments commentCreator, users userGetter) *wizard.Wizard {
	return &wizard.Wizard{
		ID: WizardComment,
		Steps: []wizard.Step{{
			Name:     "text",
			Prompt:   wizard.Ask("✍️ <b>Izohingizni yozing:</b>\n\n<i>(1000 belgigacha)</i>"),
			Validate: wizard.Text("text"),
			Check: func(_ context.Context, v wizard.Values) error {
				text := sanitize.Text(v.String("text"))
				if text == "" {
					return errors.Validation("Izoh bo'sh bo'lmasligi kerak.")
				}
				if utf8.RuneCountInString(text) > commentMaxRunes {
					return errors.Validation("Izoh juda uzun. 1000 belgidan oshmasin.")
				}
				return nil
			},
		}},
		Commit: func(ctx context.Context, identity int64, v wizard.Values) (wizard.Prompt, error) {
			animeID := v.Uint("anime_id")
			a, err := anime.Get(ctx, animeID)
			if err != nil {
				return wizard.Prompt{}, err
			}
			name := "Foydalanuvchi"
			if u, err := users.Get(ctx, identity); err == nil && u.FullName != "" {
				name = u.FullName
			}
			err = comments.Create(ctx, &models.Comment{
				UserID:   identity,
				UserName: name,
				AnimeID:  a.ID,
				Text:     sanitize.Text(v.String("text")),
			})
			if err != nil {
				return wizard.Prompt{}, err
			}
			return wizard.Prompt{Text: fmt.Sprintf("✅ <b>Izohingiz qabul qilindi!</b>\n\n🎬 %s", sanitize.Text(a.Title))}, nil
		},
	}
}

func addCommentCallback(s *app.Services) telegram.CallbackFunc {
	return func(c tele.Context, p callback.Payload) error {
		id, err := p.Uint(0)
		if err != nil {
			return nil
		}
		return s.Flow.Start(c, WizardComment, wizard.Values{"anime_id": id})
	}
}

// commentsCallback is comments:<anime>:<page>
func commentsCallback(s *app.Services) telegram.CallbackFunc {
	return func(c tele.Context, p callback.Payload) error {
		animeID, err := p.Uint(0)
		if err != nil {
			return nil
		}
		page, _ := p.Int(1)

		ctx, cancel := app.Context()
		defer cancel()

		anime, err := s.Anime.Get(ctx, animeID)
		if err != nil {
			return telegram.ReplyError(c, err)
		}
		list, err := s.Comments.List(ctx, animeID, page, commentsPerPage)
		if err != nil {
			return telegram.ReplyError(c, err)
		}

		kb := app.Pager(nil, list, callback.Comments, animeID)
		kb = append(kb,
			callback.Row(callback.Btn("✍️ Izoh qoldirish", callback.AddComment, animeID)),
			callback.Row(callback.Btn("⬅️ Orqaga", callback.Anime, animeID)),
		)
		return app.Show(c, CommentsText(anime, list), app.Markup(kb))
	}
}

// CommentsText renders one page of comments
func CommentsText(a *models.Anime, list database.Page[models.Comment]) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>💬 Izohlar — %s</b>\n%s\n\n", sanitize.Text(a.Title), app.Separator)
	if len(list.Items) == 0 {
		b.WriteString("ℹ️ Hozircha izohlar yo'q. Birinchi bo'lib izoh qoldiring!")
		return b.String()
	}
	for _, cm := range list.Items {
		fmt.Fprintf(&b, "👤 <b>%s</b> | <i>%s</i>\n%s\n\n",
			sanitize.Text(cm.UserName), cm.CreatedAt.Format("2006-01-02 15:04"), cm.Text)
	}
	fmt.Fprintf(&b, "Jami: %d ta", list.Total)
	return b.String()
}
