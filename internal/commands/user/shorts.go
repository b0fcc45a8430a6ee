package user

import (
	"fmt"

	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/pkg/callback"
	"github.com/PancyStudios/AnimeBotGo/pkg/database"
	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
	"github.com/PancyStudios/AnimeBotGo/pkg/sanitize"
	"github.com/PancyStudios/AnimeBotGo/pkg/telegram"
	tele "gopkg.in/telebot.v3"
)

func createShortsCommand(s *app.Services) *telegram.Command {
	return telegram.NewCommand(
		"shorts",
		"Qisqa lavhalar",
		"user",
		func(c tele.Context) error { return showShort(s, c, 0) },
	).WithAliases(app.BtnShorts)
}

func shortCallback(s *app.Services) telegram.CallbackFunc {
	return func(c tele.Context, p callback.Payload) error {
		index, err := p.Int(0)
		if err != nil {
			return nil
		}
		return showShort(s, c, index)
	}
}

// showShort sends the short at index, newest first. A view counts once per user.
func showShort(s *app.Services, c tele.Context, index int) error {
	ctx, cancel := app.Context()
	defer cancel()

	short, total, err := s.Shorts.At(ctx, index)
	if err != nil {
		return telegram.ReplyError(c, err)
	}
	if index < 0 {
		index = 0
	}
	if int64(index) >= total {
		index = int(total - 1)
	}

	fresh, err := s.Shorts.RecordView(ctx, short.ID, c.Sender().ID)
	if err != nil {
		logger.Warn(fmt.Sprintf("No se pudo registrar la vista del short %d: %v", short.ID, err), "Shorts")
	} else if fresh {
		short.Views++
	}

	video := &tele.Video{File: tele.File{FileID: short.VideoFileID}, Caption: ShortCaption(short)}
	return app.Show(c, video, app.Markup(ShortKeyboard(index, total, short.AnimeID)))
}

// ShortCaption names the anime a short comes from
func ShortCaption(sh *database.ShortWithAnime) string {
	return fmt.Sprintf("<b>🎬 %s</b>\n%s\n👁 <b>Ko'rishlar:</b> %d\n🆔 <b>Kod:</b> <code>%s</code>",
		sanitize.Text(sh.AnimeTitle), app.Separator, sh.Views, sanitize.Text(sh.AnimeCode))
}

// ShortKeyboard navigates between shorts and links the full anime
func ShortKeyboard(index int, total int64, animeID uint) callback.Keyboard {
	var nav []callback.Button
	if index > 0 {
		nav = append(nav, callback.Btn("⬅️", callback.Short, index-1))
	}
	nav = append(nav, callback.Btn(fmt.Sprintf("🔢 %d/%d", index+1, total), callback.Noop))
	if int64(index+1) < total {
		nav = append(nav, callback.Btn("➡️", callback.Short, index+1))
	}
	return callback.Keyboard{
		nav,
		callback.Row(callback.Btn("📺 To'liq anime", callback.Anime, animeID)),
	}
}
