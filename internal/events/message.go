package events

import (
	"github.com/PancyStudios/AnimeBotGo/internal/app"
	tele "gopkg.in/telebot.v3"
)

const (
	unknownText       = "🤔 Tushunmadim. Quyidagi menyudan foydalaning yoki /help buyrug'ini yuboring."
	unknownMediaText  = "ℹ️ Hozir fayl kutilmayapti. Menyudan kerakli bo'limni tanlang."
	expiredButtonText = "⌛ Bu tugma eskirgan. Iltimos, qaytadan boshlang."
)

// RegisterMessageEvents answers text and media no command or wizard consumed.
// OnMedia catches every attachment kind without its own handler, so documents,
// stickers and voice notes also pass through the wizard middleware.
func RegisterMessageEvents(s *app.Services) {
	s.Client.Handle(tele.OnText, onUnknownText(s))
	s.Client.Handle(tele.OnMedia, onUnknownMedia(s))
}

func onUnknownText(s *app.Services) tele.HandlerFunc {
	return func(c tele.Context) error {
		if c.Chat() == nil || c.Chat().Type != tele.ChatPrivate {
			return nil
		}
		return c.Send(unknownText, s.Menu(c))
	}
}

func onUnknownMedia(s *app.Services) tele.HandlerFunc {
	return func(c tele.Context) error {
		if c.Chat() == nil || c.Chat().Type != tele.ChatPrivate {
			return nil
		}
		return c.Send(unknownMediaText, s.Menu(c))
	}
}
