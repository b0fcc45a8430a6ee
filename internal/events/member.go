package events

import (
	"fmt"

	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
	tele "gopkg.in/telebot.v3"
)

// RegisterMemberEvents tracks the bot's own membership in channels and groups.
// Forced subscription checks only work where the bot is an admin.
func RegisterMemberEvents(s *app.Services) {
	s.Client.Handle(tele.OnMyChatMember, onMyChatMember)
}

func onMyChatMember(c tele.Context) error {
	upd := c.ChatMember()
	if upd == nil || upd.Chat == nil || upd.NewChatMember == nil {
		return nil
	}
	chat := upd.Chat
	switch upd.NewChatMember.Role {
	case tele.Administrator:
		logger.Info(fmt.Sprintf("🛡 Bot es admin en %s (%d)", chatTitle(chat), chat.ID), "Member")
	case tele.Member:
		if chat.Type == tele.ChatChannel {
			logger.Warn(fmt.Sprintf("Bot añadido a %s (%d) sin permisos de admin", chatTitle(chat), chat.ID), "Member")
		}
	case tele.Left, tele.Kicked:
		if chat.Type == tele.ChatPrivate {
			logger.Debug(fmt.Sprintf("Usuario %d bloqueó el bot", chat.ID), "Member")
			return nil
		}
		logger.Warn(fmt.Sprintf("👋 Bot eliminado de %s (%d)", chatTitle(chat), chat.ID), "Member")
	}
	return nil
}

func chatTitle(chat *tele.Chat) string {
	if chat.Title != "" {
		return chat.Title
	}
	if chat.Username != "" {
		return "@" + chat.Username
	}
	return "chat"
}
