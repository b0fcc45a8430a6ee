package events

import (
	"fmt"

	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
)

// OnReady logs the bot identity and publishes the command menu. It runs once,
// right before polling starts.
func OnReady(s *app.Services) {
	me := s.Client.Bot.Me
	if me == nil {
		logger.Warn("Bot sin identidad (modo offline)", "Ready")
		return
	}
	logger.Success(fmt.Sprintf("✅ Bot listo: @%s (%d)", me.Username, me.ID), "Ready")

	menu := s.Client.Commands.Menu()
	if err := s.Client.Bot.SetCommands(menu); err != nil {
		logger.Error(fmt.Sprintf("Error publicando el menú de comandos: %v", err), "Ready")
		return
	}
	logger.Debug(fmt.Sprintf("Menú de comandos publicado (%d)", len(menu)), "Ready")
}
