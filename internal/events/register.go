// Package events provides the non-command update handlers of the bot.
// Events are organized by category (ready, messages, chat membership, wizard input).
package events

import (
	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
)

// RegisterAll registers all event handlers with the Telegram client
func RegisterAll(s *app.Services) {
	logger.System("📋 Registrando eventos del bot...", "Events")

	// Wizard button presses that no route claims
	RegisterWizardEvents(s)

	// Text and media nobody else handled
	RegisterMessageEvents(s)

	// Bot added to or removed from chats
	RegisterMemberEvents(s)

	logger.Success("✅ Todos los eventos registrados correctamente", "Events")
}
