package events

import (
	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/pkg/callback"
	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
	tele "gopkg.in/telebot.v3"
)

// RegisterWizardEvents routes unclaimed button presses to the sender's wizard
func RegisterWizardEvents(s *app.Services) {
	s.Client.Callbacks.Fallback(func(c tele.Context, p callback.Payload) error {
		handled, err := s.Flow.Handle(c)
		if !handled {
			logger.Debug("Callback sin ruta ni wizard: "+p.Action, "Wizard")
			return app.Alert(c, expiredButtonText)
		}
		return err
	})
}
