package premium

import (
	"fmt"

	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/pkg/callback"
	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
	"github.com/PancyStudios/AnimeBotGo/pkg/telegram"
	"github.com/PancyStudios/AnimeBotGo/pkg/vip"
	tele "gopkg.in/telebot.v3"
)

// approveCallback is vip_approve:<user>:<plan>
func approveCallback(s *app.Services) telegram.CallbackFunc {
	return func(c tele.Context, p callback.Payload) error {
		userID, err := p.Int64(0)
		if err != nil {
			return nil
		}
		planID, err := p.Uint(1)
		if err != nil {
			return nil
		}

		ctx, cancel := app.Context()
		defer cancel()
		expiry, err := s.VIP.Approve(ctx, c.Sender().ID, userID, planID)
		if err != nil {
			return telegram.ReplyError(c, err)
		}
		closeRequest(c, vip.ApprovedAdminText(userID, expiry))
		return c.Respond(&tele.CallbackResponse{Text: "✔ Tasdiqlandi!"})
	}
}

// rejectCallback is vip_reject:<user>
func rejectCallback(s *app.Services) telegram.CallbackFunc {
	return func(c tele.Context, p callback.Payload) error {
		userID, err := p.Int64(0)
		if err != nil {
			return nil
		}

		ctx, cancel := app.Context()
		defer cancel()
		if err := s.VIP.Reject(ctx, c.Sender().ID, userID); err != nil {
			return telegram.ReplyError(c, err)
		}
		closeRequest(c, vip.RejectedAdminText(userID))
		return c.Respond(&tele.CallbackResponse{Text: "✖ Rad etildi!"})
	}
}

// closeRequest swaps the screenshot caption for the outcome and drops the buttons.
// Other admins keep their copy; a second press on theirs replays the outcome.
func closeRequest(c tele.Context, text string) {
	msg := c.Message()
	if msg == nil {
		return
	}
	if _, err := c.Bot().EditCaption(msg, text, &tele.ReplyMarkup{}); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo editar la solicitud %d: %v", msg.ID, err), "VIP")
	}
}
