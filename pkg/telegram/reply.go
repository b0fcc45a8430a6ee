package telegram

import (
	"fmt"

	"github.com/PancyStudios/AnimeBotGo/pkg/errors"
	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
	"github.com/PancyStudios/AnimeBotGo/pkg/sanitize"
	tele "gopkg.in/telebot.v3"
)

const genericFailure = "❌ Xatolik yuz berdi. Iltimos, keyinroq qayta urinib ko'ring."

// detailLimit caps the store error shown to the user
const detailLimit = 300

// ErrorText renders err for the user according to its kind
func ErrorText(err error) string {
	msg := errors.Message(err)
	switch errors.KindOf(err) {
	case errors.KindValidation:
		return "⚠️ " + msg
	case errors.KindConflict:
		return "⚠️ " + msg + "\n\nQayta urinib ko'ring."
	case errors.KindPersistence:
		text := "❌ " + msg
		if detail := sanitize.Text(errors.Detail(err)); detail != "" {
			text += "\n\nXato xabari: <code>" + sanitize.Truncate(detail, detailLimit) + "</code>"
		}
		return text + "\n\nIltimos, keyinroq qayta urinib ko'ring."
	case errors.KindAuthorization:
		return "⛔ " + msg
	case errors.KindNotFound:
		return "🔍 " + msg
	default:
		return genericFailure
	}
}

// ReplyError answers the update with the user-facing text of err. Presses get an
// alert, messages a reply. Unclassified errors are logged and counted.
func ReplyError(c tele.Context, err error) error {
	if err == nil {
		return nil
	}

	kind := errors.KindOf(err)
	switch kind {
	case errors.KindUnknown, errors.KindPersistence:
		who := int64(0)
		if c.Sender() != nil {
			who = c.Sender().ID
		}
		logger.Error(fmt.Sprintf("Error (%s) atendiendo a %d: %v", kind, who, err), "Handlers")
		errors.Track(err, "handlers")
	}

	text := ErrorText(err)
	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: sanitize.Plain(text), ShowAlert: true})
	}
	return c.Send(text, tele.ModeHTML)
}
