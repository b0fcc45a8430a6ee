package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PancyStudios/AnimeBotGo/pkg/callback"
	"github.com/PancyStudios/AnimeBotGo/pkg/database"
	"github.com/PancyStudios/AnimeBotGo/pkg/errors"
	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
	"github.com/PancyStudios/AnimeBotGo/pkg/telegram"
	tele "gopkg.in/telebot.v3"
)

// Show replaces the pressed message with what, or sends it for a plain message.
// Media messages cannot be edited into text, so they are deleted and resent.
func Show(c tele.Context, what interface{}, opts ...interface{}) error {
	cb := c.Callback()
	if cb == nil || cb.Message == nil {
		return c.Send(what, opts...)
	}
	_, isText := what.(string)
	if isText && cb.Message.Photo == nil && cb.Message.Video == nil {
		if err := c.Edit(what, opts...); err == nil || errors.Is(err, tele.ErrSameMessageContent) {
			return nil
		}
	}
	if err := c.Delete(); err != nil {
		logger.Debug(fmt.Sprintf("No se pudo borrar el mensaje %d: %v", cb.Message.ID, err), "App")
	}
	return c.Send(what, opts...)
}

// Alert answers a button press with a popup
func Alert(c tele.Context, text string) error {
	if c.Callback() == nil {
		return c.Send(text)
	}
	return c.Respond(&tele.CallbackResponse{Text: text, ShowAlert: true})
}

// Pager appends the prev / position / next row of a paginated list
func Pager[T any](kb callback.Keyboard, p database.Page[T], action string, args ...interface{}) callback.Keyboard {
	if p.Pages() <= 1 {
		return kb
	}
	at := func(page int) []interface{} {
		out := append([]interface{}{}, args...)
		return append(out, page)
	}
	var row []callback.Button
	if p.HasPrev() {
		row = append(row, callback.Btn("⬅️ Oldingi", action, at(p.Page-1)...))
	}
	row = append(row, callback.Btn(fmt.Sprintf("📄 %d/%d", p.Page+1, p.Pages()), callback.Noop))
	if p.HasNext() {
		row = append(row, callback.Btn("Keyingi ➡️", action, at(p.Page+1)...))
	}
	return append(kb, row)
}

// Grid lays buttons out perRow at a time
func Grid(buttons []callback.Button, perRow int) callback.Keyboard {
	var kb callback.Keyboard
	for i := 0; i < len(buttons); i += perRow {
		end := i + perRow
		if end > len(buttons) {
			end = len(buttons)
		}
		kb = append(kb, buttons[i:end])
	}
	return kb
}

// Markup is telegram.Markup, re-exported so handlers need one import
func Markup(kb callback.Keyboard) *tele.ReplyMarkup {
	return telegram.Markup(kb)
}

// Args returns the words after a slash command
func Args(c tele.Context) []string {
	msg := c.Message()
	if msg == nil {
		return nil
	}
	return strings.Fields(msg.Payload)
}

// UintArg parses the first command argument as a row id
func UintArg(c tele.Context) (uint, bool) {
	args := Args(c)
	if len(args) == 0 {
		return 0, false
	}
	n, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

// VIPBadge renders the access label of an item
func VIPBadge(vip bool) string {
	if vip {
		return "💎 VIP"
	}
	return "🆓 Bepul"
}
