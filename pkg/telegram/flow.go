package telegram

import (
	"context"
	"fmt"

	"github.com/PancyStudios/AnimeBotGo/pkg/errors"
	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
	"github.com/PancyStudios/AnimeBotGo/pkg/wizard"
	tele "gopkg.in/telebot.v3"
)

// CancelLabel is the reply button that ends any wizard
const CancelLabel = "❌ Bekor qilish"

// CancelledText confirms a cancelled wizard
const CancelledText = "❌ Bekor qilindi."

// InputFrom converts an update into wizard input
func InputFrom(c tele.Context) wizard.Input {
	if cb := c.Callback(); cb != nil {
		in := wizard.CallbackInput(cb.Data)
		if cb.Message != nil {
			in.ChatID = cb.Message.Chat.ID
			in.MessageID = cb.Message.ID
		}
		return in
	}

	msg := c.Message()
	if msg == nil {
		return wizard.Input{Kind: wizard.InputOther}
	}

	var in wizard.Input
	switch {
	case msg.Photo != nil:
		in = wizard.PhotoInput(msg.Photo.FileID)
		in.Text = msg.Caption
	case msg.Video != nil:
		in = wizard.VideoInput(msg.Video.FileID)
		in.Text = msg.Caption
	case msg.Text != "":
		in = wizard.TextInput(msg.Text)
	default:
		in = wizard.Input{Kind: wizard.InputOther, Text: msg.Caption}
	}
	if msg.Chat != nil {
		in.ChatID = msg.Chat.ID
	}
	in.MessageID = msg.ID
	return in
}

// Flow renders wizard prompts and results on Telegram
type Flow struct {
	Machine *wizard.Machine
	// Menu is the reply keyboard shown once a wizard ends
	Menu func(c tele.Context) *tele.ReplyMarkup
}

// Start begins wizardID for the sender and shows its first prompt
func (f *Flow) Start(c tele.Context, wizardID string, seed wizard.Values) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	prompt, err := f.Machine.Start(context.Background(), sender.ID, wizardID, seed)
	if err != nil {
		return ReplyError(c, err)
	}
	return f.Render(c, prompt)
}

// Handle feeds the update to the sender's active wizard. It reports false when the
// sender has none, so the caller can route the update elsewhere.
func (f *Flow) Handle(c tele.Context) (bool, error) {
	sender := c.Sender()
	if sender == nil {
		return false, nil
	}

	res, err := f.Machine.Submit(context.Background(), sender.ID, InputFrom(c))
	if err != nil {
		logger.Warn(fmt.Sprintf("Wizard de %d terminó con error: %v", sender.ID, err), "Wizard")
		if sendErr := c.Send(ErrorText(err), f.menu(c)); sendErr != nil {
			return true, sendErr
		}
		errors.Track(err, "wizard")
		return true, nil
	}

	switch res.Status {
	case wizard.StatusIdle:
		return false, nil
	case wizard.StatusCancelled:
		return true, c.Send(CancelledText, f.menu(c))
	case wizard.StatusRetry:
		if err := c.Send(ErrorText(res.Problem)); err != nil {
			return true, err
		}
		return true, f.Render(c, res.Prompt)
	case wizard.StatusCompleted:
		if res.Prompt.Text == "" {
			return true, nil
		}
		if len(res.Prompt.Inline) > 0 {
			if err := c.Send(res.Prompt.Text, Markup(res.Prompt.Inline)); err != nil {
				return true, err
			}
			return true, nil
		}
		return true, c.Send(res.Prompt.Text, f.menu(c))
	default:
		return true, f.Render(c, res.Prompt)
	}
}

// Middleware feeds messages to the sender's active wizard before normal routing.
// A message for which shortcut reports true (a command or a menu button) ends the
// wizard quietly and is routed as usual. Button presses reach wizards through the
// callback router fallback instead.
func (f *Flow) Middleware(shortcut func(text string) bool) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender, msg := c.Sender(), c.Message()
			if sender == nil || msg == nil || c.Callback() != nil {
				return next(c)
			}
			if shortcut != nil && shortcut(msg.Text) && !f.Machine.IsCancel(msg.Text) {
				if err := f.Machine.Cancel(context.Background(), sender.ID); err != nil {
					logger.Warn(fmt.Sprintf("No se pudo cerrar el wizard de %d: %v", sender.ID, err), "Wizard")
				}
				return next(c)
			}
			handled, err := f.Handle(c)
			if handled {
				return err
			}
			return next(c)
		}
	}
}

// Cancel ends the sender's wizard, if any, and shows the menu
func (f *Flow) Cancel(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	if err := f.Machine.Cancel(context.Background(), sender.ID); err != nil {
		return ReplyError(c, err)
	}
	return c.Send(CancelledText, f.menu(c))
}

// Render shows a prompt. Inline buttons win over reply choices; reply choices always
// carry the cancel button.
func (f *Flow) Render(c tele.Context, p wizard.Prompt) error {
	if len(p.Inline) > 0 {
		return c.Send(p.Text, Markup(p.Inline))
	}
	kb := ReplyKeyboard(p.Choices, 2)
	kb.ReplyKeyboard = append(kb.ReplyKeyboard, []tele.ReplyButton{{Text: CancelLabel}})
	return c.Send(p.Text, kb)
}

func (f *Flow) menu(c tele.Context) *tele.ReplyMarkup {
	if f.Menu == nil {
		return RemoveKeyboard()
	}
	return f.Menu(c)
}
