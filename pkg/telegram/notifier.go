package telegram

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/PancyStudios/AnimeBotGo/pkg/broadcast"
	"github.com/PancyStudios/AnimeBotGo/pkg/callback"
	"github.com/PancyStudios/AnimeBotGo/pkg/errors"
	tele "gopkg.in/telebot.v3"
)

// Notifier sends bot-initiated messages. It implements vip.Notifier and
// broadcast.Sender.
type Notifier struct {
	bot *tele.Bot
}

func NewNotifier(b *tele.Bot) *Notifier {
	return &Notifier{bot: b}
}

func (n *Notifier) SendText(ctx context.Context, to int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := n.bot.Send(tele.ChatID(to), text, tele.ModeHTML)
	return classify(err)
}

func (n *Notifier) SendPhoto(ctx context.Context, to int64, fileID, caption string, keyboard callback.Keyboard) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	photo := &tele.Photo{File: tele.File{FileID: fileID}, Caption: caption}
	_, err := n.bot.Send(tele.ChatID(to), photo, Markup(keyboard), tele.ModeHTML)
	return classify(err)
}

// SendVideo sends a stored video
func (n *Notifier) SendVideo(ctx context.Context, to int64, fileID, caption string, keyboard callback.Keyboard) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	video := &tele.Video{File: tele.File{FileID: fileID}, Caption: caption}
	_, err := n.bot.Send(tele.ChatID(to), video, Markup(keyboard), tele.ModeHTML)
	return classify(err)
}

// Copy re-sends a message without the forward header
func (n *Notifier) Copy(ctx context.Context, to, fromChat int64, messageID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := &tele.StoredMessage{ChatID: fromChat, MessageID: strconv.Itoa(messageID)}
	_, err := n.bot.Copy(tele.ChatID(to), msg)
	return classify(err)
}

// classify maps Bot API failures onto the broadcast error contract
func classify(err error) error {
	if err == nil {
		return nil
	}

	var flood tele.FloodError
	if errors.As(err, &flood) {
		return &broadcast.FloodError{RetryAfter: time.Duration(flood.RetryAfter) * time.Second}
	}

	switch {
	case errors.Is(err, tele.ErrBlockedByUser),
		errors.Is(err, tele.ErrUserIsDeactivated),
		errors.Is(err, tele.ErrChatNotFound):
		return fmt.Errorf("%w: %v", broadcast.ErrBlocked, err)
	}
	return err
}

// Markup converts an inline keyboard. A nil keyboard gives nil markup.
func Markup(kb callback.Keyboard) *tele.ReplyMarkup {
	if len(kb) == 0 {
		return nil
	}
	rows := make([][]tele.InlineButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]tele.InlineButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tele.InlineButton{Text: b.Text, Data: b.Data, URL: b.URL})
		}
		rows = append(rows, buttons)
	}
	return &tele.ReplyMarkup{InlineKeyboard: rows}
}

// ReplyKeyboard lays labels out in rows of perRow
func ReplyKeyboard(labels []string, perRow int) *tele.ReplyMarkup {
	if perRow <= 0 {
		perRow = 2
	}
	var rows [][]tele.ReplyButton
	for i := 0; i < len(labels); i += perRow {
		end := i + perRow
		if end > len(labels) {
			end = len(labels)
		}
		row := make([]tele.ReplyButton, 0, end-i)
		for _, l := range labels[i:end] {
			row = append(row, tele.ReplyButton{Text: l})
		}
		rows = append(rows, row)
	}
	return &tele.ReplyMarkup{ReplyKeyboard: rows, ResizeKeyboard: true}
}

// RemoveKeyboard hides the reply keyboard
func RemoveKeyboard() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{RemoveKeyboard: true}
}
