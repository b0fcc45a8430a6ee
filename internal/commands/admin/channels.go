package admin

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"github.com/PancyStudios/AnimeBotGo/pkg/sanitize"
	"github.com/PancyStudios/AnimeBotGo/pkg/telegram"
	"github.com/PancyStudios/AnimeBotGo/pkg/wizard"
	tele "gopkg.in/telebot.v3"
)

// WizardAddChannel registers a forced subscription channel
const WizardAddChannel = "add_channel"

type channelAdder interface {
	Add(ctx context.Context, channelID int64, link string) error
}

func createChannelsCommand(s *app.Services) *telegram.Command {
	return telegram.NewCommand("channels", "Majburiy obuna kanallari", "admin", func(c tele.Context) error {
		ctx, cancel := app.Context()
		defer cancel()
		list, err := s.Channels.List(ctx)
		if err != nil {
			return telegram.ReplyError(c, err)
		}
		return c.Send(ChannelsText(list))
	}).WithAliases(app.BtnSubscription)
}

func createAddChannelCommand(s *app.Services) *telegram.Command {
	return telegram.NewCommand("add_channel", "Kanal qo'shish", "admin", func(c tele.Context) error {
		return s.Flow.Start(c, WizardAddChannel, nil)
	})
}

func createRemoveChannelCommand(s *app.Services) *telegram.Command {
	return telegram.NewCommand("remove_channel", "Kanalni o'chirish", "admin", func(c tele.Context) error {
		args := app.Args(c)
		if len(args) == 0 {
			return c.Send("/remove_channel [channel_id]")
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return c.Send("✖ To'g'ri ID kiriting.")
		}
		ctx, cancel := app.Context()
		defer cancel()
		if err := s.Channels.Remove(ctx, id); err != nil {
			return telegram.ReplyError(c, err)
		}
		logger.Info(fmt.Sprintf("Canal %d eliminado de la suscripción obligatoria por %d", id, c.Sender().ID), "Admin")
		return c.Send("✔ Kanal o'chirildi!")
	})
}

// ChannelsText lists the forced subscription channels
func ChannelsText(list []models.Channel) string {
	var b strings.Builder
	b.WriteString("<b>🚫 Majburiy obuna</b>\n" + app.Separator + "\n\n")
	if len(list) == 0 {
		b.WriteString("Kanallar qo'shilmagan.\n")
	}
	for _, ch := range list {
		fmt.Fprintf(&b, "▸ <code>%d</code> - %s\n", ch.ChannelID, sanitize.Text(ch.ChannelLink))
	}
	b.WriteString("\n/add_channel - Qo'shish\n/remove_channel [id] - O'chirish")
	return b.String()
}

// AddChannelWizard asks for the numeric chat id and the invite link
func AddChannelWizard(store channelAdder) *wizard.Wizard {
	return &wizard.Wizard{
		ID: WizardAddChannel,
		Steps: []wizard.Step{
			{
				Name:     "channel_id",
				Prompt:   wizard.Ask("▸ Kanal ID kiriting (masalan: <code>-100123456789</code>):"),
				Validate: wizard.Int64("channel_id"),
			},
			{
				Name:     "link",
				Prompt:   wizard.Ask("▸ Kanal havolasini kiriting (https://t.me/...):"),
				Validate: wizard.URL("link"),
			},
		},
		Commit: func(ctx context.Context, identity int64, v wizard.Values) (wizard.Prompt, error) {
			id := v.Int64("channel_id")
			if err := store.Add(ctx, id, v.String("link")); err != nil {
				return wizard.Prompt{}, err
			}
			logger.Info(fmt.Sprintf("Canal %d añadido a la suscripción obligatoria por %d", id, identity), "Admin")
			return wizard.Prompt{Text: "✔ Kanal qo'shildi!\n\n⚠️ Bot kanalda admin bo'lishi shart."}, nil
		},
	}
}
