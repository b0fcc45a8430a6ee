package events

import (
	"testing"
	"time"

	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/pkg/telegram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

func TestEveryMediaKindReachesMiddleware(t *testing.T) {
	client, err := telegram.NewClient(telegram.Settings{Token: "test-token", URL: "http://127.0.0.1:1", Offline: true})
	require.NoError(t, err)

	seen := make(chan int, 16)
	client.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			seen <- c.Message().ID
			return nil
		}
	})
	RegisterMessageEvents(&app.Services{Client: client})

	chat := &tele.Chat{ID: 7, Type: tele.ChatPrivate}
	sender := &tele.User{ID: 7}
	updates := []*tele.Message{
		{ID: 1, Photo: &tele.Photo{File: tele.File{FileID: "p"}}},
		{ID: 2, Video: &tele.Video{File: tele.File{FileID: "v"}}},
		{ID: 3, Document: &tele.Document{File: tele.File{FileID: "d"}}},
		{ID: 4, Sticker: &tele.Sticker{File: tele.File{FileID: "s"}}},
		{ID: 5, Voice: &tele.Voice{File: tele.File{FileID: "vo"}}},
		{ID: 6, Audio: &tele.Audio{File: tele.File{FileID: "a"}}},
		{ID: 7, Animation: &tele.Animation{File: tele.File{FileID: "g"}}},
		{ID: 8, VideoNote: &tele.VideoNote{File: tele.File{FileID: "n"}}},
		{ID: 9, Text: "salom"},
	}
	for _, m := range updates {
		m.Chat, m.Sender = chat, sender
		client.Bot.ProcessUpdate(tele.Update{Message: m})
	}

	got := map[int]bool{}
	require.Eventually(t, func() bool {
		for {
			select {
			case id := <-seen:
				got[id] = true
			default:
				return len(got) == len(updates)
			}
		}
	}, 2*time.Second, 10*time.Millisecond)
	for _, m := range updates {
		assert.True(t, got[m.ID], "message %d", m.ID)
	}
}
