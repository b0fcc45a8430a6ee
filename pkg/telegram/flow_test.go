package telegram

import (
	"context"
	"testing"
	"time"

	"github.com/PancyStudios/AnimeBotGo/pkg/errors"
	"github.com/PancyStudios/AnimeBotGo/pkg/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

func planWizard(saved *wizard.Values) *wizard.Wizard {
	return &wizard.Wizard{
		ID: "add_plan",
		Steps: []wizard.Step{
			{Name: "name", Prompt: wizard.Ask("Reja nomini kiriting:"), Validate: wizard.Text("name")},
			{Name: "days", Prompt: wizard.Ask("Muddat (kun):", "30", "90"), Validate: wizard.IntAtLeast("days", 1)},
		},
		Commit: func(_ context.Context, _ int64, v wizard.Values) (wizard.Prompt, error) {
			*saved = v
			return wizard.Prompt{Text: "✅ Reja qo'shildi"}, nil
		},
	}
}

func newTestFlow(t *testing.T, saved *wizard.Values) *Flow {
	m := wizard.NewMachine(wizard.NewMemoryRepository(time.Minute))
	m.MustRegister(planWizard(saved))
	return &Flow{
		Machine: m,
		Menu:    func(tele.Context) *tele.ReplyMarkup { return ReplyKeyboard([]string{"⌂ Bosh sahifa"}, 1) },
	}
}

func TestFlowRunsWizardToCompletion(t *testing.T) {
	api := newFakeAPI(t)
	b := api.Bot(t)
	var saved wizard.Values
	f := newTestFlow(t, &saved)

	require.NoError(t, f.Start(b.NewContext(textUpdate(7, "💎 VIP boshqarish")), "add_plan", nil))

	handled, err := f.Handle(b.NewContext(textUpdate(7, "Oylik")))
	require.NoError(t, err)
	assert.True(t, handled)

	handled, err = f.Handle(b.NewContext(textUpdate(7, "0")))
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Nil(t, saved)

	handled, err = f.Handle(b.NewContext(textUpdate(7, "30")))
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, "Oylik", saved.String("name"))
	assert.Equal(t, 30, saved.Int("days"))

	msgs := api.Calls("sendMessage")
	require.Len(t, msgs, 5)
	assert.Equal(t, "Reja nomini kiriting:", msgs[0].Str("text"))
	assert.Contains(t, msgs[0].Str("reply_markup"), CancelLabel)
	assert.Equal(t, "Muddat (kun):", msgs[1].Str("text"))
	assert.Contains(t, msgs[1].Str("reply_markup"), `"90"`)
	assert.Contains(t, msgs[2].Str("text"), "⚠️")
	assert.Equal(t, "Muddat (kun):", msgs[3].Str("text"))
	assert.Equal(t, "✅ Reja qo'shildi", msgs[4].Str("text"))
	assert.Contains(t, msgs[4].Str("reply_markup"), "Bosh sahifa")
}

func TestFlowIgnoresIdleUsers(t *testing.T) {
	api := newFakeAPI(t)
	var saved wizard.Values
	f := newTestFlow(t, &saved)

	handled, err := f.Handle(api.Bot(t).NewContext(textUpdate(7, "hello")))
	require.NoError(t, err)
	assert.False(t, handled)
	assert.Empty(t, api.Calls("sendMessage"))
}

func TestFlowCancelWord(t *testing.T) {
	api := newFakeAPI(t)
	b := api.Bot(t)
	var saved wizard.Values
	f := newTestFlow(t, &saved)

	require.NoError(t, f.Start(b.NewContext(textUpdate(7, "/add_plan")), "add_plan", nil))
	handled, err := f.Handle(b.NewContext(textUpdate(7, CancelLabel)))
	require.NoError(t, err)
	assert.True(t, handled)

	msgs := api.Calls("sendMessage")
	require.Len(t, msgs, 2)
	assert.Equal(t, CancelledText, msgs[1].Str("text"))

	state, err := f.Machine.Active(context.Background(), 7)
	require.NoError(t, err)
	assert.Nil(t, state)

	// cancelling again is harmless
	require.NoError(t, f.Cancel(b.NewContext(textUpdate(7, "/cancel"))))
}

func TestFlowStartUnknownWizard(t *testing.T) {
	api := newFakeAPI(t)
	var saved wizard.Values
	f := newTestFlow(t, &saved)

	require.NoError(t, f.Start(api.Bot(t).NewContext(textUpdate(7, "x")), "missing", nil))
	msgs := api.Calls("sendMessage")
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Str("text"), "🔍")
}

func TestInputFrom(t *testing.T) {
	api := newFakeAPI(t)
	b := api.Bot(t)

	in := InputFrom(b.NewContext(textUpdate(5, "Naruto")))
	assert.Equal(t, wizard.InputText, in.Kind)
	assert.Equal(t, "Naruto", in.Text)
	assert.Equal(t, int64(5), in.ChatID)
	assert.Equal(t, 10, in.MessageID)

	photo := textUpdate(5, "")
	photo.Message.Photo = &tele.Photo{File: tele.File{FileID: "ph"}}
	photo.Message.Caption = "chek"
	in = InputFrom(b.NewContext(photo))
	assert.Equal(t, wizard.InputPhoto, in.Kind)
	assert.Equal(t, "ph", in.FileID)
	assert.Equal(t, "chek", in.Text)

	video := textUpdate(5, "")
	video.Message.Video = &tele.Video{File: tele.File{FileID: "vid"}}
	in = InputFrom(b.NewContext(video))
	assert.Equal(t, wizard.InputVideo, in.Kind)
	assert.Equal(t, "vid", in.FileID)

	in = InputFrom(b.NewContext(callbackUpdate(5, "Ha (VIP)")))
	assert.Equal(t, wizard.InputCallback, in.Kind)
	assert.Equal(t, "Ha (VIP)", in.Data)
	assert.Equal(t, 20, in.MessageID)

	sticker := textUpdate(5, "")
	in = InputFrom(b.NewContext(sticker))
	assert.Equal(t, wizard.InputOther, in.Kind)
}

func TestErrorText(t *testing.T) {
	assert.Equal(t, "⚠️ Noto'g'ri son", ErrorText(errors.Validation("Noto'g'ri son")))
	assert.Contains(t, ErrorText(errors.Conflict("Kod band")), "Qayta urinib")
	assert.Equal(t, "⛔ Ruxsat yo'q", ErrorText(errors.Authorization("Ruxsat yo'q")))
	assert.Equal(t, "🔍 Anime topilmadi", ErrorText(errors.NotFound("Anime topilmadi")))
	assert.Equal(t, genericFailure, ErrorText(errors.New("driver: bad connection")))

	text := ErrorText(errors.Persistence(errors.New("database is locked"), "Saqlashda xatolik yuz berdi"))
	assert.Contains(t, text, "Saqlashda xatolik yuz berdi")
	assert.Contains(t, text, "<code>database is locked</code>")

	text = ErrorText(errors.Persistence(errors.New("near \"<b>\": syntax error"), "Saqlashda xatolik yuz berdi"))
	assert.NotContains(t, text, "<b>")

	assert.NotContains(t, ErrorText(errors.Persistence(nil, "Saqlashda xatolik yuz berdi")), "<code>")
}

func TestFlowMiddleware(t *testing.T) {
	api := newFakeAPI(t)
	b := api.Bot(t)
	var saved wizard.Values
	f := newTestFlow(t, &saved)

	routed := 0
	next := func(tele.Context) error {
		routed++
		return nil
	}
	shortcut := func(text string) bool { return text == "/help" }
	h := f.Middleware(shortcut)(next)

	// idle users go straight to routing
	require.NoError(t, h(b.NewContext(textUpdate(7, "hello"))))
	assert.Equal(t, 1, routed)

	require.NoError(t, f.Start(b.NewContext(textUpdate(7, "/add_plan")), "add_plan", nil))
	require.NoError(t, h(b.NewContext(textUpdate(7, "Oylik"))))
	assert.Equal(t, 1, routed)

	// a command ends the wizard and is routed
	require.NoError(t, h(b.NewContext(textUpdate(7, "/help"))))
	assert.Equal(t, 2, routed)

	state, err := f.Machine.Active(context.Background(), 7)
	require.NoError(t, err)
	assert.Nil(t, state)
	assert.Nil(t, saved)
}
