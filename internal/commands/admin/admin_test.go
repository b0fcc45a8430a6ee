package admin

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/pkg/callback"
	"github.com/PancyStudios/AnimeBotGo/pkg/database"
	"github.com/PancyStudios/AnimeBotGo/pkg/errors"
	"github.com/PancyStudios/AnimeBotGo/pkg/eventbus"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"github.com/PancyStudios/AnimeBotGo/pkg/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminID int64 = 500

type recordedEvents struct {
	types []string
}

func (r *recordedEvents) Publish(eventType string, _ interface{}) {
	r.types = append(r.types, eventType)
}

func openDB(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newMachine(t *testing.T, wizards ...*wizard.Wizard) *wizard.Machine {
	t.Helper()
	m := wizard.NewMachine(wizard.NewMemoryRepository(time.Hour))
	for _, w := range wizards {
		require.NoError(t, m.Register(w))
	}
	return m
}

// feed submits each input in order and returns the last result
func feed(t *testing.T, m *wizard.Machine, inputs ...wizard.Input) wizard.Result {
	t.Helper()
	var res wizard.Result
	for i, in := range inputs {
		var err error
		res, err = m.Submit(context.Background(), adminID, in)
		require.NoError(t, err, "input %d", i)
	}
	return res
}

func texts(words ...string) []wizard.Input {
	out := make([]wizard.Input, len(words))
	for i, w := range words {
		out[i] = wizard.TextInput(w)
	}
	return out
}

func seedAnime(t *testing.T, store *database.AnimeStore, code string) *models.Anime {
	t.Helper()
	a := &models.Anime{Title: "Anime " + code, Code: code, Genre: "Action", SeasonCount: 1, TotalEpisodes: 12}
	require.NoError(t, store.Create(context.Background(), a))
	return a
}

func TestAddAnimeWizardCreatesAnime(t *testing.T) {
	db := openDB(t)
	store := database.NewAnimeStore(db.Gorm())
	events := &recordedEvents{}
	m := newMachine(t, AddAnimeWizard(store, events))

	_, err := m.Start(context.Background(), adminID, WizardAddAnime, nil)
	require.NoError(t, err)

	res := feed(t, m, texts("Naruto", "Naruto", app.BtnSkip, "Action", "2", "220", app.BtnSkip, app.BtnNo)...)
	require.Equal(t, wizard.StatusCompleted, res.Status)
	assert.Contains(t, res.Prompt.Text, "Anime muvaffaqiyatli qo'shildi")

	a, err := store.GetByCode(context.Background(), "naruto")
	require.NoError(t, err)
	assert.Equal(t, "Naruto", a.Title)
	assert.Equal(t, noDescription, a.Description)
	assert.Equal(t, 2, a.SeasonCount)
	assert.Equal(t, 220, a.TotalEpisodes)
	assert.False(t, a.IsVIP)
	assert.Empty(t, a.PosterFileID)
	assert.Equal(t, []string{eventbus.AnimeCreated}, events.types)
}

func TestAddAnimeWizardRejectsTakenCode(t *testing.T) {
	db := openDB(t)
	store := database.NewAnimeStore(db.Gorm())
	seedAnime(t, store, "naruto")
	m := newMachine(t, AddAnimeWizard(store, eventbus.Nop{}))

	_, err := m.Start(context.Background(), adminID, WizardAddAnime, nil)
	require.NoError(t, err)

	res := feed(t, m, texts("Naruto", "NARUTO")...)
	assert.Equal(t, wizard.StatusRetry, res.Status)
	assert.True(t, errors.IsKind(res.Problem, errors.KindConflict))

	res = feed(t, m, wizard.TextInput("naruto-2"))
	assert.Equal(t, wizard.StatusAdvanced, res.Status)
}

func TestAddAnimeWizardPosterAlternatives(t *testing.T) {
	db := openDB(t)
	store := database.NewAnimeStore(db.Gorm())
	m := newMachine(t, AddAnimeWizard(store, eventbus.Nop{}))

	_, err := m.Start(context.Background(), adminID, WizardAddAnime, nil)
	require.NoError(t, err)
	feed(t, m, texts("One Piece", "op", app.BtnSkip, app.BtnSkip, "1", "1000")...)

	res := feed(t, m, wizard.VideoInput("clip"))
	assert.Equal(t, wizard.StatusRetry, res.Status)

	res = feed(t, m, wizard.PhotoInput("poster"))
	require.Equal(t, wizard.StatusAdvanced, res.Status)
	assert.Contains(t, res.Prompt.Text, "rasm sifatida")

	res = feed(t, m, wizard.TextInput(app.BtnYes))
	require.Equal(t, wizard.StatusCompleted, res.Status)

	a, err := store.GetByCode(context.Background(), "op")
	require.NoError(t, err)
	assert.Equal(t, "poster", a.PosterFileID)
	assert.Equal(t, noGenre, a.Genre)
	assert.True(t, a.IsVIP)
}

func TestEditAnimeWizardUsesFieldKind(t *testing.T) {
	db := openDB(t)
	store := database.NewAnimeStore(db.Gorm())
	a := seedAnime(t, store, "bleach")
	m := newMachine(t, EditAnimeWizard(store))

	prompt, err := m.Start(context.Background(), adminID, WizardEditAnime, wizard.Values{"anime_id": a.ID})
	require.NoError(t, err)
	assert.Contains(t, prompt.Choices, models.AnimeFieldSeasonCount.Label())

	res := feed(t, m, wizard.TextInput("views"))
	assert.Equal(t, wizard.StatusRetry, res.Status)

	res = feed(t, m, wizard.TextInput(models.AnimeFieldSeasonCount.Label()))
	require.Equal(t, wizard.StatusAdvanced, res.Status)

	res = feed(t, m, wizard.TextInput("0"))
	assert.Equal(t, wizard.StatusRetry, res.Status)

	res = feed(t, m, wizard.TextInput("3"))
	require.Equal(t, wizard.StatusCompleted, res.Status)

	got, err := store.Get(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.SeasonCount)
}

func TestEditAnimeWizardAcceptsColumnName(t *testing.T) {
	db := openDB(t)
	store := database.NewAnimeStore(db.Gorm())
	a := seedAnime(t, store, "aot")
	m := newMachine(t, EditAnimeWizard(store))

	_, err := m.Start(context.Background(), adminID, WizardEditAnime, wizard.Values{"anime_id": a.ID})
	require.NoError(t, err)

	res := feed(t, m, texts("is_vip", app.BtnYes)...)
	require.Equal(t, wizard.StatusCompleted, res.Status)
	assert.Contains(t, res.Prompt.Text, app.VIPBadge(true))

	got, err := store.Get(context.Background(), a.ID)
	require.NoError(t, err)
	assert.True(t, got.IsVIP)
}

func TestAddEpisodeWizard(t *testing.T) {
	db := openDB(t)
	anime := database.NewAnimeStore(db.Gorm())
	episodes := database.NewEpisodeStore(db.Gorm())
	a := seedAnime(t, anime, "naruto")
	events := &recordedEvents{}
	m := newMachine(t, AddEpisodeWizard(anime, episodes, events))

	_, err := m.Start(context.Background(), adminID, WizardAddEpisode, wizard.Values{"anime_id": a.ID})
	require.NoError(t, err)

	res := feed(t, m, texts("1", "1", app.BtnSkip)...)
	require.Equal(t, wizard.StatusAdvanced, res.Status)

	res = feed(t, m, wizard.PhotoInput("not-a-video"))
	assert.Equal(t, wizard.StatusRetry, res.Status)

	res = feed(t, m, wizard.VideoInput("video-1"), wizard.TextInput(app.BtnNo))
	require.Equal(t, wizard.StatusCompleted, res.Status)
	assert.Contains(t, res.Prompt.Text, "Qism muvaffaqiyatli qo'shildi")

	n, err := episodes.Count(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, []string{eventbus.EpisodeCreated}, events.types)
}

func TestAddEpisodeWizardDuplicateEpisode(t *testing.T) {
	db := openDB(t)
	anime := database.NewAnimeStore(db.Gorm())
	episodes := database.NewEpisodeStore(db.Gorm())
	a := seedAnime(t, anime, "naruto")
	require.NoError(t, episodes.Create(context.Background(), &models.Episode{AnimeID: a.ID, SeasonNumber: 1, EpisodeNumber: 1, VideoFileID: "v"}))
	m := newMachine(t, AddEpisodeWizard(anime, episodes, eventbus.Nop{}))

	_, err := m.Start(context.Background(), adminID, WizardAddEpisode, wizard.Values{"anime_id": a.ID})
	require.NoError(t, err)
	feed(t, m, texts("1", "1", app.BtnSkip)...)
	_, err = m.Submit(context.Background(), adminID, wizard.VideoInput("v2"))
	require.NoError(t, err)

	_, err = m.Submit(context.Background(), adminID, wizard.TextInput(app.BtnNo))
	assert.True(t, errors.IsKind(err, errors.KindConflict))

	st, err := m.Active(context.Background(), adminID)
	require.NoError(t, err)
	assert.Nil(t, st)
}

func TestAddShortWizard(t *testing.T) {
	db := openDB(t)
	anime := database.NewAnimeStore(db.Gorm())
	shorts := database.NewShortStore(db.Gorm())
	a := seedAnime(t, anime, "jjk")
	m := newMachine(t, AddShortWizard(anime, shorts))

	_, err := m.Start(context.Background(), adminID, WizardAddShort, wizard.Values{"anime_id": a.ID})
	require.NoError(t, err)

	res := feed(t, m, wizard.TextInput("video"))
	assert.Equal(t, wizard.StatusRetry, res.Status)
	assert.Equal(t, "Iltimos, video fayl yuboring.", errors.Message(res.Problem))

	res = feed(t, m, wizard.VideoInput("short-1"))
	require.Equal(t, wizard.StatusCompleted, res.Status)

	got, total, err := shorts.At(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, a.ID, got.AnimeID)
}

func TestAddPlanWizard(t *testing.T) {
	db := openDB(t)
	plans := database.NewPlanStore(db.Gorm())
	m := newMachine(t, AddPlanWizard(plans))

	_, err := m.Start(context.Background(), adminID, WizardAddPlan, nil)
	require.NoError(t, err)

	res := feed(t, m, texts("1 oylik", "-5")...)
	assert.Equal(t, wizard.StatusRetry, res.Status)

	res = feed(t, m, texts("15000", "0")...)
	assert.Equal(t, wizard.StatusRetry, res.Status)

	res = feed(t, m, texts("30", "8600 1234 5678 9012")...)
	require.Equal(t, wizard.StatusCompleted, res.Status)

	list, err := plans.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "1 oylik", list[0].Name)
	assert.Equal(t, int64(15000), list[0].Price)
	assert.Equal(t, 30, list[0].DurationDays)
	assert.Equal(t, "8600 1234 5678 9012", list[0].CardNumber)
}

type fakeChannels struct {
	id   int64
	link string
}

func (f *fakeChannels) Add(_ context.Context, id int64, link string) error {
	f.id, f.link = id, link
	return nil
}

func TestAddChannelWizard(t *testing.T) {
	store := &fakeChannels{}
	m := newMachine(t, AddChannelWizard(store))

	_, err := m.Start(context.Background(), adminID, WizardAddChannel, nil)
	require.NoError(t, err)

	res := feed(t, m, wizard.TextInput("@kanal"))
	assert.Equal(t, wizard.StatusRetry, res.Status)

	res = feed(t, m, texts("-100123456789", "kanal")...)
	assert.Equal(t, wizard.StatusRetry, res.Status)

	res = feed(t, m, wizard.TextInput("https://t.me/kanal"))
	require.Equal(t, wizard.StatusCompleted, res.Status)
	assert.Equal(t, int64(-100123456789), store.id)
	assert.Equal(t, "https://t.me/kanal", store.link)
}

type fakeSettings map[string]string

func (f fakeSettings) Set(_ context.Context, key, value string) error {
	f[key] = value
	return nil
}

func TestSetSettingWizard(t *testing.T) {
	store := fakeSettings{}
	m := newMachine(t, SetSettingWizard(store))

	prompt, err := m.Start(context.Background(), adminID, WizardSetSetting, wizard.Values{"key": models.SettingSupportLink})
	require.NoError(t, err)
	assert.Contains(t, prompt.Text, "Yordam havolasi")

	res := feed(t, m, wizard.TextInput("admin"))
	assert.Equal(t, wizard.StatusRetry, res.Status)

	res = feed(t, m, wizard.TextInput("https://t.me/help"))
	require.Equal(t, wizard.StatusCompleted, res.Status)
	assert.Equal(t, "https://t.me/help", store[models.SettingSupportLink])

	_, err = m.Start(context.Background(), adminID, WizardSetSetting, wizard.Values{"key": models.SettingVipCardName})
	require.NoError(t, err)
	res = feed(t, m, wizard.TextInput("Ali Valiyev"))
	require.Equal(t, wizard.StatusCompleted, res.Status)
	assert.Equal(t, "Ali Valiyev", store[models.SettingVipCardName])
}

func TestSetSettingWizardUnknownKey(t *testing.T) {
	m := newMachine(t, SetSettingWizard(fakeSettings{}))

	_, err := m.Start(context.Background(), adminID, WizardSetSetting, wizard.Values{"key": "token"})
	require.NoError(t, err)

	_, err = m.Submit(context.Background(), adminID, wizard.TextInput("x"))
	assert.True(t, errors.IsKind(err, errors.KindValidation))
}

type fakeRegistry struct {
	actor int64
	added []models.Admin
	err   error
}

func (f *fakeRegistry) Add(_ context.Context, actor int64, a models.Admin) error {
	f.actor = actor
	if f.err != nil {
		return f.err
	}
	f.added = append(f.added, a)
	return nil
}

func TestAddAdminWizard(t *testing.T) {
	reg := &fakeRegistry{}
	m := newMachine(t, AddAdminWizard(reg))

	_, err := m.Start(context.Background(), adminID, WizardAddAdmin, nil)
	require.NoError(t, err)

	res := feed(t, m, wizard.TextInput("ali"))
	assert.Equal(t, wizard.StatusRetry, res.Status)

	res = feed(t, m, texts("42", app.BtnSkip)...)
	require.Equal(t, wizard.StatusCompleted, res.Status)
	assert.Equal(t, adminID, reg.actor)
	assert.Equal(t, []models.Admin{{TelegramID: 42, Role: "admin"}}, reg.added)
}

func TestAddAdminWizardKeepsAuthorizationKind(t *testing.T) {
	reg := &fakeRegistry{err: errors.Authorization("Bu amal faqat adminlar uchun")}
	m := newMachine(t, AddAdminWizard(reg))

	_, err := m.Start(context.Background(), adminID, WizardAddAdmin, nil)
	require.NoError(t, err)
	feed(t, m, wizard.TextInput("42"))

	_, err = m.Submit(context.Background(), adminID, wizard.TextInput("Vali"))
	assert.True(t, errors.IsKind(err, errors.KindAuthorization))
}

type fakeBroadcaster struct {
	previewErr error
	previews   [][2]int64
	started    [][3]int64
	recipients int
}

func (f *fakeBroadcaster) Preview(_ context.Context, fromChat int64, messageID int) error {
	f.previews = append(f.previews, [2]int64{fromChat, int64(messageID)})
	return f.previewErr
}

func (f *fakeBroadcaster) Start(_ context.Context, admin, fromChat int64, messageID int) (int, error) {
	f.started = append(f.started, [3]int64{admin, fromChat, int64(messageID)})
	return f.recipients, nil
}

func broadcastInput(messageID int) wizard.Input {
	return wizard.Input{Kind: wizard.InputText, Text: "Yangi anime!", ChatID: adminID, MessageID: messageID}
}

func TestBroadcastWizardPreviewsAndConfirms(t *testing.T) {
	b := &fakeBroadcaster{recipients: 120}
	m := newMachine(t, BroadcastWizard(b))

	_, err := m.Start(context.Background(), adminID, WizardBroadcast, nil)
	require.NoError(t, err)

	res := feed(t, m, broadcastInput(77))
	require.Equal(t, wizard.StatusAdvanced, res.Status)
	assert.Equal(t, [][2]int64{{adminID, 77}}, b.previews)
	assert.Equal(t, []string{app.BtnAgree}, res.Prompt.Choices)

	res = feed(t, m, wizard.TextInput("ha"))
	assert.Equal(t, wizard.StatusRetry, res.Status)
	assert.Empty(t, b.started)

	res = feed(t, m, wizard.TextInput(app.BtnAgree))
	require.Equal(t, wizard.StatusCompleted, res.Status)
	assert.Contains(t, res.Prompt.Text, "120")
	assert.Equal(t, [][3]int64{{adminID, adminID, 77}}, b.started)
}

func TestBroadcastWizardUncopyableMessage(t *testing.T) {
	b := &fakeBroadcaster{previewErr: fmt.Errorf("bad request")}
	m := newMachine(t, BroadcastWizard(b))

	_, err := m.Start(context.Background(), adminID, WizardBroadcast, nil)
	require.NoError(t, err)

	res := feed(t, m, broadcastInput(3))
	assert.Equal(t, wizard.StatusRetry, res.Status)
	assert.True(t, errors.IsKind(res.Problem, errors.KindValidation))
}

func TestBroadcastWizardNoUsers(t *testing.T) {
	m := newMachine(t, BroadcastWizard(&fakeBroadcaster{}))

	_, err := m.Start(context.Background(), adminID, WizardBroadcast, nil)
	require.NoError(t, err)

	res := feed(t, m, broadcastInput(1), wizard.TextInput(app.BtnAgree))
	require.Equal(t, wizard.StatusCompleted, res.Status)
	assert.Contains(t, res.Prompt.Text, "foydalanuvchilar yo'q")
}

type fakePoster struct {
	target   string
	anime    *models.Anime
	uploaded int64
	format   string
}

func (f *fakePoster) Post(_ context.Context, target string, a *models.Anime, uploaded int64, format string) error {
	f.target, f.anime, f.uploaded, f.format = target, a, uploaded, format
	return nil
}

func TestChannelPostWizard(t *testing.T) {
	db := openDB(t)
	anime := database.NewAnimeStore(db.Gorm())
	episodes := database.NewEpisodeStore(db.Gorm())
	a := seedAnime(t, anime, "naruto")
	for i := 1; i <= 2; i++ {
		require.NoError(t, episodes.Create(context.Background(), &models.Episode{AnimeID: a.ID, SeasonNumber: 1, EpisodeNumber: i, VideoFileID: "v"}))
	}
	poster := &fakePoster{}
	m := newMachine(t, ChannelPostWizard(anime, episodes, poster))

	_, err := m.Start(context.Background(), adminID, WizardChannelPost, wizard.Values{"anime_id": a.ID})
	require.NoError(t, err)

	for _, bad := range []string{"kanal", "@", "@two words"} {
		res := feed(t, m, wizard.TextInput(bad))
		assert.Equal(t, wizard.StatusRetry, res.Status, bad)
	}

	res := feed(t, m, wizard.TextInput("-100123"))
	require.Equal(t, wizard.StatusAdvanced, res.Status)
	assert.Equal(t, []string{btnPostBig, btnPostSmall}, res.Prompt.Choices)

	res = feed(t, m, wizard.TextInput(btnPostSmall))
	require.Equal(t, wizard.StatusCompleted, res.Status)
	assert.Equal(t, "-100123", poster.target)
	assert.Equal(t, a.ID, poster.anime.ID)
	assert.Equal(t, int64(2), poster.uploaded)
	assert.Equal(t, postSmall, poster.format)
}

func TestPostText(t *testing.T) {
	a := &models.Anime{Title: "Naruto", Code: "naruto", Genre: "Action", TotalEpisodes: 220, SeasonCount: 5}

	small := PostText(a, 12, postSmall)
	assert.Contains(t, small, "12/220")
	assert.Contains(t, small, "<code>naruto</code>")

	big := PostText(a, 12, postBig)
	assert.Contains(t, big, "Janr")
	assert.NotEqual(t, small, big)

	kb := PostKeyboard("https://t.me/bot?start=anime_1", "https://t.me/bot?start=fav_1")
	require.Len(t, kb, 2)
	assert.Equal(t, "https://t.me/bot?start=anime_1", kb[0][0].URL)
	assert.Empty(t, kb[0][0].Data)
}

func animePage(ids ...uint) database.Page[models.Anime] {
	p := database.Page[models.Anime]{PerPage: animePerPage, Total: int64(len(ids))}
	for _, id := range ids {
		p.Items = append(p.Items, models.Anime{ID: id, Title: fmt.Sprintf("Anime %d", id), Code: fmt.Sprintf("a%d", id)})
	}
	return p
}

func TestAnimePickerKeyboardRoutesByPurpose(t *testing.T) {
	page := animePage(4, 9)
	cases := map[string]string{
		purposeEditAnime:     "edit_anime:4",
		purposeDeleteAnime:   "del_anime:4",
		purposeAddEpisode:    "add_episode:4",
		purposeAddShort:      "add_short:4",
		purposePost:          "channel_post:4",
		purposeEditEpisode:   "pick_ep:edit_ep:4:0",
		purposeDeleteEpisode: "pick_ep:del_ep:4:0",
	}
	for purpose, want := range cases {
		kb := AnimePickerKeyboard(purpose, page)
		require.Len(t, kb, 2, purpose)
		assert.Equal(t, want, kb[0][0].Data, purpose)
		assert.Contains(t, kb[0][0].Text, "[a4]")
	}
}

func TestAnimePickerKeyboardPages(t *testing.T) {
	page := animePage(1, 2, 3, 4, 5, 6, 7, 8)
	page.Total = 20
	page.Page = 1

	kb := AnimePickerKeyboard(purposeEditAnime, page)
	require.Len(t, kb, 9)
	pager := kb[8]
	require.Len(t, pager, 3)
	assert.Equal(t, "pick:edit:0", pager[0].Data)
	assert.Equal(t, "pick:edit:2", pager[2].Data)
}

func TestEpisodePickerKeyboard(t *testing.T) {
	page := database.Page[models.Episode]{PerPage: episodePerPage, Total: 4}
	for i := 1; i <= 4; i++ {
		page.Items = append(page.Items, models.Episode{ID: uint(10 + i), SeasonNumber: 1, EpisodeNumber: i})
	}

	kb := EpisodePickerKeyboard(purposeDeleteEpisode, 7, page)
	require.Len(t, kb, 3)
	assert.Len(t, kb[0], 3)
	assert.Equal(t, "✖ S1E1", kb[0][0].Text)
	assert.Equal(t, "del_episode:11", kb[0][0].Data)
	assert.Equal(t, "pick:del_ep:0", kb[2][0].Data)

	kb = EpisodePickerKeyboard(purposeEditEpisode, 7, page)
	assert.Equal(t, "edit_episode:11", kb[0][0].Data)
}

func TestPlansAdmin(t *testing.T) {
	assert.Contains(t, PlansAdminText(nil), "rejalar mavjud emas")

	plans := []models.VipPlan{{ID: 2, Name: "1 oylik", Price: 15000, DurationDays: 30}}
	text := PlansAdminText(plans)
	assert.Contains(t, text, "1 oylik - 15000 so'm (30 kun) [ID: 2]")
	assert.Contains(t, text, "Karta: ---")

	kb := PlansAdminKeyboard(plans)
	require.Len(t, kb, 1)
	assert.Equal(t, callback.MustEncode(callback.PlanDelete, 2), kb[0][0].Data)
}

func TestChannelsText(t *testing.T) {
	assert.Contains(t, ChannelsText(nil), "Kanallar qo'shilmagan")
	text := ChannelsText([]models.Channel{{ChannelID: -1001, ChannelLink: "https://t.me/a"}})
	assert.Contains(t, text, "<code>-1001</code> - https://t.me/a")
}

func TestSettingsScreen(t *testing.T) {
	text := SettingsText(map[string]string{
		models.SettingSupportLink:     "https://t.me/help",
		models.SettingMaintenanceMode: "true",
	})
	assert.Contains(t, text, "<code>https://t.me/help</code>")
	assert.Contains(t, text, "yoqilgan")

	kb := SettingsKeyboard(true)
	last := kb[len(kb)-1]
	assert.Equal(t, callback.AdminPanel, last[0].Data)
	toggle := kb[len(kb)-2][0]
	assert.Equal(t, callback.Maintenance, toggle.Data)
	assert.True(t, strings.Contains(toggle.Text, "o'chirish"))
	assert.Equal(t, "setting:"+models.SettingSupportLink, kb[0][0].Data)
}

func TestAdminsKeyboard(t *testing.T) {
	kb := AdminsKeyboard([]int64{1}, []models.Admin{{TelegramID: 42, FullName: "Vali"}})
	require.Len(t, kb, 4)
	assert.Equal(t, "admin_view:1", kb[0][0].Data)
	assert.Contains(t, kb[0][0].Text, "👑")
	assert.Equal(t, "admin_view:42", kb[1][0].Data)
	assert.Contains(t, kb[1][0].Text, "Vali (42)")
	assert.Equal(t, callback.AdminAdd, kb[2][0].Data)
}

func TestStatsText(t *testing.T) {
	text := StatsText(&database.Overview{TotalUsers: 10, VIPUsers: 2, TotalAnime: 3}, []database.TopAnime{{ID: 1, Title: "Naruto", Views: 99}})
	assert.Contains(t, text, "Foydalanuvchilar: <b>10</b>")
	assert.Contains(t, text, "1. Naruto (👁 99)")

	assert.NotContains(t, StatsText(&database.Overview{}, nil), "Top animelar")
}

func TestFormatUptime(t *testing.T) {
	assert.Equal(t, "0 soniya", formatUptime(0))
	assert.Equal(t, "1 kun, 2 soat, 5 soniya", formatUptime(26*time.Hour+5*time.Second))
}
