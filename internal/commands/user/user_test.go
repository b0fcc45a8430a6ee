package user

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/PancyStudios/AnimeBotGo/pkg/callback"
	"github.com/PancyStudios/AnimeBotGo/pkg/database"
	"github.com/PancyStudios/AnimeBotGo/pkg/errors"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"github.com/PancyStudios/AnimeBotGo/pkg/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const viewerID int64 = 42

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

func submit(t *testing.T, m *wizard.Machine, text string) wizard.Result {
	t.Helper()
	res, err := m.Submit(context.Background(), viewerID, wizard.TextInput(text))
	require.NoError(t, err)
	return res
}

func seedAnime(t *testing.T, store *database.AnimeStore, title, code, genre string) *models.Anime {
	t.Helper()
	a := &models.Anime{Title: title, Code: code, Genre: genre, SeasonCount: 1, TotalEpisodes: 12}
	require.NoError(t, store.Create(context.Background(), a))
	return a
}

func TestCommentWizardStoresComment(t *testing.T) {
	db := openDB(t)
	anime := database.NewAnimeStore(db.Gorm())
	comments := database.NewCommentStore(db.Gorm())
	users := database.NewUserStore(db.Gorm())
	a := seedAnime(t, anime, "Naruto", "naruto", "Action")
	_, err := users.Upsert(context.Background(), viewerID, "Ali Valiyev", "ali")
	require.NoError(t, err)

	m := newMachine(t, CommentWizard(anime, comments, users))
	p, err := m.Start(context.Background(), viewerID, WizardComment, wizard.Values{"anime_id": a.ID})
	require.NoError(t, err)
	assert.Contains(t, p.Text, "Izohingizni yozing")

	res := submit(t, m, "Ajoyib anime")
	require.Equal(t, wizard.StatusCompleted, res.Status)
	assert.Contains(t, res.Prompt.Text, "Naruto")

	list, err := comments.List(context.Background(), a.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Ali Valiyev", list.Items[0].UserName)
	assert.Equal(t, viewerID, list.Items[0].UserID)
	assert.Equal(t, "Ajoyib anime", list.Items[0].Text)
}

func TestCommentWizardRejectsLongText(t *testing.T) {
	db := openDB(t)
	anime := database.NewAnimeStore(db.Gorm())
	comments := database.NewCommentStore(db.Gorm())
	a := seedAnime(t, anime, "Bleach", "bleach", "Action")

	m := newMachine(t, CommentWizard(anime, comments, database.NewUserStore(db.Gorm())))
	_, err := m.Start(context.Background(), viewerID, WizardComment, wizard.Values{"anime_id": a.ID})
	require.NoError(t, err)

	res := submit(t, m, strings.Repeat("a", commentMaxRunes+1))
	assert.Equal(t, wizard.StatusRetry, res.Status)
	assert.True(t, errors.IsKind(res.Problem, errors.KindValidation))

	// unknown users are still named
	res = submit(t, m, "Yaxshi")
	require.Equal(t, wizard.StatusCompleted, res.Status)
	list, err := comments.List(context.Background(), a.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Foydalanuvchi", list.Items[0].UserName)
}

func TestSearchWizardRemembersTerm(t *testing.T) {
	db := openDB(t)
	anime := database.NewAnimeStore(db.Gorm())
	seedAnime(t, anime, "One Piece", "op", "Adventure")
	seedAnime(t, anime, "One Punch Man", "opm", "Action")
	seedAnime(t, anime, "Death Note", "dn", "Thriller")

	var remembered string
	remember := func(id int64, by database.SearchBy, term string) {
		assert.Equal(t, viewerID, id)
		assert.Equal(t, database.SearchByTitle, by)
		remembered = term
	}
	m := newMachine(t, SearchWizard(WizardSearchTitle, database.SearchByTitle, anime, remember, 10))

	_, err := m.Start(context.Background(), viewerID, WizardSearchTitle, nil)
	require.NoError(t, err)
	res := submit(t, m, "one")
	require.Equal(t, wizard.StatusCompleted, res.Status)
	assert.Contains(t, res.Prompt.Text, "Jami topildi: 2 ta")
	assert.Len(t, res.Prompt.Inline, 2)
	assert.Equal(t, "one", remembered)

	_, err = m.Start(context.Background(), viewerID, WizardSearchTitle, nil)
	require.NoError(t, err)
	res = submit(t, m, "bleach")
	require.Equal(t, wizard.StatusCompleted, res.Status)
	assert.Contains(t, res.Prompt.Text, "hech narsa topilmadi")
	assert.Empty(t, res.Prompt.Inline)
}

func TestSearchWizardByGenre(t *testing.T) {
	db := openDB(t)
	anime := database.NewAnimeStore(db.Gorm())
	seedAnime(t, anime, "Death Note", "dn", "Thriller, Mystery")
	seedAnime(t, anime, "Naruto", "naruto", "Action")

	m := newMachine(t, SearchWizard(WizardSearchGenre, database.SearchByGenre, anime, nil, 10))
	p, err := m.Start(context.Background(), viewerID, WizardSearchGenre, nil)
	require.NoError(t, err)
	assert.Contains(t, p.Text, "Janr")

	res := submit(t, m, "MYSTERY")
	require.Equal(t, wizard.StatusCompleted, res.Status)
	require.Len(t, res.Prompt.Inline, 1)
	assert.Contains(t, res.Prompt.Inline[0][0].Text, "Death Note")
}

func TestCodeSearchWizard(t *testing.T) {
	db := openDB(t)
	anime := database.NewAnimeStore(db.Gorm())
	a := seedAnime(t, anime, "Naruto", "naruto", "Action")

	m := newMachine(t, CodeSearchWizard(anime))
	_, err := m.Start(context.Background(), viewerID, WizardSearchCode, nil)
	require.NoError(t, err)
	res := submit(t, m, "NARUTO")
	require.Equal(t, wizard.StatusCompleted, res.Status)
	assert.Contains(t, res.Prompt.Text, "Topildi")
	require.Len(t, res.Prompt.Inline, 1)
	assert.Equal(t, callback.MustEncode(callback.Anime, a.ID), res.Prompt.Inline[0][0].Data)

	_, err = m.Start(context.Background(), viewerID, WizardSearchCode, nil)
	require.NoError(t, err)
	res = submit(t, m, "bleach")
	require.Equal(t, wizard.StatusCompleted, res.Status)
	assert.Contains(t, res.Prompt.Text, "topilmadi")
}

func TestSearchResultsKeyboardPages(t *testing.T) {
	items := []models.Anime{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}}
	p := database.Page[models.Anime]{Items: items, Total: 12, Page: 0, PerPage: 2}

	kb := SearchResultsKeyboard(p, database.SearchByTitle)
	require.Len(t, kb, 3)
	assert.Equal(t, "anime:1", kb[0][0].Data)
	last := kb[len(kb)-1]
	assert.Equal(t, "search_page:title:1", last[len(last)-1].Data)
	assert.Contains(t, SearchResultsText(p), "Sahifa: 1/6")
}

func TestProfileText(t *testing.T) {
	expiry := "2026-12-01"
	u := &models.User{TelegramID: 7, FullName: "Ali", VipExpireDate: &expiry, JoinedDate: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)}

	text := ProfileText(u, true)
	assert.Contains(t, text, "💎 VIP")
	assert.Contains(t, text, expiry)
	assert.Contains(t, text, "<code>7</code>")
	assert.Contains(t, text, "▸ <b>Username:</b> ---")

	text = ProfileText(u, false)
	assert.Contains(t, text, "Oddiy a'zo")
	assert.NotContains(t, text, expiry)
}

func TestDeepLinkID(t *testing.T) {
	id, ok := deepLinkID(linkFavorite+"15", linkFavorite)
	assert.True(t, ok)
	assert.Equal(t, uint(15), id)

	_, ok = deepLinkID(linkFavorite+"0", linkFavorite)
	assert.False(t, ok)
	_, ok = deepLinkID(linkFavorite+"x", linkFavorite)
	assert.False(t, ok)
	_, ok = deepLinkID("other", linkFavorite)
	assert.False(t, ok)
}

func TestHelpText(t *testing.T) {
	text := HelpText("@support", "anime_bot")
	assert.Contains(t, text, "@support")
	assert.Contains(t, text, "@anime_bot")
}
