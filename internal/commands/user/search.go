package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/pkg/callback"
	"github.com/PancyStudios/AnimeBotGo/pkg/database"
	"github.com/PancyStudios/AnimeBotGo/pkg/errors"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"github.com/PancyStudios/AnimeBotGo/pkg/sanitize"
	"github.com/PancyStudios/AnimeBotGo/pkg/telegram"
	"github.com/PancyStudios/AnimeBotGo/pkg/wizard"
	tele "gopkg.in/telebot.v3"
)

// Search wizards
const (
	WizardSearchTitle = "search_title"
	WizardSearchGenre = "search_genre"
	WizardSearchCode  = "search_code"
)

// Search menu labels
const (
	btnByTitle  = "📝 Nomi bo'yicha"
	btnByCode   = "🔢 Kod bo'yicha"
	btnByGenre  = "🎭 Janr bo'yicha"
	btnVIPList  = "💎 VIP animelar"
	btnTopList  = "🌟 Top animelar"
	btnNewsList = "🆕 Yangi animelar"
)

const searchMenuText = "<b>🔍 Anime qidirish</b>\n\nQidiruv turini tanlang:"

// searcher is the part of the anime store the search wizards use
type searcher interface {
	Search(ctx context.Context, by database.SearchBy, term string, page, perPage int) (database.Page[models.Anime], error)
	GetByCode(ctx context.Context, code string) (*models.Anime, error)
}

func searchMenu() *tele.ReplyMarkup {
	return telegram.ReplyKeyboard([]string{
		btnByTitle, btnByCode,
		btnByGenre, btnVIPList,
		btnTopList, btnNewsList,
		app.BtnBack,
	}, 2)
}

func createSearchCommands(s *app.Services) []*telegram.Command {
	start := func(wizardID string) tele.HandlerFunc {
		return func(c tele.Context) error { return s.Flow.Start(c, wizardID, nil) }
	}
	list := func(listing database.Listing) tele.HandlerFunc {
		return func(c tele.Context) error { return showListing(s, c, listing, 0) }
	}
	return []*telegram.Command{
		telegram.NewCommand("search", "Anime qidirish", "user", func(c tele.Context) error {
			return c.Send(searchMenuText, searchMenu())
		}).WithAliases(app.BtnSearch),
		telegram.NewCommand("search_title", "", "user", start(WizardSearchTitle)).WithAliases(btnByTitle).AsHidden(),
		telegram.NewCommand("search_code", "", "user", start(WizardSearchCode)).WithAliases(btnByCode).AsHidden(),
		telegram.NewCommand("search_genre", "", "user", start(WizardSearchGenre)).WithAliases(btnByGenre).AsHidden(),
		telegram.NewCommand("latest", "Yangi animelar", "user", list(database.ListingLatest)).WithAliases(btnNewsList),
		telegram.NewCommand("vip_anime", "VIP animelar", "user", list(database.ListingVIP)).WithAliases(btnVIPList),
	}
}

func registerSearchWizards(s *app.Services) {
	perPage := s.Config.SearchResultsPerPage
	s.Machine.MustRegister(SearchWizard(WizardSearchTitle, database.SearchByTitle, s.Anime, s.RememberSearch, perPage))
	s.Machine.MustRegister(SearchWizard(WizardSearchGenre, database.SearchByGenre, s.Anime, s.RememberSearch, perPage))
	s.Machine.MustRegister(CodeSearchWizard(s.Anime))
}

// SearchWizard asks for a term and answers with the first page of matches. The
// term is remembered so the page buttons can rerun the query.
func SearchWizard(id string, by database.SearchBy, store searcher, remember func(int64, database.SearchBy, string), perPage int) *wizard.Wizard {
	prompt := "📝 <b>Anime nomini kiriting:</b>"
	if by == database.SearchByGenre {
		prompt = "🎭 <b>Janr nomini kiriting:</b>\n(Masalan: Action, Romance, Drama)"
	}
	return &wizard.Wizard{
		ID: id,
		Steps: []wizard.Step{{
			Name:     "query",
			Prompt:   wizard.Ask(prompt),
			Validate: wizard.Text("query"),
		}},
		Commit: func(ctx context.Context, identity int64, v wizard.Values) (wizard.Prompt, error) {
			term := v.String("query")
			page, err := store.Search(ctx, by, term, 0, perPage)
			if err != nil {
				return wizard.Prompt{}, err
			}
			if page.Total == 0 {
				return wizard.Prompt{Text: fmt.Sprintf("ℹ️ <b>'%s'</b> bo'yicha hech narsa topilmadi.", sanitize.Text(term))}, nil
			}
			if remember != nil {
				remember(identity, by, term)
			}
			return wizard.Prompt{Text: SearchResultsText(page), Inline: SearchResultsKeyboard(page, by)}, nil
		},
	}
}

// CodeSearchWizard looks a single anime up by its code
func CodeSearchWizard(store searcher) *wizard.Wizard {
	return &wizard.Wizard{
		ID: WizardSearchCode,
		Steps: []wizard.Step{{
			Name:     "code",
			Prompt:   wizard.Ask("🔢 <b>Anime kodini kiriting:</b>"),
			Validate: wizard.Slug("code"),
		}},
		Commit: func(ctx context.Context, _ int64, v wizard.Values) (wizard.Prompt, error) {
			code := v.String("code")
			a, err := store.GetByCode(ctx, code)
			if errors.IsKind(err, errors.KindNotFound) {
				return wizard.Prompt{Text: fmt.Sprintf("❌ <b>Kod '%s'</b> bo'yicha anime topilmadi.", sanitize.Text(code))}, nil
			}
			if err != nil {
				return wizard.Prompt{}, err
			}
			return wizard.Prompt{
				Text:   fmt.Sprintf("✅ <b>Topildi:</b> %s", sanitize.Text(a.Title)),
				Inline: callback.Keyboard{animeButtonRow(*a)},
			}, nil
		},
	}
}

// SearchResultsText is the header above the result buttons
func SearchResultsText(p database.Page[models.Anime]) string {
	return fmt.Sprintf("<b>🔍 Qidiruv natijalari:</b>\n%s\nJami topildi: %d ta\nSahifa: %d/%d\n\nKerakli animeni tanlang:",
		app.Separator, p.Total, p.Page+1, p.Pages())
}

// SearchResultsKeyboard lists one page of results with page buttons
func SearchResultsKeyboard(p database.Page[models.Anime], by database.SearchBy) callback.Keyboard {
	kb := make(callback.Keyboard, 0, len(p.Items)+1)
	for _, a := range p.Items {
		kb = append(kb, animeButtonRow(a))
	}
	return app.Pager(kb, p, callback.SearchPage, string(by))
}

func animeButtonRow(a models.Anime) []callback.Button {
	return callback.Row(callback.Btn("📺 "+sanitize.Truncate(a.Title, buttonTitleLimit), callback.Anime, a.ID))
}

// searchPageCallback is search_page:<mode>:<page>
func searchPageCallback(s *app.Services) telegram.CallbackFunc {
	return func(c tele.Context, p callback.Payload) error {
		by := database.SearchBy(p.Arg(0))
		if by != database.SearchByTitle && by != database.SearchByGenre {
			return nil
		}
		page, err := p.Int(1)
		if err != nil {
			return nil
		}
		term, ok := s.LastSearch(c.Sender().ID, by)
		if !ok {
			return app.Alert(c, "⌛ Qidiruv eskirdi. Iltimos, qaytadan qidiring.")
		}

		ctx, cancel := app.Context()
		defer cancel()
		results, err := s.Anime.Search(ctx, by, strings.TrimSpace(term), page, s.Config.SearchResultsPerPage)
		if err != nil {
			return telegram.ReplyError(c, err)
		}
		return app.Show(c, SearchResultsText(results), app.Markup(SearchResultsKeyboard(results, by)))
	}
}
