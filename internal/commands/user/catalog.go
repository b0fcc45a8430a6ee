package user

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/pkg/callback"
	"github.com/PancyStudios/AnimeBotGo/pkg/database"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"github.com/PancyStudios/AnimeBotGo/pkg/sanitize"
	"github.com/PancyStudios/AnimeBotGo/pkg/telegram"
	tele "gopkg.in/telebot.v3"
)

var medals = []string{"🥇", "🥈", "🥉"}

func createTopCommand(s *app.Services) *telegram.Command {
	return telegram.NewCommand(
		"top",
		"Eng ko'p ko'rilgan animelar",
		"user",
		func(c tele.Context) error { return showListing(s, c, database.ListingTop, 0) },
	).WithAliases(app.BtnTop, btnTopList)
}

// listPageCallback is list_page:<listing>:<page>
func listPageCallback(s *app.Services) telegram.CallbackFunc {
	return func(c tele.Context, p callback.Payload) error {
		listing := database.Listing(p.Arg(0))
		switch listing {
		case database.ListingTop, database.ListingLatest, database.ListingVIP:
		default:
			return nil
		}
		page, err := p.Int(1)
		if err != nil {
			return nil
		}
		return showListing(s, c, listing, page)
	}
}

func showListing(s *app.Services, c tele.Context, listing database.Listing, page int) error {
	ctx, cancel := app.Context()
	defer cancel()

	list, err := s.Anime.List(ctx, listing, page, s.Config.SearchResultsPerPage)
	if err != nil {
		return telegram.ReplyError(c, err)
	}
	if list.Total == 0 {
		if listing == database.ListingVIP {
			return app.Show(c, "ℹ️ Hozircha VIP animelar yo'q.")
		}
		return app.Show(c, "ℹ️ Hozircha animelar yo'q.")
	}
	return app.Show(c, ListingText(listing, list), app.Markup(ListingKeyboard(listing, list)))
}

// ListingText renders a page of the top, latest or VIP listing
func ListingText(listing database.Listing, p database.Page[models.Anime]) string {
	var b strings.Builder
	switch listing {
	case database.ListingTop:
		b.WriteString("<b>🔥 Top Animelar</b>\n" + app.Separator + "\nEng ko'p ko'rilgan qaynoq animelar:\n\n")
	case database.ListingVIP:
		b.WriteString("<b>💎 VIP animelar</b>\n" + app.Separator + "\n\n")
	default:
		b.WriteString("<b>🆕 Yangi animelar</b>\n" + app.Separator + "\n\n")
	}
	for i, a := range p.Items {
		rank := p.Page*p.PerPage + i
		mark := "◈"
		if listing == database.ListingTop && rank < len(medals) {
			mark = medals[rank]
		}
		fmt.Fprintf(&b, "%s <b>%s</b>\n   └ 👁 %d\n", mark, sanitize.Text(a.Title), a.Views)
	}
	return b.String()
}

// ListingKeyboard links every anime on the page plus page buttons
func ListingKeyboard(listing database.Listing, p database.Page[models.Anime]) callback.Keyboard {
	kb := make(callback.Keyboard, 0, len(p.Items)+1)
	for _, a := range p.Items {
		kb = append(kb, animeButtonRow(a))
	}
	return app.Pager(kb, p, callback.ListPage, string(listing))
}
