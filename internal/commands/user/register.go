// Package user holds the commands, buttons and wizards every subscriber can reach:
// the main menu, search, the anime and episode pages, favorites, comments and shorts.
package user

import (
	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/pkg/callback"
)

// RegisterUserCommands registers the user commands, buttons and wizards
func RegisterUserCommands(s *app.Services) {
	client := s.Client

	client.RegisterCommand(createStartCommand(s))
	client.RegisterCommand(createHomeCommand(s))
	client.RegisterCommand(createUserPanelCommand())
	client.RegisterCommand(createCancelCommand(s))
	client.RegisterCommand(createProfileCommand(s))
	client.RegisterCommand(createHelpCommand(s))
	client.RegisterCommand(createFavoritesCommand(s))
	client.RegisterCommand(createShortsCommand(s))
	client.RegisterCommand(createTopCommand(s))
	for _, cmd := range createSearchCommands(s) {
		client.RegisterCommand(cmd)
	}

	registerSearchWizards(s)
	registerCommentWizard(s)

	client.Callbacks.On(callback.BackToMenu, backToMenuCallback(s))
	client.Callbacks.On(callback.CheckSubs, checkSubsCallback(s))
	client.Callbacks.On(callback.Noop, noopCallback)
	client.Callbacks.On(callback.Anime, animeCallback(s))
	client.Callbacks.On(callback.Favorite, favoriteCallback(s))
	client.Callbacks.On(callback.Seasons, seasonsCallback(s))
	client.Callbacks.On(callback.Season, seasonCallback(s))
	client.Callbacks.On(callback.Episode, episodeCallback(s))
	client.Callbacks.On(callback.Comments, commentsCallback(s))
	client.Callbacks.On(callback.AddComment, addCommentCallback(s))
	client.Callbacks.On(callback.Short, shortCallback(s))
	client.Callbacks.On(callback.SearchPage, searchPageCallback(s))
	client.Callbacks.On(callback.ListPage, listPageCallback(s))
}
