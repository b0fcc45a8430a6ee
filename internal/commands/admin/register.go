// Package admin is the admin side of the bot: catalog CRUD wizards, VIP plans,
// forced subscription channels, channel posts, settings, admins, stats, broadcast
// and diagnostics. Every command and button here sits behind the admin guard.
package admin

import (
	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/pkg/callback"
	"github.com/PancyStudios/AnimeBotGo/pkg/telegram"
)

// RegisterAdminCommands registers the admin commands, buttons and wizards
func RegisterAdminCommands(s *app.Services) {
	client := s.Client
	guard := s.AdminGuard()

	commands := []*telegram.Command{
		createPanelCommand(),
		createDashboardCommand(s),
		createAddAnimeCommand(s),
		createEditAnimeCommand(s),
		createDeleteAnimeCommand(s),
		createAddEpisodeCommand(s),
		createEditEpisodeCommand(s),
		createDeleteEpisodeCommand(s),
		createAddShortCommand(s),
		createChannelPostCommand(s),
		createPlansCommand(s),
		createCreatePlanCommand(s),
		createDeletePlanCommand(s),
		createChannelsCommand(s),
		createAddChannelCommand(s),
		createRemoveChannelCommand(s),
		createStatsCommand(s),
		createBroadcastCommand(s),
		createCheckDBCommand(s),
		createSysInfoCommand(s),
	}
	for _, cmd := range commands {
		client.RegisterCommand(cmd.AsAdmin(guard))
	}

	registerWizards(s)

	callbacks := map[string]telegram.CallbackFunc{
		callback.AdminPanel:   dashboardCallback,
		callback.PickAnimeFor: pickAnimeCallback(s),
		callback.PickEpisode:  pickEpisodeCallback(s),
		callback.EditAnime:    editAnimeCallback(s),
		callback.DeleteAnime:  deleteAnimeCallback(s),
		callback.AddEpisode:   addEpisodeCallback(s),
		callback.EditEpisode:  editEpisodeCallback(s),
		callback.DeleteEp:     deleteEpisodeCallback(s),
		callback.AddShort:     addShortCallback(s),
		callback.ChannelPost:  channelPostCallback(s),
		callback.PlanDelete:   deletePlanCallback(s),
		callback.Setting:      settingCallback(s),
		callback.Maintenance:  maintenanceCallback(s),
		callback.AdminList:    adminListCallback(s),
		callback.AdminView:    adminViewCallback(s),
		callback.AdminDelete:  adminDeleteCallback(s),
		callback.AdminAdd:     adminAddCallback(s),
		callback.Stats:        statsCallback(s),
		callback.Broadcast:    broadcastCallback(s),
	}
	for action, fn := range callbacks {
		client.Callbacks.OnGuarded(action, guard, fn)
	}
}

func registerWizards(s *app.Services) {
	s.Machine.MustRegister(AddAnimeWizard(s.Anime, s.Events))
	s.Machine.MustRegister(EditAnimeWizard(s.Anime))
	s.Machine.MustRegister(AddEpisodeWizard(s.Anime, s.Episodes, s.Events))
	s.Machine.MustRegister(EditEpisodeWizard(s.Episodes))
	s.Machine.MustRegister(AddShortWizard(s.Anime, s.Shorts))
	s.Machine.MustRegister(AddPlanWizard(s.Plans))
	s.Machine.MustRegister(AddChannelWizard(s.Channels))
	s.Machine.MustRegister(ChannelPostWizard(s.Anime, s.Episodes, newPostSender(s)))
	s.Machine.MustRegister(SetSettingWizard(s.Settings))
	s.Machine.MustRegister(AddAdminWizard(s.Admins))
	s.Machine.MustRegister(BroadcastWizard(newBroadcaster(s)))
}
