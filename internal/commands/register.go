// Package commands wires every command group into the Telegram client.
// Commands are organized in subdirectories by audience (user, premium, admin).
package commands

import (
	"fmt"

	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/internal/commands/admin"
	"github.com/PancyStudios/AnimeBotGo/internal/commands/premium"
	"github.com/PancyStudios/AnimeBotGo/internal/commands/user"
	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
)

// RegisterAll registers all commands, buttons and wizards
func RegisterAll(s *app.Services) {
	// Main menu, search, anime pages, favorites, comments, shorts
	user.RegisterUserCommands(s)

	// VIP plans, payment proof, approve / reject
	premium.RegisterPremiumCommands(s)

	// Catalog CRUD, settings, admins, stats, broadcast
	admin.RegisterAdminCommands(s)

	logger.Success(fmt.Sprintf("%d comandos registrados", s.Client.Commands.Size()), "Commands")
}
