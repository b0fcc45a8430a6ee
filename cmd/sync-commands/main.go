// Package main provides a utility to sync the Telegram command menu.
// This replaces the menu stored by Telegram with the commands currently defined in the bot.
//
// Usage:
//
//	go run cmd/sync-commands/main.go [options]
//
// Options:
//
//	-list           List the commands Telegram currently shows
//	-clean          Remove the command menu without registering a new one
//	-sync           Sync commands (replace the menu with the current one) - default behavior
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/internal/commands"
	"github.com/PancyStudios/AnimeBotGo/pkg/config"
	"github.com/PancyStudios/AnimeBotGo/pkg/database"
	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
	"github.com/PancyStudios/AnimeBotGo/pkg/telegram"
	"github.com/PancyStudios/AnimeBotGo/pkg/wizard"
)

func main() {
	// Parse command line flags
	listCmd := flag.Bool("list", false, "List the registered command menu")
	cleanCmd := flag.Bool("clean", false, "Remove the command menu without registering a new one")
	syncCmd := flag.Bool("sync", false, "Sync commands (replace the menu with the current one)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	logger.System("Iniciando utilidad de sincronización de comandos...", "SyncCommands")

	client, err := telegram.Init(telegram.Settings{Token: cfg.BotToken})
	if err != nil {
		logger.Critical(fmt.Sprintf("Error conectando a Telegram: %v", err), "SyncCommands")
		os.Exit(1)
	}
	logger.Success(fmt.Sprintf("Conectado a Telegram como @%s", client.Bot.Me.Username), "SyncCommands")

	// Handlers only need to be registered, so a throwaway database is enough
	db, err := database.Open("sqlite", ":memory:")
	if err != nil {
		logger.Critical(fmt.Sprintf("Error preparando la base de datos temporal: %v", err), "SyncCommands")
		os.Exit(1)
	}
	defer db.Close()

	s, err := app.New(app.Options{
		Config:   cfg,
		Database: db,
		Client:   client,
		States:   wizard.NewMemoryRepository(cfg.ConversationTTL),
	})
	if err != nil {
		logger.Critical(fmt.Sprintf("Error preparando los servicios: %v", err), "SyncCommands")
		os.Exit(1)
	}
	commands.RegisterAll(s)

	// Execute the requested action
	switch {
	case *listCmd:
		listCommands(client)
	case *cleanCmd:
		cleanCommands(client)
	case *syncCmd:
		syncCommands(client)
	default:
		syncCommands(client)
	}

	logger.Success("Operación completada exitosamente", "SyncCommands")
}

// listCommands lists the menu Telegram currently shows
func listCommands(client *telegram.Client) {
	logger.Info("📋 Listando comandos registrados...", "SyncCommands")

	cmds, err := client.Bot.Commands()
	if err != nil {
		logger.Error(fmt.Sprintf("Error obteniendo comandos: %v", err), "SyncCommands")
		return
	}
	if len(cmds) == 0 {
		logger.Info("No hay comandos registrados", "SyncCommands")
		return
	}

	logger.Info(fmt.Sprintf("Comandos encontrados: %d", len(cmds)), "SyncCommands")
	for i, cmd := range cmds {
		logger.Info(fmt.Sprintf("  %d. /%s - %s", i+1, cmd.Text, cmd.Description), "SyncCommands")
	}
}

// cleanCommands removes the whole menu
func cleanCommands(client *telegram.Client) {
	logger.Info("🧹 Eliminando todos los comandos...", "SyncCommands")

	if err := client.Bot.DeleteCommands(); err != nil {
		logger.Error(fmt.Sprintf("Error eliminando comandos: %v", err), "SyncCommands")
		return
	}
	logger.Success("✅ Todos los comandos han sido eliminados", "SyncCommands")
}

// syncCommands replaces the menu with the commands the bot defines
func syncCommands(client *telegram.Client) {
	logger.Info("🔄 Sincronizando comandos...", "SyncCommands")

	menu := client.Commands.Menu()
	if err := client.Bot.SetCommands(menu); err != nil {
		logger.Error(fmt.Sprintf("Error sincronizando comandos: %v", err), "SyncCommands")
		return
	}
	logger.Success(fmt.Sprintf("✅ %d comandos sincronizados de %d definidos", len(menu), client.Commands.Size()), "SyncCommands")
}
