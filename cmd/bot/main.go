// Package main is the entry point for the AnimeBot Go application.
// It initializes all systems and starts the Telegram bot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/internal/commands"
	"github.com/PancyStudios/AnimeBotGo/internal/events"
	"github.com/PancyStudios/AnimeBotGo/pkg/config"
	"github.com/PancyStudios/AnimeBotGo/pkg/database"
	"github.com/PancyStudios/AnimeBotGo/pkg/errors"
	"github.com/PancyStudios/AnimeBotGo/pkg/eventbus"
	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
	"github.com/PancyStudios/AnimeBotGo/pkg/metrics"
	"github.com/PancyStudios/AnimeBotGo/pkg/mqtt"
	"github.com/PancyStudios/AnimeBotGo/pkg/telegram"
	"github.com/PancyStudios/AnimeBotGo/pkg/web"
	"github.com/PancyStudios/AnimeBotGo/pkg/wizard"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()
	if level, err := logger.ParseLevel(cfg.LogLevel); err != nil {
		logger.Warn(fmt.Sprintf("LOG_LEVEL inválido, se usa debug: %v", err), "Main")
	} else {
		log.SetLevel(level)
	}

	logger.System(fmt.Sprintf("Iniciando AnimeBot Go %s (%s)...", config.Version, cfg.Environment), "Main")
	logger.Info(fmt.Sprintf("Directorio de trabajo: %s", getCurrentDir()), "Main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	// Initialize error handler. A critical failure cancels everything below.
	errors.Init(cfg.ErrorWebhook, stop)

	// Initialize database
	db, err := database.Init(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error conectando a la base de datos: %v", err), "Main")
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn(fmt.Sprintf("Error cerrando la base de datos: %v", err), "Main")
		}
	}()

	// Conversation state backend
	states, statesStatus, closeStates, err := openStates(ctx, cfg)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error iniciando el almacén de estados: %v", err), "Main")
		os.Exit(1)
	}
	defer closeStates()

	// Event bus: MQTT broker and dashboard websocket feed
	bus := eventbus.New(512)
	feed := web.NewFeed()
	defer feed.Close()
	bus.Attach("web", feed)

	var mqttClient *mqtt.MqttCommunicator
	if cfg.MQTTEnabled {
		mqttClientID := "animebot"
		if !cfg.IsProd() {
			mqttClientID = "animebot_canary"
		}
		mqttClient = mqtt.Init(cfg.MQTTHost, cfg.MQTTPort, cfg.MQTTUser, cfg.MQTTPassword, mqttClientID)
		defer mqttClient.Destroy()
		bus.Attach("mqtt", mqttClient)
	}

	collector := metrics.NewCollector()

	// Initialize Telegram client
	client, err := telegram.Init(telegram.Settings{Token: cfg.BotToken})
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creando el cliente de Telegram: %v", err), "Main")
		os.Exit(1)
	}

	s, err := app.New(app.Options{
		Config:   cfg,
		Database: db,
		Client:   client,
		States:   states,
		Events:   bus,
		Metrics:  collector,
	})
	if err != nil {
		logger.Critical(fmt.Sprintf("Error preparando los servicios: %v", err), "Main")
		os.Exit(1)
	}

	// Middlewares run in this order for every update
	client.Use(
		telegram.Recover(),
		telegram.Logging(collector),
		telegram.RegisterUser(s.Users),
		telegram.Throttle(cfg.ThrottleRate, s.Admins.IsOwner),
		telegram.Maintenance(s.Settings, s.Admins),
		telegram.Subscription(s.Channels, telegram.BotMemberChecker(client.Bot), s.Admins),
		s.Flow.Middleware(client.Commands.Matches),
	)

	// Register commands and events
	commands.RegisterAll(s)
	events.RegisterAll(s)

	if mqttClient != nil {
		registerMQTTRequests(mqttClient, s)
	}

	// Initialize web server
	webServer, err := web.Init(web.Options{LogsWebhook: cfg.LogsWebhook})
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creando el servidor web: %v", err), "Main")
		os.Exit(1)
	}
	deps := web.Deps{
		Bot:      client,
		Database: db,
		States:   statesStatus,
		Stats:    s.Stats,
		Metrics:  collector,
		Feed:     feed,
	}
	if mqttClient != nil {
		deps.Events = mqttClient.IsConnected
	}
	web.SetupAPIRoutes(webServer, deps)

	events.OnReady(s)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return bus.Run(gctx) })
	g.Go(func() error { return webServer.Run(gctx, cfg.Port) })
	g.Go(func() error {
		client.Start()
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.System("Apagando AnimeBot Go...", "Main")
		client.Stop()
		return nil
	})

	logger.Success("AnimeBot Go iniciado correctamente!", "Main")

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("Terminado con error: %v", err), "Main")
	}
	logger.System("AnimeBot Go detenido", "Main")
}

// openStates picks the wizard state repository named by STATE_BACKEND
func openStates(ctx context.Context, cfg *config.Config) (wizard.Repository, web.StoreStatus, func(), error) {
	switch cfg.StateBackend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, nil, fmt.Errorf("redis %s: %w", cfg.RedisAddr, err)
		}
		logger.Success(fmt.Sprintf("Estados de conversación en Redis (%s)", cfg.RedisAddr), "Main")
		closeFn := func() { _ = rdb.Close() }
		return wizard.NewRedisRepository(rdb, "", cfg.ConversationTTL), redisStatus{rdb}, closeFn, nil

	case "mongo":
		m, err := database.ConnectMongo(cfg.MongoDBURL, cfg.DBName)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("mongo: %w", err)
		}
		repo := wizard.NewMongoRepository(m.GetCollection("wizard_states"), cfg.ConversationTTL)
		idxCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := repo.EnsureIndexes(idxCtx); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo crear el índice TTL de estados: %v", err), "Main")
		}
		logger.Success("Estados de conversación en MongoDB", "Main")
		closeFn := func() { _ = m.Disconnect() }
		return repo, m, closeFn, nil

	case "", "memory":
		logger.Info("Estados de conversación en memoria", "Main")
		return wizard.NewMemoryRepository(cfg.ConversationTTL), nil, func() {}, nil

	default:
		return nil, nil, nil, fmt.Errorf("STATE_BACKEND desconocido: %q", cfg.StateBackend)
	}
}

// redisStatus reports Redis connectivity on the status route
type redisStatus struct {
	client *redis.Client
}

func (r redisStatus) GetStatus() (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.client.Ping(ctx).Err(); err != nil {
		return "Disconnected", false
	}
	return "Connected", true
}

// registerMQTTRequests answers dashboard requests over MQTT
func registerMQTTRequests(mc *mqtt.MqttCommunicator, s *app.Services) {
	mc.On("stats", func(map[string]interface{}) (interface{}, error) {
		ctx, cancel := app.Context()
		defer cancel()
		overview, err := s.Stats.Overview(ctx)
		if err != nil {
			return nil, err
		}
		top, err := s.Stats.TopAnime(ctx, 10)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"overview": overview, "top": top}, nil
	})
	mc.On("status", func(map[string]interface{}) (interface{}, error) {
		dbStatus, dbOnline := s.Database.GetStatus()
		return map[string]interface{}{
			"bot":      s.Client.IsReady(),
			"uptime":   s.Client.Uptime().Round(time.Second).String(),
			"database": map[string]interface{}{"status": dbStatus, "isOnline": dbOnline},
		}, nil
	})
}

// getCurrentDir returns the current working directory
func getCurrentDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "unknown"
	}
	return dir
}
