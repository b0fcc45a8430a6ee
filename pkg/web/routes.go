// Package web provides API routes for the web server.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/PancyStudios/AnimeBotGo/pkg/database"
	"github.com/PancyStudios/AnimeBotGo/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// BotStatus is the part of the Telegram client the status route reads
type BotStatus interface {
	IsReady() bool
	Uptime() time.Duration
}

// StoreStatus reports a backing store's connectivity
type StoreStatus interface {
	GetStatus() (string, bool)
}

// StatsSource serves the aggregate dashboard
type StatsSource interface {
	Overview(ctx context.Context) (*database.Overview, error)
	TopAnime(ctx context.Context, limit int) ([]database.TopAnime, error)
}

// Deps are the collaborators of the API routes. Nil members are reported as absent.
type Deps struct {
	Bot      BotStatus
	Database StoreStatus
	// States is the conversation state backend, when it is not in memory
	States  StoreStatus
	Events  func() bool
	Stats   StatsSource
	Metrics *metrics.Collector
	Feed    *Feed
}

// SetupAPIRoutes sets up the API routes
func SetupAPIRoutes(s *Server, d Deps) {
	api := s.Group("/api")
	{
		api.GET("/status", statusHandler(d))
		api.GET("/health", healthHandler)
		api.GET("/stats", statsHandler(d.Stats))
	}
	if d.Metrics != nil {
		s.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}
	if d.Feed != nil {
		s.GET("/ws/events", d.Feed.Handler)
	}
}

func storeJSON(st StoreStatus) gin.H {
	if st == nil {
		return gin.H{"status": "Disabled", "isOnline": false}
	}
	status, online := st.GetStatus()
	return gin.H{"status": status, "isOnline": online}
}

// statusHandler returns the bot and database status
func statusHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		bot := gin.H{"isOnline": false}
		if d.Bot != nil {
			bot = gin.H{
				"isOnline": d.Bot.IsReady(),
				"uptime":   d.Bot.Uptime().Round(time.Second).String(),
			}
		}

		events := false
		if d.Events != nil {
			events = d.Events()
		}
		feedClients := 0
		if d.Feed != nil {
			feedClients = d.Feed.Clients()
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"bot":         bot,
			"database":    storeJSON(d.Database),
			"states":      storeJSON(d.States),
			"events":      gin.H{"isOnline": events},
			"feedClients": feedClients,
		})
	}
}

// healthHandler returns a simple health check response
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "AnimeBot Go is running",
	})
}

// statsHandler returns the dashboard counters and the top anime
func statsHandler(stats StatsSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		if stats == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "Stats Offline",
				"message": "Las estadísticas no están disponibles en este momento.",
			})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		overview, err := stats.Overview(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Error", "message": err.Error()})
			return
		}
		top, err := stats.TopAnime(ctx, 5)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Error", "message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"overview": overview,
			"top":      top,
		})
	}
}
