// Package web provides an HTTP server with routing and middleware.
// It uses Gin framework for high-performance web handling.
package web

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// Server represents the web server
type Server struct {
	engine           *gin.Engine
	webhook          *logger.Webhook
	allowedHostRegex *regexp.Regexp
	limit            RateLimitConfig
	clients          *cache.Cache
}

// Options configure NewServer
type Options struct {
	// LogsWebhook receives one embed per request when set
	LogsWebhook string
	// AllowedHosts is a host regexp; requests to other hosts are rejected. Empty allows all.
	AllowedHosts string
	RateLimit    RateLimitConfig
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Window      time.Duration
	MaxRequests int
}

var (
	server *Server
)

// Init initializes the global web server
func Init(opts Options) (*Server, error) {
	s, err := NewServer(opts)
	if err != nil {
		return nil, err
	}
	server = s
	return server, nil
}

// NewServer creates a new web server
func NewServer(opts Options) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())

	if opts.RateLimit.Window <= 0 {
		opts.RateLimit.Window = time.Minute
	}
	if opts.RateLimit.MaxRequests <= 0 {
		opts.RateLimit.MaxRequests = 100
	}

	s := &Server{
		engine:  engine,
		limit:   opts.RateLimit,
		clients: cache.New(2*opts.RateLimit.Window, 4*opts.RateLimit.Window),
	}

	if opts.AllowedHosts != "" {
		re, err := regexp.Compile(opts.AllowedHosts)
		if err != nil {
			return nil, fmt.Errorf("invalid allowed hosts pattern: %w", err)
		}
		s.allowedHostRegex = re
	}
	if opts.LogsWebhook != "" {
		wh, err := logger.NewWebhook(opts.LogsWebhook)
		if err != nil {
			logger.Warn(fmt.Sprintf("Webhook de logs inválido, se ignora: %v", err), "WebServer")
		} else {
			s.webhook = wh
		}
	}

	// Apply middlewares
	s.engine.Use(s.logsMiddleware())
	s.engine.Use(s.rateLimitMiddleware())

	// Set up error handlers
	s.setupErrorHandlers()

	return s, nil
}

// Engine returns the underlying Gin engine
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// logsMiddleware logs all incoming requests and rejects unknown hosts
func (s *Server) logsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		host := c.Request.Host

		if s.allowedHostRegex == nil || s.allowedHostRegex.MatchString(host) {
			logger.Debug(fmt.Sprintf("[LOG] Nueva solicitud: %s %s", c.Request.Method, c.Request.URL.Path), "WebServer")
			go s.sendLogToWebhook(c.Request.Method, c.Request.URL.Path, c.ClientIP(), false)
			c.Next()
			return
		}

		logger.Warn(fmt.Sprintf("[LOG] Solicitud Sospechosa: %s %s | %s", c.Request.Method, c.Request.URL.Path, c.ClientIP()), "WebServer")
		go s.sendLogToWebhook(c.Request.Method, c.Request.URL.Path, c.ClientIP(), true)
		c.AbortWithStatus(http.StatusForbidden)
	}
}

// sendLogToWebhook sends a log message to the Discord webhook
func (s *Server) sendLogToWebhook(method, path, ip string, suspicious bool) {
	if s.webhook == nil || strings.HasPrefix(path, "/metrics") {
		return
	}

	title := fmt.Sprintf("💫 | Nueva solicitud al servidor web de tipo %s", method)
	color := 0x00AE86 // Green

	if suspicious {
		title = fmt.Sprintf("💫 | Solicitud Sospechosa Rechazada: %s %s", method, path)
		color = 0xFFA500 // Orange
	}

	_ = s.webhook.Send(&discordgo.MessageEmbed{
		Title:       title,
		Description: fmt.Sprintf("> **Ruta:** `%s`\n> **IP:** `%s`", path, ip),
		Color:       color,
		Timestamp:   time.Now().Format(time.RFC3339),
	})
}

// rateLimitMiddleware allows MaxRequests per Window per client IP
func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	every := s.limit.Window / time.Duration(s.limit.MaxRequests)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		var limiter *rate.Limiter
		if v, ok := s.clients.Get(ip); ok {
			limiter = v.(*rate.Limiter)
		} else {
			limiter = rate.NewLimiter(rate.Every(every), s.limit.MaxRequests)
			s.clients.SetDefault(ip, limiter)
		}

		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Demasiadas solicitudes, por favor intente de nuevo más tarde.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// setupErrorHandlers sets up error handling routes
func (s *Server) setupErrorHandlers() {
	s.engine.HandleMethodNotAllowed = true

	// 404 handler
	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "La ruta solicitada no existe.",
			"status":  404,
		})
	})

	// 405 handler
	s.engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error":   "Method Not Allowed",
			"message": "El método HTTP no está permitido para esta ruta.",
			"status":  405,
		})
	})
}

// Run serves on port until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("🚀 Servidor escuchando en http://localhost:%s", port), "WebServer")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.System("Servidor web detenido", "WebServer")
	return nil
}

// Router helper methods

// GET registers a GET route
func (s *Server) GET(path string, handlers ...gin.HandlerFunc) {
	s.engine.GET(path, handlers...)
}

// Group creates a new router group
func (s *Server) Group(path string, handlers ...gin.HandlerFunc) *gin.RouterGroup {
	return s.engine.Group(path, handlers...)
}
