// Package telegram provides the Telegram bot client and related structures.
// It wraps telebot with command, callback and conversation routing.
package telegram

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/PancyStudios/AnimeBotGo/pkg/errors"
	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
	tele "gopkg.in/telebot.v3"
)

// Client wraps tele.Bot with the bot's routing tables
type Client struct {
	Bot       *tele.Bot
	Commands  *CommandCollection
	Callbacks *CallbackRouter
	StartTime time.Time
	mu        sync.RWMutex
	isReady   bool
}

// Settings are the knobs NewClient understands
type Settings struct {
	Token string
	// URL overrides the Bot API endpoint, used by tests
	URL         string
	PollTimeout time.Duration
	// Offline skips the getMe call on creation
	Offline bool
}

var (
	client *Client
	once   sync.Once
)

// Init initializes the global Telegram client
func Init(s Settings) (*Client, error) {
	var err error
	once.Do(func() {
		client, err = NewClient(s)
	})
	return client, err
}

// NewClient creates a new Client
func NewClient(s Settings) (*Client, error) {
	if s.PollTimeout <= 0 {
		s.PollTimeout = 10 * time.Second
	}

	bot, err := tele.NewBot(tele.Settings{
		URL:       s.URL,
		Token:     s.Token,
		Poller:    &tele.LongPoller{Timeout: s.PollTimeout},
		ParseMode: tele.ModeHTML,
		Offline:   s.Offline,
		Client:    &http.Client{Timeout: s.PollTimeout + 10*time.Second},
		OnError:   onError,
	})
	if err != nil {
		return nil, err
	}

	c := &Client{
		Bot:      bot,
		Commands: NewCommandCollection(),
	}
	c.Callbacks = NewCallbackRouter()
	return c, nil
}

// onError is the last stop for handler errors nobody replied to
func onError(err error, c tele.Context) {
	if c != nil && c.Sender() != nil {
		logger.Error(fmt.Sprintf("Error procesando update de %d: %v", c.Sender().ID, err), "Client")
	} else {
		logger.Error(fmt.Sprintf("Error procesando update: %v", err), "Client")
	}
	errors.Track(err, "client")
}

// Use installs middlewares in order
func (c *Client) Use(middlewares ...tele.MiddlewareFunc) {
	c.Bot.Use(middlewares...)
}

// Handle registers an endpoint directly on the bot
func (c *Client) Handle(endpoint interface{}, h tele.HandlerFunc, m ...tele.MiddlewareFunc) {
	c.Bot.Handle(endpoint, h, m...)
}

// RegisterCommand adds a command and its keyboard aliases
func (c *Client) RegisterCommand(cmd *Command) {
	c.Commands.Set(cmd.Name, cmd)
	c.Bot.Handle("/"+cmd.Name, cmd.Run, cmd.middlewares...)
	for _, alias := range cmd.Aliases {
		c.Bot.Handle(alias, cmd.Run, cmd.middlewares...)
	}
	logger.Debug("Comando registrado: "+cmd.Name, "CommandHandler")
}

// Start begins long polling. It blocks until Stop is called.
func (c *Client) Start() {
	c.Bot.Handle(tele.OnCallback, c.Callbacks.Dispatch)

	c.mu.Lock()
	c.isReady = true
	c.StartTime = time.Now()
	c.mu.Unlock()

	logger.Success("Bot conectado como: @"+c.Bot.Me.Username, "Client")
	c.Bot.Start()
}

// Stop stops polling
func (c *Client) Stop() {
	c.mu.Lock()
	wasReady := c.isReady
	c.isReady = false
	c.mu.Unlock()

	if wasReady {
		c.Bot.Stop()
		logger.System("Polling detenido", "Client")
	}
}

// IsReady returns true while the bot is polling
func (c *Client) IsReady() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isReady
}

// Uptime since Start
func (c *Client) Uptime() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.StartTime.IsZero() {
		return 0
	}
	return time.Since(c.StartTime)
}
