// Package errors provides error classification, handling and recovery for the bot.
// The ErrorHandler counts unexpected failures and shuts the process down when they
// pile up faster than a window allows.
package errors

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
	"github.com/patrickmn/go-cache"
)

const (
	defaultLimit  = 15
	defaultWindow = 5 * time.Second
	// one webhook report per source and kind in this period
	reportEvery = time.Minute
	// time the shutdown func gets before the process exits
	exitGrace  = 10 * time.Second
	stackLimit = 1500
)

// ErrorHandler tracks unexpected errors and panics
type ErrorHandler struct {
	mu          sync.Mutex
	count       int
	windowStart time.Time
	tripped     bool

	limit  int
	window time.Duration
	grace  time.Duration
	now    func() time.Time

	webhook      *logger.Webhook
	reported     *cache.Cache
	shutdownFunc func()
	exitFunc     func(code int)
}

// ReportErrorOptions describes one webhook report
type ReportErrorOptions struct {
	Title   string
	Message string
	Kind    Kind
	Source  string
}

var (
	handler *ErrorHandler
	once    sync.Once
)

// Init initializes the global error handler
func Init(webhookURL string, shutdownFunc func()) *ErrorHandler {
	once.Do(func() {
		handler = NewErrorHandler(webhookURL, shutdownFunc)
	})
	return handler
}

// Get returns the global error handler instance, nil before Init
func Get() *ErrorHandler {
	return handler
}

// NewErrorHandler creates a new ErrorHandler instance
func NewErrorHandler(webhookURL string, shutdownFunc func()) *ErrorHandler {
	h := &ErrorHandler{
		limit:        defaultLimit,
		window:       defaultWindow,
		grace:        exitGrace,
		now:          time.Now,
		reported:     cache.New(reportEvery, 2*reportEvery),
		shutdownFunc: shutdownFunc,
		exitFunc:     os.Exit,
	}

	if webhookURL != "" {
		wh, err := logger.NewWebhook(webhookURL)
		if err != nil {
			logger.Warn(fmt.Sprintf("Webhook de errores inválido: %v", err), "AntiCrash")
		} else {
			h.webhook = wh
		}
	}
	return h
}

// Counts reports whether err is a failure of the bot rather than of the user's input
func Counts(err error) bool {
	if err == nil {
		return false
	}
	switch KindOf(err) {
	case KindUnknown, KindPersistence:
		return true
	default:
		return false
	}
}

// Track records err from source. User-caused kinds are ignored. It returns whether
// the error was counted.
func (h *ErrorHandler) Track(err error, source string) bool {
	if !Counts(err) {
		return false
	}
	n := h.add()
	logger.Error(fmt.Sprintf("[%s] %v (errores en ventana: %d)", KindOf(err), err, n), "AntiCrash")
	h.reportOnce(ReportErrorOptions{
		Title:   "Error inesperado",
		Message: err.Error(),
		Kind:    KindOf(err),
		Source:  source,
	})
	return true
}

// HandlePanic handles a recovered panic
func (h *ErrorHandler) HandlePanic(recovered interface{}, source string) {
	n := h.add()
	stack := string(debug.Stack())
	logger.Error(fmt.Sprintf("Panic en %s: %v (errores en ventana: %d)", source, recovered, n), "AntiCrash")
	logger.Debug(stack, "AntiCrash")

	if len(stack) > stackLimit {
		stack = stack[:stackLimit]
	}
	h.reportOnce(ReportErrorOptions{
		Title:   "Panic",
		Message: fmt.Sprintf("%v\n```\n%s\n```", recovered, stack),
		Source:  source,
	})
}

// Count returns the errors seen in the current window
func (h *ErrorHandler) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.now().Sub(h.windowStart) >= h.window {
		return 0
	}
	return h.count
}

func (h *ErrorHandler) add() int {
	h.mu.Lock()
	now := h.now()
	if now.Sub(h.windowStart) >= h.window {
		h.windowStart = now
		h.count = 0
	}
	h.count++
	n := h.count
	trip := n > h.limit && !h.tripped
	if trip {
		h.tripped = true
	}
	h.mu.Unlock()

	if trip {
		h.shutdown(n)
	}
	return n
}

func (h *ErrorHandler) shutdown(n int) {
	logger.Warn(fmt.Sprintf("Se detectaron %d errores en %v", n, h.window), "CRITICAL")
	logger.Warn("Apagando...", "CRITICAL")

	h.Report(ReportErrorOptions{
		Title:   "Critical Error",
		Message: fmt.Sprintf("Número inusual de errores (%d en %v). Apagando...", n, h.window),
	})

	if h.shutdownFunc != nil {
		h.shutdownFunc()
	}
	time.AfterFunc(h.grace, func() {
		logger.Warn("Finalizando proceso tras el apagado de emergencia", "CRITICAL")
		h.exitFunc(1)
	})
}

func (h *ErrorHandler) reportOnce(data ReportErrorOptions) {
	key := fmt.Sprintf("%s|%s", data.Source, data.Kind)
	if err := h.reported.Add(key, struct{}{}, cache.DefaultExpiration); err != nil {
		return
	}
	h.Report(data)
}

// Report sends an error report to the error webhook
func (h *ErrorHandler) Report(data ReportErrorOptions) {
	if h.webhook == nil {
		return
	}

	var fields []*discordgo.MessageEmbedField
	if data.Source != "" {
		fields = append(fields,
			&discordgo.MessageEmbedField{Name: "Origen", Value: data.Source, Inline: true},
			&discordgo.MessageEmbedField{Name: "Tipo", Value: data.Kind.String(), Inline: true},
		)
	}

	err := h.webhook.Send(&discordgo.MessageEmbed{
		Author:      &discordgo.MessageEmbedAuthor{Name: data.Title},
		Description: data.Message,
		Color:       0xFF0000,
		Fields:      fields,
		Footer:      &discordgo.MessageEmbedFooter{Text: "AnimeBot Go"},
		Timestamp:   h.now().Format(time.RFC3339),
	})
	if err != nil {
		logger.Error(fmt.Sprintf("No se pudo enviar el reporte de error: %v", err), "AntiCrash")
	}
}

// Track records err on the global handler, if there is one
func Track(err error, source string) {
	if handler != nil {
		handler.Track(err, source)
	}
}

// RecoverMiddleware returns a recovery function for deferred calls in goroutines
func RecoverMiddleware(source string) func() {
	return func() {
		if r := recover(); r != nil {
			if handler != nil {
				handler.HandlePanic(r, source)
			} else {
				logger.Error(fmt.Sprintf("Panic recuperado en %s (sin handler): %v", source, r), "AntiCrash")
			}
		}
	}
}
