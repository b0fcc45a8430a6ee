// Package logger writes the bot's log lines to the console, to logs/combined.log and
// logs/error.log, and to the operator webhooks through a paced queue.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	LevelCritical LogLevel = iota
	LevelError
	LevelWarn
	LevelSuccess
	LevelInfo
	LevelDebug
	LevelSystem
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LevelCritical:
		return "CRITICAL"
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelSuccess:
		return "SUCCESS"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	case LevelSystem:
		return "SYSTEM"
	default:
		return "UNKNOWN"
	}
}

// Color returns the ANSI color code for the log level
func (l LogLevel) Color() string {
	switch l {
	case LevelCritical:
		return "\033[1;31m" // Bold Red
	case LevelError:
		return "\033[31m" // Red
	case LevelWarn:
		return "\033[33m" // Yellow
	case LevelSuccess:
		return "\033[32m" // Green
	case LevelInfo:
		return "\033[36m" // Cyan
	case LevelDebug:
		return "\033[35m" // Magenta
	case LevelSystem:
		return "\033[34m" // Blue
	default:
		return "\033[0m" // Reset
	}
}

// DiscordColor returns the Discord embed color for the log level
func (l LogLevel) DiscordColor() int {
	switch l {
	case LevelCritical, LevelError:
		return 0xFF0000 // Red
	case LevelWarn:
		return 0xFFFF00 // Yellow
	case LevelSuccess:
		return 0x00FF00 // Green
	case LevelInfo:
		return 0x0000FF // Blue
	case LevelDebug:
		return 0x800080 // Purple
	case LevelSystem:
		return 0x808080 // Grey
	default:
		return 0xFFFFFF // White
	}
}

// logrusLevel maps a LogLevel onto the closest logrus level.
// Critical stays at ErrorLevel because logrus Fatal and Panic terminate.
func (l LogLevel) logrusLevel() logrus.Level {
	switch l {
	case LevelCritical, LevelError:
		return logrus.ErrorLevel
	case LevelWarn:
		return logrus.WarnLevel
	case LevelDebug:
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

const (
	colorReset = "\033[0m"

	fieldLevel  = "level_name"
	fieldPrefix = "prefix"
)

// lineFormatter renders entries as "[time] [LEVEL] [prefix]: message".
type lineFormatter struct {
	colors bool
}

// Format implements logrus.Formatter
func (f *lineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	level, _ := entry.Data[fieldLevel].(LogLevel)
	prefix, _ := entry.Data[fieldPrefix].(string)
	timestamp := entry.Time.Format("2006-01-02 15:04:05")

	if f.colors {
		return []byte(fmt.Sprintf("[%s] [%s%s%s] [%s]: %s\n",
			timestamp, level.Color(), level.String(), colorReset, prefix, entry.Message)), nil
	}
	return []byte(fmt.Sprintf("[%s] [%s] [%s]: %s\n",
		timestamp, level.String(), prefix, entry.Message)), nil
}

// fileHook mirrors every entry into the log files without colors.
type fileHook struct {
	formatter *lineFormatter
	combined  io.Writer
	errors    io.Writer
}

func (h *fileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *fileHook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	if h.combined != nil {
		_, _ = h.combined.Write(line)
	}
	if level, _ := entry.Data[fieldLevel].(LogLevel); level <= LevelError && h.errors != nil {
		_, _ = h.errors.Write(line)
	}
	return nil
}

const (
	webhookQueueSize = 256
	// Discord allows about five webhook calls every two seconds
	webhookRate  = rate.Limit(2)
	webhookBurst = 5
	drainTimeout = 3 * time.Second
)

type webhookJob struct {
	hook  *Webhook
	embed *discordgo.MessageEmbed
}

// Logger is the main logging structure
type Logger struct {
	logrus       *logrus.Logger
	errorWebhook *Webhook
	logsWebhook  *Webhook
	logFile      *os.File
	errorFile    *os.File

	mu       sync.Mutex
	maxLevel LogLevel
	closed   bool
	queue    chan webhookJob
	done     chan struct{}
	dropped  atomic.Int64
}

// logger is the global logger instance
var (
	logger *Logger
	once   sync.Once
)

// Init initializes the global logger instance
func Init(errorWebhook, logsWebhook string) *Logger {
	once.Do(func() {
		logger = NewLogger(errorWebhook, logsWebhook)
	})
	return logger
}

// Get returns the global logger instance, a console and file logger if Init was not called
func Get() *Logger {
	once.Do(func() {
		logger = NewLogger("", "")
	})
	return logger
}

// ParseLevel reads a LOG_LEVEL value. System messages are always shown.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical":
		return LevelCritical, nil
	case "error":
		return LevelError, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "success":
		return LevelSuccess, nil
	case "info", "":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	default:
		return LevelDebug, fmt.Errorf("unknown log level %q", s)
	}
}

// NewLogger creates a new Logger instance that shows every level
func NewLogger(errorWebhook, logsWebhook string) *Logger {
	l := &Logger{
		logrus:   logrus.New(),
		maxLevel: LevelDebug,
		queue:    make(chan webhookJob, webhookQueueSize),
		done:     make(chan struct{}),
	}

	l.logrus.SetFormatter(&lineFormatter{colors: true})
	l.logrus.SetOutput(os.Stdout)
	l.logrus.SetLevel(logrus.TraceLevel)

	l.errorWebhook = openWebhook(errorWebhook, "error")
	l.logsWebhook = openWebhook(logsWebhook, "logs")

	logsDir := filepath.Join(".", "logs")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		fmt.Printf("Error creating logs directory: %v\n", err)
	}
	hook := &fileHook{formatter: &lineFormatter{colors: false}}
	if f := openLogFile(filepath.Join(logsDir, "combined.log")); f != nil {
		l.logFile, hook.combined = f, f
	}
	if f := openLogFile(filepath.Join(logsDir, "error.log")); f != nil {
		l.errorFile, hook.errors = f, f
	}
	l.logrus.AddHook(hook)

	if l.errorWebhook != nil || l.logsWebhook != nil {
		go l.deliver(rate.NewLimiter(webhookRate, webhookBurst))
	} else {
		close(l.done)
	}
	return l
}

func openWebhook(rawURL, name string) *Webhook {
	if rawURL == "" {
		return nil
	}
	wh, err := NewWebhook(rawURL)
	if err != nil {
		fmt.Printf("Error configuring %s webhook: %v\n", name, err)
		return nil
	}
	return wh
}

func openLogFile(path string) *os.File {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Printf("Error opening %s: %v\n", path, err)
		return nil
	}
	return f
}

// SetLevel hides messages less severe than level
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	l.maxLevel = level
	l.mu.Unlock()
}

// Dropped returns how many webhook messages were discarded because the queue was full
func (l *Logger) Dropped() int64 {
	return l.dropped.Load()
}

func (l *Logger) enabled(level LogLevel) bool {
	return level == LevelSystem || level <= l.maxLevel
}

// log is the internal logging function
func (l *Logger) log(level LogLevel, message string, prefix string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.enabled(level) {
		return
	}
	l.logrus.WithFields(logrus.Fields{
		fieldLevel:  level,
		fieldPrefix: prefix,
	}).Log(level.logrusLevel(), message)

	if l.closed {
		return
	}
	if hook := l.webhookFor(level); hook != nil {
		select {
		case l.queue <- webhookJob{hook: hook, embed: logEmbed(level, message, prefix)}:
		default:
			l.dropped.Add(1)
		}
	}
}

// webhookFor routes errors to the error webhook and the rest, except debug, to the logs webhook
func (l *Logger) webhookFor(level LogLevel) *Webhook {
	switch {
	case level <= LevelError:
		return l.errorWebhook
	case level == LevelDebug:
		return nil
	default:
		return l.logsWebhook
	}
}

func logEmbed(level LogLevel, message, prefix string) *discordgo.MessageEmbed {
	if len(message) > 4000 {
		message = strings.ToValidUTF8(message[:4000], "")
	}
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("[%s] %s", level.String(), prefix),
		Description: fmt.Sprintf("```%s```", message),
		Color:       level.DiscordColor(),
		Timestamp:   time.Now().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: "💫 Developed by PancyStudio | AnimeBot Go",
		},
	}
}

// deliver sends queued embeds one at a time under the webhook rate limit
func (l *Logger) deliver(limiter *rate.Limiter) {
	defer close(l.done)
	for job := range l.queue {
		_ = limiter.Wait(context.Background())
		if err := job.hook.Send(job.embed); err != nil {
			fmt.Fprintf(os.Stderr, "Error sending log webhook: %v\n", err)
		}
	}
}

// Close stops accepting webhook messages, waits briefly for the queue to drain and
// closes the log files
func (l *Logger) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	close(l.queue)
	l.mu.Unlock()

	select {
	case <-l.done:
	case <-time.After(drainTimeout):
		fmt.Fprintln(os.Stderr, "Log webhook queue not drained before shutdown")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.logFile != nil {
		l.logFile.Close()
	}
	if l.errorFile != nil {
		l.errorFile.Close()
	}
	l.logrus.ReplaceHooks(make(logrus.LevelHooks))
}

// Logging methods

// Critical logs a critical message
func (l *Logger) Critical(message string, prefix string) {
	l.log(LevelCritical, message, prefix)
}

// Error logs an error message
func (l *Logger) Error(message string, prefix string) {
	l.log(LevelError, message, prefix)
}

// Warn logs a warning message
func (l *Logger) Warn(message string, prefix string) {
	l.log(LevelWarn, message, prefix)
}

// Success logs a success message
func (l *Logger) Success(message string, prefix string) {
	l.log(LevelSuccess, message, prefix)
}

// Info logs an info message
func (l *Logger) Info(message string, prefix string) {
	l.log(LevelInfo, message, prefix)
}

// Debug logs a debug message
func (l *Logger) Debug(message string, prefix string) {
	l.log(LevelDebug, message, prefix)
}

// System logs a system message
func (l *Logger) System(message string, prefix string) {
	l.log(LevelSystem, message, prefix)
}

// Package-level functions for convenience

// Critical logs a critical message using the global logger
func Critical(message string, prefix string) {
	Get().Critical(message, prefix)
}

// Error logs an error message using the global logger
func Error(message string, prefix string) {
	Get().Error(message, prefix)
}

// Warn logs a warning message using the global logger
func Warn(message string, prefix string) {
	Get().Warn(message, prefix)
}

// Success logs a success message using the global logger
func Success(message string, prefix string) {
	Get().Success(message, prefix)
}

// Info logs an info message using the global logger
func Info(message string, prefix string) {
	Get().Info(message, prefix)
}

// Debug logs a debug message using the global logger
func Debug(message string, prefix string) {
	Get().Debug(message, prefix)
}

// System logs a system message using the global logger
func System(message string, prefix string) {
	Get().System(message, prefix)
}
