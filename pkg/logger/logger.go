// Package logger provides leveled logging to the console, rotating files and
// Discord webhooks.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
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

// logrusLevel maps the level onto the file formatter's scale.
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

const colorReset = "\033[0m"

// Logger is the main logging structure
type Logger struct {
	console         io.Writer
	combined        *logrus.Logger
	errors          *logrus.Logger
	files           []*lumberjack.Logger
	http            *resty.Client
	errorWebhookURL string
	logsWebhookURL  string
	debug           bool
	mu              sync.Mutex
}

// logger is the global logger instance
var (
	logger *Logger
	once   sync.Once
)

// Init initializes the global logger instance
func Init(dir, errorWebhook, logsWebhook string) *Logger {
	once.Do(func() {
		logger = NewLogger(dir, errorWebhook, logsWebhook)
	})
	return logger
}

// Get returns the global logger instance
func Get() *Logger {
	once.Do(func() {
		logger = NewLogger("logs", "", "")
	})
	return logger
}

// NewLogger creates a Logger writing rotated files under dir. An empty dir
// disables file output.
func NewLogger(dir, errorWebhook, logsWebhook string) *Logger {
	l := &Logger{
		console:         os.Stdout,
		errorWebhookURL: errorWebhook,
		logsWebhookURL:  logsWebhook,
		debug:           true,
		http: resty.New().
			SetTimeout(5 * time.Second).
			SetJSONMarshaler(json.Marshal).
			SetJSONUnmarshaler(json.Unmarshal),
	}

	if dir == "" {
		return l
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logs directory: %v\n", err)
		return l
	}

	l.combined = l.fileLogger(filepath.Join(dir, "combined.log"))
	l.errors = l.fileLogger(filepath.Join(dir, "error.log"))
	return l
}

func (l *Logger) fileLogger(path string) *logrus.Logger {
	out := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	}
	l.files = append(l.files, out)

	fl := logrus.New()
	fl.SetOutput(out)
	fl.SetLevel(logrus.DebugLevel)
	fl.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   true,
	})
	return fl
}

// SetOutput redirects console output.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.console = w
}

// SetDebug toggles Debug level output.
func (l *Logger) SetDebug(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug = enabled
}

func (l *Logger) log(level LogLevel, message string, prefix string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level == LevelDebug && !l.debug {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(l.console, "[%s] [%s%s%s] [%s]: %s\n",
		timestamp,
		level.Color(),
		level.String(),
		colorReset,
		prefix,
		message,
	)

	fields := logrus.Fields{"prefix": prefix, "severity": level.String()}
	if l.combined != nil {
		l.combined.WithFields(fields).Log(level.logrusLevel(), message)
	}
	if level <= LevelError && l.errors != nil {
		l.errors.WithFields(fields).Log(level.logrusLevel(), message)
	}

	if url := l.webhookFor(level); url != "" {
		go l.sendToWebhook(url, level, message, prefix)
	}
}

// webhookFor picks the webhook a level is routed to. Info and Debug stay local.
func (l *Logger) webhookFor(level LogLevel) string {
	switch level {
	case LevelCritical, LevelError:
		return l.errorWebhookURL
	case LevelWarn, LevelSuccess, LevelSystem:
		return l.logsWebhookURL
	default:
		return ""
	}
}

func (l *Logger) sendToWebhook(url string, level LogLevel, message, prefix string) {
	payload := map[string]interface{}{
		"embeds": []interface{}{
			map[string]interface{}{
				"title":       fmt.Sprintf("[%s] %s", level.String(), prefix),
				"description": fmt.Sprintf("```%s```", message),
				"color":       level.DiscordColor(),
				"timestamp":   time.Now().Format(time.RFC3339),
				"footer":      map[string]string{"text": "SentryBot"},
			},
		},
	}

	resp, err := l.http.R().SetBody(payload).Post(url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: webhook post failed: %v\n", err)
		return
	}
	if resp.IsError() {
		fmt.Fprintf(os.Stderr, "logger: webhook returned %s\n", resp.Status())
	}
}

// Close flushes and closes the log files
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, f := range l.files {
		f.Close()
	}
}

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

func Critical(message string, prefix string) { Get().Critical(message, prefix) }
func Error(message string, prefix string)    { Get().Error(message, prefix) }
func Warn(message string, prefix string)     { Get().Warn(message, prefix) }
func Success(message string, prefix string)  { Get().Success(message, prefix) }
func Info(message string, prefix string)     { Get().Info(message, prefix) }
func Debug(message string, prefix string)    { Get().Debug(message, prefix) }
func System(message string, prefix string)   { Get().System(message, prefix) }
