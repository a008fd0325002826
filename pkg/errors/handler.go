// Package errors provides error handling and recovery mechanisms for the bot.
// It implements an error counter with automatic shutdown on excessive errors.
package errors

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/PancyStudios/SentryBot/pkg/logger"
	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
)

// ErrorHandler manages error counting and reporting
type ErrorHandler struct {
	errorCount    int32
	webhookURL    string
	http          *resty.Client
	stopChan      chan struct{}
	stopOnce      sync.Once
	shutdownFunc  func()
	exitFunc      func(int)
	maxErrors     int32
	resetInterval time.Duration
	checkInterval time.Duration
}

// ReportErrorOptions contains options for reporting an error
type ReportErrorOptions struct {
	Error   string
	Message string
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

// Get returns the global error handler instance
func Get() *ErrorHandler {
	return handler
}

// NewErrorHandler creates a new ErrorHandler instance
func NewErrorHandler(webhookURL string, shutdownFunc func()) *ErrorHandler {
	h := &ErrorHandler{
		webhookURL:   webhookURL,
		stopChan:     make(chan struct{}),
		shutdownFunc: shutdownFunc,
		exitFunc:     os.Exit,
		http: resty.New().
			SetTimeout(10 * time.Second).
			SetJSONMarshaler(json.Marshal).
			SetJSONUnmarshaler(json.Unmarshal),
		maxErrors:     10,
		resetInterval: time.Minute,
		checkInterval: time.Second,
	}

	h.start()
	return h
}

func (h *ErrorHandler) start() {
	go func() {
		ticker := time.NewTicker(h.resetInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				atomic.StoreInt32(&h.errorCount, 0)
			case <-h.stopChan:
				return
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(h.checkInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if h.overLimit() {
					h.shutdown()
					return
				}
			case <-h.stopChan:
				return
			}
		}
	}()
}

func (h *ErrorHandler) overLimit() bool {
	return atomic.LoadInt32(&h.errorCount) > h.maxErrors
}

func (h *ErrorHandler) shutdown() {
	start := time.Now()
	logger.Critical("Too many errors in a short period, shutting down", "AntiCrash")

	h.Report(ReportErrorOptions{
		Error:   "Critical Error",
		Message: "Unusual number of errors. Shutting down...",
	})

	if h.shutdownFunc != nil {
		h.shutdownFunc()
	}

	logger.Warn(fmt.Sprintf("Process finished in %v", time.Since(start)), "AntiCrash")
	h.exitFunc(1)
}

// Stop stops the error monitoring goroutines
func (h *ErrorHandler) Stop() {
	h.stopOnce.Do(func() { close(h.stopChan) })
}

// Count returns the number of errors seen in the current window.
func (h *ErrorHandler) Count() int32 {
	return atomic.LoadInt32(&h.errorCount)
}

// IncrementError increments the error count
func (h *ErrorHandler) IncrementError() {
	count := atomic.AddInt32(&h.errorCount, 1)
	logger.Debug(fmt.Sprintf("Error count: %d", count), "AntiCrash")
}

// HandlePanicFrom records a recovered panic attributed to source.
func (h *ErrorHandler) HandlePanicFrom(source string, recovered interface{}) {
	h.IncrementError()
	logger.Error(fmt.Sprintf("%v\n%s", recovered, debug.Stack()), source)
	go h.Report(ReportErrorOptions{
		Error:   "Panic in " + source,
		Message: fmt.Sprintf("```%v```", recovered),
	})
}

// Report sends an error report to the Discord webhook
func (h *ErrorHandler) Report(data ReportErrorOptions) {
	if h.webhookURL == "" {
		return
	}

	payload := map[string]interface{}{
		"embeds": []interface{}{
			map[string]interface{}{
				"author":      map[string]string{"name": fmt.Sprintf("Error %s", data.Error)},
				"description": data.Message,
				"color":       0xFF0000,
				"footer":      map[string]string{"text": "SentryBot"},
				"timestamp":   time.Now().Format(time.RFC3339),
			},
		},
	}

	resp, err := h.http.R().SetBody(payload).Post(h.webhookURL)
	if err != nil {
		logger.Warn(fmt.Sprintf("Failed to send error report: %v", err), "AntiCrash")
		return
	}

	logger.Debug(fmt.Sprintf("Sent ErrorReport to Webhook, Status: %d", resp.StatusCode()), "AntiCrash")
}

// Capture records a value already recovered by the caller.
func Capture(source string, recovered interface{}) {
	if handler != nil {
		handler.HandlePanicFrom(source, recovered)
		return
	}
	logger.Error(fmt.Sprintf("Panic recovered in %s (no handler): %v", source, recovered), "AntiCrash")
}

// Recover must be deferred directly: defer errors.Recover("Lavalink").
func Recover(source string) {
	if r := recover(); r != nil {
		Capture(source, r)
	}
}

// RecoverMiddleware returns a recovery function for use in deferred calls
func RecoverMiddleware() func() {
	return func() {
		if r := recover(); r != nil {
			Capture("SYS", r)
		}
	}
}
