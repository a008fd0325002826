// Package web provides the HTTP status and moderation API.
// It uses Gin for routing and middleware.
package web

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/PancyStudios/SentryBot/pkg/logger"
)

// Options configures a Server.
type Options struct {
	// WebhookURL receives rejected requests. Empty disables it.
	WebhookURL string
	// APIToken guards the moderation routes. Empty disables them.
	APIToken string
	// RateLimit is the sustained requests per second allowed per client IP.
	RateLimit float64
}

// Server represents the web server.
type Server struct {
	engine   *gin.Engine
	opts     Options
	http     *resty.Client
	limiters *cache.Cache
	srv      *http.Server
}

var server *Server

// Init initializes the global web server.
func Init(opts Options) *Server {
	server = NewServer(opts)
	return server
}

// Get returns the global web server.
func Get() *Server {
	return server
}

// NewServer creates a server with logging, recovery and rate limiting.
func NewServer(opts Options) *Server {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine:   engine,
		opts:     opts,
		limiters: cache.New(10*time.Minute, 10*time.Minute),
		http: resty.New().
			SetTimeout(5 * time.Second).
			SetJSONMarshaler(json.Marshal),
	}

	s.engine.Use(s.logsMiddleware())
	s.engine.Use(s.rateLimitMiddleware())
	s.setupErrorHandlers()

	return s
}

// Engine returns the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// logsMiddleware logs every request and reports rejected ones to the webhook.
func (s *Server) logsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		line := fmt.Sprintf("%s %s -> %d (%v) | %s", c.Request.Method, c.Request.URL.Path, status, time.Since(start), c.ClientIP())
		switch status {
		case http.StatusUnauthorized, http.StatusTooManyRequests:
			logger.Warn("Rejected request: "+line, "WebServer")
			go s.sendLogToWebhook(c.Request.Method, c.Request.URL.Path, c.ClientIP(), status)
		default:
			logger.Debug(line, "WebServer")
		}
	}
}

// sendLogToWebhook posts a rejected request to the Discord webhook.
func (s *Server) sendLogToWebhook(method, path, ip string, status int) {
	if s.opts.WebhookURL == "" {
		return
	}

	embed := map[string]interface{}{
		"title": fmt.Sprintf("💫 | Rejected request: %s %s", method, path),
		"description": fmt.Sprintf(
			"> **Status:** `%d`\n> **IP:** `%s`",
			status, ip,
		),
		"color":     0xFFA500,
		"timestamp": time.Now().Format(time.RFC3339),
	}

	_, err := s.http.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{"embeds": []interface{}{embed}}).
		Post(s.opts.WebhookURL)
	if err != nil {
		logger.Debug("Failed to post request log: "+err.Error(), "WebServer")
	}
}

// limiter returns the token bucket of a client IP.
func (s *Server) limiter(ip string) *rate.Limiter {
	if l, ok := s.limiters.Get(ip); ok {
		return l.(*rate.Limiter)
	}
	burst := int(s.opts.RateLimit * 2)
	if burst < 1 {
		burst = 1
	}
	l := rate.NewLimiter(rate.Limit(s.opts.RateLimit), burst)
	if err := s.limiters.Add(ip, l, cache.DefaultExpiration); err != nil {
		// Another request created it first.
		if existing, ok := s.limiters.Get(ip); ok {
			return existing.(*rate.Limiter)
		}
	}
	return l
}

func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests, please try again later.",
			})
			return
		}
		c.Next()
	}
}

// authMiddleware requires "Authorization: Bearer <APIToken>".
func (s *Server) authMiddleware() gin.HandlerFunc {
	want := []byte(s.opts.APIToken)
	return func(c *gin.Context) {
		got, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "A valid API token is required.",
			})
			return
		}
		c.Next()
	}
}

func (s *Server) setupErrorHandlers() {
	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "The requested route does not exist.",
			"status":  404,
		})
	})

	s.engine.HandleMethodNotAllowed = true
	s.engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error":   "Method Not Allowed",
			"message": "The HTTP method is not allowed for this route.",
			"status":  405,
		})
	})
}

// StartAsync serves on port in a goroutine.
func (s *Server) StartAsync(port string) {
	s.srv = &http.Server{
		Addr:              ":" + port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info(fmt.Sprintf("🚀 Server listening on http://localhost:%s", port), "WebServer")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(fmt.Sprintf("Error starting web server: %v", err), "WebServer")
		}
	}()
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// Group creates a new router group.
func (s *Server) Group(path string, handlers ...gin.HandlerFunc) *gin.RouterGroup {
	return s.engine.Group(path, handlers...)
}
