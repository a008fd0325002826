package web

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gin-gonic/gin"

	"github.com/PancyStudios/SentryBot/internal/moderation"
	"github.com/PancyStudios/SentryBot/pkg/database"
	"github.com/PancyStudios/SentryBot/pkg/models"
)

// Bot is the status surface of the Discord client.
type Bot interface {
	IsReady() bool
	GuildCount() int
	MemberCount() int
	Uptime() time.Duration
	BotUser() *discordgo.User
}

// Database reports the storage connection.
type Database interface {
	GetStatus() (string, bool)
}

// Warnings reads the warning store.
type Warnings interface {
	GetWarnings(guildID, userID string) []moderation.Warning
}

// ModLogs reads the moderation audit trail.
type ModLogs interface {
	Recent(ctx context.Context, guildID, userID string, limit int64) ([]models.ModCase, error)
}

// Players reports active music players.
type Players interface {
	PlayerCount() int
}

// API holds what the routes read. Nil fields are reported as unavailable.
type API struct {
	Bot      Bot
	Database Database
	Warnings Warnings
	ModLogs  ModLogs
	Players  Players
}

const (
	defaultModLogLimit = 25
	maxModLogLimit     = 100
)

var snowflake = regexp.MustCompile(`^\d{17,20}$`)

// SetupAPIRoutes registers the API. Moderation routes exist only when an
// API token is configured.
func SetupAPIRoutes(s *Server, a API) {
	api := s.Group("/api")
	{
		api.GET("/status", a.statusHandler)
		api.GET("/health", healthHandler)
		api.GET("/bot", a.botInfoHandler)
	}

	if s.opts.APIToken == "" {
		return
	}
	guilds := api.Group("/guilds/:guildId", s.authMiddleware(), validateIDs)
	{
		guilds.GET("/users/:userId/warnings", a.warningsHandler)
		guilds.GET("/modlogs", a.modLogsHandler)
	}
}

func validateIDs(c *gin.Context) {
	for _, p := range c.Params {
		if !snowflake.MatchString(p.Value) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":   "Bad Request",
				"message": "Invalid " + p.Key + ".",
			})
			return
		}
	}
	c.Next()
}

func (a API) statusHandler(c *gin.Context) {
	dbStatus, dbOnline := "⚪ | Disabled", false
	if a.Database != nil {
		dbStatus, dbOnline = a.Database.GetStatus()
	}

	botOnline := a.Bot != nil && a.Bot.IsReady()

	players := 0
	if a.Players != nil {
		players = a.Players.PlayerCount()
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"database": gin.H{
			"status":   dbStatus,
			"isOnline": dbOnline,
		},
		"bot": gin.H{
			"isOnline": botOnline,
		},
		"music": gin.H{
			"enabled": a.Players != nil,
			"players": players,
		},
	})
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "SentryBot is running",
	})
}

func (a API) botInfoHandler(c *gin.Context) {
	if a.Bot == nil || !a.Bot.IsReady() || a.Bot.BotUser() == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Bot Offline",
			"message": "The bot is not available right now.",
		})
		return
	}

	user := a.Bot.BotUser()
	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"avatar":   user.AvatarURL(""),
		"guilds":   a.Bot.GuildCount(),
		"members":  a.Bot.MemberCount(),
		"uptime":   int64(a.Bot.Uptime().Seconds()),
		"isReady":  true,
	})
}

func (a API) warningsHandler(c *gin.Context) {
	if a.Warnings == nil {
		unavailable(c, "The warning store is not available.")
		return
	}

	guildID, userID := c.Param("guildId"), c.Param("userId")
	warnings := a.Warnings.GetWarnings(guildID, userID)
	c.JSON(http.StatusOK, gin.H{
		"guildId":  guildID,
		"userId":   userID,
		"count":    len(warnings),
		"warnings": warnings,
	})
}

func (a API) modLogsHandler(c *gin.Context) {
	if a.ModLogs == nil {
		unavailable(c, "The moderation log database is disabled.")
		return
	}

	limit, err := parseLimit(c.Query("limit"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": err.Error()})
		return
	}
	userID := c.Query("user")
	if userID != "" && !snowflake.MatchString(userID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": "Invalid user."})
		return
	}

	cases, err := a.ModLogs.Recent(c.Request.Context(), c.Param("guildId"), userID, limit)
	if errors.Is(err, database.ErrNotConnected) {
		unavailable(c, "The moderation log database is offline.")
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"guildId": c.Param("guildId"),
		"count":   len(cases),
		"cases":   cases,
	})
}

func parseLimit(raw string) (int64, error) {
	if raw == "" {
		return defaultModLogLimit, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 || n > maxModLogLimit {
		return 0, errors.New("limit must be between 1 and " + strconv.Itoa(maxModLogLimit))
	}
	return n, nil
}

func unavailable(c *gin.Context, message string) {
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"error":   "Service Unavailable",
		"message": message,
	})
}
