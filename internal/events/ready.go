package events

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/SentryBot/pkg/discord"
	"github.com/PancyStudios/SentryBot/pkg/lavalink"
	"github.com/PancyStudios/SentryBot/pkg/logger"
)

// RegisterReadyEvent logs the login, sets the presence and, on the first
// Ready only, connects the Lavalink node as the bot user.
func RegisterReadyEvent(client *discord.ExtendedClient, lc *lavalink.Client) {
	var connect sync.Once

	client.EventHandler.RegisterEvent(func(s *discordgo.Session, r *discordgo.Ready) {
		logger.Success(fmt.Sprintf("✅ Logged in as %s", r.User.String()), "Ready")
		logger.Info(fmt.Sprintf("📊 Connected to %d servers", len(r.Guilds)), "Ready")

		if err := s.UpdateGameStatus(0, "🛡️ /help"); err != nil {
			logger.Error(fmt.Sprintf("Error setting status: %v", err), "Ready")
		}

		if lc != nil {
			connect.Do(func() { lc.Connect(r.User.ID) })
		}
	})
	client.EventHandler.RegisterEvent(onDebug)
}

func onDebug(s *discordgo.Session, log string) {
	logger.Debug(log, "DiscordGo")
}
