package events

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/SentryBot/pkg/discord"
	"github.com/PancyStudios/SentryBot/pkg/logger"
)

// RegisterGuildEvents registers the guild join and leave handlers.
func RegisterGuildEvents(client *discord.ExtendedClient) {
	client.EventHandler.RegisterEvent(onGuildCreate)
	client.EventHandler.RegisterEvent(onGuildDelete)
}

// joinedRecently separates a real join from the GuildCreate burst sent for
// every guild on connect.
func joinedRecently(joined, now time.Time) bool {
	return !joined.Before(now.Add(-10 * time.Second))
}

func onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if !joinedRecently(g.JoinedAt, time.Now()) {
		return
	}

	logger.Info(fmt.Sprintf("➕ Added to server: %s (ID: %s)", g.Name, g.ID), "Guild")
	logger.Debug(fmt.Sprintf("   Members: %d | Channels: %d", g.MemberCount, len(g.Channels)), "Guild")

	if g.SystemChannelID == "" {
		return
	}
	if _, err := s.ChannelMessageSendEmbed(g.SystemChannelID, introEmbed()); err != nil {
		logger.Error(fmt.Sprintf("Error sending intro message: %v", err), "Guild")
	}
}

func introEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Thanks for adding me! 🎉",
		Description: "Hi, I'm **SentryBot**. Use `/help` to see all my commands.",
		Color:       0x00ff00,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🛡️ Moderation", Value: "Moderate with `/mod`", Inline: true},
			{Name: "👋 Welcome", Value: "Greet newcomers with `/welcome`", Inline: true},
			{Name: "🎵 Music", Value: "Play music with `/music play`", Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "Enjoy SentryBot!"},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func onGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	if g.Unavailable {
		logger.Warn(fmt.Sprintf("Server %s became unavailable", g.ID), "Guild")
		return
	}
	logger.Info(fmt.Sprintf("➖ Removed from server ID: %s", g.ID), "Guild")
}
