package events

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/SentryBot/pkg/discord"
	"github.com/PancyStudios/SentryBot/pkg/logger"
)

// RegisterShardEvents logs gateway disconnects and resumes.
func RegisterShardEvents(client *discord.ExtendedClient) {
	client.EventHandler.RegisterEvent(onShardDisconnect)
	client.EventHandler.RegisterEvent(onShardResumed)
}

func onShardDisconnect(s *discordgo.Session, _ *discordgo.Disconnect) {
	logger.Warn(fmt.Sprintf("🔌 Shard %d disconnected.", s.ShardID), "Shard")
}

func onShardResumed(s *discordgo.Session, _ *discordgo.Resumed) {
	logger.Success(fmt.Sprintf("✅ Shard %d resumed.", s.ShardID), "Shard")
}
