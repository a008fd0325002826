package events

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/SentryBot/pkg/discord"
	"github.com/PancyStudios/SentryBot/pkg/lavalink"
	"github.com/PancyStudios/SentryBot/pkg/logger"
)

// RegisterVoiceEvents destroys a guild's player once every listener has left
// the bot's voice channel.
func RegisterVoiceEvents(client *discord.ExtendedClient, lc *lavalink.Client) {
	if lc == nil {
		return
	}
	client.EventHandler.RegisterEvent(func(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
		onVoiceStateUpdate(s, lc, v)
	})
}

func onVoiceStateUpdate(s *discordgo.Session, lc *lavalink.Client, v *discordgo.VoiceStateUpdate) {
	if v.BeforeUpdate == nil || v.BeforeUpdate.ChannelID == "" || v.BeforeUpdate.ChannelID == v.ChannelID {
		return
	}
	if s.State.User == nil || v.UserID == s.State.User.ID {
		return
	}

	snap, ok := lc.Player(v.GuildID)
	if !ok || snap.VoiceChannelID != v.BeforeUpdate.ChannelID {
		return
	}

	guild, err := s.State.Guild(v.GuildID)
	if err != nil || !abandoned(guild, snap.VoiceChannelID, s.State.User.ID) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := lc.Destroy(ctx, v.GuildID); err != nil {
		logger.Warn(fmt.Sprintf("Could not leave empty channel in %s: %v", v.GuildID, err), "Voice")
		return
	}
	logger.Debug("🔇 Left empty voice channel in "+v.GuildID, "Voice")
}

// abandoned reports whether no human listener remains in channelID. Bots are
// identified through the member cache; uncached users count as listeners.
func abandoned(g *discordgo.Guild, channelID, botID string) bool {
	for _, vs := range g.VoiceStates {
		if vs.ChannelID != channelID || vs.UserID == botID {
			continue
		}
		if vs.Member != nil && vs.Member.User != nil && vs.Member.User.Bot {
			continue
		}
		return false
	}
	return true
}
