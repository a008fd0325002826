// Package music provides the /music command group on top of the Lavalink client.
package music

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/SentryBot/pkg/discord"
	"github.com/PancyStudios/SentryBot/pkg/errors"
	"github.com/PancyStudios/SentryBot/pkg/lavalink"
	"github.com/PancyStudios/SentryBot/pkg/logger"
)

type handler struct {
	client *lavalink.Client
}

// RegisterMusicCommands registers /music and its subcommands.
func RegisterMusicCommands(client *discord.ExtendedClient, lc *lavalink.Client) {
	h := &handler{client: lc}

	group := client.CommandHandler.BuildCommandGroup(
		"music",
		"Play and control music in your voice channel",
		h.playCommand(),
		h.pauseCommand(),
		h.resumeCommand(),
		h.skipCommand(),
		h.stopCommand(),
		h.queueCommand(),
		h.clearCommand(),
		h.shuffleCommand(),
		h.volumeCommand(),
		h.seekCommand(),
		h.nowPlayingCommand(),
		h.loopCommand(),
	)
	dm := false
	group.DMPermission = &dm

	client.CommandHandler.AddGlobalCommand(group)
}

// Announcer posts a "now playing" embed in the player's text channel every
// time a track starts.
func Announcer(s *discordgo.Session) func(lavalink.Snapshot) {
	return func(snap lavalink.Snapshot) {
		if snap.TextChannelID == "" || snap.Current == nil {
			return
		}
		go func() {
			defer errors.Recover("Music")
			if _, err := s.ChannelMessageSendEmbed(snap.TextChannelID, announceEmbed(snap)); err != nil {
				logger.Debug(fmt.Sprintf("Failed to announce track in %s: %v", snap.TextChannelID, err), "Music")
			}
		}()
	}
}

// fail answers with the user-facing message for err, logging unexpected ones.
func fail(ctx *discord.CommandContext, command string, err error) error {
	msg := errorMessage(err)
	if msg == genericError {
		logger.Error(fmt.Sprintf("/music %s failed: %v", command, err), "Music")
	}
	return ctx.ReplyError(msg)
}
