package music

import (
	"github.com/bwmarrin/discordgo"

	musicfmt "github.com/PancyStudios/SentryBot/internal/music"
	"github.com/PancyStudios/SentryBot/pkg/discord"
	"github.com/PancyStudios/SentryBot/pkg/lavalink"
)

var minVolume = float64(lavalink.MinVolume)

func (h *handler) volumeCommand() *discord.Command {
	return discord.NewCommand(
		"volume",
		"Change the playback volume",
		"music",
		h.volume,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "percentage",
			Description: "Volume level (0-100)",
			Required:    true,
			MinValue:    &minVolume,
			MaxValue:    lavalink.MaxVolume,
		},
	).RequiresVoice()
}

func (h *handler) volume(ctx *discord.CommandContext) error {
	volume := int(ctx.GetIntOption("percentage"))
	if volume < lavalink.MinVolume || volume > lavalink.MaxVolume {
		return ctx.ReplyEphemeral("❌ | Volume must be between 0 and 100!")
	}

	snap, ok := h.client.Player(ctx.Interaction.GuildID)
	if !ok {
		return ctx.ReplyEphemeral("❌ | No active music session found!")
	}
	if err := h.client.SetVolume(ctx.Context(), ctx.Interaction.GuildID, volume); err != nil {
		return fail(ctx, "volume", err)
	}
	return ctx.ReplyEmbed(volumeEmbed(snap.Volume, volume, snap.Current))
}

func (h *handler) seekCommand() *discord.Command {
	return discord.NewCommand(
		"seek",
		"Jump to a position in the current track",
		"music",
		h.seek,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "timestamp",
			Description: "Position as SS, MM:SS or HH:MM:SS",
			Required:    true,
		},
	).RequiresVoice()
}

func (h *handler) seek(ctx *discord.CommandContext) error {
	position, err := musicfmt.ParseTimestamp(ctx.GetStringOption("timestamp"))
	if err != nil {
		return ctx.ReplyEphemeral(errorMessage(err))
	}

	snap, ok := h.client.Player(ctx.Interaction.GuildID)
	if !ok || !snap.Playing() {
		return ctx.ReplyEphemeral("❌ | No music is currently playing!")
	}
	if err := h.client.Seek(ctx.Context(), ctx.Interaction.GuildID, position); err != nil {
		return fail(ctx, "seek", err)
	}
	return ctx.ReplyEmbed(seekEmbed(snap.Current, position))
}

func (h *handler) nowPlayingCommand() *discord.Command {
	return discord.NewCommand(
		"nowplaying",
		"Show the track that is playing",
		"music",
		h.nowPlaying,
	).InGuildOnly()
}

func (h *handler) nowPlaying(ctx *discord.CommandContext) error {
	snap, ok := h.client.Player(ctx.Interaction.GuildID)
	if !ok || !snap.Playing() {
		return ctx.ReplyEphemeral("❌ | No music is currently playing!")
	}
	return ctx.ReplyEmbed(nowPlayingEmbed(snap))
}
