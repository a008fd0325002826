package music

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/SentryBot/pkg/discord"
	"github.com/PancyStudios/SentryBot/pkg/lavalink"
)

func (h *handler) pauseCommand() *discord.Command {
	return discord.NewCommand("pause", "Pause the current track", "music", h.pause).RequiresVoice()
}

func (h *handler) pause(ctx *discord.CommandContext) error {
	return h.setPaused(ctx, true)
}

func (h *handler) resumeCommand() *discord.Command {
	return discord.NewCommand("resume", "Resume the paused track", "music", h.resume).RequiresVoice()
}

func (h *handler) resume(ctx *discord.CommandContext) error {
	return h.setPaused(ctx, false)
}

func (h *handler) setPaused(ctx *discord.CommandContext, paused bool) error {
	command := "resume"
	if paused {
		command = "pause"
	}

	snap, ok := h.client.Player(ctx.Interaction.GuildID)
	if !ok || !snap.Playing() {
		return ctx.ReplyEphemeral("❌ | No music is currently playing!")
	}
	if paused && snap.Paused {
		return ctx.ReplyEphemeral("❌ | The music is already paused!")
	}
	if !paused && !snap.Paused {
		return ctx.ReplyEphemeral("❌ | The music is not paused!")
	}

	if err := h.client.Pause(ctx.Context(), ctx.Interaction.GuildID, paused); err != nil {
		return fail(ctx, command, err)
	}

	if paused {
		return ctx.ReplyEmbed(newEmbed("⏸️ Paused", "Paused "+trackTitle(snap.Current)+". Use `/music resume` to continue."))
	}
	return ctx.ReplyEmbed(newEmbed("▶️ Resumed", "Resumed "+trackTitle(snap.Current)))
}

func (h *handler) skipCommand() *discord.Command {
	return discord.NewCommand("skip", "Skip the current track", "music", h.skip).RequiresVoice()
}

func (h *handler) skip(ctx *discord.CommandContext) error {
	snap, ok := h.client.Player(ctx.Interaction.GuildID)
	if !ok || !snap.Playing() {
		return ctx.ReplyEphemeral("❌ | No music is currently playing!")
	}

	next, err := h.client.Skip(ctx.Context(), ctx.Interaction.GuildID)
	if err != nil {
		return fail(ctx, "skip", err)
	}
	return ctx.ReplyEmbed(skipEmbed(snap.Current, next))
}

func (h *handler) stopCommand() *discord.Command {
	return discord.NewCommand("stop", "Stop the music, clear the queue and leave", "music", h.stop).RequiresVoice()
}

func (h *handler) stop(ctx *discord.CommandContext) error {
	snap, ok := h.client.Player(ctx.Interaction.GuildID)
	if !ok || !snap.Playing() {
		return ctx.ReplyEphemeral("❌ | No music is currently playing!")
	}
	if err := h.client.Stop(ctx.Context(), ctx.Interaction.GuildID); err != nil {
		return fail(ctx, "stop", err)
	}
	return ctx.ReplyEmbed(stopEmbed(snap))
}

func (h *handler) loopCommand() *discord.Command {
	return discord.NewCommand(
		"loop",
		"Set the loop mode",
		"music",
		h.loop,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "mode",
			Description: "What to repeat",
			Required:    true,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "Off", Value: lavalink.LoopOff.String()},
				{Name: "Track", Value: lavalink.LoopTrack.String()},
				{Name: "Queue", Value: lavalink.LoopQueue.String()},
			},
		},
	).RequiresVoice()
}

func (h *handler) loop(ctx *discord.CommandContext) error {
	mode, ok := lavalink.ParseLoopMode(ctx.GetStringOption("mode"))
	if !ok {
		return ctx.ReplyEphemeral("❌ | Invalid loop mode! Use off, track or queue.")
	}

	snap, exists := h.client.Player(ctx.Interaction.GuildID)
	if !exists {
		return ctx.ReplyEphemeral("❌ | No active music session found!")
	}
	if !snap.Playing() {
		return ctx.ReplyEphemeral("❌ | No track is currently playing!")
	}

	if err := h.client.SetLoop(ctx.Interaction.GuildID, mode); err != nil {
		return fail(ctx, "loop", err)
	}
	return ctx.ReplyEmbed(loopEmbed(mode, snap))
}

func trackTitle(t *lavalink.Track) string {
	if t == nil {
		return "the music"
	}
	return fmt.Sprintf("**%s**", t.Info.Title)
}
