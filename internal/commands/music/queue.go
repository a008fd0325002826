package music

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	musicfmt "github.com/PancyStudios/SentryBot/internal/music"
	"github.com/PancyStudios/SentryBot/pkg/discord"
)

var minPage = 1.0

func (h *handler) queueCommand() *discord.Command {
	return discord.NewCommand(
		"queue",
		"Show the music queue",
		"music",
		h.queue,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "page",
			Description: "Page number of the queue",
			MinValue:    &minPage,
		},
	).InGuildOnly()
}

func (h *handler) queue(ctx *discord.CommandContext) error {
	snap, ok := h.client.Player(ctx.Interaction.GuildID)
	if !ok {
		return ctx.ReplyEphemeral("❌ | No active music session found!")
	}
	if !snap.Playing() && len(snap.Queue) == 0 {
		return ctx.ReplyEphemeral("❌ | No music is playing and the queue is empty!")
	}

	page := musicfmt.Page{}
	if len(snap.Queue) > 0 {
		var err error
		page, err = musicfmt.Paginate(snap.Queue, int(ctx.GetIntOptionOr("page", 1)))
		if err != nil {
			return ctx.ReplyEphemeral("❌ | " + err.Error())
		}
	}
	return ctx.ReplyEmbed(queueEmbed(snap, page))
}

func (h *handler) clearCommand() *discord.Command {
	return discord.NewCommand("clear", "Remove every queued track", "music", h.clear).RequiresVoice()
}

func (h *handler) clear(ctx *discord.CommandContext) error {
	snap, ok := h.client.Player(ctx.Interaction.GuildID)
	if !ok {
		return ctx.ReplyEphemeral("❌ | No active music session found!")
	}
	if len(snap.Queue) == 0 {
		return ctx.ReplyEphemeral("❌ | Queue is already empty!")
	}

	n, err := h.client.ClearQueue(ctx.Interaction.GuildID)
	if err != nil {
		return fail(ctx, "clear", err)
	}
	e := newEmbed("🗑️ Queue Cleared", fmt.Sprintf("Removed %d track%s from the queue", n, plural(n)))
	if snap.Current != nil {
		addField(e, "Currently Playing", musicfmt.TrackLink(snap.Current), false)
	}
	return ctx.ReplyEmbed(e)
}

func (h *handler) shuffleCommand() *discord.Command {
	return discord.NewCommand("shuffle", "Shuffle the queue", "music", h.shuffle).RequiresVoice()
}

func (h *handler) shuffle(ctx *discord.CommandContext) error {
	snap, ok := h.client.Player(ctx.Interaction.GuildID)
	if !ok {
		return ctx.ReplyEphemeral("❌ | No active music session found!")
	}
	if len(snap.Queue) < 2 {
		return ctx.ReplyEphemeral("❌ | Not enough songs in the queue to shuffle!")
	}

	n, err := h.client.Shuffle(ctx.Interaction.GuildID)
	if err != nil {
		return fail(ctx, "shuffle", err)
	}
	e := newEmbed("🔀 Queue Shuffled", fmt.Sprintf("Shuffled %d tracks in the queue", n))
	if after, ok := h.client.Player(ctx.Interaction.GuildID); ok && len(after.Queue) > 0 {
		addField(e, "Next Up", musicfmt.TrackLink(after.Queue[0]), false)
	}
	if snap.Current != nil {
		addField(e, "Currently Playing", musicfmt.TrackLink(snap.Current), false)
	}
	return ctx.ReplyEmbed(e)
}
