package mod

import (
	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/SentryBot/internal/moderation"
	"github.com/PancyStudios/SentryBot/pkg/discord"
)

func (h *handler) timeoutCommand() *discord.Command {
	return discord.NewCommand(
		"timeout",
		"Timeout a user for a specified duration",
		"mod",
		h.timeout,
	).WithOptions(
		targetOption("The user to timeout"),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "duration",
			Description: "Timeout duration (1m, 1h, 1d, etc.)",
			Required:    true,
		},
		reasonOption("Reason for timeout", false),
	).InGuildOnly()
}

func (h *handler) timeout(ctx *discord.CommandContext) error {
	return h.run(ctx, moderation.Timeout{
		TargetID: targetID(ctx),
		Duration: ctx.GetStringOption("duration"),
		Reason:   ctx.GetStringOption("reason"),
	})
}

func (h *handler) removeTimeoutCommand() *discord.Command {
	return discord.NewCommand(
		"remove_timeout",
		"Remove timeout from a user",
		"mod",
		h.removeTimeout,
	).WithOptions(
		targetOption("The user to remove timeout from"),
		reasonOption("Reason for removing timeout", false),
	).InGuildOnly()
}

func (h *handler) removeTimeout(ctx *discord.CommandContext) error {
	return h.run(ctx, moderation.RemoveTimeout{
		TargetID: targetID(ctx),
		Reason:   ctx.GetStringOption("reason"),
	})
}
