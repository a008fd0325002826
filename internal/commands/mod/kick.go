package mod

import (
	"github.com/PancyStudios/SentryBot/internal/moderation"
	"github.com/PancyStudios/SentryBot/pkg/discord"
)

func (h *handler) kickCommand() *discord.Command {
	return discord.NewCommand(
		"kick",
		"Kick a user from the server",
		"mod",
		h.kick,
	).WithOptions(
		targetOption("The user to kick"),
		reasonOption("Reason for kicking", false),
	).InGuildOnly()
}

func (h *handler) kick(ctx *discord.CommandContext) error {
	return h.run(ctx, moderation.Kick{
		TargetID: targetID(ctx),
		Reason:   ctx.GetStringOption("reason"),
	})
}
