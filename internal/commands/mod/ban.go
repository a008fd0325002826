package mod

import (
	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/SentryBot/internal/moderation"
	"github.com/PancyStudios/SentryBot/pkg/discord"
)

func (h *handler) banCommand() *discord.Command {
	return discord.NewCommand(
		"ban",
		"Ban a user from the server",
		"mod",
		h.ban,
	).WithOptions(
		targetOption("The user to ban"),
		reasonOption("Reason for banning", false),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "delete_messages",
			Description: "Delete message history (in days)",
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "Don't delete any", Value: 0},
				{Name: "Previous 24 hours", Value: 1},
				{Name: "Previous 3 days", Value: 3},
				{Name: "Previous 7 days", Value: 7},
			},
		},
	).InGuildOnly()
}

func (h *handler) ban(ctx *discord.CommandContext) error {
	return h.run(ctx, moderation.Ban{
		TargetID:          targetID(ctx),
		Reason:            ctx.GetStringOption("reason"),
		DeleteMessageDays: int(ctx.GetIntOption("delete_messages")),
	})
}

func (h *handler) unbanCommand() *discord.Command {
	return discord.NewCommand(
		"unban",
		"Unban a user from the server",
		"mod",
		h.unban,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "user_id",
			Description: "The ID of the user to unban",
			Required:    true,
		},
		reasonOption("Reason for unbanning", false),
	).InGuildOnly()
}

func (h *handler) unban(ctx *discord.CommandContext) error {
	return h.run(ctx, moderation.Unban{
		UserID: ctx.GetStringOption("user_id"),
		Reason: ctx.GetStringOption("reason"),
	})
}
