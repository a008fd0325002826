package mod

import (
	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/SentryBot/internal/moderation"
	"github.com/PancyStudios/SentryBot/pkg/discord"
)

func (h *handler) warningsCommand() *discord.Command {
	return discord.NewCommand(
		"warnings",
		"View warnings for a user",
		"mod",
		h.warnings,
	).WithOptions(
		targetOption("The user to check warnings for"),
	).InGuildOnly()
}

func (h *handler) warnings(ctx *discord.CommandContext) error {
	res, err := h.dispatch(ctx, moderation.ListWarnings{TargetID: targetID(ctx)})
	if err != nil {
		return err
	}
	if !res.OK() {
		return ctx.EditReply(res.Message)
	}

	if u := ctx.GetUserOption("target"); u != nil {
		if res.Target.Tag == "" {
			res.Target.Tag = u.String()
		}
		if res.Target.AvatarURL == "" {
			res.Target.AvatarURL = u.AvatarURL("256")
		}
	}
	return ctx.EditReplyEmbed(warningsEmbed(res, func(id string) string {
		return moderatorLabel(ctx.Session, id)
	}))
}

// moderatorLabel renders "tag (id)", or "Unknown User (id)" when the user
// cannot be fetched.
func moderatorLabel(s *discordgo.Session, id string) string {
	u, err := s.User(id)
	if err != nil {
		return "Unknown User (" + id + ")"
	}
	return u.String() + " (" + id + ")"
}

func (h *handler) removeWarnCommand() *discord.Command {
	return discord.NewCommand(
		"removewarn",
		"Remove a single warning by its ID",
		"mod",
		h.removeWarn,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "warning_id",
			Description: "The ID shown in the warning history",
			Required:    true,
		},
	).InGuildOnly()
}

func (h *handler) removeWarn(ctx *discord.CommandContext) error {
	return h.run(ctx, moderation.RemoveWarning{WarningID: ctx.GetStringOption("warning_id")})
}

func (h *handler) clearWarnsCommand() *discord.Command {
	return discord.NewCommand(
		"clearwarns",
		"Remove every warning of a user",
		"mod",
		h.clearWarns,
	).WithOptions(
		targetOption("The user whose warnings to clear"),
	).InGuildOnly()
}

func (h *handler) clearWarns(ctx *discord.CommandContext) error {
	return h.run(ctx, moderation.ClearWarnings{TargetID: targetID(ctx)})
}
