package mod

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/SentryBot/internal/moderation"
	"github.com/PancyStudios/SentryBot/pkg/discord"
)

func (h *handler) warnCommand() *discord.Command {
	return discord.NewCommand(
		"warn",
		"Issue a warning to a user",
		"mod",
		h.warn,
	).WithOptions(
		targetOption("The user to warn"),
		reasonOption("Reason for warning", true),
	).InGuildOnly()
}

func (h *handler) warn(ctx *discord.CommandContext) error {
	res, err := h.dispatch(ctx, moderation.Warn{
		TargetID: targetID(ctx),
		Reason:   ctx.GetStringOption("reason"),
	})
	if err != nil {
		return err
	}
	if !res.OK() {
		return ctx.EditReply(res.Message)
	}

	guildName := "this server"
	if g := ctx.Guild(); g != nil {
		guildName = g.Name
	}
	dm := moderation.Attempt("warning DM to "+res.Target.ID, func() error {
		return sendDM(ctx.Session, res.Target.ID, warningNotice(res, guildName))
	})

	embed := resultEmbed(res)
	embed.Footer = &discordgo.MessageEmbedFooter{Text: dmFooter(dm)}
	return ctx.EditReplyEmbed(embed)
}

func sendDM(s *discordgo.Session, userID string, embed *discordgo.MessageEmbed) error {
	ch, err := s.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("open DM channel: %w", err)
	}
	_, err = s.ChannelMessageSendEmbed(ch.ID, embed)
	return err
}
