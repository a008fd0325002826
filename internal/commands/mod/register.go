// Package mod provides the /mod command group. Every subcommand builds a
// moderation.Action and hands it to the dispatcher; this package only maps
// options in and renders results out.
package mod

import (
	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/SentryBot/internal/moderation"
	"github.com/PancyStudios/SentryBot/pkg/discord"
)

// handler carries the dispatcher into the subcommand handlers.
type handler struct {
	dispatcher *moderation.Dispatcher
}

// RegisterModCommands registers /mod and /role with their subcommands.
func RegisterModCommands(client *discord.ExtendedClient, d *moderation.Dispatcher) {
	h := &handler{dispatcher: d}

	group := client.CommandHandler.BuildCommandGroup(
		"mod",
		"Moderation commands for server management",
		h.kickCommand(),
		h.banCommand(),
		h.unbanCommand(),
		h.timeoutCommand(),
		h.removeTimeoutCommand(),
		h.warnCommand(),
		h.warningsCommand(),
		h.removeWarnCommand(),
		h.clearWarnsCommand(),
	)

	perms := int64(discordgo.PermissionKickMembers | discordgo.PermissionBanMembers)
	dm := false
	group.DefaultMemberPermissions = &perms
	group.DMPermission = &dm

	client.CommandHandler.AddGlobalCommand(group)

	h.registerRoleCommands(client)
}

// dispatch defers the reply, runs the action and returns the result.
func (h *handler) dispatch(ctx *discord.CommandContext, action moderation.Action) (moderation.Result, error) {
	if err := ctx.DeferEphemeral(); err != nil {
		return moderation.Result{}, err
	}
	return h.dispatcher.Dispatch(ctx.Context(), moderation.Request{
		GuildID:     ctx.Interaction.GuildID,
		ModeratorID: ctx.User().ID,
		Action:      action,
	}), nil
}

// run dispatches action and answers with the standard result embed.
func (h *handler) run(ctx *discord.CommandContext, action moderation.Action) error {
	res, err := h.dispatch(ctx, action)
	if err != nil {
		return err
	}
	if !res.OK() {
		return ctx.EditReply(res.Message)
	}
	return ctx.EditReplyEmbed(resultEmbed(res))
}

func targetOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "target",
		Description: description,
		Required:    true,
	}
}

func reasonOption(description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "reason",
		Description: description,
		Required:    required,
		MaxLength:   512,
	}
}

// targetID returns the ID of the "target" option, empty when unresolved.
func targetID(ctx *discord.CommandContext) string {
	if u := ctx.GetUserOption("target"); u != nil {
		return u.ID
	}
	return ""
}
