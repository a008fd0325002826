package mod

import (
	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/SentryBot/internal/moderation"
	"github.com/PancyStudios/SentryBot/pkg/discord"
)

// registerRoleCommands registers /role add and /role remove. The group is
// separate from /mod so it can default to MANAGE_ROLES.
func (h *handler) registerRoleCommands(client *discord.ExtendedClient) {
	group := client.CommandHandler.BuildCommandGroup(
		"role",
		"Add or remove a role from a user",
		h.roleAddCommand(),
		h.roleRemoveCommand(),
	)

	perms := int64(discordgo.PermissionManageRoles)
	dm := false
	group.DefaultMemberPermissions = &perms
	group.DMPermission = &dm

	client.CommandHandler.AddGlobalCommand(group)
}

func roleOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionRole,
		Name:        "role",
		Description: description,
		Required:    true,
	}
}

func (h *handler) roleAddCommand() *discord.Command {
	return discord.NewCommand(
		"add",
		"Add a role to a user",
		"mod",
		h.roleAdd,
	).WithOptions(
		targetOption("The user to add the role to"),
		roleOption("The role to add"),
	).InGuildOnly()
}

func (h *handler) roleRemoveCommand() *discord.Command {
	return discord.NewCommand(
		"remove",
		"Remove a role from a user",
		"mod",
		h.roleRemove,
	).WithOptions(
		targetOption("The user to remove the role from"),
		roleOption("The role to remove"),
	).InGuildOnly()
}

func (h *handler) roleAdd(ctx *discord.CommandContext) error {
	return h.runRole(ctx, moderation.AddRole{
		TargetID: targetID(ctx),
		RoleID:   ctx.GetRoleOption("role"),
	})
}

func (h *handler) roleRemove(ctx *discord.CommandContext) error {
	return h.runRole(ctx, moderation.RemoveRole{
		TargetID: targetID(ctx),
		RoleID:   ctx.GetRoleOption("role"),
	})
}

// runRole answers with the plain result message; role changes have no embed.
func (h *handler) runRole(ctx *discord.CommandContext, action moderation.Action) error {
	res, err := h.dispatch(ctx, action)
	if err != nil {
		return err
	}
	return ctx.EditReply(res.Message)
}
