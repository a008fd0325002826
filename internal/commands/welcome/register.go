// Package welcome provides the /welcome configuration group and /testwelcome.
package welcome

import (
	"errors"

	"github.com/bwmarrin/discordgo"

	greeting "github.com/PancyStudios/SentryBot/internal/welcome"
	"github.com/PancyStudios/SentryBot/pkg/discord"
)

const manageGuild = int64(discordgo.PermissionManageGuild)

type handler struct {
	greeter *greeting.Greeter
}

func (h *handler) store() *greeting.Store {
	return h.greeter.Store()
}

// RegisterWelcomeCommands registers /welcome and /testwelcome.
func RegisterWelcomeCommands(client *discord.ExtendedClient, g *greeting.Greeter) {
	h := &handler{greeter: g}

	group := client.CommandHandler.BuildCommandGroup(
		"welcome",
		"Manage the server welcome system",
		h.enableCommand(),
		h.disableCommand(),
		h.messageCommand(),
		h.appearanceCommand(),
		h.rulesCommand(),
		h.mentionCommand(),
		h.previewCommand(),
		h.statusCommand(),
	)
	perms := manageGuild
	dm := false
	group.DefaultMemberPermissions = &perms
	group.DMPermission = &dm
	client.CommandHandler.AddGlobalCommand(group)

	client.CommandHandler.RegisterCommand(h.testWelcomeCommand())
}

// subcommand builds a guild-only /welcome subcommand gated on ManageGuild.
func subcommand(name, description string, run discord.CommandRunFunc, opts ...*discordgo.ApplicationCommandOption) *discord.Command {
	cmd := discord.NewCommand(name, description, "welcome", run).
		WithUserPermissions(manageGuild).
		InGuildOnly()
	if len(opts) > 0 {
		cmd.WithOptions(opts...)
	}
	return cmd
}

// greetError maps greeter errors to the reply shown to the moderator.
func greetError(err error) string {
	switch {
	case errors.Is(err, greeting.ErrDisabled):
		return "Welcome system is not enabled! Use `/welcome enable` first."
	case errors.Is(err, greeting.ErrChannelNotFound):
		return "Welcome channel not found! Please reconfigure with `/welcome enable`."
	default:
		return "An error occurred while testing the welcome message: " + err.Error()
	}
}
