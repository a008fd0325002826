// Package utils provides the informational commands: /ping, /help, /stats,
// /status, /server, /servericon, /user and /avatar.
package utils

import (
	"github.com/PancyStudios/SentryBot/pkg/discord"
)

const embedColor = 0x0099ff

// RegisterUtilsCommands registers every utility command as a top-level command.
func RegisterUtilsCommands(client *discord.ExtendedClient) {
	for _, cmd := range []*discord.Command{
		createPingCommand(),
		createHelpCommand(),
		createStatsCommand(),
		createStatusCommand(),
		createServerCommand(),
		createServerIconCommand(),
		createUserCommand(),
		createAvatarCommand(),
	} {
		client.CommandHandler.RegisterCommand(cmd)
	}
}
