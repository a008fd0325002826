// Package commands registers every slash command category with the client.
// Each category lives in its own subpackage.
package commands

import (
	"github.com/PancyStudios/SentryBot/internal/commands/fun"
	"github.com/PancyStudios/SentryBot/internal/commands/mod"
	"github.com/PancyStudios/SentryBot/internal/commands/music"
	"github.com/PancyStudios/SentryBot/internal/commands/utils"
	welcomecmd "github.com/PancyStudios/SentryBot/internal/commands/welcome"
	"github.com/PancyStudios/SentryBot/internal/moderation"
	"github.com/PancyStudios/SentryBot/internal/welcome"
	"github.com/PancyStudios/SentryBot/pkg/discord"
	"github.com/PancyStudios/SentryBot/pkg/lavalink"
	"github.com/PancyStudios/SentryBot/pkg/logger"
)

// Deps are the services command handlers are built on. Lavalink is nil when
// music is disabled, in which case /music is not registered.
type Deps struct {
	Dispatcher *moderation.Dispatcher
	Greeter    *welcome.Greeter
	Lavalink   *lavalink.Client
}

// RegisterAll registers all commands with the Discord client.
func RegisterAll(client *discord.ExtendedClient, deps Deps) {
	// /mod kick, ban, unban, timeout, remove_timeout, warn, warnings, removewarn, clearwarns
	// /role add, remove
	mod.RegisterModCommands(client, deps.Dispatcher)

	// /welcome ... and /testwelcome
	welcomecmd.RegisterWelcomeCommands(client, deps.Greeter)

	if deps.Lavalink != nil {
		music.RegisterMusicCommands(client, deps.Lavalink)
	} else {
		logger.Warn("Lavalink is not configured, /music is disabled", "Commands")
	}

	fun.RegisterFunCommands(client)
	utils.RegisterUtilsCommands(client)
}
