// Package events wires the gateway event handlers: ready, guild, member,
// voice and shard events.
package events

import (
	"github.com/PancyStudios/SentryBot/internal/welcome"
	"github.com/PancyStudios/SentryBot/pkg/discord"
	"github.com/PancyStudios/SentryBot/pkg/lavalink"
	"github.com/PancyStudios/SentryBot/pkg/logger"
)

// Deps are the services event handlers act on. Lavalink is nil when music
// is disabled.
type Deps struct {
	Greeter  *welcome.Greeter
	Lavalink *lavalink.Client
}

// RegisterAll registers every event handler with the client.
func RegisterAll(client *discord.ExtendedClient, deps Deps) {
	logger.System("📋 Registering event handlers...", "Events")

	RegisterReadyEvent(client, deps.Lavalink)
	RegisterGuildEvents(client)
	RegisterMemberEvents(client, deps.Greeter)
	RegisterVoiceEvents(client, deps.Lavalink)
	RegisterShardEvents(client)

	logger.Success("✅ Event handlers registered", "Events")
}
