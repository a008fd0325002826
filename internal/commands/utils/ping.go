package utils

import (
	"fmt"
	"time"

	"github.com/PancyStudios/SentryBot/pkg/discord"
)

func createPingCommand() *discord.Command {
	return discord.NewCommand(
		"ping",
		"Check the bot's latency",
		"utils",
		pingHandler,
	).WithCooldown(3 * time.Second)
}

// pingHandler measures the interaction round trip by timing the first reply
// and reports it next to the gateway heartbeat.
func pingHandler(ctx *discord.CommandContext) error {
	start := time.Now()
	if err := ctx.Reply("Pinging..."); err != nil {
		return err
	}
	latency := time.Since(start).Milliseconds()
	api := ctx.Session.HeartbeatLatency().Milliseconds()
	return ctx.EditReply(fmt.Sprintf("Pong! 🏓\nLatency: %dms\nAPI Latency: %dms", latency, api))
}
