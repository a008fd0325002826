package utils

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/SentryBot/pkg/config"
	"github.com/PancyStudios/SentryBot/pkg/database"
	"github.com/PancyStudios/SentryBot/pkg/discord"
	"github.com/PancyStudios/SentryBot/pkg/lavalink"
	"github.com/PancyStudios/SentryBot/pkg/mqtt"
)

func createStatsCommand() *discord.Command {
	return discord.NewCommand(
		"stats",
		"Show bot statistics",
		"utils",
		statsHandler,
	)
}

func statsHandler(ctx *discord.CommandContext) error {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	players := 0
	if lc := lavalink.Get(); lc != nil {
		players = lc.PlayerCount()
	}

	embed := &discordgo.MessageEmbed{
		Title: "📊 Bot Statistics",
		Color: 0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🤖 Bot Version", Value: config.Version, Inline: true},
			{Name: "🐹 Go Version", Value: strings.TrimPrefix(runtime.Version(), "go"), Inline: true},
			{Name: "📚 DiscordGo Version", Value: discordgo.VERSION, Inline: true},
			{Name: "🖥 Memory", Value: fmt.Sprintf("%.2f MB", float64(m.Alloc)/1024/1024), Inline: true},
			{Name: "⚙️ Runtime", Value: fmt.Sprintf("%d Goroutines / %d CPUs", runtime.NumGoroutine(), runtime.NumCPU()), Inline: true},
			{Name: "⏱ Uptime", Value: formatUptime(ctx.Client.Uptime()), Inline: true},
			{Name: "🏠 Guilds", Value: fmt.Sprint(ctx.Client.GuildCount()), Inline: true},
			{Name: "👥 Members", Value: fmt.Sprint(ctx.Client.MemberCount()), Inline: true},
			{Name: "🎵 Music Players", Value: fmt.Sprint(players), Inline: true},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if bot := ctx.Client.BotUser(); bot != nil {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "💫 - Developed by PancyStudios", IconURL: bot.AvatarURL("")}
	}
	return ctx.ReplyEmbed(embed)
}

func createStatusCommand() *discord.Command {
	return discord.NewCommand(
		"status",
		"Show the state of the bot's connections",
		"utils",
		statusHandler,
	)
}

func statusHandler(ctx *discord.CommandContext) error {
	dbStatus := "⚪ | Disabled"
	if db := database.Get(); db != nil {
		dbStatus, _ = db.GetStatus()
	}

	mqttStatus := "⚪ | Disabled"
	if mc := mqtt.Get(); mc != nil {
		mqttStatus = onlineLabel(mc.IsConnected())
	}

	lavalinkStatus := "⚪ | Disabled"
	if lc := lavalink.Get(); lc != nil {
		lavalinkStatus = onlineLabel(lc.Ready())
	}

	return ctx.Reply(fmt.Sprintf(
		"📊 **Bot Status**\n"+
			"• Bot: %s\n"+
			"• Database: %s\n"+
			"• MQTT: %s\n"+
			"• Lavalink: %s\n"+
			"• Servers: %d",
		onlineLabel(ctx.Client.IsReady()),
		dbStatus,
		mqttStatus,
		lavalinkStatus,
		ctx.Client.GuildCount(),
	))
}

func onlineLabel(up bool) string {
	if up {
		return "🟢 | Online"
	}
	return "🔴 | Offline"
}

// formatUptime renders d as "1 day, 2 hours, 3 minutes, 4 seconds",
// skipping zero units.
func formatUptime(d time.Duration) string {
	units := []struct {
		n    int
		name string
	}{
		{int(d.Hours()) / 24, "day"},
		{int(d.Hours()) % 24, "hour"},
		{int(d.Minutes()) % 60, "minute"},
		{int(d.Seconds()) % 60, "second"},
	}

	var parts []string
	for _, u := range units {
		if u.n == 0 {
			continue
		}
		s := fmt.Sprintf("%d %s", u.n, u.name)
		if u.n != 1 {
			s += "s"
		}
		parts = append(parts, s)
	}
	if len(parts) == 0 {
		return "0 seconds"
	}
	return strings.Join(parts, ", ")
}
