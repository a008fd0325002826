// Package main syncs SentryBot's slash commands with Discord.
//
// Usage:
//
//	go run ./cmd/sync-commands [options]
//
// Options:
//
//	-list        List the commands Discord currently has registered
//	-local       Print the commands this build defines, without connecting
//	-clean       Remove all commands without registering new ones
//	-sync        Overwrite the registered commands with the local ones (default)
//	-guild <id>  Target a guild instead of the global scope
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bwmarrin/discordgo"
	"github.com/goccy/go-json"

	"github.com/PancyStudios/SentryBot/internal/commands"
	"github.com/PancyStudios/SentryBot/pkg/config"
	"github.com/PancyStudios/SentryBot/pkg/discord"
	"github.com/PancyStudios/SentryBot/pkg/lavalink"
	"github.com/PancyStudios/SentryBot/pkg/logger"
)

const prefix = "SyncCommands"

func main() {
	listCmd := flag.Bool("list", false, "List the registered commands")
	localCmd := flag.Bool("local", false, "Print the local command definitions as JSON")
	cleanCmd := flag.Bool("clean", false, "Remove all commands without registering new ones")
	syncCmd := flag.Bool("sync", false, "Overwrite the registered commands with the local ones")
	guildID := flag.String("guild", "", "Target a guild (empty for global)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(cfg.LogDir, cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	client, err := discord.NewClient(cfg.BotToken)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), prefix)
		os.Exit(1)
	}

	// Handlers never run here; the dependencies only decide which commands exist.
	deps := commands.Deps{}
	if cfg.LavalinkEnabled() {
		deps.Lavalink = lavalink.NewClient(nil, lavalink.Options{})
	}
	commands.RegisterAll(client, deps)

	if *localCmd {
		printLocal(client)
		return
	}

	if err := client.Session.Open(); err != nil {
		logger.Critical(fmt.Sprintf("Error connecting to Discord: %v", err), prefix)
		os.Exit(1)
	}
	defer client.Session.Close()
	logger.Success("Connected to Discord", prefix)

	switch {
	case *listCmd:
		err = listCommands(client, *guildID)
	case *cleanCmd:
		err = cleanCommands(client, *guildID)
	case *syncCmd:
		err = syncCommands(client, *guildID)
	default:
		err = syncCommands(client, *guildID)
	}
	if err != nil {
		logger.Error(err.Error(), prefix)
		os.Exit(1)
	}
	logger.Success("Done", prefix)
}

func scope(guildID string) string {
	if guildID == "" {
		return "global"
	}
	return "guild " + guildID
}

func printLocal(client *discord.ExtendedClient) {
	out, err := json.MarshalIndent(client.CommandHandler.Definitions(), "", "  ")
	if err != nil {
		logger.Error("Error encoding commands: "+err.Error(), prefix)
		return
	}
	fmt.Println(string(out))
}

func listCommands(client *discord.ExtendedClient, guildID string) error {
	logger.Info("📋 Listing "+scope(guildID)+" commands...", prefix)

	var cmds []*discordgo.ApplicationCommand
	var err error
	if guildID != "" {
		cmds, err = client.CommandHandler.ListGuildCommands(guildID)
	} else {
		cmds, err = client.CommandHandler.ListGlobalCommands()
	}
	if err != nil {
		return fmt.Errorf("list commands: %w", err)
	}

	if len(cmds) == 0 {
		logger.Info("No commands registered", prefix)
		return nil
	}
	for i, cmd := range cmds {
		logger.Info(fmt.Sprintf("  %d. /%s - %s (ID: %s)", i+1, cmd.Name, cmd.Description, cmd.ID), prefix)
	}
	return nil
}

func cleanCommands(client *discord.ExtendedClient, guildID string) error {
	logger.Info("🧹 Removing "+scope(guildID)+" commands...", prefix)

	var err error
	if guildID != "" {
		err = client.CommandHandler.UnregisterGuildCommands(guildID)
	} else {
		err = client.CommandHandler.UnregisterCommands()
	}
	if err != nil {
		return fmt.Errorf("remove commands: %w", err)
	}
	return nil
}

func syncCommands(client *discord.ExtendedClient, guildID string) error {
	logger.Info("🔄 Syncing "+scope(guildID)+" commands...", prefix)

	n, err := client.CommandHandler.SyncCommands(guildID)
	if err != nil {
		return fmt.Errorf("sync commands: %w", err)
	}
	logger.Success(fmt.Sprintf("✅ %d commands synced", n), prefix)
	return nil
}
