// Package main is the entry point of SentryBot. It wires the optional
// backends (MongoDB, MQTT, Lavalink), the moderation pipeline and the
// Discord client, then blocks until interrupted.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PancyStudios/SentryBot/internal/commands"
	"github.com/PancyStudios/SentryBot/internal/commands/music"
	"github.com/PancyStudios/SentryBot/internal/events"
	"github.com/PancyStudios/SentryBot/internal/moderation"
	"github.com/PancyStudios/SentryBot/internal/welcome"
	"github.com/PancyStudios/SentryBot/pkg/config"
	"github.com/PancyStudios/SentryBot/pkg/database"
	"github.com/PancyStudios/SentryBot/pkg/discord"
	"github.com/PancyStudios/SentryBot/pkg/errors"
	"github.com/PancyStudios/SentryBot/pkg/lavalink"
	"github.com/PancyStudios/SentryBot/pkg/logger"
	"github.com/PancyStudios/SentryBot/pkg/mqtt"
	"github.com/PancyStudios/SentryBot/pkg/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(cfg.LogDir, cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	logger.System(fmt.Sprintf("Starting SentryBot %s (%s)...", config.Version, cfg.Environment), "Main")

	var discordClient *discord.ExtendedClient
	var lavalinkClient *lavalink.Client
	errors.Init(cfg.ErrorWebhook, func() {
		if lavalinkClient != nil {
			lavalinkClient.Disconnect()
		}
		if discordClient != nil {
			_ = discordClient.Stop()
		}
	})

	api := web.API{}

	// Optional backends. Each one only adds a moderation sink or a reader.
	var sinks []moderation.Sink
	var db *database.Database
	if cfg.MongoEnabled() {
		db, err = database.Init(cfg.MongoDBURL, cfg.DBName)
		if err != nil {
			// Keeps reconnecting in the background; writes are queued meanwhile.
			logger.Error(fmt.Sprintf("Error connecting to database: %v", err), "Main")
		}
		repo := database.NewModLogRepository(db)
		sinks = append(sinks, moderation.NewAuditSink(repo))
		api.Database = db
		api.ModLogs = repo
	} else {
		logger.Warn("MONGODB_URL is not set, moderation cases will not be persisted", "Main")
	}

	var publisher mqtt.Publisher
	var broker *mqtt.MqttCommunicator
	if cfg.MQTTEnabled() {
		clientID := "sentrybot"
		if !cfg.IsProd() {
			clientID = "sentrybot_canary"
		}
		broker = mqtt.Init(cfg.MQTTHost, cfg.MQTTPort, cfg.MQTTUser, cfg.MQTTPassword, clientID)
		publisher = broker
		sinks = append(sinks, moderation.NewMQTTSink(broker))
	}

	discordClient, err = discord.Init(cfg.BotToken)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "Main")
		os.Exit(1)
	}
	api.Bot = discordClient

	sinks = append([]moderation.Sink{moderation.NewChannelSink(discordClient.Session, cfg.ModLogChannel)}, sinks...)
	warnings := moderation.NewWarningStore()
	dispatcher := moderation.NewDispatcher(
		moderation.NewDiscordPlatform(discordClient.Session),
		warnings,
		moderation.NewModLogger(sinks...),
	)
	api.Warnings = warnings

	greeter := welcome.NewGreeter(welcome.NewStore(), discordClient.Session)

	if cfg.LavalinkEnabled() {
		lavalinkClient = lavalink.Init(discordClient.Session, lavalink.Options{
			Node: lavalink.NodeConfig{
				Name:     "main",
				Host:     cfg.LavalinkHost,
				Port:     cfg.LavalinkPort,
				Password: cfg.LavalinkPassword,
				Secure:   cfg.LavalinkSecure,
			},
			SearchPrefix: cfg.SearchPrefix,
			IdleTimeout:  time.Duration(cfg.PlayerIdleMinutes) * time.Minute,
			Publisher:    publisher,
			OnTrackStart: music.Announcer(discordClient.Session),
		})
		api.Players = lavalinkClient
	}

	webServer := web.Init(web.Options{
		WebhookURL: cfg.LogsWebhook,
		APIToken:   cfg.APIToken,
		RateLimit:  cfg.APIRateLimit,
	})
	web.SetupAPIRoutes(webServer, api)
	webServer.StartAsync(cfg.Port)

	commands.RegisterAll(discordClient, commands.Deps{
		Dispatcher: dispatcher,
		Greeter:    greeter,
		Lavalink:   lavalinkClient,
	})
	events.RegisterAll(discordClient, events.Deps{
		Greeter:  greeter,
		Lavalink: lavalinkClient,
	})

	if err := discordClient.Start(); err != nil {
		logger.Critical(fmt.Sprintf("Error starting Discord client: %v", err), "Main")
		os.Exit(1)
	}

	var heartbeat *Heartbeat
	if publisher != nil {
		var players playerStats
		if lavalinkClient != nil {
			players = lavalinkClient
		}
		heartbeat, err = StartHeartbeat(publisher, discordClient, players, time.Minute)
		if err != nil {
			logger.Error("Could not schedule stats heartbeat: "+err.Error(), "Main")
		}
	}

	logger.Success("SentryBot started!", "Main")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)
	<-sc

	logger.System("Shutting down SentryBot...", "Main")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if heartbeat != nil {
		heartbeat.Stop()
	}
	if lavalinkClient != nil {
		lavalinkClient.Disconnect()
	}
	if err := discordClient.Stop(); err != nil {
		logger.Error("Error closing Discord session: "+err.Error(), "Main")
	}
	if err := webServer.Shutdown(ctx); err != nil {
		logger.Error("Error stopping web server: "+err.Error(), "Main")
	}
	if broker != nil {
		broker.Destroy()
	}
	if db != nil {
		if err := db.Disconnect(); err != nil {
			logger.Error("Error closing database: "+err.Error(), "Main")
		}
	}
}
