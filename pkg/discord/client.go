// Package discord provides the Discord bot client and related structures.
// It wraps discordgo with additional functionality for command and event handling.
package discord

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/SentryBot/pkg/config"
	"github.com/PancyStudios/SentryBot/pkg/errors"
	"github.com/PancyStudios/SentryBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// interactionTTL is how long an interaction token stays valid.
const interactionTTL = 15 * time.Minute

// Route discordgo's internal logging through our logger.
func init() {
	discordgo.Logger = func(msgL int, caller int, format string, a ...interface{}) {
		msg := fmt.Sprintf(format, a...)
		switch msgL {
		case discordgo.LogError:
			logger.Error(msg, "DiscordGo")
		case discordgo.LogWarning:
			logger.Warn(msg, "DiscordGo")
		case discordgo.LogInformational:
			logger.Info(msg, "DiscordGo")
		default:
			logger.Debug(msg, "DiscordGo")
		}
	}
}

// ExtendedClient wraps discordgo.Session with additional functionality
type ExtendedClient struct {
	Session        *discordgo.Session
	Commands       *CommandCollection
	CommandHandler *CommandHandler
	EventHandler   *EventHandler
	Cooldowns      *Cooldowns
	StartTime      time.Time
	mu             sync.RWMutex
	isReady        bool
}

// CommandCollection holds registered commands
type CommandCollection struct {
	commands map[string]*Command
	mu       sync.RWMutex
}

// NewCommandCollection creates a new CommandCollection
func NewCommandCollection() *CommandCollection {
	return &CommandCollection{
		commands: make(map[string]*Command),
	}
}

// Set adds or updates a command
func (cc *CommandCollection) Set(name string, cmd *Command) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.commands[name] = cmd
}

// Get retrieves a command by name
func (cc *CommandCollection) Get(name string) (*Command, bool) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	cmd, ok := cc.commands[name]
	return cmd, ok
}

// Size returns the number of commands
func (cc *CommandCollection) Size() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.commands)
}

// All returns all commands
func (cc *CommandCollection) All() map[string]*Command {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	result := make(map[string]*Command, len(cc.commands))
	for k, v := range cc.commands {
		result[k] = v
	}
	return result
}

var (
	client *ExtendedClient
	once   sync.Once
)

// Init initializes the global Discord client
func Init(token string) (*ExtendedClient, error) {
	var err error
	once.Do(func() {
		client, err = NewClient(token)
	})
	return client, err
}

// Get returns the global Discord client
func Get() *ExtendedClient {
	return client
}

// NewClient creates a new ExtendedClient
func NewClient(token string) (*ExtendedClient, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildVoiceStates

	session.SyncEvents = false
	session.StateEnabled = true
	session.LogLevel = discordgo.LogWarning

	c := &ExtendedClient{
		Session:   session,
		Commands:  NewCommandCollection(),
		Cooldowns: NewCooldowns(),
	}

	c.CommandHandler = NewCommandHandler(c)
	c.EventHandler = NewEventHandler(c)

	return c, nil
}

// Start opens the gateway connection. Commands and events must be registered
// before calling it.
func (c *ExtendedClient) Start() error {
	if err := c.CommandHandler.LoadCommands(); err != nil {
		logger.Error("Failed to load commands: "+err.Error(), "Client")
		return err
	}

	if err := c.EventHandler.LoadEvents(); err != nil {
		logger.Error("Failed to load events: "+err.Error(), "Client")
		return err
	}

	c.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		c.mu.Lock()
		c.isReady = true
		c.mu.Unlock()

		logger.Success("Connected as "+r.User.String(), "Client")
		c.CommandHandler.RegisterCommands()
	})

	c.Session.AddHandler(c.handleInteraction)

	c.StartTime = time.Now()
	return c.Session.Open()
}

// resolveCommandName builds the registry key for an interaction, e.g. "mod.ban"
// or "group.sub.cmd".
func resolveCommandName(data discordgo.ApplicationCommandInteractionData) string {
	name := data.Name
	if len(data.Options) == 0 {
		return name
	}

	opt := data.Options[0]
	switch opt.Type {
	case discordgo.ApplicationCommandOptionSubCommandGroup:
		if len(opt.Options) > 0 {
			return name + "." + opt.Name + "." + opt.Options[0].Name
		}
	case discordgo.ApplicationCommandOptionSubCommand:
		return name + "." + opt.Name
	}
	return name
}

func (c *ExtendedClient) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand && i.Type != discordgo.InteractionApplicationCommandAutocomplete {
		return
	}

	commandName := resolveCommandName(i.ApplicationCommandData())
	cmd, ok := c.Commands.Get(commandName)
	if !ok {
		if i.Type == discordgo.InteractionApplicationCommand {
			logger.Warn("Command not found: "+commandName, "Client")
		}
		return
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), interactionTTL)
	defer cancel()

	ctx := &CommandContext{
		Session:     s,
		Interaction: i,
		Client:      c,
		ctx:         reqCtx,
	}

	defer errors.RecoverMiddleware()()

	if i.Type == discordgo.InteractionApplicationCommandAutocomplete {
		if cmd.AutoComplete != nil {
			cmd.AutoComplete(ctx)
		}
		return
	}

	if msg := c.precheck(ctx, cmd, commandName); msg != "" {
		ctx.ReplyEphemeral(msg)
		return
	}

	if err := cmd.Run(ctx); err != nil {
		logger.Error("Error executing command "+commandName+": "+err.Error(), "Client")
		if errors.Get() != nil {
			errors.Get().IncrementError()
		}
		ctx.ReplyError("An error occurred while executing this command.")
	}
}

// precheck returns a user-facing message when the command may not run.
func (c *ExtendedClient) precheck(ctx *CommandContext, cmd *Command, name string) string {
	if cmd.GuildOnly && ctx.Interaction.GuildID == "" {
		return "This command can only be used in a server!"
	}

	if cmd.UserPermissions != 0 {
		member := ctx.Member()
		if member == nil || !hasPermission(member.Permissions, cmd.UserPermissions) {
			return "You don't have permission to use this command."
		}
	}

	if cmd.InVoiceChannel && ctx.VoiceChannelID() == "" {
		return "❌ | You need to be in a voice channel to use this command!"
	}

	if cmd.Cooldown > 0 {
		if remaining, limited := c.Cooldowns.Hit(name, ctx.User().ID, cmd.Cooldown); limited {
			return fmt.Sprintf("⏳ Please wait %.1fs before using this command again.", remaining.Seconds())
		}
	}
	return ""
}

func hasPermission(held, required int64) bool {
	if held&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return held&required == required
}

// Stop stops the bot and closes the session
func (c *ExtendedClient) Stop() error {
	c.mu.Lock()
	c.isReady = false
	c.mu.Unlock()

	if c.Session != nil {
		return c.Session.Close()
	}
	return nil
}

// IsReady returns true if the bot is ready
func (c *ExtendedClient) IsReady() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isReady
}

// GuildCount returns the number of guilds the bot is in
func (c *ExtendedClient) GuildCount() int {
	if c.Session == nil || c.Session.State == nil {
		return 0
	}
	c.Session.State.RLock()
	defer c.Session.State.RUnlock()
	return len(c.Session.State.Guilds)
}

// MemberCount sums the member counts of every cached guild.
func (c *ExtendedClient) MemberCount() int {
	if c.Session == nil || c.Session.State == nil {
		return 0
	}
	c.Session.State.RLock()
	defer c.Session.State.RUnlock()
	total := 0
	for _, g := range c.Session.State.Guilds {
		total += g.MemberCount
	}
	return total
}

// BotUser returns the logged in user, nil before the gateway is ready.
func (c *ExtendedClient) BotUser() *discordgo.User {
	if c.Session == nil || c.Session.State == nil {
		return nil
	}
	return c.Session.State.User
}

// Uptime returns how long the client has been running.
func (c *ExtendedClient) Uptime() time.Duration {
	if c.StartTime.IsZero() {
		return 0
	}
	return time.Since(c.StartTime)
}

// GetConfig returns the bot configuration
func (c *ExtendedClient) GetConfig() *config.Config {
	return config.Get()
}
