package discord

import (
	"fmt"
	"sort"

	"github.com/PancyStudios/SentryBot/pkg/config"
	"github.com/PancyStudios/SentryBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// CommandHandler manages command loading and registration
type CommandHandler struct {
	client        *ExtendedClient
	slashCommands []*discordgo.ApplicationCommand
}

// NewCommandHandler creates a new CommandHandler
func NewCommandHandler(client *ExtendedClient) *CommandHandler {
	return &CommandHandler{
		client:        client,
		slashCommands: make([]*discordgo.ApplicationCommand, 0),
	}
}

// LoadCommands reports what was registered. Commands are added
// programmatically by the command packages before Start.
func (ch *CommandHandler) LoadCommands() error {
	if len(ch.slashCommands) == 0 {
		return fmt.Errorf("no slash commands registered")
	}
	logger.System(fmt.Sprintf("Loaded %d slash commands (%d handlers)", len(ch.slashCommands), ch.client.Commands.Size()), "CommandHandler")
	return nil
}

// RegisterCommand adds a top-level command to the handler
func (ch *CommandHandler) RegisterCommand(cmd *Command) {
	ch.client.Commands.Set(cmd.Name, cmd)
	ch.slashCommands = append(ch.slashCommands, cmd.ToApplicationCommand())
	logger.Debug("Command registered: "+cmd.Name, "CommandHandler")
}

// BuildCommandGroup creates a command group with subcommands. Each subcommand
// is dispatched as "<group>.<sub>".
func (ch *CommandHandler) BuildCommandGroup(name, description string, subcommands ...*Command) *discordgo.ApplicationCommand {
	options := make([]*discordgo.ApplicationCommandOption, 0, len(subcommands))

	for _, cmd := range subcommands {
		ch.client.Commands.Set(name+"."+cmd.Name, cmd)

		options = append(options, &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        cmd.Name,
			Description: cmd.Description,
			Options:     cmd.Options,
		})
	}

	return &discordgo.ApplicationCommand{
		Name:        name,
		Description: description,
		Options:     options,
	}
}

// AddGlobalCommand adds a built command (usually a group) to the command list
func (ch *CommandHandler) AddGlobalCommand(cmd *discordgo.ApplicationCommand) {
	ch.slashCommands = append(ch.slashCommands, cmd)
}

// Definitions returns the application commands that will be synced, sorted by name
func (ch *CommandHandler) Definitions() []*discordgo.ApplicationCommand {
	out := make([]*discordgo.ApplicationCommand, len(ch.slashCommands))
	copy(out, ch.slashCommands)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// RegisterCommands syncs slash commands with Discord. With a dev guild
// configured they are registered there only, which applies instantly.
func (ch *CommandHandler) RegisterCommands() {
	guildID := config.Get().DevGuildID
	scope := "global"
	if guildID != "" {
		scope = "guild " + guildID
	}

	logger.Info("🔄 Registering "+scope+" commands...", "CommandHandler")
	n, err := ch.SyncCommands(guildID)
	if err != nil {
		logger.Error("Error registering commands: "+err.Error(), "CommandHandler")
		return
	}
	logger.Success(fmt.Sprintf("✅ Registered %d %s commands.", n, scope), "CommandHandler")
}

// SyncCommands overwrites the registered commands of guildID ("" for global)
// with the local definitions.
func (ch *CommandHandler) SyncCommands(guildID string) (int, error) {
	created, err := ch.client.Session.ApplicationCommandBulkOverwrite(ch.appID(), guildID, ch.slashCommands)
	if err != nil {
		return 0, err
	}
	return len(created), nil
}

// ListGlobalCommands returns the commands registered globally
func (ch *CommandHandler) ListGlobalCommands() ([]*discordgo.ApplicationCommand, error) {
	return ch.client.Session.ApplicationCommands(ch.appID(), "")
}

// ListGuildCommands returns the commands registered in a guild
func (ch *CommandHandler) ListGuildCommands(guildID string) ([]*discordgo.ApplicationCommand, error) {
	return ch.client.Session.ApplicationCommands(ch.appID(), guildID)
}

// UnregisterCommands removes all global commands from Discord
func (ch *CommandHandler) UnregisterCommands() error {
	return ch.unregister("")
}

// UnregisterGuildCommands removes all commands registered in a guild
func (ch *CommandHandler) UnregisterGuildCommands(guildID string) error {
	return ch.unregister(guildID)
}

func (ch *CommandHandler) unregister(guildID string) error {
	commands, err := ch.client.Session.ApplicationCommands(ch.appID(), guildID)
	if err != nil {
		return err
	}

	for _, cmd := range commands {
		if err := ch.client.Session.ApplicationCommandDelete(ch.appID(), guildID, cmd.ID); err != nil {
			logger.Error("Error deleting command "+cmd.Name+": "+err.Error(), "CommandHandler")
		}
	}
	logger.Success(fmt.Sprintf("Removed %d commands.", len(commands)), "CommandHandler")
	return nil
}

func (ch *CommandHandler) appID() string {
	if id := config.Get().ClientID; id != "" {
		return id
	}
	return ch.client.Session.State.User.ID
}
