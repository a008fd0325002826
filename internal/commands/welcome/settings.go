package welcome

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	greeting "github.com/PancyStudios/SentryBot/internal/welcome"
	"github.com/PancyStudios/SentryBot/pkg/discord"
)

var textChannels = []discordgo.ChannelType{discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews}

func channelOption(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionChannel,
		Name:         name,
		Description:  description,
		Required:     required,
		ChannelTypes: textChannels,
	}
}

func stringOption(name, description string, required bool, maxLength int) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        name,
		Description: description,
		Required:    required,
		MaxLength:   maxLength,
	}
}

func boolOption(name, description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionBoolean,
		Name:        name,
		Description: description,
		Required:    true,
	}
}

func isTextChannel(ch *discordgo.Channel) bool {
	return ch != nil && (ch.Type == discordgo.ChannelTypeGuildText || ch.Type == discordgo.ChannelTypeGuildNews)
}

func (h *handler) enableCommand() *discord.Command {
	return subcommand("enable", "Enable welcome messages", h.enable,
		channelOption("channel", "Channel to send welcome messages to", true))
}

func (h *handler) enable(ctx *discord.CommandContext) error {
	ch := ctx.GetChannelOption("channel")
	if !isTextChannel(ch) {
		return ctx.ReplyEphemeral("Please select a text channel for welcome messages!")
	}
	h.store().Enable(ctx.Interaction.GuildID, ch.ID)
	return ctx.ReplyEphemeral(fmt.Sprintf("Welcome system enabled! Welcome messages will be sent to <#%s>.", ch.ID))
}

func (h *handler) disableCommand() *discord.Command {
	return subcommand("disable", "Disable welcome messages", h.disable)
}

func (h *handler) disable(ctx *discord.CommandContext) error {
	h.store().Disable(ctx.Interaction.GuildID)
	return ctx.ReplyEphemeral("Welcome system disabled.")
}

func (h *handler) messageCommand() *discord.Command {
	return subcommand("message", "Set the welcome message text", h.message,
		stringOption("text", "Welcome message text (you can use {user}, {username}, {tag}, {server}, {memberCount})", true, 2000))
}

func (h *handler) message(ctx *discord.CommandContext) error {
	h.store().SetMessage(ctx.Interaction.GuildID, ctx.GetStringOption("text"))
	return ctx.ReplyEphemeral("Welcome message updated!")
}

func (h *handler) appearanceCommand() *discord.Command {
	return subcommand("appearance", "Customize the welcome embed appearance", h.appearance,
		stringOption("title", "Embed title", false, 256),
		stringOption("color", "Embed color (hex code, e.g. #0099ff)", false, 7),
		stringOption("footer", "Footer text", false, 2048),
		stringOption("image", "URL of an image to include in the embed", false, 0),
	)
}

func (h *handler) appearance(ctx *discord.CommandContext) error {
	a := greeting.Appearance{
		Title:  ctx.GetStringOption("title"),
		Color:  ctx.GetStringOption("color"),
		Footer: ctx.GetStringOption("footer"),
		Image:  ctx.GetStringOption("image"),
	}
	if a.Color != "" && !greeting.ValidColor(a.Color) {
		return ctx.ReplyEphemeral("Please provide a valid hex color code (e.g. #0099ff).")
	}
	h.store().SetAppearance(ctx.Interaction.GuildID, a)
	return ctx.ReplyEphemeral("Welcome message appearance updated!")
}

func (h *handler) rulesCommand() *discord.Command {
	return subcommand("rules", "Configure rules information in welcome messages", h.rules,
		boolOption("show", "Whether to show rules info in welcome messages"),
		channelOption("channel", "Rules channel to reference", false),
	)
}

func (h *handler) rules(ctx *discord.CommandContext) error {
	show := ctx.GetBoolOption("show")
	ch := ctx.GetChannelOption("channel")
	if show && ch == nil {
		return ctx.ReplyEphemeral("Please specify a rules channel!")
	}

	channelID := ""
	if ch != nil {
		channelID = ch.ID
	}
	h.store().SetRules(ctx.Interaction.GuildID, show, channelID)

	if show {
		return ctx.ReplyEphemeral(fmt.Sprintf("Welcome messages will now include a reference to the rules in <#%s>.", channelID))
	}
	return ctx.ReplyEphemeral("Welcome messages will no longer include rules information.")
}

func (h *handler) mentionCommand() *discord.Command {
	return subcommand("mention", "Configure user mention in welcome messages", h.mention,
		boolOption("enabled", "Whether to mention new users in welcome messages"))
}

func (h *handler) mention(ctx *discord.CommandContext) error {
	enabled := ctx.GetBoolOption("enabled")
	h.store().SetMention(ctx.Interaction.GuildID, enabled)
	if enabled {
		return ctx.ReplyEphemeral("New users will now be mentioned in welcome messages.")
	}
	return ctx.ReplyEphemeral("New users will no longer be mentioned in welcome messages.")
}

func (h *handler) previewCommand() *discord.Command {
	return subcommand("preview", "Preview the welcome message", h.preview)
}

func (h *handler) preview(ctx *discord.CommandContext) error {
	st, embed, err := h.greeter.Preview(ctx.Interaction.GuildID, ctx.User())
	if err != nil {
		return ctx.ReplyEphemeral(greetError(err))
	}
	return ctx.Session.InteractionRespond(ctx.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:         previewContent(st, ctx.User().ID),
			Embeds:          []*discordgo.MessageEmbed{embed},
			Flags:           discordgo.MessageFlagsEphemeral,
			AllowedMentions: &discordgo.MessageAllowedMentions{},
		},
	})
}

func previewContent(st greeting.Settings, userID string) string {
	s := fmt.Sprintf("**Preview of welcome message in <#%s>**", st.ChannelID)
	if st.MentionUser {
		s += "\nUser would be mentioned: <@" + userID + ">"
	}
	return s
}

func (h *handler) statusCommand() *discord.Command {
	return subcommand("status", "Check welcome system status", h.status)
}

func (h *handler) status(ctx *discord.CommandContext) error {
	st, ok := h.store().Get(ctx.Interaction.GuildID)
	if !ok {
		return ctx.ReplyEphemeral("Welcome system has not been configured for this server.")
	}
	return ctx.ReplyEphemeralEmbed(greeting.StatusEmbed(st, time.Now()))
}
