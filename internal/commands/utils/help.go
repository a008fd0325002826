package utils

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/SentryBot/pkg/discord"
)

type category struct {
	Key         string
	Name        string
	Emoji       string
	Description string
}

var categories = []category{
	{"mod", "Moderation", "🛡️", "Kick, ban, timeout, warning and role management"},
	{"music", "Music", "🎵", "Music playback and control commands"},
	{"welcome", "Welcome", "👋", "Welcome message configuration"},
	{"fun", "Fun", "🎮", "Fun and entertainment commands"},
	{"utils", "Utility", "🛠️", "Utility and information commands"},
}

const helpNotes = "```\n[] = Optional parameter\n<> = Required parameter\nUse /help <category> for detailed command information\n```"

func createHelpCommand() *discord.Command {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(categories))
	for _, c := range categories {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: c.Emoji + " " + c.Name, Value: c.Key})
	}
	return discord.NewCommand(
		"help",
		"Shows all available commands",
		"utils",
		helpHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "category",
			Description: "Specific command category to show",
			Choices:     choices,
		},
	)
}

func helpHandler(ctx *discord.CommandContext) error {
	usage := commandUsage(ctx.Client.Commands.All())

	var embed *discordgo.MessageEmbed
	if key := ctx.GetStringOption("category"); key != "" {
		c, ok := findCategory(key)
		if !ok {
			return ctx.ReplyEphemeral("❌ | Invalid category selected!")
		}
		embed = categoryEmbed(c, usage[c.Key])
	} else {
		embed = overviewEmbed(usage)
	}

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "❔ Help Notes", Value: helpNotes})
	if bot := ctx.Client.BotUser(); bot != nil {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: bot.AvatarURL("")}
	}
	embed.Footer = &discordgo.MessageEmbedFooter{Text: "Requested by " + ctx.User().String(), IconURL: ctx.User().AvatarURL("")}
	embed.Timestamp = time.Now().Format(time.RFC3339)
	return ctx.ReplyEphemeralEmbed(embed)
}

func findCategory(key string) (category, bool) {
	for _, c := range categories {
		if c.Key == strings.ToLower(key) {
			return c, true
		}
	}
	return category{}, false
}

// commandUsage groups the registered commands by category, turning
// "group.sub" handler keys back into "/group sub" invocations.
func commandUsage(cmds map[string]*discord.Command) map[string][]string {
	out := make(map[string][]string)
	for key, cmd := range cmds {
		line := fmt.Sprintf("`/%s` - %s", strings.ReplaceAll(key, ".", " "), cmd.Description)
		out[cmd.Category] = append(out[cmd.Category], line)
	}
	for _, lines := range out {
		sort.Strings(lines)
	}
	return out
}

func overviewEmbed(usage map[string][]string) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       "📚 Help Menu",
		Description: "Here are all available command categories. Use `/help [category]` to see specific commands.",
		Color:       embedColor,
	}
	for _, c := range categories {
		n := len(usage[c.Key])
		if n == 0 {
			continue
		}
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{
			Name:  c.Emoji + " " + c.Name,
			Value: fmt.Sprintf("%s\nCommands: `%d`\nUse `/help %s` for details", c.Description, n, c.Key),
		})
	}
	return e
}

func categoryEmbed(c category, lines []string) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s %s Commands", c.Emoji, c.Name),
		Description: c.Description,
		Color:       embedColor,
	}
	value := strings.Join(lines, "\n")
	if value == "" {
		value = "No commands available."
	}
	if len(value) > 1024 {
		cut := strings.LastIndex(value[:1020], "\n")
		if cut < 0 {
			cut = 1020
		}
		value = value[:cut] + "\n…"
	}
	e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: "Commands", Value: value})
	return e
}
