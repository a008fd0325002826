package fun

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/SentryBot/pkg/discord"
	apperrors "github.com/PancyStudios/SentryBot/pkg/errors"
	"github.com/PancyStudios/SentryBot/pkg/logger"
)

const (
	minPollOptions  = 2
	maxPollOptions  = 10
	defaultPollMins = 5
)

var (
	minPollMinutes = 1.0

	errPollOptions = errors.New("poll needs between 2 and 10 options")

	pollEmojis = []string{"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣", "🔟"}
)

// ParsePollOptions splits a comma separated list, dropping blank entries.
func ParsePollOptions(raw string) ([]string, error) {
	var out []string
	for _, opt := range strings.Split(raw, ",") {
		if opt = strings.TrimSpace(opt); opt != "" {
			out = append(out, opt)
		}
	}
	if len(out) < minPollOptions || len(out) > maxPollOptions {
		return nil, errPollOptions
	}
	return out, nil
}

// TallyPoll counts the votes per option, leaving out the bot's own reaction.
func TallyPoll(options []string, reactions []*discordgo.MessageReactions) []int {
	counts := make([]int, len(options))
	for _, r := range reactions {
		if r == nil || r.Emoji == nil {
			continue
		}
		for i := range options {
			if r.Emoji.Name != pollEmojis[i] {
				continue
			}
			n := r.Count
			if r.Me {
				n--
			}
			counts[i] = max(n, 0)
		}
	}
	return counts
}

func pollLines(options []string, counts []int) string {
	lines := make([]string, len(options))
	for i, opt := range options {
		if counts == nil {
			lines[i] = pollEmojis[i] + " " + opt
			continue
		}
		lines[i] = fmt.Sprintf("%s %s: %d votes", pollEmojis[i], opt, counts[i])
	}
	return strings.Join(lines, "\n\n")
}

func pollEmbed(question string, options []string, minutes int, tag string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "📊 " + question,
		Description: pollLines(options, nil),
		Color:       0x0099ff,
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Poll ends in %d minutes • Started by %s", minutes, tag)},
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}

func pollResultsEmbed(question string, options []string, counts []int, tag string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "📊 Poll Results: " + question,
		Description: pollLines(options, counts),
		Color:       0x00ff00,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Poll ended • Started by " + tag},
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}

func createPollCommand() *discord.Command {
	return discord.NewCommand(
		"poll",
		"Create a poll",
		"fun",
		pollHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "question",
			Description: "The poll question",
			Required:    true,
			MaxLength:   200,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "options",
			Description: "Poll options (separate with commas)",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "duration",
			Description: "Poll duration in minutes (default: 5)",
			MinValue:    &minPollMinutes,
			MaxValue:    60,
		},
	).WithCooldown(cooldown)
}

func pollHandler(ctx *discord.CommandContext) error {
	question := ctx.GetStringOption("question")
	options, err := ParsePollOptions(ctx.GetStringOption("options"))
	if err != nil {
		return ctx.ReplyEphemeral("Please provide between 2 and 10 options, separated by commas.")
	}
	minutes := int(ctx.GetIntOptionOr("duration", defaultPollMins))
	if minutes < 1 || minutes > 60 {
		return ctx.ReplyEphemeral("❌ | A poll can run between 1 and 60 minutes.")
	}

	tag := ctx.User().String()
	if err := ctx.ReplyEmbed(pollEmbed(question, options, minutes, tag)); err != nil {
		return err
	}
	msg, err := ctx.Session.InteractionResponse(ctx.Interaction.Interaction)
	if err != nil {
		return fmt.Errorf("fetch poll message: %w", err)
	}

	for i := range options {
		if err := ctx.Session.MessageReactionAdd(msg.ChannelID, msg.ID, pollEmojis[i]); err != nil {
			logger.Warn(fmt.Sprintf("Could not add poll reaction %s: %v", pollEmojis[i], err), "Poll")
		}
	}

	p := &poll{
		session:   ctx.Session,
		channelID: msg.ChannelID,
		messageID: msg.ID,
		question:  question,
		options:   options,
		author:    tag,
	}
	time.AfterFunc(time.Duration(minutes)*time.Minute, p.close)
	return nil
}

// poll is a running poll. The results are edited onto the channel message
// since the interaction token expires before long polls end.
type poll struct {
	session   *discordgo.Session
	channelID string
	messageID string
	question  string
	options   []string
	author    string
}

func (p *poll) close() {
	defer apperrors.Recover("Poll")

	msg, err := p.session.ChannelMessage(p.channelID, p.messageID)
	if err != nil {
		logger.Warn(fmt.Sprintf("Could not fetch poll %s: %v", p.messageID, err), "Poll")
		return
	}
	counts := TallyPoll(p.options, msg.Reactions)
	if _, err := p.session.ChannelMessageEditEmbed(p.channelID, p.messageID, pollResultsEmbed(p.question, p.options, counts, p.author)); err != nil {
		logger.Warn(fmt.Sprintf("Could not post results of poll %s: %v", p.messageID, err), "Poll")
	}
}
