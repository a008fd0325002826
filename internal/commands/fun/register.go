// Package fun provides the small games (/8ball, /coinflip, /dice, /rps) and
// reaction polls with /poll.
package fun

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/SentryBot/pkg/discord"
)

const cooldown = 3 * time.Second

var (
	minTimes = 1.0
	minSides = 2.0
	minCount = 1.0
)

// RegisterFunCommands registers every fun command as a top-level command.
func RegisterFunCommands(client *discord.ExtendedClient) {
	for _, cmd := range []*discord.Command{
		createEightBallCommand(),
		createCoinFlipCommand(),
		createDiceCommand(),
		createRPSCommand(),
		createPollCommand(),
	} {
		client.CommandHandler.RegisterCommand(cmd)
	}
}

func footer(ctx *discord.CommandContext, verb string) *discordgo.MessageEmbedFooter {
	u := ctx.User()
	return &discordgo.MessageEmbedFooter{Text: verb + " by " + u.String(), IconURL: u.AvatarURL("")}
}

func createEightBallCommand() *discord.Command {
	return discord.NewCommand(
		"8ball",
		"Ask the magic 8-ball a question",
		"fun",
		eightBallHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "question",
			Description: "The question you want to ask",
			Required:    true,
			MaxLength:   256,
		},
	).WithCooldown(cooldown)
}

func eightBallHandler(ctx *discord.CommandContext) error {
	answer, color := EightBall(rand.IntN)
	return ctx.ReplyEmbed(&discordgo.MessageEmbed{
		Title: "🎱 Magic 8-Ball",
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Question", Value: ctx.GetStringOption("question")},
			{Name: "Answer", Value: answer},
		},
		Footer:    footer(ctx, "Asked"),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func createCoinFlipCommand() *discord.Command {
	return discord.NewCommand(
		"coinflip",
		"Flip a coin",
		"fun",
		coinFlipHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "times",
			Description: "Number of times to flip the coin (max 100)",
			MinValue:    &minTimes,
			MaxValue:    100,
		},
	).WithCooldown(cooldown)
}

func coinFlipHandler(ctx *discord.CommandContext) error {
	times := int(ctx.GetIntOptionOr("times", 1))
	if times < 1 || times > 100 {
		return ctx.ReplyEphemeral("❌ | You can flip between 1 and 100 coins.")
	}

	flips := FlipCoins(times, rand.IntN)
	embed := &discordgo.MessageEmbed{
		Title:     "🪙 Coin Flip",
		Color:     0xffd700,
		Footer:    footer(ctx, "Flipped"),
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if times == 1 {
		embed.Description = fmt.Sprintf("The coin landed on: **%s**!", flips.Results[0])
	} else {
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "Results", Value: strings.Join(flips.Results, ", ")},
			{Name: "Statistics", Value: flips.Stats(), Inline: true},
		}
	}
	return ctx.ReplyEmbed(embed)
}

func createDiceCommand() *discord.Command {
	return discord.NewCommand(
		"dice",
		"Roll one or more dice",
		"fun",
		diceHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "sides",
			Description: "Number of sides on the dice (default: 6)",
			MinValue:    &minSides,
			MaxValue:    100,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "count",
			Description: "Number of dice to roll (default: 1)",
			MinValue:    &minCount,
			MaxValue:    20,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "sum",
			Description: "Show the sum of all dice (default: false)",
		},
	).WithCooldown(cooldown)
}

func diceHandler(ctx *discord.CommandContext) error {
	sides := int(ctx.GetIntOptionOr("sides", 6))
	count := int(ctx.GetIntOptionOr("count", 1))
	if sides < 2 || sides > 100 || count < 1 || count > 20 {
		return ctx.ReplyEphemeral("❌ | Dice need 2-100 sides and you can roll 1-20 of them.")
	}

	roll := RollDice(sides, count, rand.IntN)
	embed := &discordgo.MessageEmbed{
		Title:       "🎲 Dice Roll",
		Color:       0x4169e1,
		Description: diceDescription(roll, ctx.GetBoolOption("sum")),
		Footer:      footer(ctx, "Rolled"),
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	if count > 1 && roll.CriticalSuccess() {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "🌟 Critical Success!",
			Value: fmt.Sprintf("You rolled the highest possible number (%d)!", sides),
		})
	}
	if count > 1 && roll.CriticalFail() {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "💫 Critical Fail!",
			Value: "You rolled the lowest possible number (1)!",
		})
	}
	return ctx.ReplyEmbed(embed)
}

func diceDescription(r DiceRoll, showSum bool) string {
	if len(r.Rolls) == 1 {
		return fmt.Sprintf("You rolled a **%d**!", r.Rolls[0])
	}
	s := fmt.Sprintf("Rolling %d d%d...\n\nResults: %s", len(r.Rolls), r.Sides, r.Joined())
	if showSum {
		s += fmt.Sprintf("\n\nTotal: **%d**\nAverage: **%.2f**", r.Total, r.Average())
	}
	return s
}

func createRPSCommand() *discord.Command {
	return discord.NewCommand(
		"rps",
		"Play rock, paper, scissors!",
		"fun",
		rpsHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "choice",
			Description: "Choose your weapon!",
			Required:    true,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "🪨 Rock", Value: string(Rock)},
				{Name: "📄 Paper", Value: string(Paper)},
				{Name: "✂️ Scissors", Value: string(Scissors)},
			},
		},
	).WithCooldown(cooldown)
}

func rpsHandler(ctx *discord.CommandContext) error {
	player, ok := ParseRPSChoice(ctx.GetStringOption("choice"))
	if !ok {
		return ctx.ReplyEphemeral("❌ | Choose rock, paper or scissors.")
	}

	bot, outcome := PlayRPS(player, rand.IntN)
	return ctx.ReplyEmbed(&discordgo.MessageEmbed{
		Title: "🎮 Rock Paper Scissors",
		Color: outcome.Color(),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Your Choice", Value: player.Label(), Inline: true},
			{Name: "My Choice", Value: bot.Label(), Inline: true},
			{Name: "Result", Value: outcome.String()},
		},
		Footer:    footer(ctx, "Played"),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
