package welcome

import (
	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/SentryBot/pkg/discord"
	"github.com/PancyStudios/SentryBot/pkg/logger"
)

func (h *handler) testWelcomeCommand() *discord.Command {
	return discord.NewCommand(
		"testwelcome",
		"Test the welcome message system with a simulated join",
		"welcome",
		h.testWelcome,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "target",
			Description: "User to simulate joining (defaults to you)",
		},
	).WithUserPermissions(manageGuild).InGuildOnly()
}

func (h *handler) testWelcome(ctx *discord.CommandContext) error {
	guildID := ctx.Interaction.GuildID
	if st, ok := h.store().Get(guildID); !ok || !st.Enabled {
		return ctx.ReplyEphemeral("Welcome system is not enabled! Use `/welcome enable` first.")
	}

	target := ctx.User()
	if u := ctx.GetUserOption("target"); u != nil {
		target = u
	}

	if err := ctx.DeferEphemeral(); err != nil {
		return err
	}

	member, err := ctx.Session.GuildMember(guildID, target.ID)
	if err != nil {
		return ctx.EditReply("Could not find that user in this server!")
	}

	if err := h.greeter.Greet(guildID, member); err != nil {
		logger.Warn("Test welcome failed in "+guildID+": "+err.Error(), "Welcome")
		return ctx.EditReply(greetError(err))
	}
	return ctx.EditReply("Welcome message test completed for " + target.String() + "! Check the welcome channel.")
}
