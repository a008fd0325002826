package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/SentryBot/pkg/discord"
)

func createServerCommand() *discord.Command {
	return discord.NewCommand(
		"server",
		"Display information about the server",
		"utils",
		serverHandler,
	).InGuildOnly()
}

func serverHandler(ctx *discord.CommandContext) error {
	guild := ctx.Guild()
	if guild == nil {
		g, err := ctx.Session.Guild(ctx.Interaction.GuildID)
		if err != nil {
			return ctx.ReplyEphemeral("❌ | Could not load this server's information.")
		}
		guild = g
	}
	return ctx.ReplyEmbed(serverEmbed(guild))
}

func serverEmbed(g *discordgo.Guild) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title: g.Name,
		Color: embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Total Members", Value: fmt.Sprint(g.MemberCount), Inline: true},
			{Name: "Created At", Value: createdAt(g.ID), Inline: true},
			{Name: "Server ID", Value: g.ID, Inline: true},
			{Name: "Owner", Value: "<@" + g.OwnerID + ">", Inline: true},
			{Name: "Boost Level", Value: fmt.Sprint(int(g.PremiumTier)), Inline: true},
			{Name: "Boost Count", Value: fmt.Sprint(g.PremiumSubscriptionCount), Inline: true},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if icon := g.IconURL("256"); icon != "" {
		e.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: icon}
	}
	return e
}

func createServerIconCommand() *discord.Command {
	return discord.NewCommand(
		"servericon",
		"Display the server's icon",
		"utils",
		serverIconHandler,
	).InGuildOnly()
}

func serverIconHandler(ctx *discord.CommandContext) error {
	guild := ctx.Guild()
	if guild == nil {
		g, err := ctx.Session.Guild(ctx.Interaction.GuildID)
		if err != nil {
			return ctx.ReplyEphemeral("❌ | Could not load this server's information.")
		}
		guild = g
	}
	e := serverIconEmbed(guild, ctx.User())
	if e == nil {
		return ctx.ReplyEphemeral("This server has no icon!")
	}
	return ctx.ReplyEmbed(e)
}

// serverIconEmbed returns nil when the guild has no icon.
func serverIconEmbed(g *discordgo.Guild, requester *discordgo.User) *discordgo.MessageEmbed {
	if g.Icon == "" {
		return nil
	}
	return &discordgo.MessageEmbed{
		Title:     g.Name + "'s Icon",
		Color:     embedColor,
		Image:     &discordgo.MessageEmbedImage{URL: g.IconURL("1024")},
		Footer:    &discordgo.MessageEmbedFooter{Text: "Requested by " + requester.String(), IconURL: requester.AvatarURL("")},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func createUserCommand() *discord.Command {
	return discord.NewCommand(
		"user",
		"Display information about a user",
		"utils",
		userHandler,
	).WithOptions(targetOption("The user to get information about"))
}

func userHandler(ctx *discord.CommandContext) error {
	target := targetUser(ctx)
	return ctx.ReplyEmbed(userEmbed(target, targetMember(ctx, target.ID)))
}

// userEmbed renders target; member adds the server-specific fields and may be nil.
func userEmbed(target *discordgo.User, member *discordgo.Member) *discordgo.MessageEmbed {
	isBot := "No"
	if target.Bot {
		isBot = "Yes"
	}
	e := &discordgo.MessageEmbed{
		Title:     "User Information - " + target.Username,
		Color:     embedColor,
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: target.AvatarURL("")},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Username", Value: target.Username, Inline: true},
			{Name: "User ID", Value: target.ID, Inline: true},
			{Name: "Account Created", Value: createdAt(target.ID), Inline: true},
			{Name: "Is Bot", Value: isBot, Inline: true},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if member == nil {
		return e
	}

	joined := "Unknown"
	if !member.JoinedAt.IsZero() {
		joined = fmt.Sprintf("<t:%d:D>", member.JoinedAt.Unix())
	}
	nick := member.Nick
	if nick == "" {
		nick = "None"
	}
	roles := make([]string, 0, len(member.Roles))
	for _, id := range member.Roles {
		roles = append(roles, "<@&"+id+">")
	}
	roleList := strings.Join(roles, ", ")
	if roleList == "" {
		roleList = "None"
	}
	e.Fields = append(e.Fields,
		&discordgo.MessageEmbedField{Name: "Joined Server", Value: joined, Inline: true},
		&discordgo.MessageEmbedField{Name: "Nickname", Value: nick, Inline: true},
		&discordgo.MessageEmbedField{Name: "Roles", Value: roleList},
	)
	return e
}

func createAvatarCommand() *discord.Command {
	return discord.NewCommand(
		"avatar",
		"Get the avatar of the selected user, or your own avatar",
		"utils",
		avatarHandler,
	).WithOptions(targetOption("The user's avatar to show"))
}

func avatarHandler(ctx *discord.CommandContext) error {
	return ctx.ReplyEmbed(avatarEmbed(targetUser(ctx), ctx.User()))
}

func avatarEmbed(target, requester *discordgo.User) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:     target.Username + "'s Avatar",
		Color:     embedColor,
		Image:     &discordgo.MessageEmbedImage{URL: target.AvatarURL("1024")},
		Footer:    &discordgo.MessageEmbedFooter{Text: "Requested by " + requester.String(), IconURL: requester.AvatarURL("")},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func targetOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "target",
		Description: description,
	}
}

func targetUser(ctx *discord.CommandContext) *discordgo.User {
	if u := ctx.GetUserOption("target"); u != nil {
		return u
	}
	return ctx.User()
}

// targetMember looks the member up in the interaction's resolved data, then
// in the state cache. Outside a guild it is always nil.
func targetMember(ctx *discord.CommandContext, userID string) *discordgo.Member {
	guildID := ctx.Interaction.GuildID
	if guildID == "" {
		return nil
	}
	if userID == ctx.User().ID && ctx.Member() != nil {
		return ctx.Member()
	}
	if r := ctx.Interaction.ApplicationCommandData().Resolved; r != nil {
		if m, ok := r.Members[userID]; ok {
			return m
		}
	}
	if m, err := ctx.Session.State.Member(guildID, userID); err == nil {
		return m
	}
	return nil
}

// createdAt renders the creation date encoded in a snowflake ID.
func createdAt(id string) string {
	t, err := discordgo.SnowflakeTimestamp(id)
	if err != nil {
		return "Unknown"
	}
	return fmt.Sprintf("<t:%d:D>", t.Unix())
}
