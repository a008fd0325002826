package welcome

import (
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/SentryBot/pkg/logger"
)

var (
	ErrDisabled        = errors.New("welcome system is not enabled")
	ErrChannelNotFound = errors.New("welcome channel not found")
)

// Greeter sends welcome messages for a store.
type Greeter struct {
	store   *Store
	session *discordgo.Session
}

func NewGreeter(store *Store, session *discordgo.Session) *Greeter {
	return &Greeter{store: store, session: session}
}

// Store returns the settings store used by the greeter.
func (g *Greeter) Store() *Store {
	return g.store
}

// Greet sends the welcome message of guildID for member.
func (g *Greeter) Greet(guildID string, member *discordgo.Member) error {
	st, guild, err := g.prepare(guildID)
	if err != nil {
		return err
	}

	srv := Server{Name: guild.Name, IconURL: guild.IconURL("256"), MemberCount: guild.MemberCount}
	embed := BuildEmbed(st, NewcomerFromUser(member.User), srv, time.Now(), false)

	_, err = g.session.ChannelMessageSendComplex(st.ChannelID, &discordgo.MessageSend{
		Content: MentionContent(st, member.User.ID),
		Embeds:  []*discordgo.MessageEmbed{embed},
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Users: []string{member.User.ID},
		},
	})
	if err != nil {
		return fmt.Errorf("send welcome message: %w", err)
	}

	logger.Info(fmt.Sprintf("Sent welcome message for %s in %s", member.User.String(), guild.Name), "Welcome")
	return nil
}

// Preview renders the welcome embed for user without sending it. It fails
// the same way Greet would.
func (g *Greeter) Preview(guildID string, user *discordgo.User) (Settings, *discordgo.MessageEmbed, error) {
	st, guild, err := g.prepare(guildID)
	if err != nil {
		return st, nil, err
	}
	srv := Server{Name: guild.Name, IconURL: guild.IconURL("256"), MemberCount: guild.MemberCount}
	return st, BuildEmbed(st, NewcomerFromUser(user), srv, time.Now(), true), nil
}

func (g *Greeter) prepare(guildID string) (Settings, *discordgo.Guild, error) {
	st, ok := g.store.Get(guildID)
	if !ok || !st.Enabled {
		return st, nil, ErrDisabled
	}

	guild, err := g.session.State.Guild(guildID)
	if err != nil {
		if guild, err = g.session.Guild(guildID); err != nil {
			return st, nil, fmt.Errorf("fetch guild: %w", err)
		}
	}

	if !g.textChannelExists(guildID, st.ChannelID) {
		return st, nil, ErrChannelNotFound
	}
	return st, guild, nil
}

func (g *Greeter) textChannelExists(guildID, channelID string) bool {
	if channelID == "" {
		return false
	}
	ch, err := g.session.State.Channel(channelID)
	if err != nil {
		if ch, err = g.session.Channel(channelID); err != nil {
			return false
		}
	}
	return ch.GuildID == guildID && (ch.Type == discordgo.ChannelTypeGuildText || ch.Type == discordgo.ChannelTypeGuildNews)
}
