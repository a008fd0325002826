package events

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/SentryBot/internal/welcome"
	"github.com/PancyStudios/SentryBot/pkg/discord"
	apperrors "github.com/PancyStudios/SentryBot/pkg/errors"
	"github.com/PancyStudios/SentryBot/pkg/logger"
)

// RegisterMemberEvents sends the welcome message on join and logs leaves.
func RegisterMemberEvents(client *discord.ExtendedClient, greeter *welcome.Greeter) {
	client.EventHandler.RegisterEvent(func(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
		onGuildMemberAdd(greeter, m)
	})
	client.EventHandler.RegisterEvent(onGuildMemberRemove)
}

func onGuildMemberAdd(greeter *welcome.Greeter, m *discordgo.GuildMemberAdd) {
	if m.Member == nil || m.User == nil {
		return
	}
	logger.Debug(fmt.Sprintf("👋 %s joined %s", m.User.String(), m.GuildID), "Member")
	if greeter == nil {
		return
	}

	go func() {
		defer apperrors.Recover("Welcome")
		err := greeter.Greet(m.GuildID, m.Member)
		switch {
		case err == nil, errors.Is(err, welcome.ErrDisabled):
		case errors.Is(err, welcome.ErrChannelNotFound):
			logger.Warn("Welcome channel not found or not a text channel for guild "+m.GuildID, "Welcome")
		default:
			logger.Error("Error sending welcome message: "+err.Error(), "Welcome")
		}
	}()
}

func onGuildMemberRemove(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
	if m.User == nil {
		return
	}
	logger.Debug(fmt.Sprintf("👋 %s left %s", m.User.String(), m.GuildID), "Member")
}
