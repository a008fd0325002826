package moderation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/bwmarrin/discordgo"
)

// DiscordPlatform implements Platform on a discordgo session, preferring the
// state cache and falling back to REST.
type DiscordPlatform struct {
	s *discordgo.Session
}

func NewDiscordPlatform(s *discordgo.Session) *DiscordPlatform {
	return &DiscordPlatform{s: s}
}

func (p *DiscordPlatform) guild(ctx context.Context, guildID string) (*discordgo.Guild, error) {
	if g, err := p.s.State.Guild(guildID); err == nil && len(g.Roles) > 0 {
		return g, nil
	}
	return p.s.Guild(guildID, discordgo.WithContext(ctx))
}

func (p *DiscordPlatform) member(ctx context.Context, guildID, userID string) (*discordgo.Member, error) {
	if m, err := p.s.State.Member(guildID, userID); err == nil {
		return m, nil
	}
	m, err := p.s.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if isDiscordCode(err, discordgo.ErrCodeUnknownMember, discordgo.ErrCodeUnknownUser) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch member %s: %w", userID, err)
	}
	return m, nil
}

func (p *DiscordPlatform) Member(ctx context.Context, guildID, userID string) (Member, error) {
	m, err := p.member(ctx, guildID, userID)
	if err != nil {
		return Member{}, err
	}

	g, err := p.guild(ctx, guildID)
	if err != nil {
		return Member{}, fmt.Errorf("fetch guild %s: %w", guildID, err)
	}
	return memberFromDiscord(g, m), nil
}

func (p *DiscordPlatform) AgentMember(ctx context.Context, guildID string) (Member, error) {
	if p.s.State == nil || p.s.State.User == nil {
		return Member{}, errors.New("session is not ready")
	}
	return p.Member(ctx, guildID, p.s.State.User.ID)
}

func (p *DiscordPlatform) GuildOwnerID(ctx context.Context, guildID string) (string, error) {
	g, err := p.guild(ctx, guildID)
	if err != nil {
		return "", err
	}
	return g.OwnerID, nil
}

func (p *DiscordPlatform) Kick(ctx context.Context, guildID, userID, reason string) error {
	return p.s.GuildMemberDeleteWithReason(guildID, userID, reason, discordgo.WithContext(ctx))
}

func (p *DiscordPlatform) Ban(ctx context.Context, guildID, userID, reason string, deleteMessageDays int) error {
	return p.s.GuildBanCreateWithReason(guildID, userID, reason, deleteMessageDays, discordgo.WithContext(ctx))
}

func (p *DiscordPlatform) Unban(ctx context.Context, guildID, userID, reason string) error {
	return p.s.GuildBanDelete(guildID, userID, discordgo.WithAuditLogReason(reason), discordgo.WithContext(ctx))
}

func (p *DiscordPlatform) FindBan(ctx context.Context, guildID, userID string) (BannedUser, error) {
	ban, err := p.s.GuildBan(guildID, userID, discordgo.WithContext(ctx))
	if isDiscordCode(err, discordgo.ErrCodeUnknownBan) {
		return BannedUser{}, ErrBanNotFound
	}
	if err != nil {
		return BannedUser{}, err
	}
	out := BannedUser{ID: userID, Tag: userID, Reason: ban.Reason}
	if ban.User != nil {
		out.Tag = ban.User.String()
	}
	return out, nil
}

func (p *DiscordPlatform) SetTimeout(ctx context.Context, guildID, userID string, until *time.Time, reason string) error {
	return p.s.GuildMemberTimeout(guildID, userID, until, discordgo.WithAuditLogReason(reason), discordgo.WithContext(ctx))
}

func (p *DiscordPlatform) Role(ctx context.Context, guildID, roleID string) (Role, error) {
	g, err := p.guild(ctx, guildID)
	if err != nil {
		return Role{}, fmt.Errorf("fetch guild %s: %w", guildID, err)
	}
	r, ok := findRole(g, roleID)
	if !ok {
		return Role{}, ErrRoleNotFound
	}
	return r, nil
}

func (p *DiscordPlatform) MemberHasRole(ctx context.Context, guildID, userID, roleID string) (bool, error) {
	m, err := p.member(ctx, guildID, userID)
	if err != nil {
		return false, err
	}
	return slices.Contains(m.Roles, roleID), nil
}

func (p *DiscordPlatform) AddRole(ctx context.Context, guildID, userID, roleID, reason string) error {
	return p.s.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithAuditLogReason(reason), discordgo.WithContext(ctx))
}

func (p *DiscordPlatform) RemoveRole(ctx context.Context, guildID, userID, roleID, reason string) error {
	return p.s.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithAuditLogReason(reason), discordgo.WithContext(ctx))
}

// isDiscordCode reports whether err is a REST error carrying one of codes,
// or a bare 404 when no JSON error body was returned.
func isDiscordCode(err error, codes ...int) bool {
	var rerr *discordgo.RESTError
	if !errors.As(err, &rerr) {
		return false
	}
	if rerr.Message != nil {
		for _, c := range codes {
			if rerr.Message.Code == c {
				return true
			}
		}
		return false
	}
	return rerr.Response != nil && rerr.Response.StatusCode == http.StatusNotFound
}

func memberFromDiscord(g *discordgo.Guild, m *discordgo.Member) Member {
	out := Member{
		RolePosition: highestRolePosition(g, m.Roles),
		Permissions:  guildPermissions(g, m),
		TimeoutUntil: m.CommunicationDisabledUntil,
	}
	if m.User != nil {
		out.ID = m.User.ID
		out.Tag = m.User.String()
		out.AvatarURL = m.User.AvatarURL("256")
	}
	return out
}

func highestRolePosition(g *discordgo.Guild, roleIDs []string) int {
	held := make(map[string]bool, len(roleIDs))
	for _, id := range roleIDs {
		held[id] = true
	}
	highest := 0
	for _, r := range g.Roles {
		if held[r.ID] && r.Position > highest {
			highest = r.Position
		}
	}
	return highest
}

// guildPermissions computes guild-level permissions: the @everyone role plus
// every held role, with owner and Administrator granting everything.
func guildPermissions(g *discordgo.Guild, m *discordgo.Member) int64 {
	if m.User != nil && m.User.ID == g.OwnerID {
		return discordgo.PermissionAll
	}

	held := make(map[string]bool, len(m.Roles))
	for _, id := range m.Roles {
		held[id] = true
	}

	var perms int64
	for _, r := range g.Roles {
		if r.ID == g.ID || held[r.ID] {
			perms |= r.Permissions
		}
	}
	if perms&discordgo.PermissionAdministrator != 0 {
		return discordgo.PermissionAll
	}
	return perms
}

// LogEmbed renders an entry the way it appears in the mod-log channel.
func LogEmbed(e Entry) *discordgo.MessageEmbed {
	style := StyleFor(e.Kind)
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s %s Action", style.Emoji, style.Name),
		Color: style.Color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Target User", Value: e.Target.Label(), Inline: true},
			{Name: "Moderator", Value: e.Moderator.Label(), Inline: true},
			{Name: "Reason", Value: e.Reason},
		},
		Timestamp: e.At.Format(time.RFC3339),
	}
	if e.Extra != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Additional Info", Value: e.Extra})
	}
	if e.Target.AvatarURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: e.Target.AvatarURL}
	}
	return embed
}

// NewChannelSink posts entries to the guild text channel named channelName.
// Guilds without such a channel are skipped silently.
func NewChannelSink(s *discordgo.Session, channelName string) Sink {
	return NewSink("channel", func(ctx context.Context, e Entry) error {
		channelID, err := findTextChannel(ctx, s, e.GuildID, channelName)
		if err != nil || channelID == "" {
			return err
		}
		_, err = s.ChannelMessageSendEmbed(channelID, LogEmbed(e), discordgo.WithContext(ctx))
		return err
	})
}

func findTextChannel(ctx context.Context, s *discordgo.Session, guildID, name string) (string, error) {
	channels := []*discordgo.Channel(nil)
	if g, err := s.State.Guild(guildID); err == nil {
		channels = g.Channels
	}
	if len(channels) == 0 {
		var err error
		channels, err = s.GuildChannels(guildID, discordgo.WithContext(ctx))
		if err != nil {
			return "", err
		}
	}
	for _, ch := range channels {
		if ch.Name == name && ch.Type == discordgo.ChannelTypeGuildText {
			return ch.ID, nil
		}
	}
	return "", nil
}
