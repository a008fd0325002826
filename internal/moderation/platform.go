package moderation

import (
	"context"
	"errors"
	"time"
)

var (
	ErrMemberNotFound = errors.New("member not found")
	ErrBanNotFound    = errors.New("ban not found")
	ErrRoleNotFound   = errors.New("role not found")
)

// BannedUser is an entry of a guild's ban list.
type BannedUser struct {
	ID     string
	Tag    string
	Reason string
}

// Platform is the chat platform as seen by the dispatcher. Mutations return
// the platform's error unchanged so it can be relayed to the moderator.
type Platform interface {
	// Member returns ErrMemberNotFound when the user is not in the guild.
	Member(ctx context.Context, guildID, userID string) (Member, error)
	AgentMember(ctx context.Context, guildID string) (Member, error)
	GuildOwnerID(ctx context.Context, guildID string) (string, error)

	Kick(ctx context.Context, guildID, userID, reason string) error
	Ban(ctx context.Context, guildID, userID, reason string, deleteMessageDays int) error
	Unban(ctx context.Context, guildID, userID, reason string) error
	// FindBan returns ErrBanNotFound when the user is not banned.
	FindBan(ctx context.Context, guildID, userID string) (BannedUser, error)
	// SetTimeout applies a timeout until the given time, or clears it when until is nil.
	SetTimeout(ctx context.Context, guildID, userID string, until *time.Time, reason string) error

	// Role returns ErrRoleNotFound when the guild has no such role.
	Role(ctx context.Context, guildID, roleID string) (Role, error)
	MemberHasRole(ctx context.Context, guildID, userID, roleID string) (bool, error)
	AddRole(ctx context.Context, guildID, userID, roleID, reason string) error
	RemoveRole(ctx context.Context, guildID, userID, roleID, reason string) error
}
