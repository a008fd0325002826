package moderation

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Capability is a moderation permission an actor may hold in a guild.
type Capability int

const (
	CapKick Capability = iota + 1
	CapBan
	CapModerate
	CapManageRoles
)

func (c Capability) String() string {
	switch c {
	case CapKick:
		return "KICK_MEMBERS"
	case CapBan:
		return "BAN_MEMBERS"
	case CapModerate:
		return "MODERATE_MEMBERS"
	case CapManageRoles:
		return "MANAGE_ROLES"
	default:
		return "UNKNOWN"
	}
}

// Permission returns the Discord permission bit backing the capability.
func (c Capability) Permission() int64 {
	switch c {
	case CapKick:
		return discordgo.PermissionKickMembers
	case CapBan:
		return discordgo.PermissionBanMembers
	case CapModerate:
		return discordgo.PermissionModerateMembers
	case CapManageRoles:
		return discordgo.PermissionManageRoles
	default:
		return 0
	}
}

// Member is the guild-scoped view of a user the guard reasons about.
type Member struct {
	ID           string
	Tag          string
	AvatarURL    string
	RolePosition int
	Permissions  int64
	TimeoutUntil *time.Time
}

// Has reports whether m holds c, either directly or through Administrator.
func (m Member) Has(c Capability) bool {
	bit := c.Permission()
	if bit == 0 {
		return false
	}
	return m.Permissions&discordgo.PermissionAdministrator != 0 || m.Permissions&bit != 0
}

// TimedOut reports whether m has a communication timeout active at now.
func (m Member) TimedOut(now time.Time) bool {
	return m.TimeoutUntil != nil && m.TimeoutUntil.After(now)
}

// Subject returns the identity fields used in results and log entries.
func (m Member) Subject() Subject {
	return Subject{ID: m.ID, Tag: m.Tag, AvatarURL: m.AvatarURL}
}

// PermissionCheckResult is the verdict of a guard evaluation.
type PermissionCheckResult struct {
	Success bool
	Message string
}

// GuardInput carries the facts a hierarchy check is decided on.
type GuardInput struct {
	Moderator  Member
	Agent      Member
	Target     Member
	OwnerID    string
	Capability Capability
}

const (
	msgTargetOutranksModerator = "You cannot moderate this user as they have an equal or higher role than you."
	msgTargetOutranksAgent     = "I cannot moderate this user as they have an equal or higher role than me."
	msgTargetIsOwner           = "I cannot moderate the server owner."
	msgCheckPassed             = "Permissions check passed."
)

func deny(msg string) PermissionCheckResult { return PermissionCheckResult{Message: msg} }

// CheckCapability verifies that both the moderator and the bot hold c.
func CheckCapability(moderator, agent Member, c Capability) PermissionCheckResult {
	if !moderator.Has(c) {
		return deny(fmt.Sprintf("You don't have %s permission!", c))
	}
	if !agent.Has(c) {
		return deny(fmt.Sprintf("I don't have %s permission!", c))
	}
	return PermissionCheckResult{Success: true, Message: msgCheckPassed}
}

// Check decides whether the moderator may act on the target. The first failing
// rule wins:
//  1. moderator holds the capability
//  2. bot holds the capability
//  3. moderator outranks the target, unless the moderator owns the guild
//  4. bot outranks the target
//  5. target is not the guild owner
func Check(in GuardInput) PermissionCheckResult {
	if res := CheckCapability(in.Moderator, in.Agent, in.Capability); !res.Success {
		return res
	}

	if in.Target.RolePosition >= in.Moderator.RolePosition && in.Moderator.ID != in.OwnerID {
		return deny(msgTargetOutranksModerator)
	}

	if in.Target.RolePosition >= in.Agent.RolePosition {
		return deny(msgTargetOutranksAgent)
	}

	if in.Target.ID == in.OwnerID {
		return deny(msgTargetIsOwner)
	}

	return PermissionCheckResult{Success: true, Message: msgCheckPassed}
}
