package moderation

import "github.com/bwmarrin/discordgo"

// Role is a guild role as the role checks see it.
type Role struct {
	ID       string
	Name     string
	Position int
	Managed  bool
}

// Mention renders the role as a Discord mention.
func (r Role) Mention() string { return "<@&" + r.ID + ">" }

const (
	msgRoleManaged           = "I cannot manage that role as it's integrated with a service."
	msgRoleOutranksAgent     = "I cannot manage that role as it's higher than or equal to my highest role."
	msgRoleOutranksModerator = "You cannot manage this role as it's higher than or equal to your highest role."
)

// CheckRoleAssignment decides whether the moderator may have the bot add or
// remove role. The first failing rule wins:
//  1. moderator and bot hold MANAGE_ROLES
//  2. role is not managed by an integration
//  3. bot's highest role is above the role
//  4. moderator's highest role is above the role, unless the moderator owns the guild
func CheckRoleAssignment(moderator, agent Member, role Role, ownerID string) PermissionCheckResult {
	if res := CheckCapability(moderator, agent, CapManageRoles); !res.Success {
		return res
	}
	if role.Managed {
		return deny(msgRoleManaged)
	}
	if role.Position >= agent.RolePosition {
		return deny(msgRoleOutranksAgent)
	}
	if role.Position >= moderator.RolePosition && moderator.ID != ownerID {
		return deny(msgRoleOutranksModerator)
	}
	return PermissionCheckResult{Success: true, Message: msgCheckPassed}
}

func findRole(g *discordgo.Guild, roleID string) (Role, bool) {
	for _, r := range g.Roles {
		if r.ID == roleID {
			return Role{ID: r.ID, Name: r.Name, Position: r.Position, Managed: r.Managed}, true
		}
	}
	return Role{}, false
}
