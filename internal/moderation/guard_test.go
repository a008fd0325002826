package moderation

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
)

const allMod = discordgo.PermissionKickMembers | discordgo.PermissionBanMembers | discordgo.PermissionModerateMembers

func guardFixture() GuardInput {
	return GuardInput{
		Moderator:  Member{ID: "mod", Tag: "mod#0001", RolePosition: 5, Permissions: allMod},
		Agent:      Member{ID: "bot", Tag: "bot#0001", RolePosition: 10, Permissions: allMod},
		Target:     Member{ID: "target", Tag: "target#0001", RolePosition: 1},
		OwnerID:    "owner",
		Capability: CapKick,
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(in *GuardInput)
		success bool
		message string
	}{
		{
			name:    "passes",
			mutate:  func(in *GuardInput) {},
			success: true,
			message: "Permissions check passed.",
		},
		{
			name:    "moderator lacks permission",
			mutate:  func(in *GuardInput) { in.Moderator.Permissions = discordgo.PermissionBanMembers },
			message: "You don't have KICK_MEMBERS permission!",
		},
		{
			name:    "bot lacks permission",
			mutate:  func(in *GuardInput) { in.Agent.Permissions = 0 },
			message: "I don't have KICK_MEMBERS permission!",
		},
		{
			name: "moderator check comes before bot check",
			mutate: func(in *GuardInput) {
				in.Moderator.Permissions = 0
				in.Agent.Permissions = 0
			},
			message: "You don't have KICK_MEMBERS permission!",
		},
		{
			name:    "administrator implies capability",
			mutate:  func(in *GuardInput) { in.Moderator.Permissions = discordgo.PermissionAdministrator },
			success: true,
			message: "Permissions check passed.",
		},
		{
			name:    "target ties moderator",
			mutate:  func(in *GuardInput) { in.Target.RolePosition = 5 },
			message: "You cannot moderate this user as they have an equal or higher role than you.",
		},
		{
			name:    "target outranks moderator",
			mutate:  func(in *GuardInput) { in.Target.RolePosition = 7 },
			message: "You cannot moderate this user as they have an equal or higher role than you.",
		},
		{
			name: "owner bypasses moderator hierarchy",
			mutate: func(in *GuardInput) {
				in.OwnerID = "mod"
				in.Target.RolePosition = 7
			},
			success: true,
			message: "Permissions check passed.",
		},
		{
			name: "target ties bot",
			mutate: func(in *GuardInput) {
				in.Moderator.RolePosition = 20
				in.Target.RolePosition = 10
			},
			message: "I cannot moderate this user as they have an equal or higher role than me.",
		},
		{
			name: "owner moderator still blocked by bot hierarchy",
			mutate: func(in *GuardInput) {
				in.OwnerID = "mod"
				in.Target.RolePosition = 12
			},
			message: "I cannot moderate this user as they have an equal or higher role than me.",
		},
		{
			name: "target is owner",
			mutate: func(in *GuardInput) {
				in.OwnerID = "target"
			},
			message: "I cannot moderate the server owner.",
		},
		{
			name: "owner acting on self",
			mutate: func(in *GuardInput) {
				in.OwnerID = "mod"
				in.Target = Member{ID: "mod", RolePosition: 1}
			},
			message: "I cannot moderate the server owner.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := guardFixture()
			tt.mutate(&in)

			got := Check(in)
			if got.Success != tt.success {
				t.Errorf("Check().Success = %v, want %v", got.Success, tt.success)
			}
			if got.Message != tt.message {
				t.Errorf("Check().Message = %q, want %q", got.Message, tt.message)
			}
		})
	}
}

func TestCheckMessagesDistinct(t *testing.T) {
	seen := map[string]bool{}
	for _, msg := range []string{
		CheckCapability(Member{}, Member{Permissions: allMod}, CapBan).Message,
		CheckCapability(Member{Permissions: allMod}, Member{}, CapBan).Message,
		msgTargetOutranksModerator,
		msgTargetOutranksAgent,
		msgTargetIsOwner,
		msgCheckPassed,
	} {
		if seen[msg] {
			t.Errorf("message %q reported for more than one rule", msg)
		}
		seen[msg] = true
	}
}

func TestCapabilityPermission(t *testing.T) {
	tests := []struct {
		cap  Capability
		bit  int64
		name string
	}{
		{CapKick, discordgo.PermissionKickMembers, "KICK_MEMBERS"},
		{CapBan, discordgo.PermissionBanMembers, "BAN_MEMBERS"},
		{CapModerate, discordgo.PermissionModerateMembers, "MODERATE_MEMBERS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cap.Permission(); got != tt.bit {
				t.Errorf("Permission() = %v, want %v", got, tt.bit)
			}
			if got := tt.cap.String(); got != tt.name {
				t.Errorf("String() = %v, want %v", got, tt.name)
			}
			if !(Member{Permissions: tt.bit}).Has(tt.cap) {
				t.Errorf("Has(%v) = false for member holding the bit", tt.cap)
			}
		})
	}

	if (Member{Permissions: allMod}).Has(Capability(0)) {
		t.Error("Has() should be false for an unknown capability")
	}
}

func TestMemberTimedOut(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		name  string
		until *time.Time
		want  bool
	}{
		{"none", nil, false},
		{"expired", &past, false},
		{"active", &future, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Member{TimeoutUntil: tt.until}).TimedOut(now); got != tt.want {
				t.Errorf("TimedOut() = %v, want %v", got, tt.want)
			}
		})
	}
}
