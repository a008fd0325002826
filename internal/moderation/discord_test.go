package moderation

import (
	"errors"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"
)

func testGuild() *discordgo.Guild {
	return &discordgo.Guild{
		ID:      "guild",
		OwnerID: "owner",
		Roles: []*discordgo.Role{
			{ID: "guild", Position: 0, Permissions: discordgo.PermissionSendMessages},
			{ID: "helper", Position: 2, Permissions: discordgo.PermissionKickMembers},
			{ID: "mod", Position: 5, Permissions: discordgo.PermissionBanMembers | discordgo.PermissionModerateMembers},
			{ID: "admin", Position: 9, Permissions: discordgo.PermissionAdministrator},
		},
	}
}

func TestMemberFromDiscord(t *testing.T) {
	g := testGuild()

	tests := []struct {
		name     string
		member   *discordgo.Member
		position int
		caps     []Capability
		lacks    []Capability
	}{
		{
			name:     "everyone only",
			member:   &discordgo.Member{User: &discordgo.User{ID: "u"}},
			position: 0,
			lacks:    []Capability{CapKick, CapBan, CapModerate},
		},
		{
			name:     "multiple roles",
			member:   &discordgo.Member{User: &discordgo.User{ID: "u"}, Roles: []string{"helper", "mod"}},
			position: 5,
			caps:     []Capability{CapKick, CapBan, CapModerate},
		},
		{
			name:     "administrator",
			member:   &discordgo.Member{User: &discordgo.User{ID: "u"}, Roles: []string{"admin"}},
			position: 9,
			caps:     []Capability{CapKick, CapBan, CapModerate},
		},
		{
			name:     "owner without roles",
			member:   &discordgo.Member{User: &discordgo.User{ID: "owner"}},
			position: 0,
			caps:     []Capability{CapKick, CapBan, CapModerate},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := memberFromDiscord(g, tt.member)
			if m.RolePosition != tt.position {
				t.Errorf("RolePosition = %v, want %v", m.RolePosition, tt.position)
			}
			for _, c := range tt.caps {
				if !m.Has(c) {
					t.Errorf("Has(%v) = false, want true", c)
				}
			}
			for _, c := range tt.lacks {
				if m.Has(c) {
					t.Errorf("Has(%v) = true, want false", c)
				}
			}
		})
	}
}

func TestIsDiscordCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("x"), false},
		{"matching code", &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownMember}}, true},
		{"other code", &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeMissingPermissions}}, false},
		{"bare 404", &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusNotFound}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isDiscordCode(tt.err, discordgo.ErrCodeUnknownMember); got != tt.want {
				t.Errorf("isDiscordCode() = %v, want %v", got, tt.want)
			}
		})
	}
}
