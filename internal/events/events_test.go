package events

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
)

func TestJoinedRecently(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		joined time.Time
		want   bool
	}{
		{now, true},
		{now.Add(-5 * time.Second), true},
		{now.Add(-time.Minute), false},
		{time.Time{}, false},
	}
	for _, tt := range tests {
		if got := joinedRecently(tt.joined, now); got != tt.want {
			t.Errorf("joinedRecently(%v) = %v, want %v", tt.joined, got, tt.want)
		}
	}
}

func TestAbandoned(t *testing.T) {
	bot := &discordgo.Member{User: &discordgo.User{ID: "other-bot", Bot: true}}
	tests := []struct {
		name   string
		states []*discordgo.VoiceState
		want   bool
	}{
		{"only us", []*discordgo.VoiceState{{UserID: "me", ChannelID: "v"}}, true},
		{"listener left", []*discordgo.VoiceState{{UserID: "me", ChannelID: "v"}, {UserID: "u", ChannelID: "other"}}, true},
		{"other bot only", []*discordgo.VoiceState{{UserID: "me", ChannelID: "v"}, {UserID: "other-bot", ChannelID: "v", Member: bot}}, true},
		{"listener stays", []*discordgo.VoiceState{{UserID: "me", ChannelID: "v"}, {UserID: "u", ChannelID: "v"}}, false},
	}
	for _, tt := range tests {
		g := &discordgo.Guild{VoiceStates: tt.states}
		if got := abandoned(g, "v", "me"); got != tt.want {
			t.Errorf("%s: abandoned() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestIntroEmbed(t *testing.T) {
	e := introEmbed()
	if len(e.Fields) != 3 {
		t.Errorf("len(Fields) = %v, want 3", len(e.Fields))
	}
}
