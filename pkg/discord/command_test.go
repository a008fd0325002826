package discord

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
)

func noop(ctx *CommandContext) error { return nil }

// TestReplyEphemeralEmbedExists is a compile-time check of the method signature.
func TestReplyEphemeralEmbedExists(t *testing.T) {
	type replyEphemeralEmbedFunc func(*CommandContext, *discordgo.MessageEmbed) error
	var _ replyEphemeralEmbedFunc = (*CommandContext).ReplyEphemeralEmbed
}

func TestCommandCreation(t *testing.T) {
	cmd := NewCommand("test", "Test command", "test", noop)

	if cmd == nil {
		t.Fatal("NewCommand returned nil")
	}
	if cmd.Name != "test" {
		t.Errorf("Name = %v, want %v", cmd.Name, "test")
	}
	if cmd.Description != "Test command" {
		t.Errorf("Description = %v, want %v", cmd.Description, "Test command")
	}
	if cmd.Category != "test" {
		t.Errorf("Category = %v, want %v", cmd.Category, "test")
	}
	if cmd.Run == nil {
		t.Error("Run function is nil")
	}
}

func TestCommandBuilders(t *testing.T) {
	cmd := NewCommand("play", "Play", "music", noop).
		WithUserPermissions(discordgo.PermissionManageServer).
		WithBotPermissions(discordgo.PermissionSendMessages).
		WithCooldown(3 * time.Second).
		RequiresVoice()

	if cmd.UserPermissions != discordgo.PermissionManageServer {
		t.Errorf("UserPermissions = %v, want %v", cmd.UserPermissions, discordgo.PermissionManageServer)
	}
	if cmd.BotPermissions != discordgo.PermissionSendMessages {
		t.Errorf("BotPermissions = %v, want %v", cmd.BotPermissions, discordgo.PermissionSendMessages)
	}
	if cmd.Cooldown != 3*time.Second {
		t.Errorf("Cooldown = %v, want %v", cmd.Cooldown, 3*time.Second)
	}
	if !cmd.InVoiceChannel || !cmd.GuildOnly {
		t.Error("RequiresVoice() should mark the command voice and guild only")
	}
}

func TestToApplicationCommand(t *testing.T) {
	option := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "test-option",
		Description: "Test option",
		Required:    true,
	}

	appCmd := NewCommand("test", "Test command", "test", noop).
		WithOptions(option).
		WithUserPermissions(discordgo.PermissionManageServer).
		InGuildOnly().
		ToApplicationCommand()

	if appCmd.Name != "test" {
		t.Errorf("Name = %v, want %v", appCmd.Name, "test")
	}
	if len(appCmd.Options) != 1 {
		t.Fatalf("Options length = %v, want %v", len(appCmd.Options), 1)
	}
	if appCmd.DefaultMemberPermissions == nil || *appCmd.DefaultMemberPermissions != discordgo.PermissionManageServer {
		t.Errorf("DefaultMemberPermissions = %v, want %v", appCmd.DefaultMemberPermissions, discordgo.PermissionManageServer)
	}
	if appCmd.DMPermission == nil || *appCmd.DMPermission {
		t.Error("DMPermission should be false for guild-only commands")
	}

	plain := NewCommand("ping", "Ping", "utils", noop).ToApplicationCommand()
	if plain.DefaultMemberPermissions != nil || plain.DMPermission != nil {
		t.Error("plain commands should not restrict permissions")
	}
}

func TestResolveCommandName(t *testing.T) {
	tests := []struct {
		name string
		data discordgo.ApplicationCommandInteractionData
		want string
	}{
		{
			name: "top level",
			data: discordgo.ApplicationCommandInteractionData{Name: "ping"},
			want: "ping",
		},
		{
			name: "top level with options",
			data: discordgo.ApplicationCommandInteractionData{
				Name:    "dice",
				Options: []*discordgo.ApplicationCommandInteractionDataOption{{Name: "sides", Type: discordgo.ApplicationCommandOptionInteger}},
			},
			want: "dice",
		},
		{
			name: "subcommand",
			data: discordgo.ApplicationCommandInteractionData{
				Name:    "mod",
				Options: []*discordgo.ApplicationCommandInteractionDataOption{{Name: "ban", Type: discordgo.ApplicationCommandOptionSubCommand}},
			},
			want: "mod.ban",
		},
		{
			name: "subcommand group",
			data: discordgo.ApplicationCommandInteractionData{
				Name: "music",
				Options: []*discordgo.ApplicationCommandInteractionDataOption{{
					Name:    "queue",
					Type:    discordgo.ApplicationCommandOptionSubCommandGroup,
					Options: []*discordgo.ApplicationCommandInteractionDataOption{{Name: "clear", Type: discordgo.ApplicationCommandOptionSubCommand}},
				}},
			},
			want: "music.queue.clear",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveCommandName(tt.data); got != tt.want {
				t.Errorf("resolveCommandName() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFindOption(t *testing.T) {
	options := []*discordgo.ApplicationCommandInteractionDataOption{{
		Name: "timeout",
		Type: discordgo.ApplicationCommandOptionSubCommand,
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: "duration", Type: discordgo.ApplicationCommandOptionString, Value: "10m"},
		},
	}}

	opt := findOption(options, "duration")
	if opt == nil || opt.StringValue() != "10m" {
		t.Errorf("findOption(duration) = %+v, want value 10m", opt)
	}
	if findOption(options, "missing") != nil {
		t.Error("findOption(missing) should be nil")
	}
}

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name     string
		held     int64
		required int64
		want     bool
	}{
		{"exact", discordgo.PermissionManageServer, discordgo.PermissionManageServer, true},
		{"missing", discordgo.PermissionSendMessages, discordgo.PermissionManageServer, false},
		{"administrator", discordgo.PermissionAdministrator, discordgo.PermissionBanMembers, true},
		{"partial", discordgo.PermissionBanMembers, discordgo.PermissionBanMembers | discordgo.PermissionKickMembers, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasPermission(tt.held, tt.required); got != tt.want {
				t.Errorf("hasPermission() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPrecheck(t *testing.T) {
	c := &ExtendedClient{Commands: NewCommandCollection(), Cooldowns: NewCooldowns()}
	member := &discordgo.Member{User: &discordgo.User{ID: "u1"}, Permissions: discordgo.PermissionSendMessages}

	guildCtx := &CommandContext{Interaction: &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{GuildID: "g", Member: member}}}
	dmCtx := &CommandContext{Interaction: &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{User: &discordgo.User{ID: "u1"}}}}

	guildOnly := NewCommand("welcome", "", "", noop).InGuildOnly()
	if msg := c.precheck(dmCtx, guildOnly, "welcome"); msg != "This command can only be used in a server!" {
		t.Errorf("precheck(dm) = %q", msg)
	}

	admin := NewCommand("welcome", "", "", noop).WithUserPermissions(discordgo.PermissionManageServer)
	if msg := c.precheck(guildCtx, admin, "welcome"); msg != "You don't have permission to use this command." {
		t.Errorf("precheck(no perms) = %q", msg)
	}

	cooled := NewCommand("8ball", "", "", noop).WithCooldown(time.Minute)
	if msg := c.precheck(guildCtx, cooled, "8ball"); msg != "" {
		t.Errorf("first precheck(cooldown) = %q, want empty", msg)
	}
	if msg := c.precheck(guildCtx, cooled, "8ball"); msg == "" {
		t.Error("second precheck(cooldown) should be rate limited")
	}
}

func TestCooldowns(t *testing.T) {
	c := NewCooldowns()

	if _, limited := c.Hit("dice", "u1", time.Minute); limited {
		t.Fatal("first Hit() should not be limited")
	}
	remaining, limited := c.Hit("dice", "u1", time.Minute)
	if !limited {
		t.Fatal("second Hit() should be limited")
	}
	if remaining <= 0 || remaining > time.Minute {
		t.Errorf("remaining = %v, want within (0, 1m]", remaining)
	}
	if _, limited := c.Hit("dice", "u2", time.Minute); limited {
		t.Error("other users must not share a cooldown")
	}
	if _, limited := c.Hit("rps", "u1", time.Minute); limited {
		t.Error("other commands must not share a cooldown")
	}

	if _, limited := c.Hit("coinflip", "u1", 10*time.Millisecond); limited {
		t.Fatal("first Hit() should not be limited")
	}
	time.Sleep(20 * time.Millisecond)
	if _, limited := c.Hit("coinflip", "u1", 10*time.Millisecond); limited {
		t.Error("Hit() after the window should not be limited")
	}
}
