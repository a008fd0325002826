package welcome

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Newcomer describes the member being welcomed.
type Newcomer struct {
	ID        string
	Username  string
	Tag       string
	AvatarURL string
	CreatedAt time.Time
}

// NewcomerFromUser extracts a Newcomer from a discordgo user.
func NewcomerFromUser(u *discordgo.User) Newcomer {
	created, _ := discordgo.SnowflakeTimestamp(u.ID)
	return Newcomer{
		ID:        u.ID,
		Username:  u.Username,
		Tag:       u.String(),
		AvatarURL: u.AvatarURL("256"),
		CreatedAt: created,
	}
}

// Server describes the guild being joined.
type Server struct {
	Name        string
	IconURL     string
	MemberCount int
}

// BuildEmbed renders the welcome embed. Preview adds a notice field.
func BuildEmbed(st Settings, n Newcomer, srv Server, now time.Time, preview bool) *discordgo.MessageEmbed {
	color, err := ParseColor(st.EmbedColor)
	if err != nil {
		color, _ = ParseColor(DefaultColor)
	}

	title := st.EmbedTitle
	if title == "" {
		title = fmt.Sprintf("Welcome to %s!", srv.Name)
	}
	footer := st.FooterText
	if footer == "" {
		footer = fmt.Sprintf("Welcome to %s!", srv.Name)
	}

	description := Format(st.Message, Placeholders{
		UserID:      n.ID,
		Username:    n.Username,
		Tag:         n.Tag,
		Server:      srv.Name,
		MemberCount: srv.MemberCount,
	})
	if description == "" {
		description = fmt.Sprintf("Welcome to the server, <@%s>! We're glad to have you here.", n.ID)
	}

	created := "Unknown"
	if !n.CreatedAt.IsZero() {
		created = fmt.Sprintf("<t:%d:D>", n.CreatedAt.Unix())
	}

	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: n.AvatarURL},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: n.Tag, Inline: true},
			{Name: "Account Created", Value: created, Inline: true},
			{Name: "Member Count", Value: strconv.Itoa(srv.MemberCount), Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: footer, IconURL: srv.IconURL},
		Timestamp: now.Format(time.RFC3339),
	}

	if st.ShowRules && st.RulesChannelID != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "📜 Server Rules",
			Value: fmt.Sprintf("Please check <#%s> to get started!", st.RulesChannelID),
		})
	}
	if st.ImageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: st.ImageURL}
	}
	if preview {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "⚠️ Preview Mode",
			Value: "This is a preview of your welcome message. New members will see this when they join.",
		})
	}
	return embed
}

// StatusEmbed summarises a guild's settings for /welcome status.
func StatusEmbed(st Settings, now time.Time) *discordgo.MessageEmbed {
	color, _ := ParseColor(DefaultColor)
	embed := &discordgo.MessageEmbed{
		Title: "Welcome System Status",
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Status", Value: yesNo(st.Enabled, "✅ Enabled", "❌ Disabled"), Inline: true},
			{Name: "Welcome Channel", Value: channelOrNotSet(st.ChannelID), Inline: true},
			{Name: "Mention User", Value: yesNo(st.MentionUser, "Yes", "No"), Inline: true},
			{Name: "Show Rules", Value: yesNo(st.ShowRules, "Yes", "No"), Inline: true},
			{Name: "Rules Channel", Value: channelOrNotSet(st.RulesChannelID), Inline: true},
			{Name: "Embed Color", Value: orDefault(st.EmbedColor, DefaultColor), Inline: true},
		},
		Timestamp: now.Format(time.RFC3339),
	}

	if st.Message != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Welcome Message", Value: "```\n" + st.Message + "\n```"})
	}
	if st.EmbedTitle != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Embed Title", Value: st.EmbedTitle, Inline: true})
	}
	if st.FooterText != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Footer Text", Value: st.FooterText, Inline: true})
	}
	if st.ImageURL != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Image URL", Value: st.ImageURL})
		embed.Image = &discordgo.MessageEmbedImage{URL: st.ImageURL}
	}
	return embed
}

// MentionContent is the message content accompanying the embed.
func MentionContent(st Settings, userID string) string {
	if !st.MentionUser {
		return ""
	}
	return "<@" + userID + ">"
}

func yesNo(b bool, yes, no string) string {
	if b {
		return yes
	}
	return no
}

func channelOrNotSet(id string) string {
	if id == "" {
		return "Not set"
	}
	return "<#" + id + ">"
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
