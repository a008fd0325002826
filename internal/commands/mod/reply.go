package mod

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/SentryBot/internal/moderation"
)

// maxWarningFields keeps the history embed under Discord's 25 field limit.
const maxWarningFields = 24

var titles = map[moderation.Kind]string{
	moderation.KindKick:          "User Kicked",
	moderation.KindBan:           "User Banned",
	moderation.KindUnban:         "User Unbanned",
	moderation.KindTimeout:       "User Timed Out",
	moderation.KindRemoveTimeout: "Timeout Removed",
	moderation.KindWarn:          "User Warned",
	moderation.KindRemoveWarning: "Warning Removed",
	moderation.KindClearWarnings: "Warnings Cleared",
}

// resultEmbed is the moderator's confirmation of a successful action.
func resultEmbed(res moderation.Result) *discordgo.MessageEmbed {
	style := moderation.StyleFor(res.Kind)
	title, ok := titles[res.Kind]
	if !ok {
		title = style.Name
	}

	embed := &discordgo.MessageEmbed{
		Title:       style.Emoji + " " + title,
		Description: res.Message,
		Color:       style.Color,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	add := func(name, value string) {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: name, Value: value})
	}

	switch res.Kind {
	case moderation.KindRemoveWarning:
		add("Warning ID", res.WarningID)
	case moderation.KindClearWarnings:
		add("User", res.Target.Label())
		add("Removed", strconv.Itoa(res.Removed))
	default:
		add("User", res.Target.Label())
	}

	switch res.Kind {
	case moderation.KindBan:
		add("Reason", res.Reason)
		history := "No messages deleted"
		if res.DeleteMessageDays > 0 {
			history = fmt.Sprintf("Deleted messages from the last %d day(s)", res.DeleteMessageDays)
		}
		add("Message History", history)
	case moderation.KindTimeout:
		add("Duration", moderation.FormatDuration(res.Duration))
		add("Reason", res.Reason)
		if !res.Until.IsZero() {
			add("Expires", fmt.Sprintf("<t:%d:R>", res.Until.Unix()))
		}
	case moderation.KindWarn:
		add("Warning ID", res.WarningID)
		add("Reason", res.Reason)
		add("Total Warnings", strconv.Itoa(res.WarningCount))
	case moderation.KindKick, moderation.KindUnban, moderation.KindRemoveTimeout:
		add("Reason", res.Reason)
	}

	add("Moderator", res.Moderator.Tag)
	return embed
}

// warningsEmbed lists a user's warnings, oldest first. moderator renders a
// moderator ID for display.
func warningsEmbed(res moderation.Result, moderator func(id string) string) *discordgo.MessageEmbed {
	color := 0x00ff00
	if res.WarningCount > 0 {
		color = 0xffcc00
	}
	name := res.Target.Tag
	if name == "" {
		name = res.Target.ID
	}

	embed := &discordgo.MessageEmbed{
		Title:       "⚠️ Warning History for " + name,
		Description: res.Message,
		Color:       color,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	if res.Target.AvatarURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: res.Target.AvatarURL}
	}

	for i, w := range res.Warnings {
		if i == maxWarningFields {
			embed.Footer = &discordgo.MessageEmbedFooter{
				Text: fmt.Sprintf("Showing %d of %d warnings.", maxWarningFields, len(res.Warnings)),
			}
			break
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: fmt.Sprintf("Warning #%d (ID: %s)", i+1, w.ID),
			Value: fmt.Sprintf("**Reason:** %s\n**Date:** <t:%d:f>\n**Moderator:** %s",
				w.Reason, w.Timestamp.Unix(), moderator(w.ModeratorID)),
		})
	}
	return embed
}

// warningNotice is the DM sent to a warned user.
func warningNotice(res moderation.Result, guildName string) *discordgo.MessageEmbed {
	style := moderation.StyleFor(moderation.KindWarn)
	return &discordgo.MessageEmbed{
		Title:       style.Emoji + " Warning Received",
		Description: "You have received a warning in " + guildName,
		Color:       style.Color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Warning ID", Value: res.WarningID},
			{Name: "Reason", Value: res.Reason},
			{Name: "Total Warnings", Value: strconv.Itoa(res.WarningCount)},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "If you believe this was a mistake, please contact a server administrator.",
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func dmFooter(dm moderation.Advisory) string {
	if dm.OK() {
		return "User has been notified via DM."
	}
	return "Could not notify user via DM (they may have DMs disabled)."
}
