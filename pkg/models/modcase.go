package models

import "time"

// ModCase is one moderation action as stored in the "modlogs" collection.
// It is an audit record only; warnings are never rebuilt from it.
type ModCase struct {
	CaseID      string    `bson:"caseId" json:"caseId"`
	GuildID     string    `bson:"guildId" json:"guildId"`
	Action      string    `bson:"action" json:"action"`
	TargetID    string    `bson:"targetId" json:"targetId"`
	TargetTag   string    `bson:"targetTag" json:"targetTag"`
	ModeratorID string    `bson:"moderatorId" json:"moderatorId"`
	Moderator   string    `bson:"moderator" json:"moderator"`
	Reason      string    `bson:"reason" json:"reason"`
	Extra       string    `bson:"extra,omitempty" json:"extra,omitempty"`
	At          time.Time `bson:"at" json:"at"`
}
