package moderation

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/PancyStudios/SentryBot/pkg/models"
	"github.com/PancyStudios/SentryBot/pkg/mqtt"
)

var errBrokerOffline = errors.New("mqtt broker is not connected")

// CaseStore persists completed actions. *database.ModLogRepository implements it.
type CaseStore interface {
	Insert(ctx context.Context, c models.ModCase) error
}

// Case converts an entry into its audit record.
func Case(e Entry) models.ModCase {
	return models.ModCase{
		CaseID:      uuid.NewString(),
		GuildID:     e.GuildID,
		Action:      string(e.Kind),
		TargetID:    e.Target.ID,
		TargetTag:   e.Target.Tag,
		ModeratorID: e.Moderator.ID,
		Moderator:   e.Moderator.Tag,
		Reason:      e.Reason,
		Extra:       e.Extra,
		At:          e.At,
	}
}

// NewAuditSink stores every entry as a case.
func NewAuditSink(store CaseStore) Sink {
	return NewSink("audit", func(ctx context.Context, e Entry) error {
		return store.Insert(ctx, Case(e))
	})
}

// NewMQTTSink publishes every entry on the guild's mod log topic.
func NewMQTTSink(pub mqtt.Publisher) Sink {
	return NewSink("mqtt", func(_ context.Context, e Entry) error {
		if !pub.IsConnected() {
			return errBrokerOffline
		}
		return pub.Publish(mqtt.ModLogTopic(e.GuildID), e)
	})
}
