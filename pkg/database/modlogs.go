package database

import (
	"context"

	"github.com/PancyStudios/SentryBot/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ModLogCollection holds the moderation audit trail.
const ModLogCollection = "modlogs"

// ModLogRepository reads and writes moderation cases.
type ModLogRepository struct {
	db *Database
}

// NewModLogRepository creates a repository over db.
func NewModLogRepository(db *Database) *ModLogRepository {
	return &ModLogRepository{db: db}
}

// Insert stores a case, queueing it while the database is offline.
func (r *ModLogRepository) Insert(ctx context.Context, c models.ModCase) error {
	return r.db.Insert(ctx, ModLogCollection, c)
}

// Recent returns the newest cases of a guild, optionally narrowed to one
// target user.
func (r *ModLogRepository) Recent(ctx context.Context, guildID, userID string, limit int64) ([]models.ModCase, error) {
	col := r.db.GetCollection(ModLogCollection)
	if col == nil || !r.db.IsConnected() {
		return nil, ErrNotConnected
	}

	filter := recentFilter(guildID, userID)
	opts := options.Find().
		SetSort(bson.D{{Key: "at", Value: -1}}).
		SetLimit(limit)

	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	cases := make([]models.ModCase, 0)
	if err := cursor.All(ctx, &cases); err != nil {
		return nil, err
	}
	return cases, nil
}

func recentFilter(guildID, userID string) bson.M {
	filter := bson.M{"guildId": guildID}
	if userID != "" {
		filter["targetId"] = userID
	}
	return filter
}
