package repositories

import (
	"context"
	"time"

	"github.com/anonto42/nano-midea/mailer/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ThreadRepository defines the interface for direct message thread lookups
type ThreadRepository interface {
	FindUnreadThreads(ctx context.Context, accessedBefore time.Time) ([]models.Thread, error)
}

// MongoThreadRepository implements ThreadRepository for MongoDB
type MongoThreadRepository struct {
	collection *mongo.Collection
}

// NewMongoThreadRepository creates a new MongoThreadRepository
func NewMongoThreadRepository(db *mongo.Database) *MongoThreadRepository {
	return &MongoThreadRepository{collection: db.Collection("threads")}
}

// FindUnreadThreads returns two-party threads where a participant with an accepted or pending
// relationship has unread messages and has not opened the thread since accessedBefore.
// Participant user records are joined into Thread.Users.
func (r *MongoThreadRepository) FindUnreadThreads(ctx context.Context, accessedBefore time.Time) ([]models.Thread, error) {
	cursor, err := r.collection.Aggregate(ctx, unreadThreadsPipeline(accessedBefore))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var threads []models.Thread
	if err = cursor.All(ctx, &threads); err != nil {
		return nil, err
	}
	return threads, nil
}

func unreadThreadsPipeline(accessedBefore time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"participants": bson.M{
				"$size": 2,
				"$elemMatch": bson.M{
					"unread_count":     bson.M{"$gt": 0},
					"last_accessed_at": bson.M{"$lt": accessedBefore},
					"status":           bson.M{"$in": bson.A{string(models.StatusAccepted), string(models.StatusPending)}},
				},
			},
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "participants.user_id",
			"foreignField": "_id",
			"as":           "users",
		}}},
		{{Key: "$project", Value: bson.M{
			"participants":      1,
			"users._id":         1,
			"users.name":        1,
			"users.email":       1,
			"users.preferences": 1,
		}}},
	}
}
