package repositories

import (
	"context"

	"github.com/anonto42/nano-midea/mailer/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MessageRepository defines the interface for direct message lookups
type MessageRepository interface {
	FindLatestByThreadIDs(ctx context.Context, threadIDs []primitive.ObjectID) (map[primitive.ObjectID]models.Message, error)
}

// MongoMessageRepository implements MessageRepository for MongoDB
type MongoMessageRepository struct {
	collection *mongo.Collection
}

// NewMongoMessageRepository creates a new MongoMessageRepository
func NewMongoMessageRepository(db *mongo.Database) *MongoMessageRepository {
	return &MongoMessageRepository{collection: db.Collection("messages")}
}

type latestMessageRow struct {
	ThreadID primitive.ObjectID `bson:"_id"`
	Message  models.Message     `bson:"message"`
}

// FindLatestByThreadIDs returns the most recently created message of each thread, keyed by thread id
func (r *MongoMessageRepository) FindLatestByThreadIDs(ctx context.Context, threadIDs []primitive.ObjectID) (map[primitive.ObjectID]models.Message, error) {
	latest := make(map[primitive.ObjectID]models.Message, len(threadIDs))
	if len(threadIDs) == 0 {
		return latest, nil
	}

	cursor, err := r.collection.Aggregate(ctx, latestMessagesPipeline(threadIDs))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []latestMessageRow
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		latest[row.ThreadID] = row.Message
	}
	return latest, nil
}

func latestMessagesPipeline(threadIDs []primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"thread_id": bson.M{"$in": threadIDs}}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$group", Value: bson.M{
			"_id":     "$thread_id",
			"message": bson.M{"$first": "$$ROOT"},
		}}},
	}
}
