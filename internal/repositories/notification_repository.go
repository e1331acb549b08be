package repositories

import (
	"context"
	"time"

	"github.com/anonto42/nano-midea/mailer/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// NotificationRepository defines the interface for notification email lookups
type NotificationRepository interface {
	FindInstantCandidates(ctx context.Context, createdBefore time.Time) ([]models.NotificationCandidate, error)
	FindDigestGroups(ctx context.Context, frequency models.Frequency, createdAfter time.Time) ([]models.NotificationGroup, error)
	MarkEmailSent(ctx context.Context, ids []primitive.ObjectID, frequency models.Frequency, at time.Time) (int64, error)
}

// MongoNotificationRepository implements NotificationRepository for MongoDB
type MongoNotificationRepository struct {
	collection *mongo.Collection
}

// NewMongoNotificationRepository creates a new MongoNotificationRepository
func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{collection: db.Collection("notifications")}
}

// FindInstantCandidates returns unread notifications without an instant stamp created before createdBefore
func (r *MongoNotificationRepository) FindInstantCandidates(ctx context.Context, createdBefore time.Time) ([]models.NotificationCandidate, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: instantFilter(createdBefore)}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}}},
		{{Key: "$lookup", Value: receiverLookup("receiver_id")}},
		{{Key: "$unwind", Value: bson.M{"path": "$receiver", "preserveNullAndEmptyArrays": true}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var candidates []models.NotificationCandidate
	if err = cursor.All(ctx, &candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

// FindDigestGroups returns notifications not yet sent for the tier and created strictly after
// createdAfter, grouped per receiver in creation order
func (r *MongoNotificationRepository) FindDigestGroups(ctx context.Context, frequency models.Frequency, createdAfter time.Time) ([]models.NotificationGroup, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: digestFilter(frequency, createdAfter)}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}}},
		{{Key: "$group", Value: bson.M{
			"_id":           "$receiver_id",
			"notifications": bson.M{"$push": "$$ROOT"},
		}}},
		{{Key: "$lookup", Value: receiverLookup("_id")}},
		{{Key: "$unwind", Value: bson.M{"path": "$receiver", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var groups []models.NotificationGroup
	if err = cursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// MarkEmailSent stamps the tier's sent timestamp on every given notification in one update
func (r *MongoNotificationRepository) MarkEmailSent(ctx context.Context, ids []primitive.ObjectID, frequency models.Frequency, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.collection.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{frequency.SentField(): at}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func instantFilter(createdBefore time.Time) bson.M {
	return bson.M{
		"read_at":                           nil,
		models.FrequencyInstant.SentField(): nil,
		"created_at":                        bson.M{"$lt": createdBefore},
	}
}

func digestFilter(frequency models.Frequency, createdAfter time.Time) bson.M {
	return bson.M{
		frequency.SentField(): nil,
		"created_at":          bson.M{"$gt": createdAfter},
	}
}

func receiverLookup(localField string) bson.M {
	return bson.M{
		"from":         "users",
		"localField":   localField,
		"foreignField": "_id",
		"as":           "receiver",
	}
}
