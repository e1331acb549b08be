package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/nano-midea/mailer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestInstantFilter(t *testing.T) {
	cutoff := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	filter := instantFilter(cutoff)

	assert.Nil(t, filter["read_at"])
	assert.Contains(t, filter, "read_at")
	assert.Contains(t, filter, "email_sent_at.instant")
	assert.Equal(t, bson.M{"$lt": cutoff}, filter["created_at"])
}

func TestDigestFilterUsesStrictLowerBound(t *testing.T) {
	since := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	filter := digestFilter(models.FrequencyWeekly, since)

	assert.Contains(t, filter, "email_sent_at.weekly")
	assert.Nil(t, filter["email_sent_at.weekly"])
	assert.Equal(t, bson.M{"$gt": since}, filter["created_at"])
	assert.NotContains(t, filter, "read_at")
}

func TestMongoNotificationRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	created := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

	mt.Run("instant candidates decode the joined receiver", func(mt *mtest.T) {
		repo := NewMongoNotificationRepository(mt.DB)
		notifID := primitive.NewObjectID()
		receiverID := primitive.NewObjectID()
		postID := primitive.NewObjectID()

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "socialhelp.notifications", mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: notifID},
				{Key: "receiver_id", Value: receiverID},
				{Key: "post", Value: bson.D{{Key: "id", Value: postID}, {Key: "title", Value: "Need groceries"}}},
				{Key: "action", Value: "like"},
				{Key: "created_at", Value: primitive.NewDateTimeFromTime(created)},
				{Key: "receiver", Value: bson.D{
					{Key: "_id", Value: receiverID},
					{Key: "name", Value: "Robin"},
					{Key: "email", Value: "robin@example.com"},
				}},
			},
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "receiver_id", Value: primitive.NewObjectID()},
				{Key: "action", Value: "share"},
				{Key: "created_at", Value: primitive.NewDateTimeFromTime(created)},
			},
		))

		got, err := repo.FindInstantCandidates(context.Background(), created.Add(time.Hour))
		require.NoError(mt, err)
		require.Len(mt, got, 2)

		assert.Equal(mt, notifID, got[0].ID)
		assert.Equal(mt, postID, got[0].Post.ID)
		assert.Equal(mt, "Need groceries", got[0].Post.Title)
		assert.Equal(mt, models.ActionLike, got[0].Action)
		assert.True(mt, created.Equal(got[0].CreatedAt))
		require.NotNil(mt, got[0].Receiver)
		assert.Equal(mt, "robin@example.com", got[0].Receiver.Email)

		assert.Nil(mt, got[1].Receiver)
	})

	mt.Run("digest groups decode pushed notifications", func(mt *mtest.T) {
		repo := NewMongoNotificationRepository(mt.DB)
		receiverID := primitive.NewObjectID()

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "socialhelp.notifications", mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: receiverID},
				{Key: "notifications", Value: bson.A{
					bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "receiver_id", Value: receiverID}, {Key: "action", Value: "comment"}},
					bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "receiver_id", Value: receiverID}, {Key: "action", Value: "like"}},
				}},
				{Key: "receiver", Value: bson.D{{Key: "_id", Value: receiverID}, {Key: "email", Value: "sam@example.com"}}},
			},
		))

		groups, err := repo.FindDigestGroups(context.Background(), models.FrequencyDaily, created)
		require.NoError(mt, err)
		require.Len(mt, groups, 1)
		assert.Equal(mt, receiverID, groups[0].ReceiverID)
		assert.Len(mt, groups[0].Notifications, 2)
		require.NotNil(mt, groups[0].Receiver)
		assert.Equal(mt, "sam@example.com", groups[0].Receiver.Email)
	})

	mt.Run("mark email sent reports modified documents", func(mt *mtest.T) {
		repo := NewMongoNotificationRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 2},
			bson.E{Key: "nModified", Value: 2},
		))

		ids := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}
		n, err := repo.MarkEmailSent(context.Background(), ids, models.FrequencyInstant, created)
		require.NoError(mt, err)
		assert.EqualValues(mt, 2, n)
	})

	mt.Run("mark email sent with no ids skips the round trip", func(mt *mtest.T) {
		repo := NewMongoNotificationRepository(mt.DB)

		n, err := repo.MarkEmailSent(context.Background(), nil, models.FrequencyDaily, created)
		require.NoError(mt, err)
		assert.Zero(mt, n)
	})

	mt.Run("database errors surface unchanged", func(mt *mtest.T) {
		repo := NewMongoNotificationRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Message: "unknown operator: $bogus",
			Name:    "BadValue",
		}))

		_, err := repo.FindDigestGroups(context.Background(), models.FrequencyDaily, created)
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "unknown operator: $bogus")
	})
}
