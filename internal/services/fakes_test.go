package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/anonto42/nano-midea/mailer/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// memoryNotificationRepository applies the same selection rules as the Mongo pipelines
type memoryNotificationRepository struct {
	notifications []models.Notification
	users         map[primitive.ObjectID]models.User
	markErr       error
	markCalls     int
}

func (r *memoryNotificationRepository) user(id primitive.ObjectID) *models.User {
	u, ok := r.users[id]
	if !ok {
		return nil
	}
	return &u
}

func (r *memoryNotificationRepository) FindInstantCandidates(_ context.Context, createdBefore time.Time) ([]models.NotificationCandidate, error) {
	var out []models.NotificationCandidate
	for _, n := range r.notifications {
		if n.ReadAt != nil || n.EmailSentAt.Instant != nil || !n.CreatedAt.Before(createdBefore) {
			continue
		}
		out = append(out, models.NotificationCandidate{Notification: n, Receiver: r.user(n.ReceiverID)})
	}
	return out, nil
}

func (r *memoryNotificationRepository) FindDigestGroups(_ context.Context, frequency models.Frequency, createdAfter time.Time) ([]models.NotificationGroup, error) {
	index := map[primitive.ObjectID]int{}
	var groups []models.NotificationGroup
	for _, n := range r.notifications {
		if n.EmailSentAt.For(frequency) != nil || !n.CreatedAt.After(createdAfter) {
			continue
		}
		pos, ok := index[n.ReceiverID]
		if !ok {
			groups = append(groups, models.NotificationGroup{ReceiverID: n.ReceiverID, Receiver: r.user(n.ReceiverID)})
			pos = len(groups) - 1
			index[n.ReceiverID] = pos
		}
		groups[pos].Notifications = append(groups[pos].Notifications, n)
	}
	return groups, nil
}

func (r *memoryNotificationRepository) MarkEmailSent(_ context.Context, ids []primitive.ObjectID, frequency models.Frequency, at time.Time) (int64, error) {
	r.markCalls++
	if r.markErr != nil {
		return 0, r.markErr
	}
	want := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var n int64
	for i := range r.notifications {
		if want[r.notifications[i].ID] {
			r.notifications[i].EmailSentAt.Set(frequency, at)
			n++
		}
	}
	return n, nil
}

type memoryRunRepository struct {
	runs []models.FinderRun
}

func (r *memoryRunRepository) Record(_ context.Context, run *models.FinderRun) error {
	r.runs = append(r.runs, *run)
	return nil
}

func (r *memoryRunRepository) Recent(_ context.Context, limit int) ([]models.FinderRun, error) {
	if limit > len(r.runs) {
		limit = len(r.runs)
	}
	return r.runs[:limit], nil
}

// heldRunLock simulates a lock owned by another process
type heldRunLock struct{}

func (heldRunLock) Acquire(context.Context, string, time.Duration) (string, bool, error) {
	return "", false, nil
}

func (heldRunLock) Release(context.Context, string, string) error { return nil }

type stubThreadRepository struct {
	threads []models.Thread
	cutoff  time.Time
	err     error
}

func (r *stubThreadRepository) FindUnreadThreads(_ context.Context, accessedBefore time.Time) ([]models.Thread, error) {
	r.cutoff = accessedBefore
	return r.threads, r.err
}

type stubMessageRepository struct {
	latest map[primitive.ObjectID]models.Message
	calls  int
}

func (r *stubMessageRepository) FindLatestByThreadIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Message, error) {
	r.calls++
	out := make(map[primitive.ObjectID]models.Message)
	for _, id := range ids {
		if m, ok := r.latest[id]; ok {
			out[id] = m
		}
	}
	return out, nil
}
