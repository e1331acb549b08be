package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/anonto42/nano-midea/mailer/internal/models"
	"github.com/anonto42/nano-midea/mailer/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UnreadMessageFinder pairs stale unread direct messages with the user who should be emailed.
// It only reads; nothing marks a message as emailed.
type UnreadMessageFinder struct {
	threads  repositories.ThreadRepository
	messages repositories.MessageRepository
	runs     repositories.RunRepository
	lookback time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewUnreadMessageFinder creates a new UnreadMessageFinder
func NewUnreadMessageFinder(
	threads repositories.ThreadRepository,
	messages repositories.MessageRepository,
	runs repositories.RunRepository,
	lookback time.Duration,
	logger *slog.Logger,
) *UnreadMessageFinder {
	return &UnreadMessageFinder{
		threads:  threads,
		messages: messages,
		runs:     runs,
		lookback: lookback,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// FindUnreadMessages returns the latest message of every thread whose receiver has unread
// messages and has not opened the thread within the lookback interval
func (f *UnreadMessageFinder) FindUnreadMessages(ctx context.Context) (out []models.UnreadMessage, err error) {
	now := f.now()
	run := &models.FinderRun{Kind: models.RunKindMessages, StartedAt: now}
	defer func() { recordRun(ctx, f.runs, f.logger, run, err) }()

	cutoff := now.Add(-f.lookback)
	threads, err := f.threads.FindUnreadThreads(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("find unread threads: %w", err)
	}
	run.Selected = len(threads)
	if len(threads) == 0 {
		return []models.UnreadMessage{}, nil
	}

	ids := make([]primitive.ObjectID, len(threads))
	for i, t := range threads {
		ids[i] = t.ID
	}
	latest, err := f.messages.FindLatestByThreadIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find latest messages: %w", err)
	}

	out = make([]models.UnreadMessage, 0, len(threads))
	for i := range threads {
		msg, reason := f.pairThread(&threads[i], latest, cutoff)
		if reason != "" {
			run.Skipped++
			f.logger.Debug("Skipping thread", "thread_id", threads[i].ID.Hex(), "reason", reason)
			continue
		}
		out = append(out, msg)
	}

	f.logger.Info("Unread messages selected",
		"threads", run.Selected,
		"returned", len(out),
		"skipped", run.Skipped)
	return out, nil
}

// pairThread builds the sender/receiver/message triple of a thread, or explains why it is skipped
func (f *UnreadMessageFinder) pairThread(t *models.Thread, latest map[primitive.ObjectID]models.Message, cutoff time.Time) (models.UnreadMessage, string) {
	sender, receiver, ok := t.ResolvePair()
	if !ok {
		return models.UnreadMessage{}, "sender and receiver cannot be resolved from unread counts"
	}
	if receiver.Status != models.StatusAccepted && receiver.Status != models.StatusPending {
		return models.UnreadMessage{}, "relationship is neither accepted nor pending"
	}
	if !receiver.LastAccessedAt.Before(cutoff) {
		return models.UnreadMessage{}, "receiver opened the thread within the lookback interval"
	}
	receiverUser, ok := t.UserByID(receiver.UserID)
	if !ok {
		return models.UnreadMessage{}, "receiver user not found"
	}
	if receiverUser.InstantMessagesDisabled() {
		return models.UnreadMessage{}, "receiver disabled instant message emails"
	}
	senderUser, ok := t.UserByID(sender.UserID)
	if !ok {
		return models.UnreadMessage{}, "sender user not found"
	}
	msg, ok := latest[t.ID]
	if !ok {
		return models.UnreadMessage{}, "thread has no messages"
	}

	from := senderUser.ToCompact()
	from.Email = ""
	return models.UnreadMessage{
		Sender:   from,
		Receiver: receiverUser.ToCompact(),
		Message:  msg,
	}, ""
}
