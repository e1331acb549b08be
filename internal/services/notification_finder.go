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

const lockKeyPrefix = "mailer:lock:notifications:"

// NotificationResult holds the outcome of one lookup. Notifications is filled for the instant
// tier and Digests for the batched tiers.
type NotificationResult struct {
	Frequency     models.Frequency             `json:"frequency"`
	Notifications []models.InstantNotification `json:"notifications,omitempty"`
	Digests       []models.Digest              `json:"digests,omitempty"`
}

// NotificationFinder selects notifications due for email and stamps them as sent
type NotificationFinder struct {
	notifications repositories.NotificationRepository
	runs          repositories.RunRepository
	lock          repositories.RunLock
	lookback      time.Duration
	lockTTL       time.Duration
	logger        *slog.Logger
	now           func() time.Time
}

// NewNotificationFinder creates a new NotificationFinder
func NewNotificationFinder(
	notifications repositories.NotificationRepository,
	runs repositories.RunRepository,
	lock repositories.RunLock,
	lookback, lockTTL time.Duration,
	logger *slog.Logger,
) *NotificationFinder {
	return &NotificationFinder{
		notifications: notifications,
		runs:          runs,
		lock:          lock,
		lookback:      lookback,
		lockTTL:       lockTTL,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// FindNotifications dispatches to the instant or digest lookup for the named frequency
func (f *NotificationFinder) FindNotifications(ctx context.Context, frequency string) (*NotificationResult, error) {
	freq, err := ParseFrequency(frequency)
	if err != nil {
		return nil, err
	}

	key := lockKeyPrefix + string(freq)
	token, ok, err := f.lock.Acquire(ctx, key, f.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunInProgress, freq)
	}
	defer func() {
		if err := f.lock.Release(context.WithoutCancel(ctx), key, token); err != nil {
			f.logger.Warn("Failed to release run lock", "key", key, "error", err)
		}
	}()

	result := &NotificationResult{Frequency: freq}
	if freq == models.FrequencyInstant {
		result.Notifications, err = f.FindInstant(ctx)
	} else {
		result.Digests, err = f.FindDigests(ctx, freq)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// FindInstant returns unread notifications older than the lookback interval and stamps their
// instant tier before returning them
func (f *NotificationFinder) FindInstant(ctx context.Context) (out []models.InstantNotification, err error) {
	now := f.now()
	run := &models.FinderRun{Kind: models.RunKindNotifications, Frequency: string(models.FrequencyInstant), StartedAt: now}
	defer func() { recordRun(ctx, f.runs, f.logger, run, err) }()

	candidates, err := f.notifications.FindInstantCandidates(ctx, now.Add(-f.lookback))
	if err != nil {
		return nil, fmt.Errorf("find instant notifications: %w", err)
	}
	run.Selected = len(candidates)

	out = make([]models.InstantNotification, 0, len(candidates))
	ids := make([]primitive.ObjectID, 0, len(candidates))
	for _, c := range candidates {
		if c.Receiver == nil {
			run.Skipped++
			f.logger.Warn("Skipping notification without receiver",
				"notification_id", c.ID.Hex(),
				"receiver_id", c.ReceiverID.Hex())
			continue
		}
		if c.Receiver.InstantNotificationsDisabled() {
			// stamped so the opt-out is not reselected on every run
			run.Skipped++
			ids = append(ids, c.ID)
			f.logger.Debug("Skipping notification for opted-out receiver",
				"notification_id", c.ID.Hex(),
				"receiver_id", c.ReceiverID.Hex())
			continue
		}
		n := c.Notification
		n.EmailSentAt.Set(models.FrequencyInstant, now)
		out = append(out, models.InstantNotification{Notification: n, Receiver: c.Receiver.ToCompact()})
		ids = append(ids, c.ID)
	}

	stamped, err := f.notifications.MarkEmailSent(ctx, ids, models.FrequencyInstant, now)
	if err != nil {
		return nil, fmt.Errorf("stamp instant notifications: %w", err)
	}
	run.Stamped = int(stamped)

	f.logger.Info("Instant notifications selected",
		"selected", run.Selected,
		"returned", len(out),
		"skipped", run.Skipped,
		"stamped", stamped)
	return out, nil
}

// FindDigests builds one digest per receiver from the notifications created inside the tier's
// window. Every notification of a receiver that exists is stamped, including receivers who
// prefer another tier or whose notifications carry no known action.
func (f *NotificationFinder) FindDigests(ctx context.Context, frequency models.Frequency) (digests []models.Digest, err error) {
	now := f.now()
	run := &models.FinderRun{Kind: models.RunKindNotifications, Frequency: string(frequency), StartedAt: now}
	defer func() { recordRun(ctx, f.runs, f.logger, run, err) }()

	window, err := frequency.Window()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownFrequency, err)
	}

	groups, err := f.notifications.FindDigestGroups(ctx, frequency, now.Add(-window))
	if err != nil {
		return nil, fmt.Errorf("find %s digest notifications: %w", frequency, err)
	}

	digests = make([]models.Digest, 0, len(groups))
	var ids []primitive.ObjectID
	for _, g := range groups {
		run.Selected += len(g.Notifications)
		if g.Receiver == nil {
			run.Skipped += len(g.Notifications)
			f.logger.Warn("Skipping digest without receiver",
				"frequency", frequency,
				"receiver_id", g.ReceiverID.Hex(),
				"notifications", len(g.Notifications))
			continue
		}
		if len(g.Notifications) == 0 {
			continue
		}
		for _, n := range g.Notifications {
			ids = append(ids, n.ID)
		}

		if !g.Receiver.WantsDigest(frequency) {
			run.Skipped += len(g.Notifications)
			f.logger.Debug("Skipping digest for receiver on another tier",
				"frequency", frequency,
				"receiver_id", g.ReceiverID.Hex(),
				"preferred", g.Receiver.Preferences.Email.DigestFrequency)
			continue
		}
		posts := AggregateDigest(g.Notifications)
		if len(posts) == 0 {
			run.Skipped += len(g.Notifications)
			f.logger.Warn("Skipping digest without known actions",
				"frequency", frequency,
				"receiver_id", g.ReceiverID.Hex())
			continue
		}

		digests = append(digests, models.Digest{
			Receiver:          g.Receiver.ToCompact(),
			Posts:             posts,
			NotificationCount: len(g.Notifications),
		})
	}

	stamped, err := f.notifications.MarkEmailSent(ctx, ids, frequency, now)
	if err != nil {
		return nil, fmt.Errorf("stamp %s notifications: %w", frequency, err)
	}
	run.Stamped = int(stamped)

	f.logger.Info("Digests built",
		"frequency", frequency,
		"receivers", len(digests),
		"selected", run.Selected,
		"skipped", run.Skipped,
		"stamped", stamped)
	return digests, nil
}
