package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Action is the interaction that produced a notification
type Action string

const (
	ActionComment Action = "comment"
	ActionLike    Action = "like"
	ActionShare   Action = "share"
)

// Frequency is an email tier
type Frequency string

const (
	FrequencyInstant  Frequency = "instant"
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
)

// SentField is the dotted path of this tier's sent stamp
func (f Frequency) SentField() string {
	return "email_sent_at." + string(f)
}

// IsDigest reports whether the tier is batched
func (f Frequency) IsDigest() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly:
		return true
	}
	return false
}

// Window is the digest lookback for the tier
func (f Frequency) Window() (time.Duration, error) {
	switch f {
	case FrequencyDaily:
		return 24 * time.Hour, nil
	case FrequencyWeekly:
		return 7 * 24 * time.Hour, nil
	case FrequencyBiweekly:
		return 14 * 24 * time.Hour, nil
	}
	return 0, fmt.Errorf("no digest window for frequency %q", string(f))
}

// Notification is a pending notification stored in MongoDB ("notifications")
type Notification struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	ReceiverID  primitive.ObjectID `json:"receiver_id" bson:"receiver_id"`
	ActorID     primitive.ObjectID `json:"actor_id,omitempty" bson:"actor_id,omitempty"`
	Post        PostRef            `json:"post" bson:"post"`
	Action      Action             `json:"action" bson:"action"`
	Comment     string             `json:"comment,omitempty" bson:"comment,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	ReadAt      *time.Time         `json:"read_at,omitempty" bson:"read_at,omitempty"`
	EmailSentAt EmailSentAt        `json:"email_sent_at" bson:"email_sent_at"`
}

// EmailSentAt holds one sent stamp per tier
type EmailSentAt struct {
	Instant  *time.Time `json:"instant,omitempty" bson:"instant,omitempty"`
	Daily    *time.Time `json:"daily,omitempty" bson:"daily,omitempty"`
	Weekly   *time.Time `json:"weekly,omitempty" bson:"weekly,omitempty"`
	Biweekly *time.Time `json:"biweekly,omitempty" bson:"biweekly,omitempty"`
}

// For returns the stamp of the given tier
func (s EmailSentAt) For(f Frequency) *time.Time {
	switch f {
	case FrequencyInstant:
		return s.Instant
	case FrequencyDaily:
		return s.Daily
	case FrequencyWeekly:
		return s.Weekly
	case FrequencyBiweekly:
		return s.Biweekly
	}
	return nil
}

// Set stamps the given tier
func (s *EmailSentAt) Set(f Frequency, at time.Time) {
	switch f {
	case FrequencyInstant:
		s.Instant = &at
	case FrequencyDaily:
		s.Daily = &at
	case FrequencyWeekly:
		s.Weekly = &at
	case FrequencyBiweekly:
		s.Biweekly = &at
	}
}

// InstantNotification is a notification ready for an immediate email
type InstantNotification struct {
	Notification Notification `json:"notification"`
	Receiver     UserCompact  `json:"receiver"`
}

// NotificationGroup is every candidate notification of one receiver, as grouped by the database
type NotificationGroup struct {
	ReceiverID    primitive.ObjectID `bson:"_id"`
	Notifications []Notification     `bson:"notifications"`
	Receiver      *User              `bson:"receiver,omitempty"`
}

// NotificationCandidate is a notification with its receiver joined in. Receiver is nil when
// the user record no longer exists.
type NotificationCandidate struct {
	Notification `bson:",inline"`
	Receiver     *User `bson:"receiver,omitempty"`
}
