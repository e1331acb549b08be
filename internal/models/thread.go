package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RelationshipStatus is the state of a participant's connection to the other side of a thread
type RelationshipStatus string

const (
	StatusAccepted RelationshipStatus = "accepted"
	StatusPending  RelationshipStatus = "pending"
	StatusDeclined RelationshipStatus = "declined"
)

// Thread is a direct message thread stored in MongoDB ("threads"). Users is filled by a $lookup.
type Thread struct {
	ID           primitive.ObjectID `json:"id" bson:"_id"`
	Participants []Participant      `json:"participants" bson:"participants"`
	Users        []User             `json:"users,omitempty" bson:"users,omitempty"`
}

// Participant is one side of a thread
type Participant struct {
	UserID         primitive.ObjectID `json:"user_id" bson:"user_id"`
	UnreadCount    int                `json:"unread_count" bson:"unread_count"`
	LastAccessedAt time.Time          `json:"last_accessed_at" bson:"last_accessed_at"`
	Status         RelationshipStatus `json:"status" bson:"status"`
}

// ResolvePair splits a two-party thread into sender and receiver.
// The receiver is the only participant with unread messages; ok is false otherwise.
func (t *Thread) ResolvePair() (sender, receiver Participant, ok bool) {
	if len(t.Participants) != 2 {
		return Participant{}, Participant{}, false
	}
	a, b := t.Participants[0], t.Participants[1]
	switch {
	case a.UnreadCount == 0 && b.UnreadCount > 0:
		return a, b, true
	case b.UnreadCount == 0 && a.UnreadCount > 0:
		return b, a, true
	}
	return Participant{}, Participant{}, false
}

// UserByID returns the joined user record with the given id
func (t *Thread) UserByID(id primitive.ObjectID) (*User, bool) {
	for i := range t.Users {
		if t.Users[i].ID == id {
			return &t.Users[i], true
		}
	}
	return nil, false
}
