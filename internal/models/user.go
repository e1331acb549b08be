package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is the subset of a user document this service reads (MongoDB "users")
type User struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	Name        string             `json:"name" bson:"name"`
	Email       string             `json:"email" bson:"email"`
	Preferences Preferences        `json:"preferences" bson:"preferences"`
}

// Preferences groups notification settings per channel
type Preferences struct {
	Email EmailPreferences `json:"email" bson:"email"`
}

// EmailPreferences holds per-category email flags. A nil flag means the user never set it.
// DigestFrequency names the one digest tier the user wants; empty means every tier.
type EmailPreferences struct {
	InstantMessages      *bool  `json:"instant_messages,omitempty" bson:"instant_messages,omitempty"`
	InstantNotifications *bool  `json:"instant_notifications,omitempty" bson:"instant_notifications,omitempty"`
	DigestFrequency      string `json:"digest_frequency,omitempty" bson:"digest_frequency,omitempty"`
}

// InstantMessagesDisabled reports whether the user explicitly turned off instant message emails
func (u *User) InstantMessagesDisabled() bool {
	flag := u.Preferences.Email.InstantMessages
	return flag != nil && !*flag
}

// InstantNotificationsDisabled reports whether the user explicitly turned off instant
// notification emails
func (u *User) InstantNotificationsDisabled() bool {
	flag := u.Preferences.Email.InstantNotifications
	return flag != nil && !*flag
}

// WantsDigest reports whether the user receives digests of the given tier
func (u *User) WantsDigest(f Frequency) bool {
	pref := u.Preferences.Email.DigestFrequency
	return pref == "" || Frequency(pref) == f
}

// UserCompact is the email-facing view of a user
type UserCompact struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email,omitempty"`
}

// ToCompact converts a User to its compact form
func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Name: u.Name, Email: u.Email}
}
