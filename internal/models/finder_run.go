package models

import "time"

// FinderRun is an audit row written for every finder invocation (PostgreSQL)
type FinderRun struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	Kind       string    `json:"kind" gorm:"size:20;index"` // messages, notifications
	Frequency  string    `json:"frequency,omitempty" gorm:"size:20;index"`
	Selected   int       `json:"selected"`
	Skipped    int       `json:"skipped"`
	Stamped    int       `json:"stamped"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at" gorm:"index"`
	FinishedAt time.Time `json:"finished_at"`
}

const (
	RunKindMessages      = "messages"
	RunKindNotifications = "notifications"
)
