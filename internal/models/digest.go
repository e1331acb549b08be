package models

// ActionCounts tallies notifications of one post by action
type ActionCounts struct {
	Comment int `json:"comment"`
	Like    int `json:"like"`
	Share   int `json:"share"`
	Total   int `json:"total"`
}

// PostDigest is one ranked post in a digest
type PostDigest struct {
	Post   PostRef       `json:"post"`
	Latest *Notification `json:"latest"` // latest comment notification, nil when the post has none
	Counts ActionCounts  `json:"counts"`
}

// Digest is the periodic email content of one receiver
type Digest struct {
	Receiver          UserCompact  `json:"receiver"`
	Posts             []PostDigest `json:"posts"`
	NotificationCount int          `json:"notification_count"`
}
