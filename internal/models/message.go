package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a direct message stored in MongoDB ("messages")
type Message struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	ThreadID  primitive.ObjectID `json:"thread_id" bson:"thread_id"`
	SenderID  primitive.ObjectID `json:"sender_id" bson:"sender_id"`
	Body      string             `json:"body" bson:"body"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// UnreadMessage pairs a thread's latest message with who sent it and who should be emailed
type UnreadMessage struct {
	Sender   UserCompact `json:"sender"`
	Receiver UserCompact `json:"receiver"`
	Message  Message     `json:"message"`
}
