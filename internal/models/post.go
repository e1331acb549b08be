package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// PostRef is the post snapshot embedded in a notification
type PostRef struct {
	ID       primitive.ObjectID `json:"id" bson:"id"`
	Title    string             `json:"title,omitempty" bson:"title,omitempty"`
	AuthorID primitive.ObjectID `json:"author_id,omitempty" bson:"author_id,omitempty"`
}
