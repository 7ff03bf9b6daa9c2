package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Movie is a document in the movies collection.  Shows holds the IDs of
// every show scheduled for this movie; it is maintained by the admin
// show endpoints (append on create, pull on delete).
type Movie struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	MovieName string               `bson:"moviename" json:"moviename"`
	Duration  string               `bson:"duration" json:"duration"`
	Rating    string               `bson:"rating,omitempty" json:"rating,omitempty"`
	Shows     []primitive.ObjectID `bson:"shows,omitempty" json:"shows,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// MovieSummary is the projection of a movie embedded in browse and
// booking responses.
type MovieSummary struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	MovieName string             `bson:"moviename" json:"moviename"`
	Duration  string             `bson:"duration" json:"duration"`
	Rating    string             `bson:"rating,omitempty" json:"rating,omitempty"`
}
