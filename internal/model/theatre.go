package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Theatre is a document in the theatres collection.  TotalSeats is the
// fixed capacity of the hall and the sole input to seat-label
// generation (see the seatmap package).
type Theatre struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Address    string             `bson:"address" json:"address"`
	City       string             `bson:"city" json:"city"`
	TotalSeats int                `bson:"totalSeats" json:"totalSeats"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// TheatreSummary is the projection of a theatre embedded in browse and
// booking responses.
type TheatreSummary struct {
	ID      primitive.ObjectID `bson:"_id" json:"id"`
	Name    string             `bson:"name" json:"name"`
	Address string             `bson:"address" json:"address"`
	City    string             `bson:"city" json:"city"`
}
