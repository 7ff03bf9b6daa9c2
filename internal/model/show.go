package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultSeatPrice is applied when a show is created without an
// explicit price.
const DefaultSeatPrice = 200

// Show is a document in the shows collection.  BookedSeats and
// AvailableSeats together form the only shared mutable state in the
// system: availableSeats always equals the theatre capacity minus
// len(bookedSeats), and both fields change exclusively through the
// atomic reserve operation in the show repository.  Admin updates may
// touch only ShowDate, ShowTime and SeatPrice.
type Show struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Movie          primitive.ObjectID `bson:"movie" json:"movie"`
	Theatre        primitive.ObjectID `bson:"theatre" json:"theatre"`
	ShowDate       time.Time          `bson:"showDate" json:"showDate"`
	ShowTime       string             `bson:"showTime" json:"showTime"`
	AvailableSeats int                `bson:"availableSeats" json:"availableSeats"`
	BookedSeats    []string           `bson:"bookedSeats" json:"bookedSeats"`
	SeatPrice      int                `bson:"seatPrice" json:"seatPrice"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ShowSummary is the projection of a show embedded in browse responses.
type ShowSummary struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	ShowDate       time.Time          `bson:"showDate" json:"showDate"`
	ShowTime       string             `bson:"showTime" json:"showTime"`
	AvailableSeats int                `bson:"availableSeats" json:"availableSeats"`
	BookedSeats    []string           `bson:"bookedSeats" json:"bookedSeats"`
	SeatPrice      int                `bson:"seatPrice" json:"seatPrice"`
}
