package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingStatus is the closed set of states a booking may be in.
// Bookings are created confirmed; status transitions are not exposed by
// the current API.
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusPending   BookingStatus = "pending"
)

/// Booking is a document in the bookings collection: the authoritative
// ledger entry for a confirmed reservation.  TotalAmount is frozen at
// booking time (seat count times the show's price when the seats were
// reserved) and is never recomputed.  ReservationRef ties the ledger
// entry to the seat reservation that produced it, so an orphaned
// reservation can be reconciled if the insert ever fails after the
// seats were taken.
type Booking struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User           primitive.ObjectID `bson:"user" json:"user"`
	Show           primitive.ObjectID `bson:"show" json:"show"`
	Seats          []string           `bson:"seats" json:"seats"`
	TotalAmount    int                `bson:"totalAmount" json:"totalAmount"`
	BookingDate    time.Time          `bson:"bookingDate" json:"bookingDate"`
	Status         BookingStatus      `bson:"status" json:"status"`
	ReservationRef string             `bson:"reservationRef" json:"reservationRef"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// BookingShow nests the movie and theatre summaries under the show a
// booking refers to.  It mirrors the populated documents returned by
// the my-bookings endpoint.
type BookingShow struct {
	ID        primitive.ObjectID `json:"id"`
	ShowDate  time.Time          `json:"showDate"`
	ShowTime  string             `json:"showTime"`
	SeatPrice int                `json:"seatPrice"`
	Movie     *MovieSummary      `json:"movie,omitempty"`
	Theatre   *TheatreSummary    `json:"theatre,omitempty"`
}

// BookingDetail is a booking enriched with its show and the owning
// user's public fields, as returned by the booking endpoints.
type BookingDetail struct {
	Booking
	ShowDetail *BookingShow `json:"showDetail,omitempty"`
	UserDetail *UserPublic  `json:"userDetail,omitempty"`
}
