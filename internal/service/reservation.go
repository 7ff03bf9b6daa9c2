// Package service implements the reservation flow: validation, the
// atomic seat reserve, the ledger write and the best-effort
// denormalization that follows.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/queue"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
	"github.com/iliyamo/movie-ticket-booking/internal/seatmap"
)

// ErrNoSeats is returned when a booking request selects no seats.
var ErrNoSeats = errors.New("no seats selected")

// ErrDuplicateSeat is returned when a booking request repeats a seat
// label.  The reserve contract takes distinct labels; a repeated label
// would pass the store's disjointness check while double-counting
// capacity.
var ErrDuplicateSeat = errors.New("duplicate seat label")

// ErrUnknownSeat is returned when a label does not exist for the
// theatre's capacity.  The set of labels reserve accepts is exactly
// the set the seatmap generator produces.
var ErrUnknownSeat = errors.New("unknown seat label")

// ShowStore is the reservation service's view of show persistence.
// Reserve must be atomic with respect to concurrent callers: it either
// books every requested seat or changes nothing and reports
// repository.ErrSeatsUnavailable.
type ShowStore interface {
	GetWithTheatre(ctx context.Context, showID primitive.ObjectID) (*model.Show, *model.Theatre, error)
	Reserve(ctx context.Context, showID primitive.ObjectID, seats []string) (*model.Show, error)
}

// BookingStore is the reservation service's view of the booking
// ledger.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.BookingDetail, error)
}

// UserStore is the reservation service's view of user persistence.
type UserStore interface {
	PublicByID(ctx context.Context, userID primitive.ObjectID) (*model.UserPublic, error)
	AppendBookingSummary(ctx context.Context, userID, showID primitive.ObjectID, seats []string) error
}

// EventPublisher publishes booking events.  Implementations must treat
// publishing as best-effort; the reservation flow ignores their
// errors.
type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, event queue.BookingConfirmedEvent) error
}

// ReservationService orchestrates seat booking.  All show-state
// mutation goes through the store's atomic Reserve; the service itself
// holds no locks and keeps no state, so any number of requests may run
// it concurrently.
type ReservationService struct {
	shows     ShowStore
	bookings  BookingStore
	users     UserStore
	publisher EventPublisher // optional; nil disables events
}

// NewReservationService constructs a ReservationService.  The
// publisher may be nil.
func NewReservationService(shows ShowStore, bookings BookingStore, users UserStore, publisher EventPublisher) *ReservationService {
	if shows == nil || bookings == nil || users == nil {
		panic("nil store passed to NewReservationService")
	}
	return &ReservationService{shows: shows, bookings: bookings, users: users, publisher: publisher}
}

// Book reserves the given seats on a show for a user and writes the
// ledger entry.
//
// Validation failures (ErrNoSeats, ErrDuplicateSeat, ErrUnknownSeat)
// and reservation conflicts (repository.ErrSeatsUnavailable) leave no
// trace in the store.  A missing show is reported as the same
// undifferentiated conflict the store returns; callers cannot probe
// which of the three reserve conditions failed.
//
// The ledger write is not transactionally tied to the reserve.  If it
// fails the seats stay booked and the error is returned; the orphaned
// reservation is logged with its reservation ref for reconciliation.
// The booking-history append and the event publish that follow are
// best-effort and never affect the outcome.
func (s *ReservationService) Book(ctx context.Context, userID, showID primitive.ObjectID, seats []string) (*model.BookingDetail, error) {
	if len(seats) == 0 {
		return nil, ErrNoSeats
	}
	seen := make(map[string]struct{}, len(seats))
	for _, l := range seats {
		if _, dup := seen[l]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSeat, l)
		}
		seen[l] = struct{}{}
	}

	_, theatre, err := s.shows.GetWithTheatre(ctx, showID)
	if err != nil {
		if errors.Is(err, repository.ErrShowNotFound) || errors.Is(err, repository.ErrTheatreNotFound) {
			return nil, repository.ErrSeatsUnavailable
		}
		return nil, err
	}
	valid := seatmap.LabelSet(theatre.TotalSeats)
	for _, l := range seats {
		if _, ok := valid[l]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSeat, l)
		}
	}

	show, err := s.shows.Reserve(ctx, showID, seats)
	if err != nil {
		return nil, err
	}

	// Price is read from the post-reservation document and frozen on
	// the ledger entry.
	booking := &model.Booking{
		User:           userID,
		Show:           showID,
		Seats:          seats,
		TotalAmount:    len(seats) * show.SeatPrice,
		BookingDate:    time.Now().UTC(),
		Status:         model.BookingStatusConfirmed,
		ReservationRef: uuid.NewString(),
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		log.Printf("reservation: ledger write failed, seats remain reserved: show=%s ref=%s seats=%v: %v",
			showID.Hex(), booking.ReservationRef, seats, err)
		return nil, err
	}

	if err := s.users.AppendBookingSummary(ctx, userID, showID, seats); err != nil {
		log.Printf("reservation: booking history append failed for user=%s: %v", userID.Hex(), err)
	}
	if s.publisher != nil {
		_ = s.publisher.PublishBookingConfirmed(ctx, queue.BookingConfirmedEvent{
			BookingID:      booking.ID.Hex(),
			ReservationRef: booking.ReservationRef,
			UserID:         userID.Hex(),
			ShowID:         showID.Hex(),
			Seats:          seats,
			TotalAmount:    booking.TotalAmount,
			ConfirmedAt:    booking.BookingDate.Format(time.RFC3339),
		})
	}

	detail := &model.BookingDetail{
		Booking: *booking,
		ShowDetail: &model.BookingShow{
			ID:        show.ID,
			ShowDate:  show.ShowDate,
			ShowTime:  show.ShowTime,
			SeatPrice: show.SeatPrice,
		},
	}
	if pub, err := s.users.PublicByID(ctx, userID); err == nil {
		detail.UserDetail = pub
	} else {
		log.Printf("reservation: user lookup for response failed: %v", err)
	}
	return detail, nil
}

// SeatMap is the read-path projection of a show's seating.
type SeatMap struct {
	ShowID              string   `json:"showId"`
	TotalSeats          int      `json:"totalSeats"`
	BookedSeats         []string `json:"bookedSeats"`
	AvailableSeats      []string `json:"availableSeats"`
	AvailableSeatsCount int      `json:"availableSeatsCount"`
	SeatPrice           int      `json:"seatPrice"`
}

// SeatMapFor regenerates the seat-label universe from the theatre's
// capacity and subtracts the show's booked seats.  The generator is
// the same one Book validates against, so the labels shown here are
// exactly the labels reserve accepts.
func (s *ReservationService) SeatMapFor(ctx context.Context, showID primitive.ObjectID) (*SeatMap, error) {
	show, theatre, err := s.shows.GetWithTheatre(ctx, showID)
	if err != nil {
		return nil, err
	}
	booked := show.BookedSeats
	if booked == nil {
		booked = []string{}
	}
	return &SeatMap{
		ShowID:              show.ID.Hex(),
		TotalSeats:          theatre.TotalSeats,
		BookedSeats:         booked,
		AvailableSeats:      seatmap.Available(theatre.TotalSeats, booked),
		AvailableSeatsCount: show.AvailableSeats,
		SeatPrice:           show.SeatPrice,
	}, nil
}

// ListBookings returns the user's bookings newest-first with nested
// show, movie and theatre summaries.
func (s *ReservationService) ListBookings(ctx context.Context, userID primitive.ObjectID) ([]model.BookingDetail, error) {
	return s.bookings.ListByUser(ctx, userID)
}
