package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// BookingRepo provides access to the bookings collection: the
// authoritative ledger of confirmed reservations.  Ledger entries are
// insert-only; nothing in the current API mutates a booking after
// creation.
type BookingRepo struct {
	bookings *mongo.Collection
	shows    *mongo.Collection
	movies   *mongo.Collection
	theatres *mongo.Collection
}

// NewBookingRepo returns a new BookingRepo bound to the given
// collections.  The show, movie and theatre handles are used only to
// populate nested summaries on reads.
func NewBookingRepo(bookings, shows, movies, theatres *mongo.Collection) *BookingRepo {
	return &BookingRepo{bookings: bookings, shows: shows, movies: movies, theatres: theatres}
}

// Create inserts a ledger entry and populates its generated ID and
// timestamps on the passed booking.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	now := time.Now().UTC()
	b.ID = primitive.NewObjectID()
	if b.BookingDate.IsZero() {
		b.BookingDate = now
	}
	b.CreatedAt = now
	b.UpdatedAt = now
	_, err := r.bookings.InsertOne(ctx, b)
	return err
}

// ListByUser returns the user's bookings newest-first, each with its
// show, movie and theatre summaries populated.  Population runs as
// batched $in queries, one per collection.
func (r *BookingRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.BookingDetail, error) {
	opts := options.Find().SetSort(bson.D{{Key: "bookingDate", Value: -1}})
	cur, err := r.bookings.Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, err
	}
	var bookings []model.Booking
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, err
	}

	showIDs := make([]primitive.ObjectID, 0, len(bookings))
	seen := make(map[primitive.ObjectID]struct{})
	for _, b := range bookings {
		if _, ok := seen[b.Show]; !ok {
			seen[b.Show] = struct{}{}
			showIDs = append(showIDs, b.Show)
		}
	}

	showByID := make(map[primitive.ObjectID]model.Show, len(showIDs))
	var shows []model.Show
	if len(showIDs) > 0 {
		scur, err := r.shows.Find(ctx, bson.M{"_id": bson.M{"$in": showIDs}})
		if err != nil {
			return nil, err
		}
		if err := scur.All(ctx, &shows); err != nil {
			return nil, err
		}
		for _, s := range shows {
			showByID[s.ID] = s
		}
	}

	movieByID, theatreByID, err := loadSummaries(ctx, r.movies, r.theatres, shows)
	if err != nil {
		return nil, err
	}

	out := make([]model.BookingDetail, 0, len(bookings))
	for _, b := range bookings {
		d := model.BookingDetail{Booking: b}
		if s, ok := showByID[b.Show]; ok {
			bs := &model.BookingShow{
				ID:        s.ID,
				ShowDate:  s.ShowDate,
				ShowTime:  s.ShowTime,
				SeatPrice: s.SeatPrice,
			}
			if m, ok := movieByID[s.Movie]; ok {
				mc := m
				bs.Movie = &mc
			}
			if t, ok := theatreByID[s.Theatre]; ok {
				tc := t
				bs.Theatre = &tc
			}
			d.ShowDetail = bs
		}
		out = append(out, d)
	}
	return out, nil
}
