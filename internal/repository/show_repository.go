package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// ShowRepo provides access to the shows collection, plus the movie and
// theatre collections it cross-references: creating or deleting a show
// also maintains the parent movie's show list, and the seat-map read
// path needs the theatre's capacity.
type ShowRepo struct {
	shows    *mongo.Collection
	movies   *mongo.Collection
	theatres *mongo.Collection
}

// NewShowRepo returns a new ShowRepo bound to the given collections.
func NewShowRepo(shows, movies, theatres *mongo.Collection) *ShowRepo {
	return &ShowRepo{shows: shows, movies: movies, theatres: theatres}
}

// Reserve atomically books the given seats on a show.  The filter and
// update run as one conditional FindOneAndUpdate, so two concurrent
// calls for overlapping seats can never both succeed: the document must
// simultaneously match the show ID, contain none of the requested
// labels in bookedSeats, and have enough availableSeats left.  On
// success the post-update show is returned.  Any non-match collapses
// into ErrSeatsUnavailable.
//
// This is the only code path that writes bookedSeats or availableSeats.
func (r *ShowRepo) Reserve(ctx context.Context, showID primitive.ObjectID, seats []string) (*model.Show, error) {
	filter := bson.M{
		"_id":            showID,
		"bookedSeats":    bson.M{"$nin": seats},
		"availableSeats": bson.M{"$gte": len(seats)},
	}
	update := bson.M{
		"$push": bson.M{"bookedSeats": bson.M{"$each": seats}},
		"$inc":  bson.M{"availableSeats": -len(seats)},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var show model.Show
	if err := r.shows.FindOneAndUpdate(ctx, filter, update, opts).Decode(&show); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSeatsUnavailable
		}
		return nil, err
	}
	return &show, nil
}

// GetByID returns a single show or ErrShowNotFound.
func (r *ShowRepo) GetByID(ctx context.Context, showID primitive.ObjectID) (*model.Show, error) {
	var show model.Show
	if err := r.shows.FindOne(ctx, bson.M{"_id": showID}).Decode(&show); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return &show, nil
}

// GetWithTheatre returns a show together with its theatre.  The
// theatre's totalSeats drives seat-label generation for both the
// seat-map projection and reservation validation.
func (r *ShowRepo) GetWithTheatre(ctx context.Context, showID primitive.ObjectID) (*model.Show, *model.Theatre, error) {
	show, err := r.GetByID(ctx, showID)
	if err != nil {
		return nil, nil, err
	}
	var theatre model.Theatre
	if err := r.theatres.FindOne(ctx, bson.M{"_id": show.Theatre}).Decode(&theatre); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil, ErrTheatreNotFound
		}
		return nil, nil, err
	}
	return show, &theatre, nil
}

// Create inserts a new show and appends its ID to the parent movie's
// show list.  The movie must exist; the generated ID is populated on
// the passed show.
func (r *ShowRepo) Create(ctx context.Context, show *model.Show) error {
	if err := r.movies.FindOne(ctx, bson.M{"_id": show.Movie}).Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrMovieNotFound
		}
		return err
	}
	now := time.Now().UTC()
	show.ID = primitive.NewObjectID()
	if show.BookedSeats == nil {
		show.BookedSeats = []string{}
	}
	show.CreatedAt = now
	show.UpdatedAt = now
	if _, err := r.shows.InsertOne(ctx, show); err != nil {
		return err
	}
	_, err := r.movies.UpdateOne(ctx,
		bson.M{"_id": show.Movie},
		bson.M{"$push": bson.M{"shows": show.ID}, "$set": bson.M{"updatedAt": now}},
	)
	return err
}

// ShowUpdate carries the admin-editable fields of a show.  Nil fields
// are left untouched.  bookedSeats and availableSeats are deliberately
// absent: the only mutation path for those is Reserve.
type ShowUpdate struct {
	ShowDate  *time.Time `json:"showDate"`
	ShowTime  *string    `json:"showTime"`
	SeatPrice *int       `json:"seatPrice"`
}

// Update applies a partial update to a show and returns the updated
// document, or ErrShowNotFound.
func (r *ShowRepo) Update(ctx context.Context, showID primitive.ObjectID, upd ShowUpdate) (*model.Show, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.ShowDate != nil {
		set["showDate"] = *upd.ShowDate
	}
	if upd.ShowTime != nil {
		set["showTime"] = *upd.ShowTime
	}
	if upd.SeatPrice != nil {
		set["seatPrice"] = *upd.SeatPrice
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var show model.Show
	if err := r.shows.FindOneAndUpdate(ctx, bson.M{"_id": showID}, bson.M{"$set": set}, opts).Decode(&show); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return &show, nil
}

// Delete removes a show and detaches it from its parent movie's show
// list.
func (r *ShowRepo) Delete(ctx context.Context, showID primitive.ObjectID) error {
	var show model.Show
	if err := r.shows.FindOneAndDelete(ctx, bson.M{"_id": showID}).Decode(&show); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrShowNotFound
		}
		return err
	}
	_, err := r.movies.UpdateOne(ctx,
		bson.M{"_id": show.Movie},
		bson.M{"$pull": bson.M{"shows": show.ID}, "$set": bson.M{"updatedAt": time.Now().UTC()}},
	)
	return err
}

// PopulatedShow is a show with its movie and theatre summaries filled
// in, as returned by the admin show listing.
type PopulatedShow struct {
	ID             primitive.ObjectID    `json:"id"`
	ShowDate       time.Time             `json:"showDate"`
	ShowTime       string                `json:"showTime"`
	AvailableSeats int                   `json:"availableSeats"`
	BookedSeats    []string              `json:"bookedSeats"`
	SeatPrice      int                   `json:"seatPrice"`
	Movie          *model.MovieSummary   `json:"movie,omitempty"`
	Theatre        *model.TheatreSummary `json:"theatre,omitempty"`
}

// List returns all shows with their movie and theatre populated.
// Population is done in two batched $in queries rather than one query
// per show.
func (r *ShowRepo) List(ctx context.Context) ([]PopulatedShow, error) {
	cursor, err := r.shows.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var shows []model.Show
	if err := cursor.All(ctx, &shows); err != nil {
		return nil, err
	}
	movies, theatres, err := loadSummaries(ctx, r.movies, r.theatres, shows)
	if err != nil {
		return nil, err
	}

	out := make([]PopulatedShow, 0, len(shows))
	for _, s := range shows {
		out = append(out, populate(s, movies, theatres))
	}
	return out, nil
}

// loadSummaries loads the movie and theatre summaries referenced by the
// given shows in two batched $in queries, keyed by ID.  It is shared by
// every read path that populates show references.
func loadSummaries(ctx context.Context, moviesColl, theatresColl *mongo.Collection, shows []model.Show) (map[primitive.ObjectID]model.MovieSummary, map[primitive.ObjectID]model.TheatreSummary, error) {
	movieIDs := make([]primitive.ObjectID, 0, len(shows))
	theatreIDs := make([]primitive.ObjectID, 0, len(shows))
	seenM := make(map[primitive.ObjectID]struct{})
	seenT := make(map[primitive.ObjectID]struct{})
	for _, s := range shows {
		if _, ok := seenM[s.Movie]; !ok {
			seenM[s.Movie] = struct{}{}
			movieIDs = append(movieIDs, s.Movie)
		}
		if _, ok := seenT[s.Theatre]; !ok {
			seenT[s.Theatre] = struct{}{}
			theatreIDs = append(theatreIDs, s.Theatre)
		}
	}

	movies := make(map[primitive.ObjectID]model.MovieSummary, len(movieIDs))
	if len(movieIDs) > 0 {
		cur, err := moviesColl.Find(ctx, bson.M{"_id": bson.M{"$in": movieIDs}})
		if err != nil {
			return nil, nil, err
		}
		var docs []model.MovieSummary
		if err := cur.All(ctx, &docs); err != nil {
			return nil, nil, err
		}
		for _, m := range docs {
			movies[m.ID] = m
		}
	}

	theatres := make(map[primitive.ObjectID]model.TheatreSummary, len(theatreIDs))
	if len(theatreIDs) > 0 {
		cur, err := theatresColl.Find(ctx, bson.M{"_id": bson.M{"$in": theatreIDs}})
		if err != nil {
			return nil, nil, err
		}
		var docs []model.TheatreSummary
		if err := cur.All(ctx, &docs); err != nil {
			return nil, nil, err
		}
		for _, t := range docs {
			theatres[t.ID] = t
		}
	}
	return movies, theatres, nil
}

func populate(s model.Show, movies map[primitive.ObjectID]model.MovieSummary, theatres map[primitive.ObjectID]model.TheatreSummary) PopulatedShow {
	p := PopulatedShow{
		ID:             s.ID,
		ShowDate:       s.ShowDate,
		ShowTime:       s.ShowTime,
		AvailableSeats: s.AvailableSeats,
		BookedSeats:    s.BookedSeats,
		SeatPrice:      s.SeatPrice,
	}
	if p.BookedSeats == nil {
		p.BookedSeats = []string{}
	}
	if m, ok := movies[s.Movie]; ok {
		mc := m
		p.Movie = &mc
	}
	if t, ok := theatres[s.Theatre]; ok {
		tc := t
		p.Theatre = &tc
	}
	return p
}
