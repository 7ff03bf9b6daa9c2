package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// Read-only browse projections.  These queries never touch
// bookedSeats/availableSeats beyond reading them, and their grouping
// preserves first-seen order so responses are stable.

// MovieTheatres groups a movie with every theatre in the requested city
// currently screening it.
type MovieTheatres struct {
	ID        primitive.ObjectID     `json:"id"`
	MovieName string                 `json:"moviename"`
	Duration  string                 `json:"duration"`
	Rating    string                 `json:"rating,omitempty"`
	Theatres  []model.TheatreSummary `json:"theatres"`
}

// MoviesByCity returns the movies playing in a city, each with the
// deduplicated list of theatres screening them.  City matching is a
// case-insensitive exact match.
func (r *ShowRepo) MoviesByCity(ctx context.Context, city string) ([]MovieTheatres, error) {
	cityFilter := bson.M{"city": primitive.Regex{
		Pattern: "^" + regexp.QuoteMeta(city) + "$",
		Options: "i",
	}}
	tcur, err := r.theatres.Find(ctx, cityFilter)
	if err != nil {
		return nil, err
	}
	var theatres []model.TheatreSummary
	if err := tcur.All(ctx, &theatres); err != nil {
		return nil, err
	}
	if len(theatres) == 0 {
		return []MovieTheatres{}, nil
	}
	theatreByID := make(map[primitive.ObjectID]model.TheatreSummary, len(theatres))
	theatreIDs := make([]primitive.ObjectID, 0, len(theatres))
	for _, t := range theatres {
		theatreByID[t.ID] = t
		theatreIDs = append(theatreIDs, t.ID)
	}

	scur, err := r.shows.Find(ctx, bson.M{"theatre": bson.M{"$in": theatreIDs}})
	if err != nil {
		return nil, err
	}
	var shows []model.Show
	if err := scur.All(ctx, &shows); err != nil {
		return nil, err
	}

	movies, _, err := loadSummaries(ctx, r.movies, r.theatres, shows)
	if err != nil {
		return nil, err
	}

	out := make([]MovieTheatres, 0, len(movies))
	index := make(map[primitive.ObjectID]int)
	for _, s := range shows {
		m, ok := movies[s.Movie]
		if !ok {
			continue
		}
		i, seen := index[s.Movie]
		if !seen {
			index[s.Movie] = len(out)
			i = len(out)
			out = append(out, MovieTheatres{
				ID:        m.ID,
				MovieName: m.MovieName,
				Duration:  m.Duration,
				Rating:    m.Rating,
				Theatres:  []model.TheatreSummary{},
			})
		}
		t, ok := theatreByID[s.Theatre]
		if !ok {
			continue
		}
		dup := false
		for _, existing := range out[i].Theatres {
			if existing.ID == t.ID {
				dup = true
				break
			}
		}
		if !dup {
			out[i].Theatres = append(out[i].Theatres, t)
		}
	}
	return out, nil
}

// TheatreShowDetail carries the theatre fields shown on the per-theatre
// show listing, including the capacity used to size seat maps.
type TheatreShowDetail struct {
	ID         primitive.ObjectID `json:"id"`
	Name       string             `json:"name"`
	Address    string             `json:"address"`
	City       string             `json:"city"`
	TotalSeats int                `json:"totalSeats"`
}

// ShowSlot is one screening slot in a theatre's listing.
type ShowSlot struct {
	ID               primitive.ObjectID `json:"id"`
	ShowDate         time.Time          `json:"showDate"`
	ShowTime         string             `json:"showTime"`
	AvailableSeats   int                `json:"availableSeats"`
	BookedSeats      []string           `json:"bookedSeats"`
	SeatPrice        int                `json:"seatPrice"`
	TotalSeats       int                `json:"totalSeats"`
	BookedSeatsCount int                `json:"bookedSeatsCount"`
}

// TheatreMovieShows groups a theatre's screenings by movie.
type TheatreMovieShows struct {
	Movie   model.MovieSummary `json:"movie"`
	Theatre TheatreShowDetail  `json:"theatre"`
	Shows   []ShowSlot         `json:"shows"`
}

// ShowsByTheatre returns the shows scheduled at a theatre, ordered by
// date then time and grouped by movie.  ErrTheatreNotFound is returned
// when the theatre does not exist.
func (r *ShowRepo) ShowsByTheatre(ctx context.Context, theatreID primitive.ObjectID) ([]TheatreMovieShows, error) {
	var theatre model.Theatre
	if err := r.theatres.FindOne(ctx, bson.M{"_id": theatreID}).Decode(&theatre); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTheatreNotFound
		}
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "showDate", Value: 1}, {Key: "showTime", Value: 1}})
	cur, err := r.shows.Find(ctx, bson.M{"theatre": theatreID}, opts)
	if err != nil {
		return nil, err
	}
	var shows []model.Show
	if err := cur.All(ctx, &shows); err != nil {
		return nil, err
	}

	movies, _, err := loadSummaries(ctx, r.movies, r.theatres, shows)
	if err != nil {
		return nil, err
	}

	detail := TheatreShowDetail{
		ID:         theatre.ID,
		Name:       theatre.Name,
		Address:    theatre.Address,
		City:       theatre.City,
		TotalSeats: theatre.TotalSeats,
	}

	out := make([]TheatreMovieShows, 0, len(movies))
	index := make(map[primitive.ObjectID]int)
	for _, s := range shows {
		m, ok := movies[s.Movie]
		if !ok {
			continue
		}
		i, seen := index[s.Movie]
		if !seen {
			index[s.Movie] = len(out)
			i = len(out)
			out = append(out, TheatreMovieShows{Movie: m, Theatre: detail, Shows: []ShowSlot{}})
		}
		booked := s.BookedSeats
		if booked == nil {
			booked = []string{}
		}
		out[i].Shows = append(out[i].Shows, ShowSlot{
			ID:               s.ID,
			ShowDate:         s.ShowDate,
			ShowTime:         s.ShowTime,
			AvailableSeats:   s.AvailableSeats,
			BookedSeats:      booked,
			SeatPrice:        s.SeatPrice,
			TotalSeats:       theatre.TotalSeats,
			BookedSeatsCount: len(booked),
		})
	}
	return out, nil
}
