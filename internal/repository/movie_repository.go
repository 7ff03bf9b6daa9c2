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

// MovieRepo provides CRUD operations on the movies collection.
type MovieRepo struct {
	movies *mongo.Collection
	shows  *mongo.Collection
}

// NewMovieRepo returns a new MovieRepo bound to the given collections.
func NewMovieRepo(movies, shows *mongo.Collection) *MovieRepo {
	return &MovieRepo{movies: movies, shows: shows}
}

// Create inserts a new movie and populates its generated ID.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	now := time.Now().UTC()
	m.ID = primitive.NewObjectID()
	if m.Shows == nil {
		m.Shows = []primitive.ObjectID{}
	}
	m.CreatedAt = now
	m.UpdatedAt = now
	_, err := r.movies.InsertOne(ctx, m)
	return err
}

// PopulatedMovie is a movie with its show documents expanded, as
// returned by the admin movie listing.
type PopulatedMovie struct {
	ID        primitive.ObjectID  `json:"id"`
	MovieName string              `json:"moviename"`
	Duration  string              `json:"duration"`
	Rating    string              `json:"rating,omitempty"`
	Shows     []model.ShowSummary `json:"shows"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// List returns all movies with their shows populated via one batched
// $in query.
func (r *MovieRepo) List(ctx context.Context) ([]PopulatedMovie, error) {
	cur, err := r.movies.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var movies []model.Movie
	if err := cur.All(ctx, &movies); err != nil {
		return nil, err
	}

	showIDs := make([]primitive.ObjectID, 0)
	for _, m := range movies {
		showIDs = append(showIDs, m.Shows...)
	}
	showByID := make(map[primitive.ObjectID]model.ShowSummary, len(showIDs))
	if len(showIDs) > 0 {
		scur, err := r.shows.Find(ctx, bson.M{"_id": bson.M{"$in": showIDs}})
		if err != nil {
			return nil, err
		}
		var docs []model.ShowSummary
		if err := scur.All(ctx, &docs); err != nil {
			return nil, err
		}
		for _, s := range docs {
			showByID[s.ID] = s
		}
	}

	out := make([]PopulatedMovie, 0, len(movies))
	for _, m := range movies {
		pm := PopulatedMovie{
			ID:        m.ID,
			MovieName: m.MovieName,
			Duration:  m.Duration,
			Rating:    m.Rating,
			Shows:     []model.ShowSummary{},
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		}
		for _, id := range m.Shows {
			if s, ok := showByID[id]; ok {
				pm.Shows = append(pm.Shows, s)
			}
		}
		out = append(out, pm)
	}
	return out, nil
}

// MovieUpdate carries the editable fields of a movie.  Nil fields are
// left untouched.
type MovieUpdate struct {
	MovieName *string `json:"moviename"`
	Duration  *string `json:"duration"`
	Rating    *string `json:"rating"`
}

// Update applies a partial update and returns the updated movie, or
// ErrMovieNotFound.
func (r *MovieRepo) Update(ctx context.Context, movieID primitive.ObjectID, upd MovieUpdate) (*model.Movie, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.MovieName != nil {
		set["moviename"] = *upd.MovieName
	}
	if upd.Duration != nil {
		set["duration"] = *upd.Duration
	}
	if upd.Rating != nil {
		set["rating"] = *upd.Rating
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var m model.Movie
	if err := r.movies.FindOneAndUpdate(ctx, bson.M{"_id": movieID}, bson.M{"$set": set}, opts).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Delete removes a movie or returns ErrMovieNotFound.
func (r *MovieRepo) Delete(ctx context.Context, movieID primitive.ObjectID) error {
	res, err := r.movies.DeleteOne(ctx, bson.M{"_id": movieID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrMovieNotFound
	}
	return nil
}
