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

// TheatreRepo provides CRUD operations on the theatres collection.
type TheatreRepo struct {
	theatres *mongo.Collection
}

// NewTheatreRepo returns a new TheatreRepo bound to the given
// collection.
func NewTheatreRepo(theatres *mongo.Collection) *TheatreRepo {
	return &TheatreRepo{theatres: theatres}
}

// Create inserts a new theatre and populates its generated ID.
func (r *TheatreRepo) Create(ctx context.Context, t *model.Theatre) error {
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.CreatedAt = now
	t.UpdatedAt = now
	_, err := r.theatres.InsertOne(ctx, t)
	return err
}

// List returns all theatres.
func (r *TheatreRepo) List(ctx context.Context) ([]model.Theatre, error) {
	cur, err := r.theatres.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	theatres := make([]model.Theatre, 0)
	if err := cur.All(ctx, &theatres); err != nil {
		return nil, err
	}
	return theatres, nil
}

// GetByID returns a single theatre or ErrTheatreNotFound.
func (r *TheatreRepo) GetByID(ctx context.Context, theatreID primitive.ObjectID) (*model.Theatre, error) {
	var t model.Theatre
	if err := r.theatres.FindOne(ctx, bson.M{"_id": theatreID}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTheatreNotFound
		}
		return nil, err
	}
	return &t, nil
}

// TheatreUpdate carries the editable fields of a theatre.  Nil fields
// are left untouched.  TotalSeats is intentionally absent: changing a
// hall's capacity under scheduled shows would break the seat-label
// universe those shows were booked against.
type TheatreUpdate struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	City    *string `json:"city"`
}

// Update applies a partial update and returns the updated theatre, or
// ErrTheatreNotFound.
func (r *TheatreRepo) Update(ctx context.Context, theatreID primitive.ObjectID, upd TheatreUpdate) (*model.Theatre, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Address != nil {
		set["address"] = *upd.Address
	}
	if upd.City != nil {
		set["city"] = *upd.City
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var t model.Theatre
	if err := r.theatres.FindOneAndUpdate(ctx, bson.M{"_id": theatreID}, bson.M{"$set": set}, opts).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTheatreNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Delete removes a theatre or returns ErrTheatreNotFound.
func (r *TheatreRepo) Delete(ctx context.Context, theatreID primitive.ObjectID) error {
	res, err := r.theatres.DeleteOne(ctx, bson.M{"_id": theatreID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrTheatreNotFound
	}
	return nil
}
