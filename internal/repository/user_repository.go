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

// UserRepo provides access to the users collection.
type UserRepo struct {
	users *mongo.Collection
}

// NewUserRepo returns a new UserRepo bound to the given collection.
func NewUserRepo(users *mongo.Collection) *UserRepo {
	return &UserRepo{users: users}
}

// Create inserts a new user.  The email must be unique; ErrEmailExists
// is returned when it is already taken.  The generated ID is populated
// on the passed user.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	if err := r.users.FindOne(ctx, bson.M{"email": u.Email}).Err(); err == nil {
		return ErrEmailExists
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.CreatedAt = now
	u.UpdatedAt = now
	_, err := r.users.InsertOne(ctx, u)
	return err
}

// GetByEmail returns the user with the given email or ErrUserNotFound.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByID returns the user with the given ID or ErrUserNotFound.
func (r *UserRepo) GetByID(ctx context.Context, userID primitive.ObjectID) (*model.User, error) {
	var u model.User
	if err := r.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// PublicByID returns the response-safe projection of a user (name and
// email, never the password hash).
func (r *UserRepo) PublicByID(ctx context.Context, userID primitive.ObjectID) (*model.UserPublic, error) {
	u, err := r.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	pub := u.Public()
	return &pub, nil
}

// AdminUpdate carries the optional fields of a register-admin upsert.
type AdminUpdate struct {
	Name         string
	Phone        string
	PasswordHash string
}

// PromoteToAdmin raises an existing user to the admin role, optionally
// replacing name, phone and password, and returns the updated user.
func (r *UserRepo) PromoteToAdmin(ctx context.Context, email string, upd AdminUpdate) (*model.User, error) {
	set := bson.M{"role": model.RoleAdmin, "updatedAt": time.Now().UTC()}
	if upd.Name != "" {
		set["name"] = upd.Name
	}
	if upd.Phone != "" {
		set["phone"] = upd.Phone
	}
	if upd.PasswordHash != "" {
		set["password"] = upd.PasswordHash
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u model.User
	if err := r.users.FindOneAndUpdate(ctx, bson.M{"email": email}, bson.M{"$set": set}, opts).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// AppendBookingSummary appends a denormalized {show, seats} entry to
// the user's booking history.  Callers treat failures as non-fatal; the
// bookings collection remains the source of truth.
func (r *UserRepo) AppendBookingSummary(ctx context.Context, userID, showID primitive.ObjectID, seats []string) error {
	entry := model.BookingHistoryEntry{Show: showID, Seats: seats}
	res, err := r.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$push": bson.M{"bookings": entry}, "$set": bson.M{"updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}
