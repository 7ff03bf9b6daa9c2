package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the closed set of roles a user may hold.  Values are stored
// verbatim in the users collection and inside JWT claims.  Handlers and
// middleware must never compare raw role strings; they go through
// ParseRole and Role.Can instead.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Capability names an action a role may perform.  Routes declare the
// capability they require and middleware checks it against the caller's
// role.
type Capability string

const (
	// CapBook allows reserving seats and reading one's own bookings.
	CapBook Capability = "book"
	// CapManageCatalog allows administrative CRUD on movies, theatres
	// and shows.
	CapManageCatalog Capability = "manage_catalog"
)

// ParseRole maps a raw string onto the closed role set.  Unknown values
// return false so callers can reject tampered or legacy tokens.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// Can reports whether the role grants the given capability.  Admins can
// do everything a regular user can.
func (r Role) Can(cap Capability) bool {
	switch cap {
	case CapBook:
		return r == RoleUser || r == RoleAdmin
	case CapManageCatalog:
		return r == RoleAdmin
	}
	return false
}

// BookingHistoryEntry is the denormalized summary appended to a user's
// document after a successful booking.  It is convenience data only;
// the bookings collection is the source of truth.
type BookingHistoryEntry struct {
	Show  primitive.ObjectID `bson:"show" json:"show"`
	Seats []string           `bson:"seats" json:"seats"`
}

// User is a document in the users collection.
type User struct {
	ID       primitive.ObjectID    `bson:"_id,omitempty" json:"id"`
	Name     string                `bson:"name" json:"name"`
	Email    string                `bson:"email" json:"email"`
	Password string                `bson:"password" json:"-"`
	Phone    string                `bson:"phone,omitempty" json:"phone,omitempty"`
	Role     Role                  `bson:"role" json:"role"`
	Bookings []BookingHistoryEntry `bson:"bookings,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// UserPublic is the projection of a user safe to embed in API
// responses: name and email, never the password hash.
type UserPublic struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
}

// Public returns the response-safe projection of the user.
func (u *User) Public() UserPublic {
	return UserPublic{ID: u.ID, Name: u.Name, Email: u.Email}
}
