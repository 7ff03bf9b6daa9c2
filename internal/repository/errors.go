// Package repository implements data access against MongoDB.  The
// sentinel errors defined here let handlers and the reservation service
// translate store outcomes into HTTP statuses with errors.Is instead of
// inspecting driver errors.
package repository

import "errors"

// ErrSeatsUnavailable is the single, undifferentiated conflict returned
// by the atomic reserve.  Wrong show ID, an already-taken seat and
// insufficient remaining capacity are deliberately indistinguishable:
// the conditional update either matched a document or it did not.
var ErrSeatsUnavailable = errors.New("seats unavailable")

// ErrShowNotFound is returned when a show lookup matches nothing.
var ErrShowNotFound = errors.New("show not found")

// ErrMovieNotFound is returned when a movie lookup matches nothing.
var ErrMovieNotFound = errors.New("movie not found")

// ErrTheatreNotFound is returned when a theatre lookup matches nothing.
var ErrTheatreNotFound = errors.New("theatre not found")

// ErrUserNotFound is returned when a user lookup matches nothing.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailExists is returned when registering with an email that is
// already taken.  Handlers translate it into HTTP 409.
var ErrEmailExists = errors.New("email already exists")
