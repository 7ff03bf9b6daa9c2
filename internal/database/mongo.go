package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Open connects to MongoDB and verifies the connection with a ping.
// The returned client is the single handle for the process; it is
// constructed here and passed to the repositories, never stored in a
// package-level variable.
func Open(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client, nil
}

// Collections groups the collection handles the repositories work
// against.
type Collections struct {
	Users    *mongo.Collection
	Movies   *mongo.Collection
	Theatres *mongo.Collection
	Shows    *mongo.Collection
	Bookings *mongo.Collection
}

// NewCollections resolves the named database and returns handles for
// every collection the application uses.
func NewCollections(client *mongo.Client, db string) Collections {
	d := client.Database(db)
	return Collections{
		Users:    d.Collection("users"),
		Movies:   d.Collection("movies"),
		Theatres: d.Collection("theatres"),
		Shows:    d.Collection("shows"),
		Bookings: d.Collection("bookings"),
	}
}
