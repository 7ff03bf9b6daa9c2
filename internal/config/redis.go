package config

// Redis backs the distributed rate limiter and the response cache for
// the public browse endpoints.  Both features are optional: when the
// server cannot reach Redis at startup this constructor returns nil and
// the middleware degrades to pass-through.

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient instantiates a Redis client from environment
// variables:
//
//	REDIS_ADDR     host:port (default "localhost:6379")
//	REDIS_PASSWORD optional password
//	REDIS_DB       database number (default 0)
//
// The returned client is nil when the server does not respond to a
// ping within two seconds.
func NewRedisClient() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	db := 0
	if s := os.Getenv("REDIS_DB"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			db = n
		}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}
