package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/config"
	"github.com/iliyamo/movie-ticket-booking/internal/database"
	"github.com/iliyamo/movie-ticket-booking/internal/handler"
	"github.com/iliyamo/movie-ticket-booking/internal/middleware"
	"github.com/iliyamo/movie-ticket-booking/internal/queue"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
	"github.com/iliyamo/movie-ticket-booking/internal/router"
	"github.com/iliyamo/movie-ticket-booking/internal/service"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	client, err := database.Open(cfg.MongoURI)
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}()
	colls := database.NewCollections(client, cfg.MongoDB)

	userRepo := repository.NewUserRepo(colls.Users)
	movieRepo := repository.NewMovieRepo(colls.Movies, colls.Shows)
	theatreRepo := repository.NewTheatreRepo(colls.Theatres)
	showRepo := repository.NewShowRepo(colls.Shows, colls.Movies, colls.Theatres)
	bookingRepo := repository.NewBookingRepo(colls.Bookings, colls.Shows, colls.Movies, colls.Theatres)

	reservations := service.NewReservationService(showRepo, bookingRepo, userRepo, queue.NewPublisher())

	accessTTL := time.Duration(cfg.AccessTTLMin) * time.Minute
	handlers := router.Handlers{
		Auth:    handler.NewAuthHandler(userRepo, cfg.JWTSecret, accessTTL, cfg.BcryptCost),
		Browse:  handler.NewBrowseHandler(showRepo),
		Booking: handler.NewBookingHandler(reservations),
		Movie:   handler.NewMovieHandler(movieRepo),
		Theatre: handler.NewTheatreHandler(theatreRepo),
		Show:    handler.NewShowHandler(showRepo, theatreRepo),
	}

	e := echo.New()
	rdb := config.NewRedisClient()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	router.RegisterRoutes(e, handlers, cfg.JWTSecret, rdb, config.LoadCacheConfig())

	go queue.StartBookingConsumer()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
