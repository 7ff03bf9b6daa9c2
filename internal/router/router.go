package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movie-ticket-booking/internal/config"
	"github.com/iliyamo/movie-ticket-booking/internal/handler"
	"github.com/iliyamo/movie-ticket-booking/internal/middleware"
	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// Handlers bundles the route handlers wired in main.
type Handlers struct {
	Auth    *handler.AuthHandler
	Browse  *handler.BrowseHandler
	Booking *handler.BookingHandler
	Movie   *handler.MovieHandler
	Theatre *handler.TheatreHandler
	Show    *handler.ShowHandler
}

// RegisterRoutes mounts the full API surface on the Echo instance.
// Public browse routes sit behind the Redis response cache; everything
// under /api except auth and browse requires a bearer token, and the
// admin group additionally requires the catalogue capability.
func RegisterRoutes(e *echo.Echo, h Handlers, jwtSecret string, rdb *redis.Client, cacheCfg config.CacheConfig) {
	e.GET("/healthz", handler.Health)

	cache := middleware.NewRedisCache(cacheCfg, rdb)
	pub := e.Group("/api")
	pub.GET("/movies-by-city", h.Browse.MoviesByCity, cache)
	pub.GET("/theatre/:theatreId/shows", h.Browse.TheatreShows, cache)
	pub.GET("/show/:showId/seats", h.Booking.SeatMap, cache)

	auth := e.Group("/api/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/register-admin", h.Auth.RegisterAdmin)
	auth.POST("/login", h.Auth.Login)

	user := e.Group("/api")
	user.Use(middleware.JWTAuth(jwtSecret))
	user.Use(middleware.RequireCapability(model.CapBook))
	user.POST("/book", h.Booking.Book)
	user.GET("/my-bookings", h.Booking.MyBookings)

	admin := e.Group("/api/admin")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireCapability(model.CapManageCatalog))
	admin.POST("/addMovie", h.Movie.Create)
	admin.GET("/movies", h.Movie.List)
	admin.PUT("/movie/:id", h.Movie.Update)
	admin.DELETE("/movie/:id", h.Movie.Delete)
	admin.POST("/addTheatre", h.Theatre.Create)
	admin.GET("/theatres", h.Theatre.List)
	admin.PUT("/theatre/:id", h.Theatre.Update)
	admin.DELETE("/theatre/:id", h.Theatre.Delete)
	admin.POST("/addShow", h.Show.Create)
	admin.GET("/shows", h.Show.List)
	admin.PUT("/show/:id", h.Show.Update)
	admin.DELETE("/show/:id", h.Show.Delete)
}
