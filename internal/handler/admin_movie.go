package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// MovieHandler serves the admin movie catalogue endpoints.
type MovieHandler struct {
	movies *repository.MovieRepo
}

func NewMovieHandler(movies *repository.MovieRepo) *MovieHandler {
	return &MovieHandler{movies: movies}
}

type movieRequest struct {
	MovieName string `json:"moviename"`
	Duration  string `json:"duration"`
	Rating    string `json:"rating"`
}

// Create adds a movie to the catalogue.
func (h *MovieHandler) Create(c echo.Context) error {
	var req movieRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.MovieName == "" || req.Duration == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "moviename and duration are required"})
	}

	movie := &model.Movie{
		MovieName: req.MovieName,
		Duration:  req.Duration,
		Rating:    req.Rating,
	}
	if err := h.movies.Create(c.Request().Context(), movie); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create movie"})
	}
	return c.JSON(http.StatusCreated, movie)
}

// List returns all movies with their shows populated.
func (h *MovieHandler) List(c echo.Context) error {
	movies, err := h.movies.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load movies"})
	}
	return c.JSON(http.StatusOK, echo.Map{"movies": movies})
}

// Update applies a partial update to a movie.
func (h *MovieHandler) Update(c echo.Context) error {
	movieID, ok := parseObjectID(c, "id")
	if !ok {
		return nil
	}
	var upd repository.MovieUpdate
	if err := c.Bind(&upd); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	movie, err := h.movies.Update(c.Request().Context(), movieID, upd)
	if errors.Is(err, repository.ErrMovieNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update movie"})
	}
	return c.JSON(http.StatusOK, movie)
}

// Delete removes a movie from the catalogue.
func (h *MovieHandler) Delete(c echo.Context) error {
	movieID, ok := parseObjectID(c, "id")
	if !ok {
		return nil
	}

	err := h.movies.Delete(c.Request().Context(), movieID)
	if errors.Is(err, repository.ErrMovieNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete movie"})
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": movieID.Hex()})
}
