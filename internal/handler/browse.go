package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// BrowseHandler serves the public discovery endpoints.
type BrowseHandler struct {
	shows *repository.ShowRepo
}

func NewBrowseHandler(shows *repository.ShowRepo) *BrowseHandler {
	return &BrowseHandler{shows: shows}
}

// MoviesByCity lists the movies playing in a city, each with the
// theatres screening it.  The city match is exact but case-insensitive.
func (h *BrowseHandler) MoviesByCity(c echo.Context) error {
	city := c.QueryParam("city")
	if city == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "city query parameter is required"})
	}

	movies, err := h.shows.MoviesByCity(c.Request().Context(), city)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load movies"})
	}
	return c.JSON(http.StatusOK, echo.Map{"city": city, "movies": movies})
}

// TheatreShows lists a theatre's upcoming shows grouped by movie.
func (h *BrowseHandler) TheatreShows(c echo.Context) error {
	theatreID, ok := parseObjectID(c, "theatreId")
	if !ok {
		return nil
	}

	groups, err := h.shows.ShowsByTheatre(c.Request().Context(), theatreID)
	if errors.Is(err, repository.ErrTheatreNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "theatre not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load shows"})
	}
	return c.JSON(http.StatusOK, echo.Map{"theatreId": theatreID.Hex(), "movies": groups})
}
