package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// ShowHandler serves the admin show scheduling endpoints.
type ShowHandler struct {
	shows    *repository.ShowRepo
	theatres *repository.TheatreRepo
}

func NewShowHandler(shows *repository.ShowRepo, theatres *repository.TheatreRepo) *ShowHandler {
	return &ShowHandler{shows: shows, theatres: theatres}
}

type showRequest struct {
	MovieID   string    `json:"movieId"`
	TheatreID string    `json:"theatreId"`
	ShowDate  time.Time `json:"showDate"`
	ShowTime  string    `json:"showTime"`
	SeatPrice int       `json:"seatPrice"`
}

// Create schedules a show.  The seat inventory starts at the hosting
// theatre's full capacity and the price falls back to the default when
// omitted.
func (h *ShowHandler) Create(c echo.Context) error {
	var req showRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	movieID, err := primitive.ObjectIDFromHex(req.MovieID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movieId"})
	}
	theatreID, err := primitive.ObjectIDFromHex(req.TheatreID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theatreId"})
	}
	if req.ShowDate.IsZero() || req.ShowTime == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "showDate and showTime are required"})
	}
	if req.SeatPrice < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seatPrice must not be negative"})
	}

	ctx := c.Request().Context()
	theatre, err := h.theatres.GetByID(ctx, theatreID)
	if errors.Is(err, repository.ErrTheatreNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "theatre not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load theatre"})
	}

	price := req.SeatPrice
	if price == 0 {
		price = model.DefaultSeatPrice
	}
	show := &model.Show{
		Movie:          movieID,
		Theatre:        theatreID,
		ShowDate:       req.ShowDate,
		ShowTime:       req.ShowTime,
		AvailableSeats: theatre.TotalSeats,
		BookedSeats:    []string{},
		SeatPrice:      price,
	}
	err = h.shows.Create(ctx, show)
	if errors.Is(err, repository.ErrMovieNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create show"})
	}
	return c.JSON(http.StatusCreated, show)
}

// List returns all shows with movie and theatre populated.
func (h *ShowHandler) List(c echo.Context) error {
	shows, err := h.shows.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load shows"})
	}
	return c.JSON(http.StatusOK, echo.Map{"shows": shows})
}

// Update edits a show's date, time or price.  Seat state is not
// reachable from here.
func (h *ShowHandler) Update(c echo.Context) error {
	showID, ok := parseObjectID(c, "id")
	if !ok {
		return nil
	}
	var upd repository.ShowUpdate
	if err := c.Bind(&upd); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if upd.SeatPrice != nil && *upd.SeatPrice < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seatPrice must not be negative"})
	}

	show, err := h.shows.Update(c.Request().Context(), showID, upd)
	if errors.Is(err, repository.ErrShowNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update show"})
	}
	return c.JSON(http.StatusOK, show)
}

// Delete removes a show and detaches it from its movie.
func (h *ShowHandler) Delete(c echo.Context) error {
	showID, ok := parseObjectID(c, "id")
	if !ok {
		return nil
	}

	err := h.shows.Delete(c.Request().Context(), showID)
	if errors.Is(err, repository.ErrShowNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete show"})
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": showID.Hex()})
}
