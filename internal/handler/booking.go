package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iliyamo/movie-ticket-booking/internal/repository"
	"github.com/iliyamo/movie-ticket-booking/internal/service"
)

// BookingHandler serves the seat map, the booking endpoint and the
// caller's booking history.
type BookingHandler struct {
	reservations *service.ReservationService
}

func NewBookingHandler(reservations *service.ReservationService) *BookingHandler {
	return &BookingHandler{reservations: reservations}
}

type bookRequest struct {
	ShowID string   `json:"showId"`
	Seats  []string `json:"seats"`
}

// SeatMap returns the seating projection for a show: every label,
// which are taken and which remain.
func (h *BookingHandler) SeatMap(c echo.Context) error {
	showID, ok := parseObjectID(c, "showId")
	if !ok {
		return nil
	}

	sm, err := h.reservations.SeatMapFor(c.Request().Context(), showID)
	if errors.Is(err, repository.ErrShowNotFound) || errors.Is(err, repository.ErrTheatreNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seat map"})
	}
	return c.JSON(http.StatusOK, sm)
}

// Book reserves seats on a show for the authenticated user.
func (h *BookingHandler) Book(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return nil
	}

	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	showID, err := primitive.ObjectIDFromHex(req.ShowID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showId"})
	}

	detail, err := h.reservations.Book(c.Request().Context(), userID, showID, req.Seats)
	switch {
	case err == nil:
		return c.JSON(http.StatusCreated, detail)
	case errors.Is(err, service.ErrNoSeats),
		errors.Is(err, service.ErrDuplicateSeat),
		errors.Is(err, service.ErrUnknownSeat):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrSeatsUnavailable):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "requested seats are not available"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to book seats"})
	}
}

// MyBookings returns the authenticated user's bookings, newest first.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return nil
	}

	list, err := h.reservations.ListBookings(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": list})
}
