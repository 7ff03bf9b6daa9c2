package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// TheatreHandler serves the admin theatre endpoints.
type TheatreHandler struct {
	theatres *repository.TheatreRepo
}

func NewTheatreHandler(theatres *repository.TheatreRepo) *TheatreHandler {
	return &TheatreHandler{theatres: theatres}
}

type theatreRequest struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	TotalSeats int    `json:"totalSeats"`
}

// Create registers a theatre.  TotalSeats fixes the seat-label universe
// for every show hosted there and cannot be edited afterwards.
func (h *TheatreHandler) Create(c echo.Context) error {
	var req theatreRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Name == "" || req.City == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and city are required"})
	}
	if req.TotalSeats <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "totalSeats must be positive"})
	}

	theatre := &model.Theatre{
		Name:       req.Name,
		Address:    req.Address,
		City:       req.City,
		TotalSeats: req.TotalSeats,
	}
	if err := h.theatres.Create(c.Request().Context(), theatre); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create theatre"})
	}
	return c.JSON(http.StatusCreated, theatre)
}

// List returns all theatres.
func (h *TheatreHandler) List(c echo.Context) error {
	theatres, err := h.theatres.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load theatres"})
	}
	return c.JSON(http.StatusOK, echo.Map{"theatres": theatres})
}

// Update applies a partial update to a theatre.  Capacity is not
// editable.
func (h *TheatreHandler) Update(c echo.Context) error {
	theatreID, ok := parseObjectID(c, "id")
	if !ok {
		return nil
	}
	var upd repository.TheatreUpdate
	if err := c.Bind(&upd); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	theatre, err := h.theatres.Update(c.Request().Context(), theatreID, upd)
	if errors.Is(err, repository.ErrTheatreNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "theatre not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update theatre"})
	}
	return c.JSON(http.StatusOK, theatre)
}

// Delete removes a theatre.
func (h *TheatreHandler) Delete(c echo.Context) error {
	theatreID, ok := parseObjectID(c, "id")
	if !ok {
		return nil
	}

	err := h.theatres.Delete(c.Request().Context(), theatreID)
	if errors.Is(err, repository.ErrTheatreNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "theatre not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete theatre"})
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": theatreID.Hex()})
}
