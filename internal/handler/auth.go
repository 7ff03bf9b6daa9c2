package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
	"github.com/iliyamo/movie-ticket-booking/internal/utils"
)

// AuthHandler implements registration and login.
type AuthHandler struct {
	users      *repository.UserRepo
	jwtSecret  string
	accessTTL  time.Duration
	bcryptCost int
}

// NewAuthHandler wires the auth endpoints to the user repository.
func NewAuthHandler(users *repository.UserRepo, jwtSecret string, accessTTL time.Duration, bcryptCost int) *AuthHandler {
	return &AuthHandler{users: users, jwtSecret: jwtSecret, accessTTL: accessTTL, bcryptCost: bcryptCost}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`

	// UpdateExisting only applies to register-admin: promote an already
	// registered user instead of failing on the duplicate email.
	UpdateExisting bool `json:"updateExisting"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a regular user account and returns a token plus the
// public user projection.
func (h *AuthHandler) Register(c echo.Context) error {
	return h.register(c, model.RoleUser)
}

// RegisterAdmin creates an admin account.  With updateExisting set, an
// existing account with the same email is promoted instead.
func (h *AuthHandler) RegisterAdmin(c echo.Context) error {
	return h.register(c, model.RoleAdmin)
}

func (h *AuthHandler) register(c echo.Context, role model.Role) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, email and password are required"})
	}

	hash, err := utils.HashPassword(req.Password, h.bcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to hash password"})
	}

	ctx := c.Request().Context()
	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hash,
		Phone:    req.Phone,
		Role:     role,
		Bookings: []model.BookingHistoryEntry{},
	}
	err = h.users.Create(ctx, user)
	if errors.Is(err, repository.ErrEmailExists) && role == model.RoleAdmin && req.UpdateExisting {
		user, err = h.users.PromoteToAdmin(ctx, req.Email, repository.AdminUpdate{
			Name:         req.Name,
			Phone:        req.Phone,
			PasswordHash: hash,
		})
	}
	if errors.Is(err, repository.ErrEmailExists) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create user"})
	}

	return h.respondWithToken(c, http.StatusCreated, user)
}

// Login verifies credentials and returns a fresh access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	user, err := h.users.GetByEmail(c.Request().Context(), req.Email)
	if errors.Is(err, repository.ErrUserNotFound) || (err == nil && !utils.VerifyPassword(user.Password, req.Password)) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to look up user"})
	}

	return h.respondWithToken(c, http.StatusOK, user)
}

func (h *AuthHandler) respondWithToken(c echo.Context, status int, user *model.User) error {
	token, err := utils.NewAccessToken(h.jwtSecret, user.ID.Hex(), user.Role, h.accessTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to sign token"})
	}
	return c.JSON(status, echo.Map{
		"token":     token.Token,
		"expiresAt": token.ExpiresAt,
		"user":      user.Public(),
	})
}
