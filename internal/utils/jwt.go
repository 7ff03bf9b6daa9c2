package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// AccessToken is a signed JWT plus its expiry, as returned to clients.
type AccessToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// NewAccessToken signs an HS256 access token for the given user.  The
// subject is the user's ObjectID hex and the role claim carries the
// closed role name.
func NewAccessToken(secret, userID string, role model.Role, ttl time.Duration) (*AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return nil, err
	}
	return &AccessToken{Token: signed, ExpiresAt: exp}, nil
}
