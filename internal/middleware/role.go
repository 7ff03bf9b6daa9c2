package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// RequireCapability returns an Echo middleware that admits only
// requests whose authenticated role grants the given capability.  The
// role claim must parse into the closed role set; unknown role strings
// are rejected rather than treated as users.
func RequireCapability(cap model.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, _ := c.Get("role").(string)
			role, ok := model.ParseRole(raw)
			if !ok {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "unknown role"})
			}
			if !role.Can(cap) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient privileges"})
			}
			return next(c)
		}
	}
}
