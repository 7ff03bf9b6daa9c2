package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

func invokeWithRole(t *testing.T, role string, cap model.Capability) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set("role", role)
	}

	h := RequireCapability(cap)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, h(c))
	return rec
}

func TestRequireCapabilityAdmits(t *testing.T) {
	rec := invokeWithRole(t, "USER", model.CapBook)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = invokeWithRole(t, "ADMIN", model.CapManageCatalog)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Admins can book too.
	rec = invokeWithRole(t, "ADMIN", model.CapBook)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireCapabilityRejectsInsufficientRole(t *testing.T) {
	rec := invokeWithRole(t, "USER", model.CapManageCatalog)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient privileges")
}

func TestRequireCapabilityRejectsUnknownRole(t *testing.T) {
	for _, role := range []string{"", "superuser", "admin "} {
		rec := invokeWithRole(t, role, model.CapBook)
		assert.Equal(t, http.StatusForbidden, rec.Code, "role %q must not pass", role)
	}
}
