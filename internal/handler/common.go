package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// parseObjectID decodes a hex path parameter into an ObjectID.  The
// bool reports success; on failure a 400 has already been written.
func parseObjectID(c echo.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid " + param})
		return primitive.NilObjectID, false
	}
	return id, true
}

// currentUserID reads the authenticated user's ID injected by the JWT
// middleware.
func currentUserID(c echo.Context) (primitive.ObjectID, bool) {
	raw, _ := c.Get("user_id").(string)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		_ = c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token subject"})
		return primitive.NilObjectID, false
	}
	return id, true
}
