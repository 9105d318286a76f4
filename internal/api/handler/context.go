package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/memberbase/membership-api/internal/core/domain"
)

// ctxClaims extracts the claims injected by the Auth middleware and performs
// a fast-fail check before any service call: a non-empty user id and role
// prove the middleware ran.
func ctxClaims(c echo.Context) (domain.Claims, error) {
	userID, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)
	if userID == "" || role == "" {
		return domain.Claims{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	name, _ := c.Get("name").(string)
	email, _ := c.Get("email").(string)

	return domain.Claims{UserID: userID, Name: name, Email: email, Role: role}, nil
}

// okResponse is the canonical success envelope.
type okResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func ok(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, okResponse{Success: true, Message: message, Data: data})
}
