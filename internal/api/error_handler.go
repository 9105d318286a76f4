package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/memberbase/membership-api/internal/core/domain"
)

// errorResponse is the canonical envelope for all API errors. Success is
// always false; Message carries the caller-facing reason and nothing else.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Keeps the three forbidden reasons (role, ownership, self-protection)
//     textually distinct while sharing the 403 status.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrPendingApproval):
		return http.StatusForbidden, "account pending approval"
	case errors.Is(err, domain.ErrApplicationRejected):
		return http.StatusForbidden, "application rejected"
	case errors.Is(err, domain.ErrForbiddenRole):
		return http.StatusForbidden, "role not permitted for this action"
	case errors.Is(err, domain.ErrNotOwner):
		return http.StatusForbidden, "not the owner of this item"
	case errors.Is(err, domain.ErrSelfAction):
		return http.StatusForbidden, "cannot perform this action on own account"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrResourceNotFound):
		return http.StatusNotFound, "resource not found"
	case errors.Is(err, domain.ErrPostNotFound):
		return http.StatusNotFound, "post not found"
	case errors.Is(err, domain.ErrAnswerNotFound):
		return http.StatusNotFound, "answer not found"
	case errors.Is(err, domain.ErrNewsNotFound):
		return http.StatusNotFound, "news item not found"
	case errors.Is(err, domain.ErrEventNotFound):
		return http.StatusNotFound, "event not found"
	case errors.Is(err, domain.ErrNoAttachment):
		return http.StatusNotFound, "resource has no attachment"
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, "email already registered"
	case errors.Is(err, domain.ErrInvalidRole):
		return http.StatusUnprocessableEntity, "invalid role"
	case errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusUnprocessableEntity, "invalid status"
	case errors.Is(err, domain.ErrInvalidResourceType):
		return http.StatusUnprocessableEntity, "invalid resource type"
	}

	// Unexpected error (store failure, unrecovered vote conflict): log the
	// real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
