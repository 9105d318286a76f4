package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/memberbase/membership-api/internal/core/domain"
)

func render(t *testing.T, err error) (int, errorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return rec.Code, body
}

func TestErrorHandler_StatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrPendingApproval, http.StatusForbidden},
		{domain.ErrApplicationRejected, http.StatusForbidden},
		{domain.ErrForbiddenRole, http.StatusForbidden},
		{domain.ErrNotOwner, http.StatusForbidden},
		{domain.ErrSelfAction, http.StatusForbidden},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrPostNotFound, http.StatusNotFound},
		{domain.ErrEmailTaken, http.StatusConflict},
		{domain.ErrInvalidResourceType, http.StatusUnprocessableEntity},
		{domain.ErrVoteConflict, http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", domain.ErrResourceNotFound), http.StatusNotFound},
	}

	for _, tc := range cases {
		code, body := render(t, tc.err)
		if code != tc.code {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.code, code)
		}
		if body.Success {
			t.Errorf("%v: success must be false", tc.err)
		}
		if body.Message == "" {
			t.Errorf("%v: empty message", tc.err)
		}
	}
}

// The three forbidden reasons share a status code but must stay
// distinguishable in the response body.
func TestErrorHandler_ForbiddenReasonsDistinct(t *testing.T) {
	_, roleBody := render(t, domain.ErrForbiddenRole)
	_, ownerBody := render(t, domain.ErrNotOwner)
	_, selfBody := render(t, domain.ErrSelfAction)

	if roleBody.Message == ownerBody.Message || roleBody.Message == selfBody.Message || ownerBody.Message == selfBody.Message {
		t.Fatalf("forbidden messages must differ: %q %q %q", roleBody.Message, ownerBody.Message, selfBody.Message)
	}
}

func TestErrorHandler_InternalHidesDetail(t *testing.T) {
	code, body := render(t, fmt.Errorf("mongo: connection reset by peer"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if body.Message != "internal server error" {
		t.Fatalf("internal detail leaked: %q", body.Message)
	}
}

func TestErrorHandler_EchoHTTPError(t *testing.T) {
	code, body := render(t, echo.NewHTTPError(http.StatusUnauthorized, "missing session token"))
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
	if body.Message != "missing session token" {
		t.Fatalf("unexpected message: %q", body.Message)
	}
}
