package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/memberbase/membership-api/internal/api/middleware"
	"github.com/memberbase/membership-api/internal/core/domain"
	"github.com/memberbase/membership-api/internal/core/ports"
)

type stubAuthService struct {
	token string
	user  *domain.User
	err   error
}

func (s *stubAuthService) Register(_ context.Context, in ports.RegisterInput) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.User{ID: "u1", Name: in.Name, Email: in.Email, Role: in.Role, Status: domain.StatusPending}, nil
}

func (s *stubAuthService) Login(_ context.Context, _, _ string) (string, *domain.User, error) {
	if s.err != nil {
		return "", nil, s.err
	}
	return s.token, s.user, nil
}

type stubRevoker struct {
	revoked []string
}

func (s *stubRevoker) Revoke(_ context.Context, userID string) error {
	s.revoked = append(s.revoked, userID)
	return nil
}

func newAuthContext(t *testing.T, method, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_LoginSetsSessionCookie(t *testing.T) {
	svc := &stubAuthService{
		token: "tok123",
		user:  &domain.User{ID: "u1", Name: "alice", Email: "a@example.com", Role: domain.RolePaidMember, Status: domain.StatusApproved},
	}
	h := NewAuthHandler(svc, nil, false)

	c, rec := newAuthContext(t, http.MethodPost, `{"email":"a@example.com","password":"hunter22"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}

	res := rec.Result()
	var session *http.Cookie
	for _, ck := range res.Cookies() {
		if ck.Name == middleware.SessionCookie {
			session = ck
		}
	}
	if session == nil {
		t.Fatalf("session cookie not set")
	}
	if session.Value != "tok123" {
		t.Fatalf("cookie value = %q, want token", session.Value)
	}
	if !session.HttpOnly {
		t.Fatalf("session cookie must be HttpOnly")
	}
	if session.SameSite != http.SameSiteStrictMode {
		t.Fatalf("session cookie must be SameSite=Strict")
	}
	if session.MaxAge <= 0 {
		t.Fatalf("session cookie must carry a positive max age")
	}
}

func TestAuthHandler_LoginRejectedKeepsCookieUnset(t *testing.T) {
	svc := &stubAuthService{err: domain.ErrApplicationRejected}
	h := NewAuthHandler(svc, nil, false)

	c, rec := newAuthContext(t, http.MethodPost, `{"email":"a@example.com","password":"hunter22"}`)
	err := h.Login(c)
	if err == nil {
		t.Fatalf("expected error for rejected account")
	}
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.SessionCookie {
			t.Fatalf("no session cookie should be set on failed login")
		}
	}
}

func TestAuthHandler_LogoutRevokesAndClearsCookie(t *testing.T) {
	revoker := &stubRevoker{}
	h := NewAuthHandler(&stubAuthService{}, revoker, false)

	c, rec := newAuthContext(t, http.MethodPost, "")
	c.Set("user_id", "u1")
	c.Set("role", domain.RolePaidMember)

	if err := h.Logout(c); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if len(revoker.revoked) != 1 || revoker.revoked[0] != "u1" {
		t.Fatalf("expected u1 revoked, got %v", revoker.revoked)
	}

	var session *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.SessionCookie {
			session = ck
		}
	}
	if session == nil {
		t.Fatalf("logout must overwrite the session cookie")
	}
	if session.Value != "" || session.MaxAge >= 0 {
		t.Fatalf("logout cookie must be empty and expired")
	}
}

func TestAuthHandler_RegisterValidatesRole(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, nil, false)

	c, _ := newAuthContext(t, http.MethodPost,
		`{"name":"eve","email":"e@example.com","password":"hunter22","role":"admin"}`)
	err := h.Register(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for admin role request, got %v", err)
	}
}

func TestAuthHandler_RegisterReturnsPendingUser(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, nil, false)

	c, rec := newAuthContext(t, http.MethodPost,
		`{"name":"eve","email":"e@example.com","password":"hunter22","role":"free_member"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !body.Success || body.Data.Status != domain.StatusPending {
		t.Fatalf("expected pending user in envelope, got %+v", body)
	}
}
