package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/memberbase/membership-api/internal/api/metrics"
	"github.com/memberbase/membership-api/internal/api/middleware"
	"github.com/memberbase/membership-api/internal/core/domain"
	"github.com/memberbase/membership-api/internal/core/ports"
	"github.com/memberbase/membership-api/internal/core/service"
)

type AuthHandler struct {
	authService  ports.AuthService
	revoker      service.Revoker
	secureCookie bool
}

func NewAuthHandler(authService ports.AuthService, revoker service.Revoker, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, revoker: revoker, secureCookie: secureCookie}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=executive paid_member free_member university product_company"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Status: u.Status}
}

// Register creates a pending membership application.
//
// @Summary      Apply for membership
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Application details"
// @Success      201   {object}  okResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	return ok(c, http.StatusCreated, "application received, awaiting approval", toUserResponse(user))
}

// Login authenticates an approved member and sets the session cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  okResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginOutcome(err)).Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("ok").Inc()

	c.SetCookie(h.sessionCookie(token, service.TokenTTL))
	return ok(c, http.StatusOK, "", map[string]any{
		"token": token,
		"user":  toUserResponse(user),
	})
}

// Logout clears the session cookie and tombstones the caller's outstanding
// tokens so a stolen copy cannot outlive the logout.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  okResponse
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	if h.revoker != nil {
		// Best effort: the cookie is cleared either way.
		if err := h.revoker.Revoke(c.Request().Context(), claims.UserID); err != nil {
			c.Logger().Warn("session revocation failed on logout")
		}
	}

	c.SetCookie(h.sessionCookie("", -time.Hour))
	return ok(c, http.StatusOK, "logged out", nil)
}

// Me returns the claims embedded in the presented session token.
//
// @Summary      Current session claims
// @Tags         auth
// @Produce      json
// @Success      200  {object}  okResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "", map[string]string{
		"id":    claims.UserID,
		"name":  claims.Name,
		"email": claims.Email,
		"role":  claims.Role,
	})
}

// sessionCookie builds the browser-held session slot: HttpOnly and
// SameSite=Strict so scripts cannot read it and cross-site requests cannot
// send it.
func (h *AuthHandler) sessionCookie(token string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	}
}

func loginOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrPendingApproval):
		return "pending"
	case errors.Is(err, domain.ErrApplicationRejected):
		return "rejected"
	default:
		return "error"
	}
}
