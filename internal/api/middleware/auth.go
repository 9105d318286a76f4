package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/memberbase/membership-api/internal/api/metrics"
)

// SessionCookie is the browser-held slot for the session token. It is set
// HttpOnly and SameSite=Strict on login.
const SessionCookie = "member_session"

// RevocationChecker reports whether a token issued at issuedAt has been cut
// off before its expiry (Redis-backed).
type RevocationChecker interface {
	IsRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error)
}

// Auth validates the session token and injects the embedded claims into the
// request context. The token is read from the session cookie, with a Bearer
// header fallback for non-browser clients. Verification never reads the user
// from storage: the claims are trusted as issued, except for the revocation
// tombstone check.
func Auth(jwtSecret string, revoked RevocationChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := tokenFromRequest(c)
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing session token")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid session token")
			}

			userID, _ := claims["sub"].(string)
			if userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid session token")
			}

			if revoked != nil {
				var issuedAt time.Time
				if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
					issuedAt = iat.Time
				}
				// Revocation is best effort: when Redis is unreachable the
				// token's own validity window applies.
				if hit, err := revoked.IsRevoked(c.Request().Context(), userID, issuedAt); err == nil && hit {
					metrics.RevokedSessionHitsTotal.Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "session revoked")
				}
			}

			c.Set("user_id", userID)
			c.Set("name", claims["name"])
			c.Set("email", claims["email"])
			c.Set("role", claims["role"])

			return next(c)
		}
	}
}

func tokenFromRequest(c echo.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}
