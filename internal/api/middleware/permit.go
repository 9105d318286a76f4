package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/memberbase/membership-api/internal/api/metrics"
	"github.com/memberbase/membership-api/internal/core/policy"
)

// Permit rejects requests whose role fails the policy matrix for action.
// It is a route-level fast path over the same table the services consult;
// ownership overrides and self-protection still run in the service layer,
// so Permit is only used on routes where the matrix alone decides.
func Permit(action policy.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if !policy.Allows(action, role) {
				metrics.PolicyDenialsTotal.WithLabelValues(string(action), "role").Inc()
				return c.JSON(http.StatusForbidden, map[string]any{
					"success": false,
					"message": "role not permitted for this action",
				})
			}
			return next(c)
		}
	}
}
