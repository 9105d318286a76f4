package ports

import (
	"context"

	"github.com/memberbase/membership-api/internal/core/domain"
)

// UserService exposes the admin-only member management operations. Every
// method re-checks the policy matrix with the caller's claims; the route
// guard is a fast path, not the authority.
type UserService interface {
	List(ctx context.Context, caller domain.Claims, status string) ([]*domain.User, error)
	ChangeRole(ctx context.Context, caller domain.Claims, userID, role string) error
	ChangeStatus(ctx context.Context, caller domain.Claims, userID, status string) error
	Delete(ctx context.Context, caller domain.Claims, userID string) error
}
