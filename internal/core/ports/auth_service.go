package ports

import (
	"context"

	"github.com/memberbase/membership-api/internal/core/domain"
)

// RegisterInput carries the fields of a registration request. Role is the
// role the applicant is asking for; the account starts out pending and only
// an admin approval makes it usable.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// AuthService issues and explains session credentials.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	// Login verifies email+password and, for approved accounts, returns a
	// signed session token alongside the user. Pending and rejected accounts
	// fail with domain.ErrPendingApproval / domain.ErrApplicationRejected.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
