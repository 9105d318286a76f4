package ports

import (
	"context"

	"github.com/memberbase/membership-api/internal/core/domain"
)

// UserRepository defines persistence for platform members.
type UserRepository interface {
	// Create inserts a new user. Returns domain.ErrEmailTaken when the email
	// uniqueness constraint rejects the insert.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// List returns users, optionally filtered by status ("" = all).
	List(ctx context.Context, status string) ([]*domain.User, error)
	UpdateRole(ctx context.Context, id, role string) error
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}
