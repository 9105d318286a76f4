package ports

import (
	"context"

	"github.com/memberbase/membership-api/internal/core/domain"
)

// ResourceRepository defines persistence for shared resources.
type ResourceRepository interface {
	Create(ctx context.Context, r *domain.Resource) (*domain.Resource, error)
	FindByID(ctx context.Context, id string) (*domain.Resource, error)
	// List returns resources, optionally filtered by type ("" = all).
	List(ctx context.Context, typ domain.ResourceType) ([]*domain.Resource, error)
	Delete(ctx context.Context, id string) error
}
