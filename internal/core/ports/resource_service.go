package ports

import (
	"context"

	"github.com/memberbase/membership-api/internal/core/domain"
)

// CreateResourceInput carries the fields of a resource creation request.
// The uploader is taken from the caller's claims, never from the body.
type CreateResourceInput struct {
	Type        domain.ResourceType
	Title       string
	Description string
	FileRef     string
}

// ResourceService exposes resource operations with the type-gate and
// ownership rules applied.
type ResourceService interface {
	Create(ctx context.Context, caller domain.Claims, in CreateResourceInput) (*domain.Resource, error)
	List(ctx context.Context, typ domain.ResourceType) ([]*domain.Resource, error)
	Delete(ctx context.Context, caller domain.Claims, id string) error
	// Download returns the opaque file reference after the role gate passes.
	Download(ctx context.Context, caller domain.Claims, id string) (string, error)
}
