package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/memberbase/membership-api/internal/core/domain"
	"github.com/memberbase/membership-api/internal/core/policy"
	"github.com/memberbase/membership-api/internal/core/ports"
)

// ResourceService implements resource operations behind the policy engine.
type ResourceService struct {
	repo ports.ResourceRepository
	log  zerolog.Logger
}

func NewResourceService(repo ports.ResourceRepository, log zerolog.Logger) *ResourceService {
	return &ResourceService{repo: repo, log: log}
}

// Create publishes a resource after the type gate passes: frameworks are
// admin-only, whitepapers university or admin, products product_company or
// admin.
func (s *ResourceService) Create(ctx context.Context, caller domain.Claims, in ports.CreateResourceInput) (*domain.Resource, error) {
	if err := policy.Decide(caller, policy.ActionCreateResource, &policy.Target{Type: in.Type}); err != nil {
		return nil, err
	}

	resource := &domain.Resource{
		Type:        in.Type,
		Title:       in.Title,
		Description: in.Description,
		UploaderID:  caller.UserID,
		FileRef:     in.FileRef,
		CreatedAt:   time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, resource)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	s.log.Info().Str("resource_id", created.ID).Str("type", string(created.Type)).Str("uploader_id", caller.UserID).Msg("resource created")
	return created, nil
}

func (s *ResourceService) List(ctx context.Context, typ domain.ResourceType) ([]*domain.Resource, error) {
	if typ != "" && !domain.ValidResourceType(typ) {
		return nil, domain.ErrInvalidResourceType
	}
	return s.repo.List(ctx, typ)
}

// Delete removes a resource. Existence is checked before ownership so a
// missing resource reads as 404 even for callers who would be denied.
func (s *ResourceService) Delete(ctx context.Context, caller domain.Claims, id string) error {
	target, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Decide(caller, policy.ActionDeleteResource, &policy.Target{ID: target.ID, OwnerID: target.UploaderID}); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	s.log.Info().Str("resource_id", id).Str("caller_id", caller.UserID).Msg("resource deleted")
	return nil
}

// Download returns the file reference for download-eligible roles. The gate
// is role-only: ownership and resource type play no part.
func (s *ResourceService) Download(ctx context.Context, caller domain.Claims, id string) (string, error) {
	target, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if err := policy.Decide(caller, policy.ActionDownloadResource, &policy.Target{ID: target.ID, OwnerID: target.UploaderID}); err != nil {
		return "", err
	}
	if target.FileRef == "" {
		return "", domain.ErrNoAttachment
	}
	return target.FileRef, nil
}
