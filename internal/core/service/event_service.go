package service

import (
	"context"
	"fmt"
	"time"

	"github.com/memberbase/membership-api/internal/core/domain"
	"github.com/memberbase/membership-api/internal/core/policy"
	"github.com/memberbase/membership-api/internal/core/ports"
)

// EventService implements membership event CRUD with the same gating shape
// as news: role-checked writes, open reads.
type EventService struct {
	repo ports.EventRepository
}

func NewEventService(repo ports.EventRepository) *EventService {
	return &EventService{repo: repo}
}

func (s *EventService) Create(ctx context.Context, caller domain.Claims, in ports.EventInput) (*domain.Event, error) {
	if err := policy.Decide(caller, policy.ActionManageEvents, nil); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	event := &domain.Event{
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		StartsAt:    in.StartsAt,
		EndsAt:      in.EndsAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return created, nil
}

func (s *EventService) Get(ctx context.Context, id string) (*domain.Event, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *EventService) List(ctx context.Context) ([]*domain.Event, error) {
	return s.repo.List(ctx)
}

func (s *EventService) Update(ctx context.Context, caller domain.Claims, id string, in ports.EventInput) (*domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Decide(caller, policy.ActionManageEvents, nil); err != nil {
		return nil, err
	}

	event.Title = in.Title
	event.Description = in.Description
	event.Location = in.Location
	event.StartsAt = in.StartsAt
	event.EndsAt = in.EndsAt
	event.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *EventService) Delete(ctx context.Context, caller domain.Claims, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := policy.Decide(caller, policy.ActionManageEvents, nil); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}
