package service

import (
	"context"
	"fmt"
	"time"

	"github.com/memberbase/membership-api/internal/core/domain"
	"github.com/memberbase/membership-api/internal/core/policy"
	"github.com/memberbase/membership-api/internal/core/ports"
)

// NewsService implements announcement CRUD. Writes require the news
// management role set; reads are open to any authenticated member.
type NewsService struct {
	repo ports.NewsRepository
}

func NewNewsService(repo ports.NewsRepository) *NewsService {
	return &NewsService{repo: repo}
}

func (s *NewsService) Create(ctx context.Context, caller domain.Claims, in ports.NewsInput) (*domain.NewsItem, error) {
	if err := policy.Decide(caller, policy.ActionManageNews, nil); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	item := &domain.NewsItem{
		Title:     in.Title,
		Body:      in.Body,
		AuthorID:  caller.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("create news: %w", err)
	}
	return created, nil
}

func (s *NewsService) Get(ctx context.Context, id string) (*domain.NewsItem, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *NewsService) List(ctx context.Context) ([]*domain.NewsItem, error) {
	return s.repo.List(ctx)
}

func (s *NewsService) Update(ctx context.Context, caller domain.Claims, id string, in ports.NewsInput) (*domain.NewsItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Decide(caller, policy.ActionManageNews, nil); err != nil {
		return nil, err
	}

	item.Title = in.Title
	item.Body = in.Body
	item.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update news: %w", err)
	}
	return item, nil
}

func (s *NewsService) Delete(ctx context.Context, caller domain.Claims, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := policy.Decide(caller, policy.ActionManageNews, nil); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete news: %w", err)
	}
	return nil
}
