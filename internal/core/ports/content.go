package ports

import (
	"context"
	"time"

	"github.com/memberbase/membership-api/internal/core/domain"
)

// NewsRepository defines persistence for announcements.
type NewsRepository interface {
	Create(ctx context.Context, n *domain.NewsItem) (*domain.NewsItem, error)
	FindByID(ctx context.Context, id string) (*domain.NewsItem, error)
	List(ctx context.Context) ([]*domain.NewsItem, error)
	Update(ctx context.Context, n *domain.NewsItem) error
	Delete(ctx context.Context, id string) error
}

// EventRepository defines persistence for membership events.
type EventRepository interface {
	Create(ctx context.Context, e *domain.Event) (*domain.Event, error)
	FindByID(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context) ([]*domain.Event, error)
	Update(ctx context.Context, e *domain.Event) error
	Delete(ctx context.Context, id string) error
}

// NewsInput carries the editable fields of an announcement.
type NewsInput struct {
	Title string
	Body  string
}

// EventInput carries the editable fields of a membership event.
type EventInput struct {
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	EndsAt      time.Time
}

// NewsService exposes announcement CRUD. Writes are role-gated, reads open
// to any authenticated member.
type NewsService interface {
	Create(ctx context.Context, caller domain.Claims, in NewsInput) (*domain.NewsItem, error)
	Get(ctx context.Context, id string) (*domain.NewsItem, error)
	List(ctx context.Context) ([]*domain.NewsItem, error)
	Update(ctx context.Context, caller domain.Claims, id string, in NewsInput) (*domain.NewsItem, error)
	Delete(ctx context.Context, caller domain.Claims, id string) error
}

// EventService exposes membership event CRUD with the same gating as news.
type EventService interface {
	Create(ctx context.Context, caller domain.Claims, in EventInput) (*domain.Event, error)
	Get(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context) ([]*domain.Event, error)
	Update(ctx context.Context, caller domain.Claims, id string, in EventInput) (*domain.Event, error)
	Delete(ctx context.Context, caller domain.Claims, id string) error
}
