package domain

import (
	"errors"
	"time"
)

var ErrNewsNotFound = errors.New("news item not found")

// NewsItem is a plain announcement. No ownership semantics: publishing is
// gated by role alone.
type NewsItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
