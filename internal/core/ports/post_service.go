package ports

import (
	"context"

	"github.com/memberbase/membership-api/internal/core/domain"
)

// CreatePostInput carries the fields of a new Q&A question.
type CreatePostInput struct {
	Title string
	Body  string
}

// VoteResult reports the state after a toggle: whether the caller's vote now
// exists and the post's cached vote count.
type VoteResult struct {
	Voted     bool
	VoteCount int64
}

// PostService exposes the Q&A operations.
type PostService interface {
	Create(ctx context.Context, caller domain.Claims, in CreatePostInput) (*domain.Post, error)
	Get(ctx context.Context, id string) (*domain.Post, []*domain.Answer, error)
	List(ctx context.Context) ([]*domain.Post, error)
	Delete(ctx context.Context, caller domain.Claims, id string) error

	CreateAnswer(ctx context.Context, caller domain.Claims, postID, body string) (*domain.Answer, error)
	DeleteAnswer(ctx context.Context, caller domain.Claims, answerID string) error

	// ToggleVote flips the caller's vote on a post: voting when no vote
	// exists, retracting when one does.
	ToggleVote(ctx context.Context, caller domain.Claims, postID string) (*VoteResult, error)
}
