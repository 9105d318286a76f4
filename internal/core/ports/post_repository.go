package ports

import (
	"context"

	"github.com/memberbase/membership-api/internal/core/domain"
)

// PostRepository defines persistence for Q&A posts, answers, and votes.
//
// The vote methods are the concurrency surface of the whole system: InsertVote
// must be rejected by a store-level unique constraint on (post, user), and the
// counter increments must be single-statement atomic updates.
type PostRepository interface {
	CreatePost(ctx context.Context, p *domain.Post) (*domain.Post, error)
	FindPostByID(ctx context.Context, id string) (*domain.Post, error)
	ListPosts(ctx context.Context) ([]*domain.Post, error)
	// DeletePost removes the post and its dependent answers and votes.
	DeletePost(ctx context.Context, id string) error

	CreateAnswer(ctx context.Context, a *domain.Answer) (*domain.Answer, error)
	FindAnswerByID(ctx context.Context, id string) (*domain.Answer, error)
	ListAnswers(ctx context.Context, postID string) ([]*domain.Answer, error)
	DeleteAnswer(ctx context.Context, id string) error

	HasVote(ctx context.Context, postID, userID string) (bool, error)
	// InsertVote returns domain.ErrDuplicateVote when the unique constraint
	// rejects the insert.
	InsertVote(ctx context.Context, postID, userID string) error
	// DeleteVote reports whether a vote row was actually removed.
	DeleteVote(ctx context.Context, postID, userID string) (bool, error)

	// IncVoteCount adjusts the cached vote counter by delta. Decrements are
	// floored at zero by the store; the returned bool reports whether a
	// document matched (a false on decrement signals counter drift).
	IncVoteCount(ctx context.Context, postID string, delta int64) (bool, error)
	IncAnswerCount(ctx context.Context, postID string, delta int64) (bool, error)

	// CountVotes / CountAnswers / SetCounts support reconciliation: recount
	// the fact collections and overwrite the cached counters.
	CountVotes(ctx context.Context, postID string) (int64, error)
	CountAnswers(ctx context.Context, postID string) (int64, error)
	SetCounts(ctx context.Context, postID string, votes, answers int64) error
}
