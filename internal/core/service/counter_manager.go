package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/memberbase/membership-api/internal/core/domain"
	"github.com/memberbase/membership-api/internal/core/ports"
)

// ReconcileScheduler asks for a post's cached counters to be recounted from
// the fact collections. Implementations must not block the caller.
type ReconcileScheduler interface {
	Schedule(postID string)
}

// CounterManager keeps the denormalized vote_count / answer_count on a post
// equal to the cardinality of the votes / answers collections. The vote row
// is the source of truth; the counters are cached derived values.
type CounterManager struct {
	repo       ports.PostRepository
	reconciler ReconcileScheduler
	log        zerolog.Logger
}

func NewCounterManager(repo ports.PostRepository, reconciler ReconcileScheduler, log zerolog.Logger) *CounterManager {
	return &CounterManager{repo: repo, reconciler: reconciler, log: log}
}

// ToggleVote flips userID's vote on postID. Two concurrent toggles from the
// same user can both pass the existence check and race to insert; the store's
// unique constraint rejects the loser, which is then recovered as a
// toggle-off rather than treated as a failure.
func (m *CounterManager) ToggleVote(ctx context.Context, postID, userID string) (bool, error) {
	exists, err := m.repo.HasVote(ctx, postID, userID)
	if err != nil {
		return false, fmt.Errorf("toggle vote: %w", err)
	}

	if exists {
		if err := m.toggleOff(ctx, postID, userID); err != nil {
			return false, err
		}
		return false, nil
	}

	switch err := m.repo.InsertVote(ctx, postID, userID); {
	case err == nil:
		if _, err := m.repo.IncVoteCount(ctx, postID, 1); err != nil {
			return false, fmt.Errorf("toggle vote: increment: %w", err)
		}
		return true, nil
	case errors.Is(err, domain.ErrDuplicateVote):
		// Lost the insert race to a concurrent toggle from the same user:
		// the vote now exists, so this call completes as a toggle-off.
		m.log.Debug().Str("post_id", postID).Str("user_id", userID).Msg("duplicate vote insert, retrying as toggle-off")
		if err := m.toggleOff(ctx, postID, userID); err != nil {
			return false, err
		}
		return false, nil
	default:
		return false, fmt.Errorf("toggle vote: insert: %w", err)
	}
}

func (m *CounterManager) toggleOff(ctx context.Context, postID, userID string) error {
	removed, err := m.repo.DeleteVote(ctx, postID, userID)
	if err != nil {
		return fmt.Errorf("toggle vote: delete: %w", err)
	}
	if !removed {
		// The row vanished between check and delete and the insert was also
		// rejected. The store contradicts itself; give up on this request.
		return domain.ErrVoteConflict
	}

	matched, err := m.repo.IncVoteCount(ctx, postID, -1)
	if err != nil {
		return fmt.Errorf("toggle vote: decrement: %w", err)
	}
	if !matched {
		// The floor stopped a decrement below zero: the counter has drifted
		// from the vote collection. Schedule a recount.
		m.log.Warn().Str("post_id", postID).Msg("vote_count floored at zero, scheduling reconcile")
		m.reconciler.Schedule(postID)
	}
	return nil
}

// RecordAnswer bumps the answer counter after the answer row is durably
// written.
func (m *CounterManager) RecordAnswer(ctx context.Context, postID string) error {
	if _, err := m.repo.IncAnswerCount(ctx, postID, 1); err != nil {
		return fmt.Errorf("record answer: %w", err)
	}
	return nil
}

// RemoveAnswer decrements the answer counter, floored at zero.
func (m *CounterManager) RemoveAnswer(ctx context.Context, postID string) error {
	matched, err := m.repo.IncAnswerCount(ctx, postID, -1)
	if err != nil {
		return fmt.Errorf("remove answer: %w", err)
	}
	if !matched {
		m.log.Warn().Str("post_id", postID).Msg("answer_count floored at zero, scheduling reconcile")
		m.reconciler.Schedule(postID)
	}
	return nil
}
