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

// PostService implements the Q&A operations. All counter mutations go
// through the CounterManager.
type PostService struct {
	repo     ports.PostRepository
	counters *CounterManager
	log      zerolog.Logger
}

func NewPostService(repo ports.PostRepository, counters *CounterManager, log zerolog.Logger) *PostService {
	return &PostService{repo: repo, counters: counters, log: log}
}

func (s *PostService) Create(ctx context.Context, caller domain.Claims, in ports.CreatePostInput) (*domain.Post, error) {
	post := &domain.Post{
		AuthorID:  caller.UserID,
		Title:     in.Title,
		Body:      in.Body,
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.repo.CreatePost(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return created, nil
}

func (s *PostService) Get(ctx context.Context, id string) (*domain.Post, []*domain.Answer, error) {
	post, err := s.repo.FindPostByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	answers, err := s.repo.ListAnswers(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("get post: list answers: %w", err)
	}
	return post, answers, nil
}

func (s *PostService) List(ctx context.Context) ([]*domain.Post, error) {
	return s.repo.ListPosts(ctx)
}

// Delete removes a post with its answers and votes. Counters die with the
// post, so no counter bookkeeping is needed here.
func (s *PostService) Delete(ctx context.Context, caller domain.Claims, id string) error {
	target, err := s.repo.FindPostByID(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Decide(caller, policy.ActionDeletePost, &policy.Target{ID: target.ID, OwnerID: target.AuthorID}); err != nil {
		return err
	}

	if err := s.repo.DeletePost(ctx, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	s.log.Info().Str("post_id", id).Str("caller_id", caller.UserID).Msg("post deleted")
	return nil
}

// CreateAnswer writes the answer row first, then bumps the counter. The
// ordering matters: the counter only ever counts durably written answers.
func (s *PostService) CreateAnswer(ctx context.Context, caller domain.Claims, postID, body string) (*domain.Answer, error) {
	if _, err := s.repo.FindPostByID(ctx, postID); err != nil {
		return nil, err
	}

	answer := &domain.Answer{
		PostID:    postID,
		AuthorID:  caller.UserID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.repo.CreateAnswer(ctx, answer)
	if err != nil {
		return nil, fmt.Errorf("create answer: %w", err)
	}

	if err := s.counters.RecordAnswer(ctx, postID); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *PostService) DeleteAnswer(ctx context.Context, caller domain.Claims, answerID string) error {
	target, err := s.repo.FindAnswerByID(ctx, answerID)
	if err != nil {
		return err
	}
	if err := policy.Decide(caller, policy.ActionDeleteAnswer, &policy.Target{ID: target.ID, OwnerID: target.AuthorID}); err != nil {
		return err
	}

	if err := s.repo.DeleteAnswer(ctx, answerID); err != nil {
		return fmt.Errorf("delete answer: %w", err)
	}
	return s.counters.RemoveAnswer(ctx, target.PostID)
}

// ToggleVote flips the caller's vote. Any authenticated, approved member may
// vote; the policy check is a formality kept so every action runs through
// the same table.
func (s *PostService) ToggleVote(ctx context.Context, caller domain.Claims, postID string) (*ports.VoteResult, error) {
	if err := policy.Decide(caller, policy.ActionVote, &policy.Target{ID: postID}); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindPostByID(ctx, postID); err != nil {
		return nil, err
	}

	voted, err := s.counters.ToggleVote(ctx, postID, caller.UserID)
	if err != nil {
		return nil, err
	}

	post, err := s.repo.FindPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &ports.VoteResult{Voted: voted, VoteCount: post.VoteCount}, nil
}
