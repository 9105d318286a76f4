package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/memberbase/membership-api/internal/core/domain"
	"github.com/memberbase/membership-api/internal/core/policy"
	"github.com/memberbase/membership-api/internal/core/ports"
)

// Revoker invalidates outstanding sessions for a user id (Redis-backed).
// Session tokens are otherwise trusted until expiry, so rejected and deleted
// accounts need an out-of-band cutoff.
type Revoker interface {
	Revoke(ctx context.Context, userID string) error
}

// UserService implements the admin member-management operations.
type UserService struct {
	repo    ports.UserRepository
	revoker Revoker
	log     zerolog.Logger
}

func NewUserService(repo ports.UserRepository, revoker Revoker, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, revoker: revoker, log: log}
}

func (s *UserService) List(ctx context.Context, caller domain.Claims, status string) ([]*domain.User, error) {
	if err := policy.Decide(caller, policy.ActionChangeUserStatus, nil); err != nil {
		return nil, err
	}
	if status != "" && !domain.ValidStatus(status) {
		return nil, domain.ErrInvalidStatus
	}
	return s.repo.List(ctx, status)
}

// ChangeRole reassigns a member's role. The target is fetched fresh so the
// policy decision runs against current state, and so a missing target is
// reported as not-found rather than denied.
func (s *UserService) ChangeRole(ctx context.Context, caller domain.Claims, userID, role string) error {
	if !domain.ValidRole(role) {
		return domain.ErrInvalidRole
	}

	target, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := policy.Decide(caller, policy.ActionChangeUserRole, &policy.Target{ID: target.ID}); err != nil {
		return err
	}

	if err := s.repo.UpdateRole(ctx, userID, role); err != nil {
		return fmt.Errorf("change role: %w", err)
	}
	s.log.Info().Str("user_id", userID).Str("role", role).Str("admin_id", caller.UserID).Msg("role changed")
	return nil
}

// ChangeStatus approves or rejects an application. Rejection also revokes
// any outstanding sessions.
func (s *UserService) ChangeStatus(ctx context.Context, caller domain.Claims, userID, status string) error {
	if !domain.ValidStatus(status) {
		return domain.ErrInvalidStatus
	}

	target, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := policy.Decide(caller, policy.ActionChangeUserStatus, &policy.Target{ID: target.ID}); err != nil {
		return err
	}

	if err := s.repo.UpdateStatus(ctx, userID, status); err != nil {
		return fmt.Errorf("change status: %w", err)
	}

	if status == domain.StatusRejected {
		s.revokeSessions(ctx, userID)
	}

	s.log.Info().Str("user_id", userID).Str("status", status).Str("admin_id", caller.UserID).Msg("status changed")
	return nil
}

// Delete removes a member and revokes their sessions.
func (s *UserService) Delete(ctx context.Context, caller domain.Claims, userID string) error {
	target, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := policy.Decide(caller, policy.ActionDeleteUser, &policy.Target{ID: target.ID}); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.revokeSessions(ctx, userID)
	s.log.Info().Str("user_id", userID).Str("admin_id", caller.UserID).Msg("user deleted")
	return nil
}

// revokeSessions is best effort: the account change itself has landed, and a
// revocation miss only extends the staleness window to the token expiry.
func (s *UserService) revokeSessions(ctx context.Context, userID string) {
	if err := s.revoker.Revoke(ctx, userID); err != nil && !errors.Is(err, context.Canceled) {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to revoke sessions")
	}
}
