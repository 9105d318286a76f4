// Package policy is the single authority on who may do what. Every
// access-sensitive operation routes its decision through Decide; route-level
// guards consult the same tables via Allows. The permission matrix lives here
// as data so it can be tested exhaustively rather than re-derived per endpoint.
package policy

import (
	"github.com/memberbase/membership-api/internal/api/metrics"
	"github.com/memberbase/membership-api/internal/core/domain"
)

// Action identifies an access-controlled operation.
type Action string

const (
	ActionCreateResource   Action = "resource:create"
	ActionDeleteResource   Action = "resource:delete"
	ActionDownloadResource Action = "resource:download"
	ActionDeletePost       Action = "post:delete"
	ActionDeleteAnswer     Action = "answer:delete"
	ActionVote             Action = "post:vote"
	ActionChangeUserRole   Action = "user:change-role"
	ActionChangeUserStatus Action = "user:change-status"
	ActionDeleteUser       Action = "user:delete"
	ActionManageNews       Action = "news:manage"
	ActionManageEvents     Action = "event:manage"
)

// Target carries the fields of the entity a decision is about. Ownership and
// type must come from a fresh store read, never from the request body.
type Target struct {
	ID      string
	OwnerID string
	Type    domain.ResourceType
}

type roleSet map[string]struct{}

func roles(names ...string) roleSet {
	s := make(roleSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

var everyRole = roles(
	domain.RoleAdmin,
	domain.RoleExecutive,
	domain.RolePaidMember,
	domain.RoleFreeMember,
	domain.RoleUniversity,
	domain.RoleProductCompany,
)

// matrix is the canonical action → role table. Actions listed in
// ownerActions additionally allow the target's owner regardless of role.
var matrix = map[Action]roleSet{
	ActionDeleteResource:   roles(domain.RoleAdmin),
	ActionDownloadResource: roles(domain.RoleAdmin, domain.RoleExecutive, domain.RolePaidMember, domain.RoleProductCompany),
	ActionDeletePost:       roles(domain.RoleAdmin),
	ActionDeleteAnswer:     roles(domain.RoleAdmin),
	ActionVote:             everyRole,
	ActionChangeUserRole:   roles(domain.RoleAdmin),
	ActionChangeUserStatus: roles(domain.RoleAdmin),
	ActionDeleteUser:       roles(domain.RoleAdmin),
	ActionManageNews:       roles(domain.RoleAdmin, domain.RoleExecutive),
	ActionManageEvents:     roles(domain.RoleAdmin, domain.RoleExecutive),
}

// creatorRoles gates resource creation by resource type.
var creatorRoles = map[domain.ResourceType]roleSet{
	domain.ResourceFramework:  roles(domain.RoleAdmin),
	domain.ResourceWhitepaper: roles(domain.RoleAdmin, domain.RoleUniversity),
	domain.ResourceProduct:    roles(domain.RoleAdmin, domain.RoleProductCompany),
}

// ownerActions are deletions where owning the target grants permission even
// without a matrix role. Their denial reason is ErrNotOwner, not
// ErrForbiddenRole, so the two failures stay distinguishable.
var ownerActions = map[Action]bool{
	ActionDeleteResource: true,
	ActionDeletePost:     true,
	ActionDeleteAnswer:   true,
}

// selfProtected are user-management actions an admin may never apply to
// their own account.
var selfProtected = map[Action]bool{
	ActionChangeUserRole:   true,
	ActionChangeUserStatus: true,
	ActionDeleteUser:       true,
}

// Allows reports whether the matrix alone permits role to perform action.
// Ownership overrides are not considered; use Decide for target-aware checks.
func Allows(action Action, role string) bool {
	_, ok := matrix[action][role]
	return ok
}

// Decide returns nil when caller may perform action on target, or one of
// domain.ErrSelfAction, domain.ErrNotOwner, domain.ErrForbiddenRole.
//
// Precedence: self-protection first, then ownership, then the role matrix.
// Existence is the caller's concern: services fetch the target before
// deciding, so a missing target is reported as not-found rather than denied.
func Decide(caller domain.Claims, action Action, target *Target) error {
	if selfProtected[action] && target != nil && target.ID == caller.UserID {
		return deny(action, "self_action", domain.ErrSelfAction)
	}

	if action == ActionCreateResource {
		if target == nil || !domain.ValidResourceType(target.Type) {
			return domain.ErrInvalidResourceType
		}
		if _, ok := creatorRoles[target.Type][caller.Role]; !ok {
			return deny(action, "role", domain.ErrForbiddenRole)
		}
		return nil
	}

	if ownerActions[action] {
		if Allows(action, caller.Role) {
			return nil
		}
		if target != nil && target.OwnerID == caller.UserID {
			return nil
		}
		return deny(action, "not_owner", domain.ErrNotOwner)
	}

	if !Allows(action, caller.Role) {
		return deny(action, "role", domain.ErrForbiddenRole)
	}
	return nil
}

func deny(action Action, reason string, err error) error {
	metrics.PolicyDenialsTotal.WithLabelValues(string(action), reason).Inc()
	return err
}
