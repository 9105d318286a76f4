package policy

import (
	"errors"
	"testing"

	"github.com/memberbase/membership-api/internal/core/domain"
)

var allRoles = []string{
	domain.RoleAdmin,
	domain.RoleExecutive,
	domain.RolePaidMember,
	domain.RoleFreeMember,
	domain.RoleUniversity,
	domain.RoleProductCompany,
}

func claims(id, role string) domain.Claims {
	return domain.Claims{UserID: id, Role: role}
}

func TestDecide_CreateResource_Matrix(t *testing.T) {
	// Every role × type combination has a known expected outcome.
	allowed := map[domain.ResourceType]map[string]bool{
		domain.ResourceFramework:  {domain.RoleAdmin: true},
		domain.ResourceWhitepaper: {domain.RoleAdmin: true, domain.RoleUniversity: true},
		domain.ResourceProduct:    {domain.RoleAdmin: true, domain.RoleProductCompany: true},
	}

	for _, typ := range []domain.ResourceType{domain.ResourceFramework, domain.ResourceWhitepaper, domain.ResourceProduct} {
		for _, role := range allRoles {
			err := Decide(claims("u1", role), ActionCreateResource, &Target{Type: typ})
			want := allowed[typ][role]
			if want && err != nil {
				t.Errorf("create %s as %s: expected allow, got %v", typ, role, err)
			}
			if !want && !errors.Is(err, domain.ErrForbiddenRole) {
				t.Errorf("create %s as %s: expected ErrForbiddenRole, got %v", typ, role, err)
			}
		}
	}
}

func TestDecide_CreateResource_UnknownType(t *testing.T) {
	err := Decide(claims("u1", domain.RoleAdmin), ActionCreateResource, &Target{Type: "meme"})
	if !errors.Is(err, domain.ErrInvalidResourceType) {
		t.Fatalf("expected ErrInvalidResourceType, got %v", err)
	}
	if err := Decide(claims("u1", domain.RoleAdmin), ActionCreateResource, nil); !errors.Is(err, domain.ErrInvalidResourceType) {
		t.Fatalf("expected ErrInvalidResourceType for nil target, got %v", err)
	}
}

func TestDecide_Download_Matrix(t *testing.T) {
	downloadRoles := map[string]bool{
		domain.RoleAdmin:          true,
		domain.RoleExecutive:      true,
		domain.RolePaidMember:     true,
		domain.RoleProductCompany: true,
	}
	for _, role := range allRoles {
		err := Decide(claims("u1", role), ActionDownloadResource, &Target{ID: "r1", OwnerID: "u1"})
		if downloadRoles[role] && err != nil {
			t.Errorf("download as %s: expected allow, got %v", role, err)
		}
		if !downloadRoles[role] && !errors.Is(err, domain.ErrForbiddenRole) {
			t.Errorf("download as %s: expected ErrForbiddenRole, got %v", role, err)
		}
	}
}

// Download eligibility is independent of ownership: a university uploader
// cannot download their own whitepaper.
func TestDecide_Download_OwnershipIrrelevant(t *testing.T) {
	err := Decide(claims("u9", domain.RoleUniversity), ActionDownloadResource, &Target{ID: "r1", OwnerID: "u9"})
	if !errors.Is(err, domain.ErrForbiddenRole) {
		t.Fatalf("expected ErrForbiddenRole, got %v", err)
	}
}

func TestDecide_SelfProtection(t *testing.T) {
	admin := claims("5", domain.RoleAdmin)
	for _, action := range []Action{ActionChangeUserRole, ActionChangeUserStatus, ActionDeleteUser} {
		if err := Decide(admin, action, &Target{ID: "5"}); !errors.Is(err, domain.ErrSelfAction) {
			t.Errorf("%s on own account: expected ErrSelfAction, got %v", action, err)
		}
		if err := Decide(admin, action, &Target{ID: "6"}); err != nil {
			t.Errorf("%s on another account: expected allow, got %v", action, err)
		}
	}
}

func TestDecide_UserManagement_NonAdmin(t *testing.T) {
	for _, role := range allRoles {
		if role == domain.RoleAdmin {
			continue
		}
		err := Decide(claims("u1", role), ActionDeleteUser, &Target{ID: "u2"})
		if !errors.Is(err, domain.ErrForbiddenRole) {
			t.Errorf("delete user as %s: expected ErrForbiddenRole, got %v", role, err)
		}
	}
}

func TestDecide_Deletion_OwnerOrAdmin(t *testing.T) {
	for _, action := range []Action{ActionDeleteResource, ActionDeletePost, ActionDeleteAnswer} {
		target := &Target{ID: "x1", OwnerID: "owner"}

		if err := Decide(claims("admin1", domain.RoleAdmin), action, target); err != nil {
			t.Errorf("%s as admin: expected allow, got %v", action, err)
		}
		if err := Decide(claims("owner", domain.RoleFreeMember), action, target); err != nil {
			t.Errorf("%s as owner: expected allow, got %v", action, err)
		}
		err := Decide(claims("stranger", domain.RolePaidMember), action, target)
		if !errors.Is(err, domain.ErrNotOwner) {
			t.Errorf("%s as stranger: expected ErrNotOwner, got %v", action, err)
		}
	}
}

func TestDecide_Vote_AnyRole(t *testing.T) {
	for _, role := range allRoles {
		if err := Decide(claims("u1", role), ActionVote, &Target{ID: "p1"}); err != nil {
			t.Errorf("vote as %s: expected allow, got %v", role, err)
		}
	}
}

func TestDecide_ManageNews(t *testing.T) {
	for _, role := range allRoles {
		err := Decide(claims("u1", role), ActionManageNews, nil)
		allowed := role == domain.RoleAdmin || role == domain.RoleExecutive
		if allowed && err != nil {
			t.Errorf("manage news as %s: expected allow, got %v", role, err)
		}
		if !allowed && !errors.Is(err, domain.ErrForbiddenRole) {
			t.Errorf("manage news as %s: expected ErrForbiddenRole, got %v", role, err)
		}
	}
}

func TestAllows(t *testing.T) {
	if !Allows(ActionChangeUserRole, domain.RoleAdmin) {
		t.Fatalf("admin should pass the route guard for user management")
	}
	if Allows(ActionChangeUserRole, domain.RoleExecutive) {
		t.Fatalf("executive should not pass the route guard for user management")
	}
	if Allows("unknown:action", domain.RoleAdmin) {
		t.Fatalf("unknown actions must default to deny")
	}
}
