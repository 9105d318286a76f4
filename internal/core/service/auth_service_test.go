package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/memberbase/membership-api/internal/core/domain"
	"github.com/memberbase/membership-api/internal/core/ports"
)

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.nextID++
	clone := cloneUser(user)
	clone.ID = fmt.Sprintf("u%d", r.nextID)
	r.users[clone.ID] = cloneUser(clone)
	return clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context, status string) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		if status == "" || u.Status == status {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) UpdateRole(_ context.Context, id, role string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	return nil
}

func (r *stubUserRepo) UpdateStatus(_ context.Context, id, status string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Status = status
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) seed(t *testing.T, email, password, role, status string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u, err := r.Create(context.Background(), &domain.User{
		Name:         "seeded",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Status:       status,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func registerInput(name, email, role string) ports.RegisterInput {
	return ports.RegisterInput{Name: name, Email: email, Password: "pass123", Role: role}
}

func TestAuthService_Register_StartsPending(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	user, err := svc.Register(context.Background(), registerInput("alice", "alice@example.com", domain.RoleUniversity))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Status != domain.StatusPending {
		t.Fatalf("expected pending status, got %s", user.Status)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_AdminNotRequestable(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	if _, err := svc.Register(context.Background(), registerInput("eve", "eve@example.com", domain.RoleAdmin)); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole for admin registration, got %v", err)
	}
	if _, err := svc.Register(context.Background(), registerInput("eve", "eve@example.com", "superuser")); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole for unknown role, got %v", err)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	if _, err := svc.Register(context.Background(), registerInput("bob", "bob@example.com", domain.RoleFreeMember)); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(context.Background(), registerInput("robert", "bob@example.com", domain.RoleFreeMember)); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Login_ApprovedGetsToken(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour)
	seeded := repo.seed(t, "carol@example.com", "s3cret", domain.RolePaidMember, domain.StatusApproved)

	token, user, err := svc.Login(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}
	if user.ID != seeded.ID {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["sub"] != seeded.ID {
		t.Fatalf("expected sub %s, got %v", seeded.ID, claims["sub"])
	}
	if claims["role"] != domain.RolePaidMember {
		t.Fatalf("expected role %s, got %v", domain.RolePaidMember, claims["role"])
	}
}

func TestAuthService_Login_PendingAndRejectedAreDistinct(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour)
	repo.seed(t, "pending@example.com", "pw", domain.RoleFreeMember, domain.StatusPending)
	repo.seed(t, "rejected@example.com", "pw", domain.RoleFreeMember, domain.StatusRejected)

	if _, _, err := svc.Login(context.Background(), "pending@example.com", "pw"); !errors.Is(err, domain.ErrPendingApproval) {
		t.Fatalf("expected ErrPendingApproval, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "rejected@example.com", "pw"); !errors.Is(err, domain.ErrApplicationRejected) {
		t.Fatalf("expected ErrApplicationRejected, got %v", err)
	}
}

func TestAuthService_Login_BadPasswordBeforeStatus(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour)
	repo.seed(t, "pending@example.com", "pw", domain.RoleFreeMember, domain.StatusPending)

	// A wrong password must not reveal the application status.
	if _, _, err := svc.Login(context.Background(), "pending@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	if _, _, err := svc.Login(context.Background(), "ghost@example.com", "pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
