package domain

import (
	"errors"
	"time"
)

// Roles understood by the platform. The role embedded in a session token is
// the role at issuance time; it is not re-read from storage on each request.
const (
	RoleAdmin          = "admin"
	RoleExecutive      = "executive"
	RolePaidMember     = "paid_member"
	RoleFreeMember     = "free_member"
	RoleUniversity     = "university"
	RoleProductCompany = "product_company"
)

// Account statuses. Only approved accounts may authenticate.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

var ErrUserNotFound = errors.New("user not found")
var ErrEmailTaken = errors.New("email already registered")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrPendingApproval = errors.New("account pending approval")
var ErrApplicationRejected = errors.New("application rejected")
var ErrInvalidRole = errors.New("invalid role")
var ErrInvalidStatus = errors.New("invalid status")

// User models a platform member.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Claims is the identity snapshot embedded in a session token.
type Claims struct {
	UserID string
	Name   string
	Email  string
	Role   string
}

// ValidRole reports whether r is one of the six platform roles.
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleExecutive, RolePaidMember, RoleFreeMember, RoleUniversity, RoleProductCompany:
		return true
	}
	return false
}

// ValidStatus reports whether s is a known account status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}
