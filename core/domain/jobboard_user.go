package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of account types.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleCompany Role = "COMPANY"
	RoleAdmin   Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleCompany, RoleAdmin:
		return true
	}
	return false
}

// Label is the human readable role name used in messages.
func (r Role) Label() string {
	switch r {
	case RoleStudent:
		return "Student"
	case RoleCompany:
		return "Company"
	case RoleAdmin:
		return "Admin"
	default:
		return string(r)
	}
}

// ParseRole accepts any letter case.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.Valid()
}

// Identity is what a verified session token carries.
type Identity struct {
	UserID uuid.UUID `json:"id"`
	Email  string    `json:"email"`
	Role   Role      `json:"userType"`
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// User is the credential record every profile hangs off.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"userType"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
}

// UserFilter drives the admin user listing.
type UserFilter struct {
	Role   *Role
	Search *string
	Offset int
	Limit  int
}

// UserListItem is a user joined with whichever profile it owns.
type UserListItem struct {
	User
	Student *StudentSummary `json:"student,omitempty"`
	Company *CompanySummary `json:"company,omitempty"`
}
