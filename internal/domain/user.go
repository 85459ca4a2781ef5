package domain

import (
	"fmt"
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleUser    Role = "user"
	RoleCoAdmin Role = "co-admin"
	RoleAdmin   Role = "admin"
)

// ParseRole validates a raw role string against the closed enum.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleUser, RoleCoAdmin, RoleAdmin:
		return Role(raw), nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// CanManageAllTickets reports whether the role sees the system-wide ticket
// queue. Co-admins currently have the same ticket scope as admins.
func (r Role) CanManageAllTickets() bool {
	return r == RoleAdmin || r == RoleCoAdmin
}

// CanAdministerUsers reports whether the role may provision accounts and view
// aggregate stats.
func (r Role) CanAdministerUsers() bool {
	return r == RoleAdmin
}

// User is the domain model for helpdesk accounts. Email is the natural key;
// accounts are provisioned by an admin and never deleted.
type User struct {
	ID                int64
	FirstName         string
	LastName          string
	Email             string
	PasswordHash      string
	Role              Role
	MustResetPassword bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
