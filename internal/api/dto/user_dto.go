package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PasswordResetRequest payload for the forced-reset flow.
type PasswordResetRequest struct {
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// CreateUserRequest payload for admin-driven account provisioning.
type CreateUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionResponse mirrors the session state the client should render from.
type SessionResponse struct {
	State domain.SessionState `json:"state"`
	Email string              `json:"email,omitempty"`
	Role  domain.Role         `json:"role,omitempty"`
}

// UserResponse describes a provisioned account.
type UserResponse struct {
	ID                int64       `json:"id"`
	FirstName         string      `json:"first_name"`
	LastName          string      `json:"last_name"`
	Email             string      `json:"email"`
	Role              domain.Role `json:"role"`
	MustResetPassword bool        `json:"must_reset_password"`
	CreatedAt         time.Time   `json:"created_at"`
}

// NewSessionResponse maps a domain session.
func NewSessionResponse(session *domain.Session) SessionResponse {
	if session == nil {
		return SessionResponse{State: domain.SessionStateUnauthenticated}
	}
	return SessionResponse{State: session.State, Email: session.Email, Role: session.Role}
}

// NewUserResponse maps a domain user. The password hash never leaves the
// service.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:                user.ID,
		FirstName:         user.FirstName,
		LastName:          user.LastName,
		Email:             user.Email,
		Role:              user.Role,
		MustResetPassword: user.MustResetPassword,
		CreatedAt:         user.CreatedAt,
	}
}
