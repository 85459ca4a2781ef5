package domain

import "time"

// SessionState enumerates the per-client auth state machine.
type SessionState string

const (
	// SessionStateUnauthenticated is the initial and post-logout state.
	SessionStateUnauthenticated SessionState = "UNAUTHENTICATED"
	// SessionStateMustReset gates a freshly provisioned account: the only
	// permitted action is a password reset.
	SessionStateMustReset SessionState = "MUST_RESET"
	// SessionStateAuthenticated unlocks the role-gated dashboard.
	SessionStateAuthenticated SessionState = "AUTHENTICATED"
)

// Session is the ephemeral per-client identity. It is stored server-side and
// revoked on logout or password reset; an absent session means the client is
// unauthenticated.
type Session struct {
	ID        string       `json:"id"`
	Email     string       `json:"email"`
	Role      Role         `json:"role"`
	State     SessionState `json:"state"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Unauthenticated returns the zero session every state machine cycle starts
// and ends in.
func Unauthenticated() *Session {
	return &Session{State: SessionStateUnauthenticated}
}
