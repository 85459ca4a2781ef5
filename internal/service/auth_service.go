package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// AuthService drives the per-client session state machine:
// unauthenticated -> must-reset or authenticated on login, must-reset ->
// unauthenticated on a successful password reset, authenticated ->
// unauthenticated on logout. Every operation returns the resulting session
// state so the presentation layer can render from it deterministically.
type AuthService struct {
	users      repository.UserRepository
	sessions   repository.SessionRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo    repository.UserRepository
	SessionRepo repository.SessionRepository
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		sessions:   deps.SessionRepo,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL()),
		bcryptCost: cfg.BcryptCost,
	}
}

// Login validates credentials and opens a session. Accounts flagged for a
// forced reset land in the must-reset state; everything else lands in the
// authenticated state. Unknown emails and wrong passwords produce the same
// generic error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
	}

	state := domain.SessionStateAuthenticated
	if user.MustResetPassword {
		state = domain.SessionStateMustReset
	}

	// The server-side session lives exactly as long as the token it backs.
	ttl := s.tokenMgr.TTL()
	now := time.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		Email:     user.Email,
		Role:      user.Role,
		State:     state,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := s.sessions.Save(ctx, session, ttl); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(session)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return session, token, exp, nil
}

// ResetPassword completes the forced-reset flow. On success the session is
// revoked and the caller must log in again with the new password; a freshly
// reset password is never trusted without a fresh login round-trip.
func (s *AuthService) ResetPassword(ctx context.Context, session *domain.Session, newPassword, confirm string) (*domain.Session, error) {
	if session == nil || session.State != domain.SessionStateMustReset {
		return session, apperrors.NewForbidden("password reset not required")
	}
	if newPassword == "" {
		return session, apperrors.NewValidationError("new password required", nil)
	}
	if newPassword != confirm {
		return session, apperrors.NewPasswordMismatch()
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return session, err
	}
	if err := s.users.UpdatePassword(ctx, session.Email, hash); err != nil {
		return session, err
	}
	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		return session, err
	}
	return domain.Unauthenticated(), nil
}

// Logout revokes the session.
func (s *AuthService) Logout(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	if session == nil || session.ID == "" {
		return domain.Unauthenticated(), nil
	}
	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		return session, err
	}
	return domain.Unauthenticated(), nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
