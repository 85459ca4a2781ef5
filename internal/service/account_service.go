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
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// AccountService owns the credential store: account provisioning, lookups and
// credential verification.
type AccountService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	bcryptCost int
	tempPwLen  int
}

// AccountDependencies bundles requirements for the account service.
type AccountDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// NewAccountService builds the service.
func NewAccountService(cfg config.AuthConfig, deps AccountDependencies) *AccountService {
	return &AccountService{
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.BcryptCost,
		tempPwLen:  cfg.TempPasswordLength,
	}
}

// CreateUser provisions an account with a generated temporary password. The
// plaintext is returned exactly once; every created account starts in the
// forced-reset state. Email uniqueness is enforced by the database constraint.
func (s *AccountService) CreateUser(ctx context.Context, actor, firstName, lastName, email, rawRole string) (*domain.User, string, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	email = strings.ToLower(strings.TrimSpace(email))
	if firstName == "" || lastName == "" || email == "" {
		return nil, "", apperrors.NewValidationError("first name, last name, email required", nil)
	}

	role, err := domain.ParseRole(rawRole)
	if err != nil {
		return nil, "", apperrors.NewValidationError("invalid role", map[string]any{"role": rawRole})
	}

	tempPassword, err := auth.GenerateTemporaryPassword(s.tempPwLen)
	if err != nil {
		return nil, "", err
	}
	hash, err := auth.HashPassword(tempPassword, s.bcryptCost)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		FirstName:         firstName,
		LastName:          lastName,
		Email:             email,
		PasswordHash:      hash,
		Role:              role,
		MustResetPassword: true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", apperrors.NewDuplicateEmail(email)
		}
		return nil, "", err
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUserCreated,
		Actor:     actor,
		Timestamp: time.Now(),
		Payload:   events.UserCreatedPayload{Email: user.Email, Role: user.Role},
	})
	return user, tempPassword, nil
}

// GetUser looks an account up by its natural key.
func (s *AccountService) GetUser(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"email": email})
		}
		return nil, err
	}
	return user, nil
}

// VerifyCredentials reports whether the plaintext matches the stored hash.
// Unknown emails and wrong passwords both return false so the two cases stay
// indistinguishable to callers.
func (s *AccountService) VerifyCredentials(ctx context.Context, email, plaintext string) bool {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return false
	}
	return auth.ComparePassword(user.PasswordHash, plaintext) == nil
}

// ProvisionFirstAdmin seeds the initial admin account when the users table is
// empty. With no configured password a temporary one is generated and the
// account starts in the forced-reset state; the plaintext is returned to the
// caller for one-time operator delivery and never stored.
func (s *AccountService) ProvisionFirstAdmin(ctx context.Context, cfg config.AdminConfig) (string, bool, error) {
	if strings.TrimSpace(cfg.Email) == "" {
		return "", false, nil
	}

	count, err := s.users.Count(ctx)
	if err != nil {
		return "", false, err
	}
	if count > 0 {
		return "", false, nil
	}

	password := cfg.Password
	mustReset := false
	generated := false
	if password == "" {
		password, err = auth.GenerateTemporaryPassword(s.tempPwLen)
		if err != nil {
			return "", false, err
		}
		mustReset = true
		generated = true
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return "", false, err
	}

	admin := &domain.User{
		FirstName:         "System",
		LastName:          "Administrator",
		Email:             strings.ToLower(strings.TrimSpace(cfg.Email)),
		PasswordHash:      hash,
		Role:              domain.RoleAdmin,
		MustResetPassword: mustReset,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		// a concurrent instance may have seeded first; idempotent either way
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return "", false, nil
		}
		return "", false, err
	}

	if !generated {
		password = ""
	}
	return password, true, nil
}

func (s *AccountService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
