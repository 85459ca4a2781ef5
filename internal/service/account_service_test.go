package service

import (
	"context"
	"testing"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
)

func TestCreateUserReturnsWorkingTemporaryPassword(t *testing.T) {
	accounts, _, users, _ := newTestServices()
	ctx := context.Background()

	user, tempPassword, err := accounts.CreateUser(ctx, "admin@x.com", "Jane", "Doe", "Jane@X.com", "user")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.Email != "jane@x.com" {
		t.Fatalf("email should be normalized, got %q", user.Email)
	}
	if tempPassword == "" {
		t.Fatal("expected a temporary password")
	}
	if !user.MustResetPassword {
		t.Fatal("expected must_reset_password to be set")
	}
	if !accounts.VerifyCredentials(ctx, "jane@x.com", tempPassword) {
		t.Fatal("temporary password should verify")
	}

	stored, err := users.GetByEmail(ctx, "jane@x.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if stored.PasswordHash == tempPassword {
		t.Fatal("temporary password must not be stored in plaintext")
	}
}

func TestCreateUserDuplicateEmailDoesNotMutateStore(t *testing.T) {
	accounts, _, users, _ := newTestServices()
	ctx := context.Background()

	if _, _, err := accounts.CreateUser(ctx, "admin@x.com", "Jane", "Doe", "jane@x.com", "user"); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	_, _, err := accounts.CreateUser(ctx, "admin@x.com", "John", "Doe", "jane@x.com", "co-admin")
	if code := errorCode(t, err); code != "DUPLICATE_EMAIL" {
		t.Fatalf("expected DUPLICATE_EMAIL, got %s", code)
	}

	count, err := users.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Fatalf("duplicate create must not mutate the store, count=%d", count)
	}
	stored, err := users.GetByEmail(ctx, "jane@x.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if stored.Role != domain.RoleUser {
		t.Fatalf("original account changed: role=%s", stored.Role)
	}
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	accounts, _, _, _ := newTestServices()

	_, _, err := accounts.CreateUser(context.Background(), "admin@x.com", "Jane", "Doe", "jane@x.com", "superuser")
	if code := errorCode(t, err); code != "VALIDATION_FAILED" {
		t.Fatalf("expected VALIDATION_FAILED, got %s", code)
	}
}

func TestCreateUserPublishesEvent(t *testing.T) {
	users := newFakeUserRepo()
	dispatcher := &capturingDispatcher{}
	accounts := NewAccountService(testAuthConfig(), AccountDependencies{UserRepo: users, Dispatcher: dispatcher})

	if _, _, err := accounts.CreateUser(context.Background(), "admin@x.com", "Jane", "Doe", "jane@x.com", "user"); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	captured := dispatcher.captured()
	if len(captured) != 1 || captured[0].Type != events.EventUserCreated {
		t.Fatalf("expected one user_created event, got %+v", captured)
	}
	if captured[0].Actor != "admin@x.com" {
		t.Fatalf("expected actor admin@x.com, got %s", captured[0].Actor)
	}
}

func TestGetUserNotFound(t *testing.T) {
	accounts, _, _, _ := newTestServices()

	_, err := accounts.GetUser(context.Background(), "nobody@x.com")
	if code := errorCode(t, err); code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND, got %s", code)
	}
}

func TestProvisionFirstAdmin(t *testing.T) {
	t.Run("generates temporary password when none configured", func(t *testing.T) {
		accounts, auth, users, _ := newTestServices()
		ctx := context.Background()

		tempPassword, created, err := accounts.ProvisionFirstAdmin(ctx, config.AdminConfig{Email: "root@x.com"})
		if err != nil {
			t.Fatalf("ProvisionFirstAdmin: %v", err)
		}
		if !created || tempPassword == "" {
			t.Fatalf("expected a created admin with a temporary password, created=%v", created)
		}

		admin, err := users.GetByEmail(ctx, "root@x.com")
		if err != nil {
			t.Fatalf("GetByEmail: %v", err)
		}
		if admin.Role != domain.RoleAdmin || !admin.MustResetPassword {
			t.Fatalf("expected forced-reset admin, got role=%s mustReset=%v", admin.Role, admin.MustResetPassword)
		}

		session, _, _, err := auth.Login(ctx, "root@x.com", tempPassword)
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if session.State != domain.SessionStateMustReset {
			t.Fatalf("expected MUST_RESET for generated credential, got %s", session.State)
		}
	})

	t.Run("uses configured password without forced reset", func(t *testing.T) {
		accounts, _, users, _ := newTestServices()
		ctx := context.Background()

		tempPassword, created, err := accounts.ProvisionFirstAdmin(ctx, config.AdminConfig{Email: "root@x.com", Password: "Operator1!"})
		if err != nil {
			t.Fatalf("ProvisionFirstAdmin: %v", err)
		}
		if !created || tempPassword != "" {
			t.Fatalf("configured password must not be echoed back, created=%v temp=%q", created, tempPassword)
		}
		admin, err := users.GetByEmail(ctx, "root@x.com")
		if err != nil {
			t.Fatalf("GetByEmail: %v", err)
		}
		if admin.MustResetPassword {
			t.Fatal("configured credential should not force a reset")
		}
	})

	t.Run("idempotent once any account exists", func(t *testing.T) {
		accounts, _, _, _ := newTestServices()
		ctx := context.Background()

		if _, _, err := accounts.ProvisionFirstAdmin(ctx, config.AdminConfig{Email: "root@x.com"}); err != nil {
			t.Fatalf("ProvisionFirstAdmin: %v", err)
		}
		_, created, err := accounts.ProvisionFirstAdmin(ctx, config.AdminConfig{Email: "root@x.com"})
		if err != nil {
			t.Fatalf("second ProvisionFirstAdmin: %v", err)
		}
		if created {
			t.Fatal("provisioning must be a no-op when accounts already exist")
		}
	})

	t.Run("no-op without configured email", func(t *testing.T) {
		accounts, _, users, _ := newTestServices()
		ctx := context.Background()

		_, created, err := accounts.ProvisionFirstAdmin(ctx, config.AdminConfig{})
		if err != nil {
			t.Fatalf("ProvisionFirstAdmin: %v", err)
		}
		if created {
			t.Fatal("expected no-op without ADMIN_EMAIL")
		}
		count, _ := users.Count(ctx)
		if count != 0 {
			t.Fatalf("expected empty store, count=%d", count)
		}
	})
}
