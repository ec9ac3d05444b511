package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockUserRepo struct {
	users map[uuid.UUID]*User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uuid.UUID]*User)}
}

func (m *mockUserRepo) Create(_ context.Context, u *User) error {
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return ErrDuplicateUsername
		}
		if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = time.Now()
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	_, err := m.GetByUsername(context.Background(), username)
	return err == nil, nil
}

func (m *mockUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func newTestService() *Service {
	return NewService(newMockUserRepo(), "test-secret", time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService()
	u, err := svc.Register(context.Background(), RegisterInput{
		Username: "bob", Email: "b@x.com",
		Password: "p1", ConfirmPassword: "p1",
		FirstName: "Bob", LastName: "Smith",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.PasswordHash == "p1" {
		t.Error("password must not be stored in plaintext")
	}

	sess, err := svc.Login(context.Background(), "bob", "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.Token == "" {
		t.Error("expected a session token")
	}
	if sess.Identity.UserID != u.ID {
		t.Errorf("expected identity for user %s, got %s", u.ID, sess.Identity.UserID)
	}
}

func TestRegister_PasswordMismatch(t *testing.T) {
	svc := newTestService()
	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "bob", Email: "b@x.com",
		Password: "p1", ConfirmPassword: "p2",
	})
	if err == nil {
		t.Fatal("expected error for mismatched passwords")
	}
	// No identity may be created on a failed registration.
	if _, err := svc.Login(context.Background(), "bob", "p1"); err == nil {
		t.Error("expected login to fail after rejected registration")
	}
}

func TestRegister_MissingFields(t *testing.T) {
	svc := newTestService()
	_, err := svc.Register(context.Background(), RegisterInput{Username: "bob"})
	if err == nil {
		t.Error("expected error for missing email and password")
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := newTestService()
	in := RegisterInput{Username: "bob", Email: "b@x.com", Password: "p", ConfirmPassword: "p"}
	if _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	in.Email = "other@x.com"
	if _, err := svc.Register(context.Background(), in); err != ErrDuplicateUsername {
		t.Errorf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newTestService()
	in := RegisterInput{Username: "bob", Email: "b@x.com", Password: "p", ConfirmPassword: "p"}
	if _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	in.Username = "alice"
	if _, err := svc.Register(context.Background(), in); err != ErrDuplicateEmail {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newTestService()
	svc.Register(context.Background(), RegisterInput{
		Username: "bob", Email: "b@x.com", Password: "p1", ConfirmPassword: "p1",
	})
	if _, err := svc.Login(context.Background(), "bob", "nope"); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Login(context.Background(), "ghost", "p"); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestEnsureSuperuser_Idempotent(t *testing.T) {
	svc := newTestService()
	created, err := svc.EnsureSuperuser(context.Background(), "admin", "admin@clinic.com", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected superuser to be created")
	}

	created, err = svc.EnsureSuperuser(context.Background(), "admin", "admin@clinic.com", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("expected second call to skip creation")
	}

	sess, err := svc.Login(context.Background(), "admin", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.Identity.Username != "admin" {
		t.Errorf("unexpected identity: %+v", sess.Identity)
	}
}
