package auth

import (
	"context"
	"fmt"
	"time"
)

// Service owns user accounts and session issuance. The rest of the system
// only sees the Identity it resolves.
type Service struct {
	users  UserRepository
	secret string
	ttl    time.Duration
}

func NewService(users UserRepository, secret string, ttl time.Duration) *Service {
	return &Service{users: users, secret: secret, ttl: ttl}
}

// Session is the result of a successful login.
type Session struct {
	Identity Identity
	Token    string
}

// Login verifies username/password and issues a session token.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		// Do not reveal whether the username exists.
		return nil, ErrInvalidCredentials
	}
	if !CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, err := MakeToken(u.ID, u.Username, s.secret, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{Identity: u.identity(), Token: token}, nil
}

// RegisterInput carries the fields of an account-creation request.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
}

// Register creates a new user account. Username and email must be unused;
// password and confirmation must match.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", ErrInvalidInput)
	}
	if in.Password != in.ConfirmPassword {
		return nil, fmt.Errorf("%w: passwords do not match", ErrInvalidInput)
	}

	if taken, err := s.users.ExistsByUsername(ctx, in.Username); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrDuplicateUsername
	}
	if taken, err := s.users.ExistsByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrDuplicateEmail
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// EnsureSuperuser creates the bootstrap admin account if it does not exist.
// Returns true when a new account was created.
func (s *Service) EnsureSuperuser(ctx context.Context, username, email, password string) (bool, error) {
	if username == "" || password == "" {
		return false, fmt.Errorf("%w: superuser username and password are required", ErrInvalidInput)
	}

	if exists, err := s.users.ExistsByUsername(ctx, username); err != nil {
		return false, err
	} else if exists {
		return false, nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	u := &User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsSuperuser:  true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return false, err
	}
	return true, nil
}
