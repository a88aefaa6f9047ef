package auth

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already in use")
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// Authenticate looks the identifier up (email or display name, case
// folded) and verifies the password against the stored bcrypt hash. The
// same error comes back for an unknown user and a wrong password.
func (s *Service) Authenticate(ctx context.Context, identifier, password string) (User, error) {
	user, err := s.store.FindByIdentifier(ctx, strings.TrimSpace(identifier))
	if errors.Is(err, ErrUserNotFound) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, err
	}
	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

type CreateUserInput struct {
	Email       string
	DisplayName string
	Password    string
	Role        string
	Permissions []string
}

func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if count, err := s.store.CountByEmail(ctx, email); err != nil {
		return User{}, err
	} else if count > 0 {
		return User{}, ErrEmailTaken
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return User{}, err
	}
	perms := in.Permissions
	if len(perms) == 0 {
		perms = PermissionsForRole(in.Role)
	}
	id, err := s.store.Insert(ctx, User{
		Email:        email,
		DisplayName:  strings.TrimSpace(in.DisplayName),
		PasswordHash: hash,
		Role:         in.Role,
		Permissions:  perms,
		Active:       true,
	})
	if err != nil {
		return User{}, err
	}
	return s.store.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.store.List(ctx)
}

// ResetPassword sets a new password for a user, admin-driven.
func (s *Service) ResetPassword(ctx context.Context, id, newPassword string) error {
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.store.UpdatePassword(ctx, id, hash)
}

func (s *Service) SetActive(ctx context.Context, id string, active bool) error {
	return s.store.SetActive(ctx, id, active)
}
