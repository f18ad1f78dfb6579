package service

import (
	"context"
	"errors"
	"fmt"

	"accounts/internal/auth"
	apperrors "accounts/internal/errors"
	"accounts/internal/model"
	"accounts/internal/repository"
)

// AuthService handles registration and login.
type AuthService interface {
	Register(ctx context.Context, name, email, password, role string) (uint, error)
	Login(ctx context.Context, email, password string) (token string, user *model.User, err error)
}

type authService struct {
	userRepo   repository.UserRepository
	hasher     *auth.PasswordHasher
	jwtService *auth.JWTService
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, hasher *auth.PasswordHasher, jwtService *auth.JWTService) AuthService {
	return &authService{
		userRepo:   userRepo,
		hasher:     hasher,
		jwtService: jwtService,
	}
}

// Register creates a new user with a hashed password and returns its id.
// Role defaults to viewer when empty; uniqueness is enforced by the store's
// index, so concurrent registrations with the same email leave one winner.
func (s *authService) Register(ctx context.Context, name, email, password, role string) (uint, error) {
	if name == "" || email == "" || password == "" {
		return 0, fmt.Errorf("%w: name, email and password are required", apperrors.ErrValidation)
	}
	if role == "" {
		role = model.DefaultRole
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return 0, err
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return 0, err
	}

	return user.ID, nil
}

// Login authenticates a user and returns a signed token plus the user record.
// Unknown email and wrong password collapse to the same ErrInvalidCredentials
// so callers cannot enumerate accounts.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	if email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: email and password are required", apperrors.ErrValidation)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.Issue(user.ID, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	return token, user, nil
}
