package services

import (
	"context"
	"errors"
	"fmt"

	"blog-api/models"
	"blog-api/repositories"
)

var (
	ErrDuplicateAccount = errors.New("an account with this email already exists")
	ErrNoSuchAccount    = errors.New("no account with those credentials")
	ErrBadCredentials   = errors.New("incorrect password")
)

type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(users *repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

func (s *AuthService) Register(ctx context.Context, email, name, password string) (*models.User, error) {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateAccount
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:    email,
		Name:     name,
		Password: hashed,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrDuplicateAccount
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNoSuchAccount
		}
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	if !CheckPassword(user.Password, password) {
		return nil, ErrBadCredentials
	}
	return user, nil
}

// IsAdmin reports whether userID is the lowest id on record. It is not cached.
func (s *AuthService) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	adminID, err := s.users.AdminID(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return adminID == userID, nil
}

func (s *AuthService) FindUser(ctx context.Context, id uint) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}
