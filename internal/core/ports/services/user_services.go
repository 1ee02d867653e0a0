package services

import (
	"context"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

// UserService manages users and credential checks.
type UserService interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)

	// Authenticate verifies a username/password pair and returns the user.
	// Fails with apperrors.ErrForbidden on bad credentials.
	Authenticate(ctx context.Context, username string, password string) (*domain.User, error)
}
