// Package user contains account profile use cases.
package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/finly/backend/internal/application/adapter"
	"github.com/finly/backend/internal/domain/entity"
	domainerror "github.com/finly/backend/internal/domain/error"
)

// GetProfileUseCase returns the caller's profile.
type GetProfileUseCase struct {
	userRepo adapter.UserRepository
}

// NewGetProfileUseCase creates a new GetProfileUseCase instance.
func NewGetProfileUseCase(userRepo adapter.UserRepository) *GetProfileUseCase {
	return &GetProfileUseCase{userRepo: userRepo}
}

// Execute loads the user.
func (uc *GetProfileUseCase) Execute(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	return findActiveUser(ctx, uc.userRepo, userID)
}

func findActiveUser(ctx context.Context, repo adapter.UserRepository, userID uuid.UUID) (*entity.User, error) {
	user, err := repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerror.ErrUserNotFound) {
			return nil, userNotFound()
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if !user.IsActive {
		return nil, userNotFound()
	}
	return user, nil
}

func userNotFound() error {
	return domainerror.NewUserError(
		domainerror.ErrCodeUserNotFound,
		"user not found",
		domainerror.ErrUserNotFound,
	)
}
