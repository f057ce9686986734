package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/finly/backend/internal/application/adapter"
)

// DeactivateAccountUseCase soft-deletes an account and revokes its sessions.
// Transactions and categories are kept.
type DeactivateAccountUseCase struct {
	userRepo     adapter.UserRepository
	tokenService adapter.TokenService
}

// NewDeactivateAccountUseCase creates a new DeactivateAccountUseCase instance.
func NewDeactivateAccountUseCase(userRepo adapter.UserRepository, tokenService adapter.TokenService) *DeactivateAccountUseCase {
	return &DeactivateAccountUseCase{
		userRepo:     userRepo,
		tokenService: tokenService,
	}
}

// Execute deactivates the user.
func (uc *DeactivateAccountUseCase) Execute(ctx context.Context, userID uuid.UUID) error {
	user, err := findActiveUser(ctx, uc.userRepo, userID)
	if err != nil {
		return err
	}

	user.Deactivate()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}

	if err := uc.tokenService.InvalidateAllUserTokens(ctx, userID); err != nil {
		slog.Warn("Failed to revoke refresh tokens", "userID", userID, "error", err)
	}

	slog.Info("User deactivated", "userID", userID)
	return nil
}
