package user

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finly/backend/internal/application/adapter"
	"github.com/finly/backend/internal/domain/entity"
	domainerror "github.com/finly/backend/internal/domain/error"
)

// MaxNameLength is the maximum length of a display name.
const MaxNameLength = 100

var currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// UpdateProfileInput holds the profile fields to change. Nil fields are left untouched.
type UpdateProfileInput struct {
	UserID        uuid.UUID
	Name          *string
	Currency      *string
	MonthlyBudget *decimal.Decimal
}

// UpdateProfileUseCase updates the caller's profile preferences.
type UpdateProfileUseCase struct {
	userRepo adapter.UserRepository
}

// NewUpdateProfileUseCase creates a new UpdateProfileUseCase instance.
func NewUpdateProfileUseCase(userRepo adapter.UserRepository) *UpdateProfileUseCase {
	return &UpdateProfileUseCase{userRepo: userRepo}
}

// Execute applies the changes.
func (uc *UpdateProfileUseCase) Execute(ctx context.Context, input UpdateProfileInput) (*entity.User, error) {
	user, err := findActiveUser(ctx, uc.userRepo, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" || len(name) > MaxNameLength {
			return nil, domainerror.NewUserError(
				domainerror.ErrCodeInvalidUserName,
				fmt.Sprintf("name must be between 1 and %d characters", MaxNameLength),
				domainerror.ErrInvalidUserName,
			)
		}
		user.Name = name
	}

	if input.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*input.Currency))
		if !currencyRegex.MatchString(currency) {
			return nil, domainerror.NewUserError(
				domainerror.ErrCodeInvalidCurrency,
				"currency must be a three-letter ISO code",
				domainerror.ErrInvalidCurrency,
			)
		}
		user.Currency = currency
	}

	if input.MonthlyBudget != nil {
		if input.MonthlyBudget.IsNegative() {
			return nil, domainerror.NewUserError(
				domainerror.ErrCodeInvalidMonthlyBudget,
				"monthly budget cannot be negative",
				domainerror.ErrInvalidMonthlyBudget,
			)
		}
		user.MonthlyBudget = *input.MonthlyBudget
	}

	user.UpdatedAt = time.Now().UTC()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}
