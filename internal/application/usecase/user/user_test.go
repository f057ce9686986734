package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finly/backend/internal/application/adapter/adaptertest"
	"github.com/finly/backend/internal/domain/entity"
	domainerror "github.com/finly/backend/internal/domain/error"
)

func seedUser(t *testing.T, repo *adaptertest.UserRepository) *entity.User {
	t.Helper()
	u := entity.NewUser("mia@example.com", "Mia", "hashed:correct-horse")
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	repo := adaptertest.NewUserRepository()
	u := seedUser(t, repo)
	uc := NewUpdateProfileUseCase(repo)

	name := "  Mia Wong "
	currency := "eur"
	budget := decimal.RequireFromString("820.50")
	updated, err := uc.Execute(ctx, UpdateProfileInput{UserID: u.ID, Name: &name, Currency: &currency, MonthlyBudget: &budget})
	require.NoError(t, err)
	assert.Equal(t, "Mia Wong", updated.Name)
	assert.Equal(t, "EUR", updated.Currency)
	assert.True(t, budget.Equal(updated.MonthlyBudget))

	negative := decimal.NewFromInt(-1)
	_, err = uc.Execute(ctx, UpdateProfileInput{UserID: u.ID, MonthlyBudget: &negative})
	assert.Equal(t, domainerror.KindValidation, domainerror.KindOf(err))

	empty := " "
	_, err = uc.Execute(ctx, UpdateProfileInput{UserID: u.ID, Name: &empty})
	assert.Equal(t, string(domainerror.ErrCodeInvalidUserName), domainerror.CodeOf(err))
}

func TestDeactivateAccount(t *testing.T) {
	ctx := context.Background()
	repo := adaptertest.NewUserRepository()
	tokens := adaptertest.NewTokenService()
	u := seedUser(t, repo)
	_, err := tokens.GenerateTokenPair(ctx, u.ID, u.Email)
	require.NoError(t, err)

	require.NoError(t, NewDeactivateAccountUseCase(repo, tokens).Execute(ctx, u.ID))

	stored, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
	assert.Zero(t, tokens.ActiveRefreshTokens(u.ID))

	_, err = NewGetProfileUseCase(repo).Execute(ctx, u.ID)
	assert.Equal(t, domainerror.KindNotFound, domainerror.KindOf(err))
}

func TestGetProfile_Unknown(t *testing.T) {
	_, err := NewGetProfileUseCase(adaptertest.NewUserRepository()).Execute(context.Background(), uuid.New())
	assert.Equal(t, string(domainerror.ErrCodeUserNotFound), domainerror.CodeOf(err))
}
