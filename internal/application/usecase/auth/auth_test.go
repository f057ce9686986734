package auth

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finly/backend/internal/application/adapter/adaptertest"
	domainerror "github.com/finly/backend/internal/domain/error"
)

type authFixture struct {
	users    *adaptertest.UserRepository
	tokens   *adaptertest.TokenService
	register *RegisterUserUseCase
	login    *LoginUserUseCase
	refresh  *RefreshTokenUseCase
	logout   *LogoutUserUseCase
}

func newAuthFixture() *authFixture {
	users := adaptertest.NewUserRepository()
	tokens := adaptertest.NewTokenService()
	passwords := adaptertest.PasswordService{}
	return &authFixture{
		users:    users,
		tokens:   tokens,
		register: NewRegisterUserUseCase(users, passwords, tokens),
		login:    NewLoginUserUseCase(users, passwords, tokens),
		refresh:  NewRefreshTokenUseCase(users, tokens),
		logout:   NewLogoutUserUseCase(tokens),
	}
}

func TestRegisterUser(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user with defaults", func(t *testing.T) {
		f := newAuthFixture()
		out, err := f.register.Execute(ctx, RegisterUserInput{
			Email:    " Ana@Example.com ",
			Name:     "Ana",
			Password: "correct-horse",
		})
		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", out.User.Email)
		assert.Equal(t, "USD", out.User.Currency)
		assert.True(t, out.User.IsActive)
		assert.NotEmpty(t, out.AccessToken)
		assert.NotEmpty(t, out.RefreshToken)
	})

	t.Run("stores custom currency and budget", func(t *testing.T) {
		f := newAuthFixture()
		budget := decimal.RequireFromString("1500.00")
		out, err := f.register.Execute(ctx, RegisterUserInput{
			Email:         "raj@example.com",
			Name:          "Raj",
			Password:      "correct-horse",
			Currency:      "inr",
			MonthlyBudget: &budget,
		})
		require.NoError(t, err)
		assert.Equal(t, "INR", out.User.Currency)
		assert.True(t, budget.Equal(out.User.MonthlyBudget))
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		f := newAuthFixture()
		input := RegisterUserInput{Email: "dup@example.com", Name: "Dup", Password: "correct-horse"}
		_, err := f.register.Execute(ctx, input)
		require.NoError(t, err)

		_, err = f.register.Execute(ctx, input)
		require.Error(t, err)
		assert.Equal(t, domainerror.KindConflict, domainerror.KindOf(err))
	})

	t.Run("rejects weak password", func(t *testing.T) {
		f := newAuthFixture()
		_, err := f.register.Execute(ctx, RegisterUserInput{Email: "weak@example.com", Name: "Weak", Password: "short"})
		assert.Equal(t, domainerror.KindValidation, domainerror.KindOf(err))
	})

	t.Run("rejects invalid currency", func(t *testing.T) {
		f := newAuthFixture()
		_, err := f.register.Execute(ctx, RegisterUserInput{
			Email: "cur@example.com", Name: "Cur", Password: "correct-horse", Currency: "dollars",
		})
		assert.Equal(t, string(domainerror.ErrCodeInvalidCurrency), domainerror.CodeOf(err))
	})
}

func TestLoginUser(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	registered, err := f.register.Execute(ctx, RegisterUserInput{Email: "lee@example.com", Name: "Lee", Password: "correct-horse"})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		out, err := f.login.Execute(ctx, LoginUserInput{Email: "LEE@example.com", Password: "correct-horse"})
		require.NoError(t, err)
		assert.Equal(t, registered.User.ID, out.User.ID)
		assert.NotNil(t, out.User.LastLoginAt)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := f.login.Execute(ctx, LoginUserInput{Email: "lee@example.com", Password: "wrong-password"})
		assert.Equal(t, string(domainerror.ErrCodeInvalidCredentials), domainerror.CodeOf(err))
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := f.login.Execute(ctx, LoginUserInput{Email: "nobody@example.com", Password: "correct-horse"})
		assert.Equal(t, domainerror.KindAuthentication, domainerror.KindOf(err))
	})

	t.Run("deactivated user", func(t *testing.T) {
		user, err := f.users.FindByID(ctx, registered.User.ID)
		require.NoError(t, err)
		user.Deactivate()
		require.NoError(t, f.users.Update(ctx, user))

		_, err = f.login.Execute(ctx, LoginUserInput{Email: "lee@example.com", Password: "correct-horse"})
		assert.Equal(t, string(domainerror.ErrCodeUserDeactivated), domainerror.CodeOf(err))
	})
}

func TestRefreshAndLogout(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	registered, err := f.register.Execute(ctx, RegisterUserInput{Email: "kim@example.com", Name: "Kim", Password: "correct-horse"})
	require.NoError(t, err)

	rotated, err := f.refresh.Execute(ctx, RefreshTokenInput{RefreshToken: registered.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, registered.RefreshToken, rotated.RefreshToken)

	// The old token is revoked by rotation.
	_, err = f.refresh.Execute(ctx, RefreshTokenInput{RefreshToken: registered.RefreshToken})
	assert.Equal(t, string(domainerror.ErrCodeInvalidToken), domainerror.CodeOf(err))

	out, err := f.logout.Execute(ctx, LogoutUserInput{RefreshToken: rotated.RefreshToken})
	require.NoError(t, err)
	assert.Equal(t, "Successfully logged out", out.Message)
	assert.Zero(t, f.tokens.ActiveRefreshTokens(registered.User.ID))

	// Logging out twice is not an error.
	_, err = f.logout.Execute(ctx, LogoutUserInput{RefreshToken: rotated.RefreshToken})
	assert.NoError(t, err)
}
