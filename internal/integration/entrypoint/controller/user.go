package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finly/backend/internal/application/usecase/user"
	domainerror "github.com/finly/backend/internal/domain/error"
	"github.com/finly/backend/internal/integration/entrypoint/dto"
)

// UserController handles profile endpoints of the authenticated user.
type UserController struct {
	getProfileUseCase    *user.GetProfileUseCase
	updateProfileUseCase *user.UpdateProfileUseCase
	deactivateUseCase    *user.DeactivateAccountUseCase
}

// NewUserController creates a new user controller instance.
func NewUserController(
	getProfileUseCase *user.GetProfileUseCase,
	updateProfileUseCase *user.UpdateProfileUseCase,
	deactivateUseCase *user.DeactivateAccountUseCase,
) *UserController {
	return &UserController{
		getProfileUseCase:    getProfileUseCase,
		updateProfileUseCase: updateProfileUseCase,
		deactivateUseCase:    deactivateUseCase,
	}
}

// GetProfile handles GET /users/me requests.
func (c *UserController) GetProfile(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	u, err := c.getProfileUseCase.Execute(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToUserResponse(u))
}

// UpdateProfile handles PATCH /users/me requests.
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, string(domainerror.ErrCodeInvalidUserName), err)
		return
	}

	u, err := c.updateProfileUseCase.Execute(ctx.Request.Context(), user.UpdateProfileInput{
		UserID:        userID,
		Name:          req.Name,
		Currency:      req.Currency,
		MonthlyBudget: req.MonthlyBudget,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToUserResponse(u))
}

// DeactivateAccount handles DELETE /users/me requests.
func (c *UserController) DeactivateAccount(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	if err := c.deactivateUseCase.Execute(ctx.Request.Context(), userID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
