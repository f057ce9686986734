package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/finly/backend/internal/application/usecase/category"
	"github.com/finly/backend/internal/domain/entity"
	domainerror "github.com/finly/backend/internal/domain/error"
	"github.com/finly/backend/internal/integration/entrypoint/dto"
)

// CategoryController handles category endpoints.
type CategoryController struct {
	listUseCase   *category.ListCategoriesUseCase
	getUseCase    *category.GetCategoryUseCase
	createUseCase *category.CreateCategoryUseCase
	updateUseCase *category.UpdateCategoryUseCase
	deleteUseCase *category.DeleteCategoryUseCase
}

// NewCategoryController creates a new category controller instance.
func NewCategoryController(
	listUseCase *category.ListCategoriesUseCase,
	getUseCase *category.GetCategoryUseCase,
	createUseCase *category.CreateCategoryUseCase,
	updateUseCase *category.UpdateCategoryUseCase,
	deleteUseCase *category.DeleteCategoryUseCase,
) *CategoryController {
	return &CategoryController{
		listUseCase:   listUseCase,
		getUseCase:    getUseCase,
		createUseCase: createUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
	}
}

const categoryRequestCode = string(domainerror.ErrCodeMissingCategoryFields)

// List handles GET /categories requests.
func (c *CategoryController) List(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var query dto.ListCategoriesQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		respondBadRequest(ctx, string(domainerror.ErrCodeInvalidCategoryType), err)
		return
	}

	input := category.ListCategoriesInput{OwnerID: userID}
	if query.Type != "" {
		t := entity.CategoryType(query.Type)
		input.CategoryType = &t
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCategoryListResponse(output.Categories))
}

// Get handles GET /categories/:id requests.
func (c *CategoryController) Get(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, categoryRequestCode)
	if !ok {
		return
	}

	cat, err := c.getUseCase.Execute(ctx.Request.Context(), id, userID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCategoryResponse(cat))
}

// Create handles POST /categories requests.
func (c *CategoryController) Create(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, categoryRequestCode, err)
		return
	}

	input := category.CreateCategoryInput{
		Name:    req.Name,
		Color:   req.Color,
		Icon:    req.Icon,
		OwnerID: userID,
		Type:    entity.CategoryType(req.Type),
	}
	if req.ParentCategoryID != nil {
		parentID, err := uuid.Parse(*req.ParentCategoryID)
		if err != nil {
			respondBadRequest(ctx, categoryRequestCode, err)
			return
		}
		input.ParentCategoryID = &parentID
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToCategoryResponse(output.Category))
}

// Update handles PATCH /categories/:id requests.
func (c *CategoryController) Update(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, categoryRequestCode)
	if !ok {
		return
	}

	var req dto.UpdateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, categoryRequestCode, err)
		return
	}

	input := category.UpdateCategoryInput{
		CategoryID:  id,
		OwnerID:     userID,
		Name:        req.Name,
		Color:       req.Color,
		Icon:        req.Icon,
		IsActive:    req.IsActive,
		ParentID:    req.ParentCategoryID.Value,
		ClearParent: req.ParentCategoryID.Clears(),
	}
	if req.Type != nil {
		t := entity.CategoryType(*req.Type)
		input.Type = &t
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCategoryResponse(output.Category))
}

// Delete handles DELETE /categories/:id requests.
func (c *CategoryController) Delete(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, categoryRequestCode)
	if !ok {
		return
	}

	err := c.deleteUseCase.Execute(ctx.Request.Context(), category.DeleteCategoryInput{
		CategoryID: id,
		OwnerID:    userID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
