// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerror "github.com/finly/backend/internal/domain/error"
	"github.com/finly/backend/internal/integration/entrypoint/dto"
	"github.com/finly/backend/internal/integration/entrypoint/middleware"
)

const internalErrorMessage = "An internal error occurred"

// statusForKind maps a domain error kind to its HTTP status.
func statusForKind(kind domainerror.Kind) int {
	switch kind {
	case domainerror.KindValidation:
		return http.StatusBadRequest
	case domainerror.KindNotFound, domainerror.KindEmptyResult:
		return http.StatusNotFound
	case domainerror.KindConflict:
		return http.StatusConflict
	case domainerror.KindAuthorization:
		return http.StatusForbidden
	case domainerror.KindUpstreamUnavailable:
		return http.StatusServiceUnavailable
	case domainerror.KindAuthentication:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error response for err. Errors without a domain
// kind are logged and answered with a generic 500.
func respondError(ctx *gin.Context, err error) {
	kind := domainerror.KindOf(err)
	status := statusForKind(kind)

	if status == http.StatusInternalServerError {
		slog.Error("Request failed",
			"method", ctx.Request.Method,
			"path", ctx.FullPath(),
			"error", err,
		)
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: internalErrorMessage,
		})
		return
	}

	resp := dto.ErrorResponse{
		Error: domainerror.MessageOf(err),
		Code:  domainerror.CodeOf(err),
	}

	var inUse *domainerror.CategoryInUseError
	if errors.As(err, &inUse) {
		resp.Details = fmt.Sprintf("referenced by %d transactions", inUse.ReferenceCount)
	}

	ctx.JSON(status, resp)
}

// respondBadRequest answers a request that failed binding or parsing.
func respondBadRequest(ctx *gin.Context, code string, err error) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   "Invalid request",
		Code:    code,
		Details: err.Error(),
	})
}

// requireUserID returns the authenticated user's ID or answers 401.
func requireUserID(ctx *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return uuid.Nil, false
	}
	return userID, true
}

// pathID parses the :id path parameter or answers 400 with code.
func pathID(ctx *gin.Context, code string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		respondBadRequest(ctx, code, fmt.Errorf("id must be a valid UUID"))
		return uuid.Nil, false
	}
	return id, true
}
