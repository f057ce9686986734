package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerror "github.com/finly/backend/internal/domain/error"
	"github.com/finly/backend/internal/integration/entrypoint/dto"
)

func TestStatusForKind(t *testing.T) {
	tests := []struct {
		kind domainerror.Kind
		want int
	}{
		{domainerror.KindValidation, http.StatusBadRequest},
		{domainerror.KindNotFound, http.StatusNotFound},
		{domainerror.KindEmptyResult, http.StatusNotFound},
		{domainerror.KindConflict, http.StatusConflict},
		{domainerror.KindAuthorization, http.StatusForbidden},
		{domainerror.KindUpstreamUnavailable, http.StatusServiceUnavailable},
		{domainerror.KindAuthentication, http.StatusUnauthorized},
		{domainerror.KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, statusForKind(tt.kind))
		})
	}
}

func respond(t *testing.T, err error) (int, dto.ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respondError(ctx, err)

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestRespondError(t *testing.T) {
	t.Run("domain error keeps its code and public message", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", domainerror.NewTransactionError(
			domainerror.ErrCodeTransactionNotFound, "transaction not found", domainerror.ErrTransactionNotFound))

		status, body := respond(t, err)

		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "TXN-020001", body.Code)
		assert.Equal(t, "transaction not found", body.Error)
	})

	t.Run("category in use carries the reference count", func(t *testing.T) {
		status, body := respond(t, domainerror.NewCategoryInUseError(3))

		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, string(domainerror.ErrCodeCategoryInUse), body.Code)
		assert.Equal(t, "referenced by 3 transactions", body.Details)
	})

	t.Run("unclassified errors are hidden", func(t *testing.T) {
		status, body := respond(t, errors.New("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, internalErrorMessage, body.Error)
		assert.Empty(t, body.Code)
		assert.Empty(t, body.Details)
	})
}
