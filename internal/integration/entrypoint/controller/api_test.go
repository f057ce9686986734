package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finly/backend/internal/application/adapter/adaptertest"
	"github.com/finly/backend/internal/application/usecase/analytics"
	"github.com/finly/backend/internal/application/usecase/auth"
	"github.com/finly/backend/internal/application/usecase/category"
	"github.com/finly/backend/internal/application/usecase/receipt"
	"github.com/finly/backend/internal/application/usecase/report"
	"github.com/finly/backend/internal/application/usecase/transaction"
	"github.com/finly/backend/internal/application/usecase/user"
	"github.com/finly/backend/internal/domain/entity"
	domainerror "github.com/finly/backend/internal/domain/error"
	"github.com/finly/backend/internal/infra/server/router"
	"github.com/finly/backend/internal/integration/entrypoint/controller"
	"github.com/finly/backend/internal/integration/entrypoint/dto"
	"github.com/finly/backend/internal/integration/entrypoint/middleware"
)

const testMaxUpload = 1024

type apiFixture struct {
	engine     *gin.Engine
	categories *adaptertest.CategoryRepository
	ocr        *adaptertest.OCRService
	storage    *adaptertest.AttachmentStorage
	renderer   *adaptertest.ReportRenderer
	token      string
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	users := adaptertest.NewUserRepository()
	categories := adaptertest.NewCategoryRepository(
		entity.NewDefaultCategory("Food & Dining", "#F97316", "utensils", entity.CategoryTypeExpense),
	)
	transactions := adaptertest.NewTransactionRepository(categories)
	tokens := adaptertest.NewTokenService()
	passwords := adaptertest.PasswordService{}
	ocr := &adaptertest.OCRService{}
	storage := adaptertest.NewAttachmentStorage()
	renderer := &adaptertest.ReportRenderer{}
	suggester := receipt.NewCategorySuggester(categories, nil)

	r := router.NewRouter(
		controller.NewHealthController(nil, nil, nil),
		controller.NewAuthController(
			auth.NewRegisterUserUseCase(users, passwords, tokens),
			auth.NewLoginUserUseCase(users, passwords, tokens),
			auth.NewRefreshTokenUseCase(users, tokens),
			auth.NewLogoutUserUseCase(tokens),
		),
		controller.NewUserController(
			user.NewGetProfileUseCase(users),
			user.NewUpdateProfileUseCase(users),
			user.NewDeactivateAccountUseCase(users, tokens),
		),
		controller.NewCategoryController(
			category.NewListCategoriesUseCase(categories),
			category.NewGetCategoryUseCase(categories),
			category.NewCreateCategoryUseCase(categories),
			category.NewUpdateCategoryUseCase(categories, transactions),
			category.NewDeleteCategoryUseCase(categories, transactions),
		),
		controller.NewTransactionController(
			transaction.NewListTransactionsUseCase(transactions),
			transaction.NewGetTransactionUseCase(transactions),
			transaction.NewCreateTransactionUseCase(transactions, categories),
			transaction.NewUpdateTransactionUseCase(transactions, categories),
			transaction.NewDeleteTransactionUseCase(transactions),
			transaction.NewBulkDeleteTransactionsUseCase(transactions),
			analytics.NewGetStatisticsUseCase(transactions),
			report.NewExportTransactionsUseCase(transactions, users, renderer, 0),
		),
		controller.NewReceiptController(
			receipt.NewScanReceiptUseCase(ocr, storage, suggester, testMaxUpload),
			receipt.NewProcessTextUseCase(ocr, suggester),
			testMaxUpload,
		),
		middleware.NewRateLimiterWithConfig(0, time.Minute),
		middleware.NewAuthMiddleware(tokens, users),
	)

	f := &apiFixture{
		engine:     r.Setup("test"),
		categories: categories,
		ocr:        ocr,
		storage:    storage,
		renderer:   renderer,
	}

	var registered dto.AuthResponse
	rec := f.do(t, http.MethodPost, "/api/v1/auth/register", map[string]any{
		"email":    "ana@example.com",
		"name":     "Ana",
		"password": "s3cret-pass",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	decode(t, rec, &registered)
	f.token = registered.AccessToken
	return f
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return f.send(req)
}

func (f *apiFixture) send(req *http.Request) *httptest.ResponseRecorder {
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func (f *apiFixture) createCategory(t *testing.T, name, categoryType string) dto.CategoryResponse {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/v1/categories", map[string]any{"name": name, "type": categoryType})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created dto.CategoryResponse
	decode(t, rec, &created)
	return created
}

func (f *apiFixture) createTransaction(t *testing.T, categoryID, title, amount, date string) dto.TransactionResponse {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/v1/transactions", map[string]any{
		"title":      title,
		"amount":     amount,
		"type":       "expense",
		"categoryId": categoryID,
		"date":       date,
		"tags":       []string{"test"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created dto.TransactionResponse
	decode(t, rec, &created)
	return created
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body dto.ErrorResponse
	decode(t, rec, &body)
	return body.Code
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	f := newAPIFixture(t)
	f.token = ""

	rec := f.do(t, http.MethodGet, "/api/v1/transactions", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, string(domainerror.ErrCodeMissingToken), errorCode(t, rec))
}

func TestProfile(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/users/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile dto.UserResponse
	decode(t, rec, &profile)
	assert.Equal(t, "ana@example.com", profile.Email)
	assert.Equal(t, "USD", profile.Currency)
}

func TestCategoryEndpoints(t *testing.T) {
	f := newAPIFixture(t)
	created := f.createCategory(t, "Coffee", "expense")

	t.Run("list includes defaults and own", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/categories", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var list dto.CategoryListResponse
		decode(t, rec, &list)

		names := make([]string, 0, len(list.Categories))
		for _, c := range list.Categories {
			names = append(names, c.Name)
		}
		assert.Equal(t, []string{"Coffee", "Food & Dining"}, names)
	})

	t.Run("duplicate name conflicts", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/categories", map[string]any{"name": "coffee", "type": "expense"})
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, string(domainerror.ErrCodeCategoryNameExists), errorCode(t, rec))
	})

	t.Run("invalid type fails binding", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/categories", map[string]any{"name": "Other", "type": "transfer"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete in use reports the reference count", func(t *testing.T) {
		f.createTransaction(t, created.ID, "Latte", "4.50", "2026-01-10")

		rec := f.do(t, http.MethodDelete, "/api/v1/categories/"+created.ID, nil)
		require.Equal(t, http.StatusConflict, rec.Code)
		var body dto.ErrorResponse
		decode(t, rec, &body)
		assert.Equal(t, string(domainerror.ErrCodeCategoryInUse), body.Code)
		assert.Equal(t, "referenced by 1 transactions", body.Details)
	})

	t.Run("malformed id", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/categories/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTransactionListing(t *testing.T) {
	f := newAPIFixture(t)
	cat := f.createCategory(t, "Coffee", "expense")
	f.createTransaction(t, cat.ID, "Latte", "4.50", "2026-01-10")
	f.createTransaction(t, cat.ID, "Espresso", "2.00", "2026-01-12")
	f.createTransaction(t, cat.ID, "Beans", "18.00", "2026-02-01")

	t.Run("filters sorts and paginates", func(t *testing.T) {
		rec := f.do(t, http.MethodGet,
			"/api/v1/transactions?startDate=2026-01-01&endDate=2026-01-31&sortBy=amount&sortOrder=asc&limit=1", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var list dto.TransactionListResponse
		decode(t, rec, &list)
		require.Len(t, list.Transactions, 1)
		assert.Equal(t, "Espresso", list.Transactions[0].Title)
		assert.Equal(t, "2.00", list.Transactions[0].Amount)
		assert.Equal(t, dto.PaginationResponse{Page: 1, Limit: 1, Total: 2, TotalPages: 2, HasNext: true}, list.Pagination)
	})

	t.Run("bare end date covers the whole day", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/transactions?startDate=2026-02-01&endDate=2026-02-01", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var list dto.TransactionListResponse
		decode(t, rec, &list)
		assert.Len(t, list.Transactions, 1)
	})

	t.Run("unknown sort field is rejected", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/transactions?sortBy=merchant", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, string(domainerror.ErrCodeInvalidFilter), errorCode(t, rec))
	})

	t.Run("unparsable date is rejected", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/transactions?startDate=yesterday", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("stats summarise the period", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/transactions/stats?startDate=2026-01-01&endDate=2026-01-31", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var stats dto.StatsResponse
		decode(t, rec, &stats)
		assert.Equal(t, "6.50", stats.Summary.Expense.Total)
		assert.Equal(t, int64(2), stats.Summary.TotalCount)
		require.Len(t, stats.CategoryBreakdown, 1)
		assert.Equal(t, "Coffee", stats.CategoryBreakdown[0].Name)
	})
}

func TestTransactionMutations(t *testing.T) {
	f := newAPIFixture(t)
	cat := f.createCategory(t, "Coffee", "expense")
	created := f.createTransaction(t, cat.ID, "Latte", "4.50", "2026-01-10")

	t.Run("non positive amount is rejected", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/transactions", map[string]any{
			"title": "Refund", "amount": "0", "type": "expense", "categoryId": cat.ID, "date": "2026-01-10",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("update changes only the sent fields", func(t *testing.T) {
		rec := f.do(t, http.MethodPatch, "/api/v1/transactions/"+created.ID, map[string]any{"title": "Flat white"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var updated dto.TransactionResponse
		decode(t, rec, &updated)
		assert.Equal(t, "Flat white", updated.Title)
		assert.Equal(t, "4.50", updated.Amount)
	})

	t.Run("bulk delete", func(t *testing.T) {
		other := f.createTransaction(t, cat.ID, "Espresso", "2.00", "2026-01-12")
		rec := f.do(t, http.MethodPost, "/api/v1/transactions/bulk-delete", map[string]any{
			"ids": []string{created.ID, other.ID},
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp dto.BulkDeleteTransactionsResponse
		decode(t, rec, &resp)
		assert.Equal(t, int64(2), resp.DeletedCount)

		rec = f.do(t, http.MethodGet, "/api/v1/transactions/"+created.ID, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestExport(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/transactions/export", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, string(domainerror.ErrCodeNothingToExport), errorCode(t, rec))

	cat := f.createCategory(t, "Coffee", "expense")
	f.createTransaction(t, cat.ID, "Latte", "4.50", "2026-01-10")

	rec = f.do(t, http.MethodGet, "/api/v1/transactions/export?type=expense", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Disposition"), `attachment; filename="transactions-`))
	assert.Equal(t, "%PDF-fake", rec.Body.String())
	require.NotNil(t, f.renderer.Last)
	assert.Len(t, f.renderer.Last.Rows, 1)
}

func multipartUpload(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("receipt", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/receipts/scan", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestReceiptScan(t *testing.T) {
	merchant := "STARBUCKS #123"
	amount := decimal.RequireFromString("5.75")

	t.Run("suggests a category and prefills the form", func(t *testing.T) {
		f := newAPIFixture(t)
		f.ocr.Result = &entity.OCRData{
			ExtractedText:     "STARBUCKS #123 TOTAL 5.75",
			ExtractedAmount:   &amount,
			ExtractedMerchant: &merchant,
			Confidence:        0.8,
		}

		rec := f.send(multipartUpload(t, "receipt.png", []byte("png-bytes")))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp dto.ReceiptResponse
		decode(t, rec, &resp)
		require.NotNil(t, resp.SuggestedCategory)
		assert.Equal(t, "Food & Dining", resp.SuggestedCategory.Name)
		require.NotNil(t, resp.Attachment)
		assert.True(t, f.storage.Exists(resp.Attachment.Path))
		require.NotNil(t, resp.Prefill.Amount)
		assert.Equal(t, "5.75", *resp.Prefill.Amount)
		assert.Equal(t, "expense", resp.Prefill.Type)
		require.NotNil(t, resp.OCRData)
		assert.InDelta(t, 0.8, resp.OCRData.Confidence, 1e-9)
	})

	t.Run("unavailable collaborator rolls back the upload", func(t *testing.T) {
		f := newAPIFixture(t)
		f.ocr.Err = fmt.Errorf("dial tcp: %w", domainerror.ErrOCRServiceUnavailable)

		rec := f.send(multipartUpload(t, "receipt.jpg", []byte("jpg-bytes")))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, string(domainerror.ErrCodeOCRUnavailable), errorCode(t, rec))
		require.Len(t, f.storage.Removed, 1)
		assert.False(t, f.storage.Exists(f.storage.Removed[0]))
	})

	t.Run("unsupported type", func(t *testing.T) {
		f := newAPIFixture(t)
		rec := f.send(multipartUpload(t, "receipt.gif", []byte("gif")))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, string(domainerror.ErrCodeUnsupportedFileType), errorCode(t, rec))
		assert.Zero(t, f.ocr.Calls)
	})

	t.Run("file over the limit", func(t *testing.T) {
		f := newAPIFixture(t)
		rec := f.send(multipartUpload(t, "receipt.pdf", bytes.Repeat([]byte("x"), testMaxUpload+1)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, string(domainerror.ErrCodeFileTooLarge), errorCode(t, rec))
		assert.Zero(t, f.ocr.Calls)
	})

	t.Run("missing file", func(t *testing.T) {
		f := newAPIFixture(t)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/receipts/scan", strings.NewReader(""))
		req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
		rec := f.send(req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestReceiptText(t *testing.T) {
	f := newAPIFixture(t)
	f.ocr.Result = &entity.OCRData{ExtractedText: "unknown shop", Confidence: 0.4}

	rec := f.do(t, http.MethodPost, "/api/v1/receipts/text", map[string]any{"text": "unknown shop"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp dto.ReceiptResponse
	decode(t, rec, &resp)
	assert.Nil(t, resp.SuggestedCategory)
	assert.Nil(t, resp.Attachment)
	assert.Equal(t, "unknown shop", f.ocr.LastText)
}

func TestReceiptFormats(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/receipts/formats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.SupportedFormatsResponse
	decode(t, rec, &resp)
	assert.ElementsMatch(t, []string{"png", "jpg", "jpeg", "pdf"}, resp.SupportedFormats)
	assert.Equal(t, int64(testMaxUpload), resp.MaxFileSize)
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	down := func(context.Context) error { return errors.New("down") }
	up := func(context.Context) error { return nil }

	tests := []struct {
		name       string
		db, redis  controller.HealthChecker
		wantStatus int
		wantBody   string
	}{
		{name: "all up", db: up, redis: up, wantStatus: http.StatusOK, wantBody: "ok"},
		{name: "redis down degrades", db: up, redis: down, wantStatus: http.StatusOK, wantBody: "degraded"},
		{name: "database down", db: down, redis: up, wantStatus: http.StatusServiceUnavailable, wantBody: "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := controller.NewHealthController(tt.db, tt.redis, up)
			engine := gin.New()
			engine.GET("/health", h.Check)

			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			require.Equal(t, tt.wantStatus, rec.Code)
			var body controller.HealthResponse
			decode(t, rec, &body)
			assert.Equal(t, tt.wantBody, body.Status)
		})
	}
}
