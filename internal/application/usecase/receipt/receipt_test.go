package receipt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finly/backend/internal/application/adapter/adaptertest"
	"github.com/finly/backend/internal/domain/entity"
	domainerror "github.com/finly/backend/internal/domain/error"
)

func strPtr(s string) *string { return &s }

func seededCategories() *adaptertest.CategoryRepository {
	return adaptertest.NewCategoryRepository(
		entity.NewDefaultCategory("Food & Dining", "#F97316", "utensils", entity.CategoryTypeExpense),
		entity.NewDefaultCategory("Groceries", "#22C55E", "shopping-basket", entity.CategoryTypeExpense),
		entity.NewDefaultCategory("Transportation", "#3B82F6", "car", entity.CategoryTypeExpense),
		entity.NewDefaultCategory("Other Expense", "#64748B", "receipt", entity.CategoryTypeExpense),
	)
}

func TestPatternTable_Match(t *testing.T) {
	table := DefaultPatternTable()

	tests := []struct {
		merchant string
		want     string
	}{
		{"STARBUCKS #1234", "Food & Dining"},
		{"Whole Foods Market", "Groceries"},
		{"Uber Trip", "Transportation"},
		{"CVS Pharmacy", "Healthcare"},
		{"Swiggy Bangalore", "Other Expense"},
		{"", "Other Expense"},
		{"   ", "Other Expense"},
		// "market" (Groceries) appears before "target" (Shopping) in table order.
		{"Target Market", "Groceries"},
		// Substring matching: "shell" is inside "seashell".
		{"Seashell Gifts", "Transportation"},
	}

	for _, tt := range tests {
		t.Run(tt.merchant, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Match(tt.merchant))
		})
	}
}

func TestPatternTable_MatchIsDeterministic(t *testing.T) {
	table := DefaultPatternTable()
	first := table.Match("Domino's Pizza Express")
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, table.Match("Domino's Pizza Express"))
	}
	assert.Equal(t, "Food & Dining", first)
}

func TestParsePatternTable(t *testing.T) {
	data := []byte(`
fallback: Misc
patterns:
  - category: Food & Dining
    keywords: [" Swiggy ", ZOMATO]
  - category: Transportation
    keywords: [ola]
`)
	table, err := ParsePatternTable(data)
	require.NoError(t, err)
	assert.Equal(t, "Misc", table.Fallback)
	assert.Equal(t, []string{"swiggy", "zomato"}, table.Patterns[0].Keywords)
	assert.Equal(t, "Food & Dining", table.Match("Swiggy Bangalore"))
	assert.Equal(t, "Misc", table.Match("Starbucks"))

	_, err = ParsePatternTable([]byte("patterns: []"))
	assert.Error(t, err)

	_, err = ParsePatternTable([]byte("patterns:\n  - keywords: [x]\n"))
	assert.Error(t, err)

	_, err = ParsePatternTable([]byte("patterns: {"))
	assert.Error(t, err)

	table, err = ParsePatternTable([]byte("patterns:\n  - category: A\n    keywords: [a]\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultFallbackCategory, table.Fallback)
}

func TestLoadPatternTable(t *testing.T) {
	table, err := LoadPatternTable("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPatternTable(), table)

	path := filepath.Join(t.TempDir(), "patterns.yaml")
	require.NoError(t, os.WriteFile(path, []byte("patterns:\n  - category: Groceries\n    keywords: [bigbasket]\n"), 0o600))
	table, err = LoadPatternTable(path)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", table.Match("BigBasket Order"))

	_, err = LoadPatternTable(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestCategorySuggester_Suggest(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("unmatched merchant falls back to Other Expense", func(t *testing.T) {
		s := NewCategorySuggester(seededCategories(), nil)
		got, err := s.Suggest(ctx, userID, strPtr("Swiggy Bangalore"))
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Other Expense", got.Name)
	})

	t.Run("absent merchant falls back", func(t *testing.T) {
		s := NewCategorySuggester(seededCategories(), nil)
		got, err := s.Suggest(ctx, userID, nil)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Other Expense", got.Name)
	})

	t.Run("matched default category", func(t *testing.T) {
		s := NewCategorySuggester(seededCategories(), nil)
		got, err := s.Suggest(ctx, userID, strPtr("Starbucks Coffee"))
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Food & Dining", got.Name)
		assert.True(t, got.IsDefault)
	})

	t.Run("own category wins over default", func(t *testing.T) {
		repo := seededCategories()
		own := entity.NewCategory("food & dining", "#000000", "tag", userID, entity.CategoryTypeExpense, nil)
		require.NoError(t, repo.Create(ctx, own))

		got, err := NewCategorySuggester(repo, nil).Suggest(ctx, userID, strPtr("Subway"))
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, own.ID, got.ID)
	})

	t.Run("another user's category is never suggested", func(t *testing.T) {
		repo := adaptertest.NewCategoryRepository()
		require.NoError(t, repo.Create(ctx, entity.NewCategory("Healthcare", "#000000", "tag", uuid.New(), entity.CategoryTypeExpense, nil)))

		got, err := NewCategorySuggester(repo, nil).Suggest(ctx, userID, strPtr("Walgreens"))
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("matched name without a category returns nil", func(t *testing.T) {
		got, err := NewCategorySuggester(seededCategories(), nil).Suggest(ctx, userID, strPtr("Netflix"))
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("inactive category returns nil", func(t *testing.T) {
		inactive := entity.NewDefaultCategory("Groceries", "#22C55E", "shopping-basket", entity.CategoryTypeExpense)
		inactive.IsActive = false
		got, err := NewCategorySuggester(adaptertest.NewCategoryRepository(inactive), nil).Suggest(ctx, userID, strPtr("Kroger"))
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func ocrResult(merchant string, amount string, date string) *entity.OCRData {
	a := decimal.RequireFromString(amount)
	return &entity.OCRData{
		ExtractedText:     "receipt text",
		ExtractedAmount:   &a,
		ExtractedDate:     &date,
		ExtractedMerchant: &merchant,
		Confidence:        0.9,
	}
}

func newScan(ocr *adaptertest.OCRService, storage *adaptertest.AttachmentStorage) *ScanReceiptUseCase {
	uc := NewScanReceiptUseCase(ocr, storage, NewCategorySuggester(seededCategories(), nil), 1024)
	uc.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
	return uc
}

func TestScanReceipt_Success(t *testing.T) {
	ocr := &adaptertest.OCRService{Result: ocrResult("Walmart Supercenter", "42.17", "2026-02-27")}
	storage := adaptertest.NewAttachmentStorage()
	uc := newScan(ocr, storage)

	out, err := uc.Execute(context.Background(), ScanReceiptInput{
		UserID:   uuid.New(),
		Filename: "Receipt.JPG",
		Content:  strings.NewReader("image-bytes"),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, ocr.Calls)
	require.NotNil(t, out.Attachment)
	assert.True(t, storage.Exists(out.Attachment.Path))
	assert.Equal(t, "image/jpeg", out.Attachment.MimeType)
	assert.Equal(t, "Receipt.JPG", out.Attachment.OriginalName)

	require.NotNil(t, out.SuggestedCategory)
	assert.Equal(t, "Groceries", out.SuggestedCategory.Name)
	assert.Equal(t, 0.9, out.OCRData.Confidence)

	assert.Equal(t, "Walmart Supercenter", out.Prefill.Title)
	assert.Equal(t, entity.TransactionTypeExpense, out.Prefill.Type)
	require.NotNil(t, out.Prefill.Amount)
	assert.True(t, decimal.RequireFromString("42.17").Equal(*out.Prefill.Amount))
	require.NotNil(t, out.Prefill.Date)
	assert.Equal(t, "2026-02-27", out.Prefill.Date.Format("2006-01-02"))
}

func TestScanReceipt_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		input    ScanReceiptInput
		wantCode domainerror.ReceiptErrorCode
	}{
		{"missing file", ScanReceiptInput{Filename: "a.png"}, domainerror.ErrCodeMissingReceipt},
		{"missing name", ScanReceiptInput{Content: strings.NewReader("x")}, domainerror.ErrCodeMissingReceipt},
		{"unsupported type", ScanReceiptInput{Filename: "a.gif", Content: strings.NewReader("x")}, domainerror.ErrCodeUnsupportedFileType},
		{"no extension", ScanReceiptInput{Filename: "receipt", Content: strings.NewReader("x")}, domainerror.ErrCodeUnsupportedFileType},
		{"declared too large", ScanReceiptInput{Filename: "a.pdf", Size: 2048, Content: strings.NewReader("x")}, domainerror.ErrCodeFileTooLarge},
		{"actual too large", ScanReceiptInput{Filename: "a.pdf", Content: strings.NewReader(strings.Repeat("x", 2048))}, domainerror.ErrCodeFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ocr := &adaptertest.OCRService{Result: ocrResult("x", "1", "2026-01-01")}
			storage := adaptertest.NewAttachmentStorage()

			_, err := newScan(ocr, storage).Execute(ctx, tt.input)

			var rcpErr *domainerror.ReceiptError
			require.True(t, errors.As(err, &rcpErr))
			assert.Equal(t, tt.wantCode, rcpErr.Code)
			assert.Equal(t, domainerror.KindValidation, domainerror.KindOf(err))
			assert.Zero(t, ocr.Calls)
		})
	}
}

func TestScanReceipt_TooLargeFileIsRemoved(t *testing.T) {
	storage := adaptertest.NewAttachmentStorage()
	_, err := newScan(&adaptertest.OCRService{}, storage).Execute(context.Background(), ScanReceiptInput{
		Filename: "a.png",
		Content:  strings.NewReader(strings.Repeat("x", 4096)),
	})
	require.Error(t, err)
	require.Len(t, storage.Removed, 1)
	assert.False(t, storage.Exists(storage.Removed[0]))
}

func TestScanReceipt_OCRUnavailableRollsBack(t *testing.T) {
	ocr := &adaptertest.OCRService{Err: fmt.Errorf("%w: connection refused", domainerror.ErrOCRServiceUnavailable)}
	storage := adaptertest.NewAttachmentStorage()

	_, err := newScan(ocr, storage).Execute(context.Background(), ScanReceiptInput{
		Filename: "a.png",
		Content:  strings.NewReader("image"),
	})

	assert.Equal(t, domainerror.KindUpstreamUnavailable, domainerror.KindOf(err))
	assert.Equal(t, string(domainerror.ErrCodeOCRUnavailable), domainerror.CodeOf(err))
	assert.True(t, errors.Is(err, domainerror.ErrOCRServiceUnavailable))
	assert.Equal(t, 1, ocr.Calls)
	require.Len(t, storage.Removed, 1)
	assert.False(t, storage.Exists(storage.Removed[0]))
}

func TestScanReceipt_OCRRejected(t *testing.T) {
	ocr := &adaptertest.OCRService{Err: fmt.Errorf("%w: No file selected", domainerror.ErrOCRRejected)}
	storage := adaptertest.NewAttachmentStorage()

	_, err := newScan(ocr, storage).Execute(context.Background(), ScanReceiptInput{
		Filename: "a.pdf",
		Content:  strings.NewReader("pdf"),
	})

	assert.Equal(t, domainerror.KindValidation, domainerror.KindOf(err))
	assert.Equal(t, string(domainerror.ErrCodeOCRRejected), domainerror.CodeOf(err))
	assert.Len(t, storage.Removed, 1)
}

func TestScanReceipt_SuggestionFailureRemovesFile(t *testing.T) {
	categories := seededCategories()
	categories.FindByNameErr = errors.New("connection reset")
	ocr := &adaptertest.OCRService{Result: ocrResult("Walmart", "9.99", "2026-02-27")}
	storage := adaptertest.NewAttachmentStorage()
	uc := NewScanReceiptUseCase(ocr, storage, NewCategorySuggester(categories, nil), 1024)

	_, err := uc.Execute(context.Background(), ScanReceiptInput{
		UserID:   uuid.New(),
		Filename: "a.png",
		Content:  strings.NewReader("image"),
	})

	require.Error(t, err)
	assert.Equal(t, 1, ocr.Calls)
	require.Len(t, storage.Removed, 1)
	assert.False(t, storage.Exists(storage.Removed[0]))
}

func TestScanReceipt_StorageFailure(t *testing.T) {
	storage := adaptertest.NewAttachmentStorage()
	storage.SaveErr = errors.New("disk full")
	ocr := &adaptertest.OCRService{}

	_, err := newScan(ocr, storage).Execute(context.Background(), ScanReceiptInput{
		Filename: "a.png",
		Content:  strings.NewReader("image"),
	})
	require.Error(t, err)
	assert.Equal(t, domainerror.KindInternal, domainerror.KindOf(err))
	assert.Zero(t, ocr.Calls)
}

func TestBuildPrefill(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	empty := buildPrefill(nil, now)
	assert.Equal(t, DefaultPrefillTitle, empty.Title)
	assert.Nil(t, empty.Amount)
	assert.Nil(t, empty.Date)

	future := buildPrefill(ocrResult("  ", "0", "2026-03-02"), now)
	assert.Equal(t, DefaultPrefillTitle, future.Title)
	assert.Nil(t, future.Amount)
	assert.Nil(t, future.Date)

	bad := buildPrefill(&entity.OCRData{ExtractedDate: strPtr("27/02/2026")}, now)
	assert.Nil(t, bad.Date)
}

func TestProcessText(t *testing.T) {
	ctx := context.Background()
	ocr := &adaptertest.OCRService{Result: ocrResult("Swiggy Bangalore", "250.00", "2026-02-10")}
	uc := NewProcessTextUseCase(ocr, NewCategorySuggester(seededCategories(), nil))

	out, err := uc.Execute(ctx, ProcessTextInput{UserID: uuid.New(), Text: "  SWIGGY ORDER 250.00  "})
	require.NoError(t, err)
	assert.Equal(t, "SWIGGY ORDER 250.00", ocr.LastText)
	require.NotNil(t, out.SuggestedCategory)
	assert.Equal(t, "Other Expense", out.SuggestedCategory.Name)
	assert.Nil(t, out.Attachment)

	_, err = uc.Execute(ctx, ProcessTextInput{Text: "   "})
	assert.Equal(t, string(domainerror.ErrCodeMissingReceipt), domainerror.CodeOf(err))

	ocr.Err = domainerror.ErrOCRServiceUnavailable
	_, err = uc.Execute(ctx, ProcessTextInput{Text: "text"})
	assert.Equal(t, domainerror.KindUpstreamUnavailable, domainerror.KindOf(err))
}

func TestFormats(t *testing.T) {
	f := Formats(0)
	assert.Equal(t, DefaultMaxFileSize, f.MaxFileSize)
	assert.Equal(t, 10.0, f.MaxFileSizeMB)
	assert.ElementsMatch(t, []string{"png", "jpg", "jpeg", "pdf"}, f.Extensions)

	assert.Equal(t, "application/pdf", mimeTypeFor("scan.PDF"))
	assert.Equal(t, "", mimeTypeFor("scan.tiff"))
}

func TestExamplePatternFileMatchesBuiltInTable(t *testing.T) {
	table, err := LoadPatternTable(filepath.Join("..", "..", "..", "..", "config", "category_patterns.example.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultPatternTable(), table)
}
