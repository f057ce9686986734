// Package report contains document export use cases.
package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finly/backend/internal/application/adapter"
	"github.com/finly/backend/internal/application/usecase/analytics"
	"github.com/finly/backend/internal/application/usecase/transaction"
	"github.com/finly/backend/internal/domain/entity"
	domainerror "github.com/finly/backend/internal/domain/error"
)

const (
	// DefaultMaxRows is the row ceiling when none is configured.
	DefaultMaxRows = 1000
	// ReportTitle is printed at the top of every transaction report.
	ReportTitle = "Transaction Report"
)

// ExportTransactionsInput represents the input for exporting transactions.
// Page and Limit in the criteria are ignored.
type ExportTransactionsInput struct {
	UserID   uuid.UUID
	Criteria transaction.Criteria
}

// ExportTransactionsUseCase renders the filtered transactions of a user as a document.
type ExportTransactionsUseCase struct {
	transactionRepo adapter.TransactionRepository
	userRepo        adapter.UserRepository
	renderer        adapter.ReportRenderer
	maxRows         int
	now             func() time.Time
}

// NewExportTransactionsUseCase creates a new ExportTransactionsUseCase instance.
func NewExportTransactionsUseCase(
	transactionRepo adapter.TransactionRepository,
	userRepo adapter.UserRepository,
	renderer adapter.ReportRenderer,
	maxRows int,
) *ExportTransactionsUseCase {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	return &ExportTransactionsUseCase{
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		renderer:        renderer,
		maxRows:         maxRows,
		now:             time.Now,
	}
}

// Execute builds and renders the report. Zero matching transactions is an error.
func (uc *ExportTransactionsUseCase) Execute(ctx context.Context, input ExportTransactionsInput) (*entity.RenderedReport, error) {
	query, err := transaction.BuildExportQuery(input.UserID, input.Criteria, uc.maxRows)
	if err != nil {
		return nil, err
	}

	user, err := uc.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, domainerror.ErrUserNotFound) {
			return nil, domainerror.NewUserError(
				domainerror.ErrCodeUserNotFound,
				"user not found",
				err,
			)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	rows, err := uc.transactionRepo.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	if len(rows) == 0 {
		return nil, domainerror.NewReportError(
			domainerror.ErrCodeNothingToExport,
			"no transactions to export",
			domainerror.ErrNothingToExport,
		)
	}
	if len(rows) == uc.maxRows {
		slog.Debug("Export reached the row ceiling", "userID", input.UserID, "maxRows", uc.maxRows)
	}

	generatedAt := uc.now().UTC()
	report := &entity.TransactionReport{
		Title:        ReportTitle,
		AccountName:  user.Name,
		AccountEmail: user.Email,
		GeneratedAt:  generatedAt,
		StartDate:    query.Filter.StartDate,
		EndDate:      query.Filter.EndDate,
		Currency:     user.Currency,
		Summary:      analytics.Summarize(rows),
		Rows:         rows,
	}

	content, err := uc.renderer.Render(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	slog.Info("Transactions exported",
		"userID", input.UserID,
		"rows", len(rows),
		"bytes", len(content),
	)

	return &entity.RenderedReport{
		Filename:    Filename(generatedAt, uc.renderer.Extension()),
		ContentType: uc.renderer.ContentType(),
		Content:     content,
	}, nil
}

// Filename derives the download name from the generation time.
func Filename(generatedAt time.Time, extension string) string {
	return fmt.Sprintf("transactions-%s.%s", generatedAt.Format("20060102-150405"), extension)
}
