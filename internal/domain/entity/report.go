package entity

import "time"

// TransactionReport is the input to a report renderer.
type TransactionReport struct {
	Title        string
	AccountName  string
	AccountEmail string
	GeneratedAt  time.Time
	StartDate    *time.Time
	EndDate      *time.Time
	Currency     string
	Summary      TransactionSummary
	Rows         []*TransactionWithCategory
}

// RenderedReport is a rendered report artifact.
type RenderedReport struct {
	Filename    string
	ContentType string
	Content     []byte
}
