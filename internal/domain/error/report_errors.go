package error

import "errors"

// Report export domain errors.
var (
	// ErrNothingToExport is returned when the export filter matches no transactions.
	ErrNothingToExport = errors.New("no transactions to export")
)

// ReportErrorCode defines error codes for report errors.
// Format: RPT-XXYYYY where XX is the kind and YYYY is the specific error.
type ReportErrorCode string

const (
	// Empty result errors (06XXXX)
	ErrCodeNothingToExport ReportErrorCode = "RPT-060001"
)

// ReportError represents a report export error with code and message.
type ReportError struct {
	Code    ReportErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ReportError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ReportError) Unwrap() error {
	return e.Err
}

// Kind returns the error kind encoded in the code.
func (e *ReportError) Kind() Kind {
	return kindFromCode(string(e.Code))
}

// ErrorCode returns the machine-readable code.
func (e *ReportError) ErrorCode() string {
	return string(e.Code)
}

// PublicMessage returns the message without the wrapped cause.
func (e *ReportError) PublicMessage() string {
	return e.Message
}

// NewReportError creates a new ReportError with the given code and message.
func NewReportError(code ReportErrorCode, message string, err error) *ReportError {
	return &ReportError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
