package error

import "errors"

// Receipt (OCR hand-off) domain errors.
var (
	// ErrOCRServiceUnavailable is returned when the OCR collaborator cannot be reached,
	// times out or fails with a server error. Callers may retry.
	ErrOCRServiceUnavailable = errors.New("ocr service unavailable")

	// ErrOCRRejected is returned when the OCR collaborator refuses the input.
	ErrOCRRejected = errors.New("ocr service rejected the request")

	// ErrUnsupportedFileType is returned for uploads outside the accepted formats.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrFileTooLarge is returned when an upload exceeds the size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrMissingReceipt is returned when neither a file nor text was supplied.
	ErrMissingReceipt = errors.New("receipt content is required")
)

// ReceiptErrorCode defines error codes for receipt processing errors.
// Format: RCP-XXYYYY where XX is the kind and YYYY is the specific error.
type ReceiptErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeUnsupportedFileType ReceiptErrorCode = "RCP-010001"
	ErrCodeFileTooLarge        ReceiptErrorCode = "RCP-010002"
	ErrCodeMissingReceipt      ReceiptErrorCode = "RCP-010003"
	ErrCodeOCRRejected         ReceiptErrorCode = "RCP-010004"

	// Upstream errors (05XXXX)
	ErrCodeOCRUnavailable ReceiptErrorCode = "RCP-050001"
)

// ReceiptError represents a receipt processing error with code and message.
type ReceiptError struct {
	Code    ReceiptErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ReceiptError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ReceiptError) Unwrap() error {
	return e.Err
}

// Kind returns the error kind encoded in the code.
func (e *ReceiptError) Kind() Kind {
	return kindFromCode(string(e.Code))
}

// ErrorCode returns the machine-readable code.
func (e *ReceiptError) ErrorCode() string {
	return string(e.Code)
}

// PublicMessage returns the message without the wrapped cause.
func (e *ReceiptError) PublicMessage() string {
	return e.Message
}

// NewReceiptError creates a new ReceiptError with the given code and message.
func NewReceiptError(code ReceiptErrorCode, message string, err error) *ReceiptError {
	return &ReceiptError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
