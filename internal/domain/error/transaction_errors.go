package error

import "errors"

// Transaction domain errors.
var (
	// ErrTransactionNotFound is returned when a transaction is not found in the system.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrNotAuthorizedToModifyTransaction is returned when user is not authorized to modify a transaction.
	ErrNotAuthorizedToModifyTransaction = errors.New("not authorized to modify transaction")

	// ErrInvalidTransactionType is returned when the transaction type is invalid.
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrInvalidTransactionDate is returned when the transaction date is invalid or in the future.
	ErrInvalidTransactionDate = errors.New("invalid transaction date")

	// ErrInvalidTransactionAmount is returned when the transaction amount is not strictly positive.
	ErrInvalidTransactionAmount = errors.New("invalid transaction amount")

	// ErrInvalidTransactionTitle is returned when the title is empty or too long.
	ErrInvalidTransactionTitle = errors.New("invalid transaction title")

	// ErrInvalidPaymentMethod is returned when the payment method is not supported.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrInvalidTransactionStatus is returned when the status is not supported.
	ErrInvalidTransactionStatus = errors.New("invalid transaction status")

	// ErrInvalidRecurringRule is returned when a recurring rule is malformed.
	ErrInvalidRecurringRule = errors.New("invalid recurring rule")

	// ErrInvalidFilter is returned when listing criteria are out of range.
	ErrInvalidFilter = errors.New("invalid filter criteria")

	// ErrCategoryNotFoundForTransaction is returned when the specified category is not found.
	ErrCategoryNotFoundForTransaction = errors.New("category not found")

	// ErrCategoryTypeMismatch is returned when a category cannot hold the transaction type.
	ErrCategoryTypeMismatch = errors.New("category type does not match transaction type")

	// ErrDescriptionTooLong is returned when the transaction description exceeds the maximum length.
	ErrDescriptionTooLong = errors.New("description too long")

	// ErrInvalidTags is returned when there are too many tags or a tag is too long.
	ErrInvalidTags = errors.New("invalid tags")

	// ErrEmptyTransactionIDs is returned when an empty list of transaction IDs is provided.
	ErrEmptyTransactionIDs = errors.New("transaction IDs list cannot be empty")

	// ErrTransactionIDsNotFound is returned when one or more transaction IDs are not found.
	ErrTransactionIDsNotFound = errors.New("one or more transactions not found")
)

// TransactionErrorCode defines error codes for transaction errors.
// Format: TXN-XXYYYY where XX is the kind and YYYY is the specific error.
type TransactionErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidTransactionType   TransactionErrorCode = "TXN-010001"
	ErrCodeInvalidTransactionDate   TransactionErrorCode = "TXN-010002"
	ErrCodeInvalidTransactionAmount TransactionErrorCode = "TXN-010003"
	ErrCodeInvalidTransactionTitle  TransactionErrorCode = "TXN-010004"
	ErrCodeDescriptionTooLong       TransactionErrorCode = "TXN-010005"
	ErrCodeInvalidPaymentMethod     TransactionErrorCode = "TXN-010006"
	ErrCodeInvalidTransactionStatus TransactionErrorCode = "TXN-010007"
	ErrCodeInvalidRecurringRule     TransactionErrorCode = "TXN-010008"
	ErrCodeInvalidFilter            TransactionErrorCode = "TXN-010009"
	ErrCodeMissingTransactionFields TransactionErrorCode = "TXN-010010"
	ErrCodeEmptyTransactionIDs      TransactionErrorCode = "TXN-010011"
	ErrCodeInvalidTags              TransactionErrorCode = "TXN-010012"

	// Not found errors (02XXXX)
	ErrCodeTransactionNotFound    TransactionErrorCode = "TXN-020001"
	ErrCodeTxnCategoryNotFound    TransactionErrorCode = "TXN-020002"
	ErrCodeTransactionIDsNotFound TransactionErrorCode = "TXN-020003"

	// Conflict errors (03XXXX)
	ErrCodeCategoryTypeMismatch TransactionErrorCode = "TXN-030001"

	// Authorization errors (04XXXX)
	ErrCodeNotAuthorizedTransaction TransactionErrorCode = "TXN-040001"
)

// TransactionError represents a transaction error with code and message.
type TransactionError struct {
	Code    TransactionErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *TransactionError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *TransactionError) Unwrap() error {
	return e.Err
}

// Kind returns the error kind encoded in the code.
func (e *TransactionError) Kind() Kind {
	return kindFromCode(string(e.Code))
}

// ErrorCode returns the machine-readable code.
func (e *TransactionError) ErrorCode() string {
	return string(e.Code)
}

// PublicMessage returns the message without the wrapped cause.
func (e *TransactionError) PublicMessage() string {
	return e.Message
}

// NewTransactionError creates a new TransactionError with the given code and message.
func NewTransactionError(code TransactionErrorCode, message string, err error) *TransactionError {
	return &TransactionError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
