package error

import "errors"

// User domain errors.
var (
	// ErrUserNotFound is returned when a user is not found in the system.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCurrency is returned when a currency code is not a three-letter ISO code.
	ErrInvalidCurrency = errors.New("invalid currency")

	// ErrInvalidMonthlyBudget is returned when the monthly budget is negative.
	ErrInvalidMonthlyBudget = errors.New("invalid monthly budget")

	// ErrInvalidUserName is returned when the display name is empty or too long.
	ErrInvalidUserName = errors.New("invalid user name")
)

// UserErrorCode defines error codes for user profile errors.
// Format: USR-XXYYYY where XX is the kind and YYYY is the specific error.
type UserErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidCurrency      UserErrorCode = "USR-010001"
	ErrCodeInvalidMonthlyBudget UserErrorCode = "USR-010002"
	ErrCodeInvalidUserName      UserErrorCode = "USR-010003"

	// Not found errors (02XXXX)
	ErrCodeUserNotFound UserErrorCode = "USR-020001"
)

// UserError represents a user profile error with code and message.
type UserError struct {
	Code    UserErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *UserError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *UserError) Unwrap() error {
	return e.Err
}

// Kind returns the error kind encoded in the code.
func (e *UserError) Kind() Kind {
	return kindFromCode(string(e.Code))
}

// ErrorCode returns the machine-readable code.
func (e *UserError) ErrorCode() string {
	return string(e.Code)
}

// PublicMessage returns the message without the wrapped cause.
func (e *UserError) PublicMessage() string {
	return e.Message
}

// NewUserError creates a new UserError with the given code and message.
func NewUserError(code UserErrorCode, message string, err error) *UserError {
	return &UserError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
