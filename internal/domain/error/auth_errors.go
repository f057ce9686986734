package error

import "errors"

// Authentication domain errors.
var (
	// ErrEmailAlreadyExists is returned when attempting to register with an existing email.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrInvalidCredentials is returned when login credentials are invalid.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned when a token is invalid or malformed.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a token has expired.
	ErrExpiredToken = errors.New("token has expired")

	// ErrUserDeactivated is returned when a deactivated account tries to authenticate.
	ErrUserDeactivated = errors.New("user account is deactivated")

	// ErrWeakPassword is returned when the provided password does not meet requirements.
	ErrWeakPassword = errors.New("password does not meet minimum requirements")

	// ErrInvalidEmail is returned when the provided email format is invalid.
	ErrInvalidEmail = errors.New("invalid email format")
)

// AuthErrorCode defines error codes for authentication errors.
// Format: AUTH-XXYYYY where XX is the kind and YYYY is the specific error.
type AuthErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeWeakPassword  AuthErrorCode = "AUTH-010001"
	ErrCodeInvalidEmail  AuthErrorCode = "AUTH-010002"
	ErrCodeMissingFields AuthErrorCode = "AUTH-010003"

	// Conflict errors (03XXXX)
	ErrCodeEmailExists AuthErrorCode = "AUTH-030001"

	// Authentication errors (07XXXX)
	ErrCodeInvalidCredentials AuthErrorCode = "AUTH-070001"
	ErrCodeInvalidToken       AuthErrorCode = "AUTH-070002"
	ErrCodeExpiredToken       AuthErrorCode = "AUTH-070003"
	ErrCodeMissingToken       AuthErrorCode = "AUTH-070004"
	ErrCodeUserDeactivated    AuthErrorCode = "AUTH-070005"

	// Throttling errors (09XXXX)
	ErrCodeRateLimited AuthErrorCode = "AUTH-090001"
)

// AuthError represents an authentication error with code and message.
type AuthError struct {
	Code    AuthErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// Kind returns the error kind encoded in the code.
func (e *AuthError) Kind() Kind {
	return kindFromCode(string(e.Code))
}

// ErrorCode returns the machine-readable code.
func (e *AuthError) ErrorCode() string {
	return string(e.Code)
}

// PublicMessage returns the message without the wrapped cause.
func (e *AuthError) PublicMessage() string {
	return e.Message
}

// NewAuthError creates a new AuthError with the given code and message.
func NewAuthError(code AuthErrorCode, message string, err error) *AuthError {
	return &AuthError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
