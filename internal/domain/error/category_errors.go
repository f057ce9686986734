package error

import "errors"

// Category domain errors.
var (
	// ErrCategoryNotFound is returned when a category is not found or not visible to the caller.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrCategoryNameExists is returned when attempting to create a category with an existing name.
	ErrCategoryNameExists = errors.New("category name already exists")

	// ErrInvalidCategoryName is returned when the category name is empty or too long.
	ErrInvalidCategoryName = errors.New("invalid category name")

	// ErrInvalidColorFormat is returned when the category color format is invalid.
	ErrInvalidColorFormat = errors.New("invalid color format")

	// ErrInvalidCategoryType is returned when the category type is invalid.
	ErrInvalidCategoryType = errors.New("invalid category type")

	// ErrInvalidParentCategory is returned when a parent reference breaks the nesting rules.
	ErrInvalidParentCategory = errors.New("invalid parent category")

	// ErrCategoryInUse is returned when deleting a category still referenced by transactions.
	ErrCategoryInUse = errors.New("category is referenced by transactions")

	// ErrCategoryTypeConflict is returned when a type change would orphan referencing transactions.
	ErrCategoryTypeConflict = errors.New("category type incompatible with existing transactions")

	// ErrNotAuthorizedToModifyCategory is returned when user is not authorized to modify a category.
	ErrNotAuthorizedToModifyCategory = errors.New("not authorized to modify category")
)

// CategoryErrorCode defines error codes for category errors.
// Format: CAT-XXYYYY where XX is the kind and YYYY is the specific error.
type CategoryErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidCategoryName   CategoryErrorCode = "CAT-010001"
	ErrCodeInvalidColorFormat    CategoryErrorCode = "CAT-010002"
	ErrCodeInvalidCategoryType   CategoryErrorCode = "CAT-010003"
	ErrCodeMissingCategoryFields CategoryErrorCode = "CAT-010004"

	// Not found errors (02XXXX)
	ErrCodeCategoryNotFound       CategoryErrorCode = "CAT-020001"
	ErrCodeParentCategoryNotFound CategoryErrorCode = "CAT-020002"

	// Conflict errors (03XXXX)
	ErrCodeCategoryNameExists   CategoryErrorCode = "CAT-030001"
	ErrCodeCategoryInUse        CategoryErrorCode = "CAT-030002"
	ErrCodeCategoryTypeConflict CategoryErrorCode = "CAT-030003"
	ErrCodeCircularParent       CategoryErrorCode = "CAT-030004"
	ErrCodeParentNestingTooDeep CategoryErrorCode = "CAT-030005"
	ErrCodeParentOwnerMismatch  CategoryErrorCode = "CAT-030006"
	ErrCodeCategoryHasChildren  CategoryErrorCode = "CAT-030007"

	// Authorization errors (04XXXX)
	ErrCodeNotAuthorizedCategory CategoryErrorCode = "CAT-040001"
)

// CategoryError represents a category error with code and message.
type CategoryError struct {
	Code    CategoryErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *CategoryError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *CategoryError) Unwrap() error {
	return e.Err
}

// Kind returns the error kind encoded in the code.
func (e *CategoryError) Kind() Kind {
	return kindFromCode(string(e.Code))
}

// ErrorCode returns the machine-readable code.
func (e *CategoryError) ErrorCode() string {
	return string(e.Code)
}

// PublicMessage returns the message without the wrapped cause.
func (e *CategoryError) PublicMessage() string {
	return e.Message
}

// NewCategoryError creates a new CategoryError with the given code and message.
func NewCategoryError(code CategoryErrorCode, message string, err error) *CategoryError {
	return &CategoryError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// CategoryInUseError reports how many transactions still reference a category.
type CategoryInUseError struct {
	*CategoryError
	ReferenceCount int64
}

// NewCategoryInUseError creates a Conflict error carrying the referencing transaction count.
func NewCategoryInUseError(count int64) *CategoryInUseError {
	return &CategoryInUseError{
		CategoryError:  NewCategoryError(ErrCodeCategoryInUse, "category is used by existing transactions", ErrCategoryInUse),
		ReferenceCount: count,
	}
}
