package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrNotFound          = errors.New("resource not found")
	ErrResidentNotFound  = errors.New("resident not found")
	ErrPreceptorNotFound = errors.New("preceptor not found")
	ErrProcedureNotFound = errors.New("procedure not found")

	// Authentication errors
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")

	// Authorization errors
	ErrForbidden = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")

	// Uniqueness errors (checked across both account tables)
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrCPFAlreadyExists   = errors.New("CPF already registered")

	// Workflow errors
	ErrInvalidState = errors.New("procedure already evaluated")

	// External collaborator errors
	ErrExternalService    = errors.New("external service unavailable")
	ErrLicenseNotEligible = errors.New("license is not eligible for registration")
)

// Reference data errors
var (
	ErrUniversityNotFound = errors.New("university not found")
	ErrHospitalNotFound   = errors.New("hospital not found")
	ErrSpecialtyNotFound  = errors.New("specialty not found")
	ErrReferenceExists    = errors.New("reference entity with this name already exists")
)

// CustomError carries an underlying sentinel plus user-facing context.
type CustomError struct {
	Err     error
	Message string
	Field   string
}

// Error implements the error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a field-scoped validation error.
func NewValidationError(field, message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
		Field:   field,
	}
}

// NewForbiddenError creates a permission-denied error with a message.
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// NewNotFoundError creates a not-found error with a message.
func NewNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrNotFound,
		Message: message,
	}
}

// FieldOf returns the field name attached to a validation error, if any.
func FieldOf(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Field
	}
	return ""
}
