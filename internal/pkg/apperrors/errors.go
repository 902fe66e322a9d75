package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token revoked")

	// Authorization errors
	ErrPermissionDenied     = errors.New("permission denied")
	ErrAccountNotActive     = errors.New("account not active")
	ErrRegistrationDenied   = errors.New("registration denied")
	ErrNotRegisteredStudent = errors.New("not registered as student")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrMaliciousInput   = errors.New("malicious input detected")

	// Rate limiting
	ErrRateLimited = errors.New("rate limit exceeded")
)

// User errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user or email already exists")
)

// Student errors
var (
	ErrStudentNotFound       = errors.New("student not found")
	ErrStudentAlreadyLinked  = errors.New("student already linked to a user account")
	ErrDuplicateStudentField = errors.New("duplicate dni, username, email or matricula")
)

// Roster errors
var (
	ErrMissingColumns = errors.New("required columns missing")
	ErrUnreadableFile = errors.New("unreadable spreadsheet file")
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// NewValidationError creates an error that maps to a 400 with the given message
func NewValidationError(message string) error {
	return &CustomError{Err: ErrValidationFailed, Message: message}
}

// NewForbiddenError creates an error that maps to a 403 with the given message
func NewForbiddenError(message string) error {
	return &CustomError{Err: ErrPermissionDenied, Message: message}
}

// NewConflictError creates an error for uniqueness violations with the given message
func NewConflictError(message string) error {
	return &CustomError{Err: ErrConflict, Message: message}
}

// NewNotFoundError creates an error that maps to a 404 with the given message
func NewNotFoundError(message string) error {
	return &CustomError{Err: ErrResourceNotFound, Message: message}
}
