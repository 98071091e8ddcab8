package shared

import "errors"

var (
	// ErrValidation indicates malformed client input.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized indicates a missing, invalid or expired credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates an authenticated caller without the required role.
	ErrForbidden = errors.New("forbidden")
	// ErrEmailTaken indicates the normalized email belongs to another account.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrIncorrectPassword indicates the current password did not verify.
	ErrIncorrectPassword = errors.New("current password is incorrect")
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrConfiguration indicates the process is missing required configuration.
	ErrConfiguration = errors.New("configuration error")
)

// Error decorates one of the sentinel kinds with a client facing message.
type Error struct {
	Kind    error
	Message string
	Field   string
	Details string
}

// NewError builds an Error of the given kind.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// FieldError builds a validation error naming the offending input field.
func FieldError(field, message string) *Error {
	return &Error{Kind: ErrValidation, Message: message, Field: field}
}

// WithDetails returns a copy carrying extra diagnostic text.
func (e *Error) WithDetails(details string) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Kind != nil {
		return e.Kind.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() error {
	return e.Kind
}
