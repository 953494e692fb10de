package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DomainError with the same code, so that
// errors.Is(err, ErrNotFound) matches errors derived with WithMessage.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithMessage returns a copy of the error carrying a more specific message
func (e *DomainError) WithMessage(message string) *DomainError {
	return &DomainError{Code: e.Code, Message: message, Err: e.Err}
}

// Wrap returns a copy of the error carrying err as its cause
func (e *DomainError) Wrap(err error) *DomainError {
	return &DomainError{Code: e.Code, Message: e.Message, Err: err}
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound      = NewDomainError("NOT_FOUND", "Ressource introuvable")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "La ressource existe déjà")
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "Données invalides")
	ErrConflict      = NewDomainError("CONFLICT", "Requête en conflit avec une requête en cours")
	ErrUnauthorized  = NewDomainError("UNAUTHORIZED", "Authentification requise")
	ErrForbidden     = NewDomainError("FORBIDDEN", "Accès réservé à l'administrateur")
)

// IsNotFound reports whether err is (or wraps) a not-found domain error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidInput reports whether err is (or wraps) a validation domain error
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
