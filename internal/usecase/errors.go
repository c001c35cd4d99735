package usecase

import (
	"errors"
	"fmt"

	"yamdb/pkg/utils"
)

// ErrorKind classifies failures returned to the transport layer.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindNotFound
	KindForbidden
	KindMethodNotAllowed
	KindAuthenticationFailed
	KindUnauthenticated
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindMethodNotAllowed:
		return "method_not_allowed"
	case KindAuthenticationFailed:
		return "authentication_failed"
	case KindUnauthenticated:
		return "not_authenticated"
	}
	return "unknown"
}

// Error is a domain error with a kind and optional field messages.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, utils.FormatValidationErrors(e.Fields))
}

// Is matches on kind and code so wrapped copies compare equal to the sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// ErrDuplicateReview is returned when an author reviews the same title twice.
var ErrDuplicateReview = &Error{
	Kind:    KindValidation,
	Code:    "duplicate_review",
	Message: "Only one review per title is allowed (author, title must be unique)",
	Fields:  map[string]string{"title": "You have already reviewed this title"},
}

func ValidationError(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func FieldError(field, message string) *Error {
	return ValidationError("Validation failed", map[string]string{field: message})
}

func NotFoundError(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

func AuthenticationFailedError(field, message string) *Error {
	return &Error{
		Kind:    KindAuthenticationFailed,
		Message: "Authentication failed",
		Fields:  map[string]string{field: message},
	}
}

// validate runs struct validation and converts failures into a ValidationError.
func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return ValidationError("Validation failed", errs)
	}
	return nil
}

// AsError extracts a domain error from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
