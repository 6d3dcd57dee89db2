package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies an AppError for callers that branch on failure class.
type Kind int

const (
	KindInvalidInput Kind = iota + 1
	KindNotFound
	KindInternal
)

type AppError struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// InvalidInput reports a configuration or argument error: bad schema, unknown
// storage extension, unsupported format, malformed URL.
func InvalidInput(op string, err error, message string) *AppError {
	return &AppError{
		Kind:    KindInvalidInput,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// NotFound reports a missing source file or record.
func NotFound(op string, err error, message string) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// Internal reports a storage or subprocess failure. The wrapped cause carries
// contextual detail (path, row count) added at the call site.
func Internal(op string, err error, message string) *AppError {
	return &AppError{
		Kind:    KindInternal,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

func IsInvalidInput(err error) bool { return hasKind(err, KindInvalidInput) }

func IsNotFound(err error) bool { return hasKind(err, KindNotFound) }

func IsInternal(err error) bool { return hasKind(err, KindInternal) }

func hasKind(err error, kind Kind) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Kind == kind
}
