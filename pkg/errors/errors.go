package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"
	ErrNoValidItems  ErrorCode = "NO_VALID_ITEMS"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Encoder errors, translated from the symbology libraries
	ErrEncodeAISyntax   ErrorCode = "ENCODE_AI_SYNTAX"
	ErrEncodeLength     ErrorCode = "ENCODE_LENGTH"
	ErrEncodeCharset    ErrorCode = "ENCODE_CHARSET"
	ErrEncodeCheckDigit ErrorCode = "ENCODE_CHECK_DIGIT"
	ErrEncodeFailed     ErrorCode = "ENCODE_FAILED"

	// I/O and packaging errors
	ErrFileRead        ErrorCode = "FILE_READ"
	ErrFileWrite       ErrorCode = "FILE_WRITE"
	ErrUnsupportedFile ErrorCode = "UNSUPPORTED_FILE"
	ErrArchive         ErrorCode = "ARCHIVE"
	ErrDocument        ErrorCode = "DOCUMENT"
)

// QrxError represents a structured error with code and details
type QrxError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *QrxError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *QrxError) Unwrap() error {
	return e.Wrapped
}

// Is matches any QrxError carrying the same code
func (e *QrxError) Is(target error) bool {
	var targetErr *QrxError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new QrxError with the given code and message
func New(code ErrorCode, message string) *QrxError {
	return &QrxError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new QrxError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *QrxError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with a QrxError. A nil err yields nil.
func Wrap(err error, code ErrorCode, message string) *QrxError {
	if err == nil {
		return nil
	}
	e := New(code, message)
	e.Wrapped = err
	return e
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *QrxError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WithDetail adds a detail to the error
func (e *QrxError) WithDetail(key string, value interface{}) *QrxError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var qe *QrxError
	if errors.As(err, &qe) {
		return qe.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a QrxError
func GetErrorCode(err error) ErrorCode {
	var qe *QrxError
	if errors.As(err, &qe) {
		return qe.Code
	}
	return ErrUnknown
}

// UserMessage returns the message without the code prefix or wrapped cause.
// It is what batch previews and prompts show next to a value.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var qe *QrxError
	if errors.As(err, &qe) {
		return qe.Message
	}
	return err.Error()
}

// DetailsOf returns the details of the outermost QrxError in err
func DetailsOf(err error) map[string]interface{} {
	var qe *QrxError
	if errors.As(err, &qe) {
		return qe.Details
	}
	return nil
}
