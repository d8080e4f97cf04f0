package platform

import (
	"errors"
	"fmt"
)

// ErrorCode classifies every failure reported by the windowing layer.
type ErrorCode int

const (
	NoError ErrorCode = iota
	NotInitialized
	InvalidEnum
	InvalidValue
	OutOfMemory
	APIUnavailable
	PlatformError
	FormatUnavailable
	CursorUnavailable
	FeatureUnavailable
	FeatureUnimplemented
)

func (c ErrorCode) String() string {
	switch c {
	case NoError:
		return "no_error"
	case NotInitialized:
		return "not_initialized"
	case InvalidEnum:
		return "invalid_enum"
	case InvalidValue:
		return "invalid_value"
	case OutOfMemory:
		return "out_of_memory"
	case APIUnavailable:
		return "api_unavailable"
	case PlatformError:
		return "platform_error"
	case FormatUnavailable:
		return "format_unavailable"
	case CursorUnavailable:
		return "cursor_unavailable"
	case FeatureUnavailable:
		return "feature_unavailable"
	case FeatureUnimplemented:
		return "feature_unimplemented"
	default:
		return fmt.Sprintf("error_code(%d)", int(c))
	}
}

// Description is the default text used when an error carries no message.
func (c ErrorCode) Description() string {
	switch c {
	case NotInitialized:
		return "[Window] The WindowingAPI has not been initialized"
	case InvalidEnum:
		return "[Window] Invalid argument for enum parameter"
	case InvalidValue:
		return "[Window] Invalid value for parameter"
	case OutOfMemory:
		return "[Window] Out of memory"
	case APIUnavailable:
		return "[Window] The requested API is unavailable"
	case PlatformError:
		return "[Window] A platform-specific error occurred"
	case FormatUnavailable:
		return "[Window] The requested format is unavailable"
	case CursorUnavailable:
		return "[Window] The specified cursor shape is unavailable"
	case FeatureUnavailable:
		return "[Window] The requested feature cannot be implemented for this platform"
	case FeatureUnimplemented:
		return "[Window] The requested feature has not yet been implemented for this platform"
	default:
		return "[Window] Unknown error"
	}
}

// Error is the single error type crossing the windowing API.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Message
	if msg == "" {
		msg = e.Code.Description()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches any *Error carrying the same code, so callers can write
// errors.Is(err, platform.ErrInvalidValue).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return t.Code == e.Code
}

// Errorf builds an *Error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error around a lower-level cause.
func Wrap(code ErrorCode, err error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// CodeOf extracts the code of err, or PlatformError for foreign errors.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return NoError
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return PlatformError
}

var (
	ErrNotInitialized       = &Error{Code: NotInitialized}
	ErrInvalidEnum          = &Error{Code: InvalidEnum}
	ErrInvalidValue         = &Error{Code: InvalidValue}
	ErrOutOfMemory          = &Error{Code: OutOfMemory}
	ErrAPIUnavailable       = &Error{Code: APIUnavailable}
	ErrPlatformError        = &Error{Code: PlatformError}
	ErrFormatUnavailable    = &Error{Code: FormatUnavailable}
	ErrCursorUnavailable    = &Error{Code: CursorUnavailable}
	ErrFeatureUnavailable   = &Error{Code: FeatureUnavailable}
	ErrFeatureUnimplemented = &Error{Code: FeatureUnimplemented}
)
