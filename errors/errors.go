package errors

import (
	"fmt"
	"strings"
)

// Error is the structured error type used across the azurekit packages.
type Error struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried by the caller.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *Error) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new Error with automatic retryable detection.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Constructors ---

// Config creates an Error for invalid or incomplete configuration.
func Config(message string) *Error {
	return &Error{Code: ErrCodeConfig, Message: message, Retryable: false}
}

// MissingEndpoint creates an Error for a provider missing a required
// resource endpoint.
func MissingEndpoint(provider, resource string) *Error {
	return &Error{
		Code:      ErrCodeConfig,
		Message:   fmt.Sprintf("provider %q does not have a %s endpoint defined", provider, resource),
		Retryable: false,
		Details:   map[string]any{"provider": provider, "resource": resource},
	}
}

// InvalidProxy creates an Error for a proxy URL whose authority cannot be
// determined.
func InvalidProxy(proxyURL string, cause error) *Error {
	return &Error{
		Code:      ErrCodeConfig,
		Message:   "unable to determine proxy host and port",
		Retryable: false,
		Details:   map[string]any{"proxy": redactUserinfo(proxyURL)},
		Cause:     cause,
	}
}

// Remote creates an Error carrying a remote error envelope's code and message.
func Remote(code, message string) *Error {
	return &Error{
		Code:      ErrCodeRemote,
		Message:   fmt.Sprintf("%s - %s", code, message),
		Retryable: false,
		Details:   map[string]any{"remote_code": code, "remote_message": message},
	}
}

// Transport creates an Error wrapping a network failure.
func Transport(operation string, cause error) *Error {
	return &Error{
		Code:      ErrCodeTransport,
		Message:   fmt.Sprintf("request failed during %s", operation),
		Retryable: true,
		Details:   map[string]any{"operation": operation},
		Cause:     cause,
	}
}

// Canceled creates an Error for an interactive flow that finished without a
// result.
func Canceled(reason string) *Error {
	if reason == "" {
		reason = "the sign-in flow completed without an account"
	}
	return &Error{Code: ErrCodeCanceled, Message: reason, Retryable: false}
}

// RemoteCode extracts the remote error envelope code from an Error, if any.
func RemoteCode(err error) string {
	e := AsError(err)
	if e == nil || e.Details == nil {
		return ""
	}
	if code, ok := e.Details["remote_code"].(string); ok {
		return code
	}
	return ""
}

// redactUserinfo strips embedded credentials from a proxy URL before it is
// attached to error details.
func redactUserinfo(raw string) string {
	if at := strings.LastIndex(raw, "@"); at >= 0 {
		if scheme := strings.Index(raw, "://"); scheme >= 0 && scheme+3 < at {
			return raw[:scheme+3] + "***@" + raw[at+1:]
		}
	}
	return raw
}
