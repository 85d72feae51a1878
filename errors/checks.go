package errors

import stderrors "errors"

// AsError extracts an *Error from an error chain, or nil if there is none.
func AsError(err error) *Error {
	var e *Error
	if stderrors.As(err, &e) {
		return e
	}
	return nil
}

// IsCode checks if an error carries the given code.
func IsCode(err error, code ErrorCode) bool {
	e := AsError(err)
	return e != nil && e.Code == code
}

// IsConfig checks if an error is a configuration error.
func IsConfig(err error) bool { return IsCode(err, ErrCodeConfig) }

// IsRemote checks if an error is a remote protocol error.
func IsRemote(err error) bool { return IsCode(err, ErrCodeRemote) }

// IsTransport checks if an error is a transport error.
func IsTransport(err error) bool { return IsCode(err, ErrCodeTransport) }

// IsCanceled checks if an error represents a canceled flow.
func IsCanceled(err error) bool { return IsCode(err, ErrCodeCanceled) }

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	e := AsError(err)
	return e != nil && e.Retryable
}
