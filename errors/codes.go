package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

const (
	// ErrCodeConfig indicates invalid or incomplete configuration, such as a
	// missing provider resource endpoint or an unparsable proxy authority.
	// Raised synchronously, before any network attempt.
	ErrCodeConfig ErrorCode = "CONFIGURATION_ERROR"

	// ErrCodeRemote indicates the remote endpoint returned a protocol-level
	// error envelope instead of the expected payload.
	ErrCodeRemote ErrorCode = "REMOTE_ERROR"

	// ErrCodeTransport indicates a network failure while dispatching a
	// request. The underlying error is preserved as the cause.
	ErrCodeTransport ErrorCode = "TRANSPORT_ERROR"

	// ErrCodeCanceled indicates the interactive flow completed without a
	// result, typically because the user dismissed the prompt.
	ErrCodeCanceled ErrorCode = "CANCELED"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeTransport: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
// azurekit itself never retries; the flag is advice for callers.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
