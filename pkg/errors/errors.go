package errors

import "fmt"

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	// ErrorTypeExtraction covers a single post element that failed to parse.
	// Recoverable: the element is skipped and the pass continues.
	ErrorTypeExtraction ErrorType = "extraction"
	// ErrorTypeScrollTransport means the browser session is unreachable.
	// Fatal: the scroll loop aborts after draining the download pool.
	ErrorTypeScrollTransport ErrorType = "scroll_transport"
	// ErrorTypeDownload covers a failed media fetch or write. Isolated:
	// recorded in the download summary, never raised to the scroll loop.
	ErrorTypeDownload ErrorType = "download"
	// ErrorTypeConfiguration is an invalid option combination. Fatal,
	// surfaced before any browser work starts.
	ErrorTypeConfiguration ErrorType = "configuration"

	// Media client errors
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error represents a scraper error with type information
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// New creates a typed error without an HTTP code
func New(t ErrorType, message string) *Error {
	return &Error{Type: t, Message: message}
}

// Newf creates a typed error with a formatted message
func Newf(t ErrorType, format string, args ...interface{}) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...)}
}

// IsRetryable checks if an error type should be retried
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeNetwork, ErrorTypeRateLimit, ErrorTypeServerError:
		return true
	case ErrorTypeExtraction, ErrorTypeScrollTransport, ErrorTypeConfiguration, ErrorTypeNotFound:
		return false
	default:
		return false
	}
}

// IsFatal checks if an error type must abort the scrape call
func IsFatal(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeScrollTransport, ErrorTypeConfiguration:
		return true
	default:
		return false
	}
}

// IsRetryableStatusCode checks if an HTTP status code indicates a retryable error
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case 0: // Network error
		return true
	case 429: // Too Many Requests
		return true
	case 500, 502, 503, 504: // Server errors
		return true
	case 401, 403, 404: // Client errors that won't change
		return false
	default:
		return statusCode >= 500 // Retry all 5xx errors
	}
}
