package advisory

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedResponse is returned when a 2xx body cannot be decoded or
	// lacks required fields.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrUnrecognizedShape is returned when a recommendations body matches
	// none of the known layouts.
	ErrUnrecognizedShape = errors.New("unrecognized recommendations shape")
)

// TransportError wraps network failures: refused connections, timeouts,
// cancelled contexts.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("advisory API unreachable (endpoint: %s): %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError is a non-2xx response.
type StatusError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("advisory API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// ValidationError is a request the client refused to send.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Classify returns a short label for err, used as a metric label.
func Classify(err error) string {
	var transportErr *TransportError
	var statusErr *StatusError
	var validationErr *ValidationError
	switch {
	case err == nil:
		return "none"
	case errors.As(err, &transportErr):
		return "transport"
	case errors.As(err, &statusErr):
		return "status"
	case errors.Is(err, ErrUnrecognizedShape):
		return "unrecognized_shape"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	case errors.As(err, &validationErr):
		return "validation"
	default:
		return "unknown"
	}
}
