package semaphore

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the Semaphore client.
// All errors are defined here for easy discovery and consistent organization.
var (
	// Configuration errors
	ErrEmptyHost   = errors.New("semaphore: host cannot be empty")
	ErrInvalidHost = errors.New("semaphore: host must be an absolute http(s) URL")

	// Authentication errors
	ErrNotAuthenticated   = errors.New("semaphore: not authenticated (login required)")
	ErrInvalidCredentials = errors.New("semaphore: username and/or password incorrect")
	ErrUnauthorized       = errors.New("semaphore: unauthorized (invalid or expired session)")
	ErrEmptyUsername      = errors.New("semaphore: username cannot be empty")
	ErrEmptyAPIToken      = errors.New("semaphore: API token cannot be empty")
	ErrNoSession          = errors.New("semaphore: no stored session")

	// Resource errors
	ErrNotFound = errors.New("semaphore: resource not found")

	// Request validation errors
	ErrInvalidRequest = errors.New("semaphore: invalid request")

	// ID validation errors
	ErrInvalidProjectID     = errors.New("semaphore: project ID must be positive")
	ErrInvalidUserID        = errors.New("semaphore: user ID must be positive")
	ErrInvalidIntegrationID = errors.New("semaphore: integration ID must be positive")
	ErrInvalidKeyID         = errors.New("semaphore: key ID must be positive")
	ErrInvalidRepositoryID  = errors.New("semaphore: repository ID must be positive")
	ErrInvalidEnvironmentID = errors.New("semaphore: environment ID must be positive")
	ErrInvalidViewID        = errors.New("semaphore: view ID must be positive")
	ErrInvalidInventoryID   = errors.New("semaphore: inventory ID must be positive")
	ErrInvalidTemplateID    = errors.New("semaphore: template ID must be positive")
	ErrInvalidScheduleID    = errors.New("semaphore: schedule ID must be positive")
	ErrInvalidTaskID        = errors.New("semaphore: task ID must be positive")
	ErrEmptyTokenID         = errors.New("semaphore: token ID cannot be empty")
)

// APIError represents a non-2xx response from the Semaphore API.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
	RequestID  string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := fmt.Sprintf("semaphore: API error %d", e.StatusCode)
	if e.Method != "" {
		msg += fmt.Sprintf(" on %s %s", e.Method, e.Path)
	}
	msg += ": " + e.Message
	if e.RequestID != "" {
		msg += " (request_id: " + e.RequestID + ")"
	}
	return msg
}

// DecodeError is returned when a response body cannot be decoded into
// the expected record. No partial data is returned alongside it.
type DecodeError struct {
	Resource string
	Body     string
	Err      error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("semaphore: failed to parse %s: %v (body: %s)", e.Resource, e.Err, e.Body)
}

// Unwrap returns the underlying JSON error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// TransportError wraps a failure to complete the HTTP exchange
// (DNS, connection refused, TLS, timeout, truncated body).
type TransportError struct {
	Method string
	Path   string
	Err    error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("semaphore: %s %s failed: %v", e.Method, e.Path, e.Err)
}

// Unwrap returns the underlying network error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsUnauthorized returns true if the server rejected the session.
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrUnauthorized) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401
	}
	return false
}

// IsAuthError returns true for every authentication failure: no session,
// rejected credentials, or a session the server no longer accepts.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrNotAuthenticated) ||
		errors.Is(err, ErrInvalidCredentials) ||
		IsUnauthorized(err)
}

// IsNotFound returns true if the error indicates the resource was not found.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}

// IsForbidden returns true if the session lacks permission for the resource.
func IsForbidden(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 403
}

// IsDecodeError returns true if the response body could not be decoded.
func IsDecodeError(err error) bool {
	var decErr *DecodeError
	return errors.As(err, &decErr)
}

// IsTransportError returns true if the request never produced an HTTP response.
func IsTransportError(err error) bool {
	var trErr *TransportError
	return errors.As(err, &trErr)
}

// IsTimeout returns true if the error indicates a timeout.
func IsTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

// invalidRequest joins ErrInvalidRequest with the validation failure so both
// errors.Is(err, ErrInvalidRequest) and validation.Errors inspection work.
func invalidRequest(resource string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInvalidRequest, resource, err)
}
