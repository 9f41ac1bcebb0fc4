package erp

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured is returned when the ERP credentials are absent
	ErrNotConfigured = errors.New("erp: remote document store not configured")

	// ErrNotFound is returned when a document does not exist remotely
	ErrNotFound = errors.New("erp: document not found")
)

// TransportError wraps a network-level failure (connection refused,
// timeout). Recoverable by the caller.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("erp: transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RemoteError is a non-2xx response from the remote store. Body carries
// the raw (truncated) response for diagnostics.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("erp: remote returned %d: %s", e.StatusCode, e.Body)
}

// DecodeError is a response body whose shape was unexpected
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("erp: unexpected response shape: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsUnavailable reports whether err is a failure mode that warrants the
// local fallback path. Missing configuration, transport failures,
// non-2xx responses and undecodable bodies all qualify; the write path
// treats each as "remote unavailable" and keeps the record locally.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotConfigured) {
		return true
	}
	var te *TransportError
	var re *RemoteError
	var de *DecodeError
	return errors.As(err, &te) || errors.As(err, &re) || errors.As(err, &de)
}
