package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout marks a request that exceeded its bounded deadline.
	ErrTimeout = errors.New("gateway timeout")
	// ErrConnection marks a transport-level failure before any response.
	ErrConnection = errors.New("gateway connection failed")
	// ErrAuthRejected marks an explicit credential rejection by the server.
	ErrAuthRejected = errors.New("gateway rejected credentials")
	// ErrServerError marks a 5xx response.
	ErrServerError = errors.New("gateway server error")
	// ErrMissingCredentials is returned before any network call when a
	// required input is empty.
	ErrMissingCredentials = errors.New("email and password required")
	// ErrMissingSessionID is returned before any network call when the
	// session identifier to verify is empty.
	ErrMissingSessionID = errors.New("session id required")
)

// Failure carries the classified kind plus whatever the server said. The
// server-provided message is preserved verbatim so the UI layer can surface
// authentication failures exactly as the backend phrased them; transport
// failures carry no server text and callers show a generic message instead.
type Failure struct {
	Kind    error
	Status  int
	Message string
}

// Error implements the error interface.
func (f *Failure) Error() string {
	if f.Message == "" {
		return f.Kind.Error()
	}
	return fmt.Sprintf("%v: %s", f.Kind, f.Message)
}

// Unwrap lets callers branch with errors.Is against the kind sentinels.
func (f *Failure) Unwrap() error {
	return f.Kind
}

// Transient reports whether the failure is recoverable without destroying
// stored credentials.
func Transient(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrConnection)
}
