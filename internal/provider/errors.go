package provider

import "fmt"

// AuthError means a required credential is missing or unusable. It is a
// precondition failure, checked before any network call, and never retried.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return "not authenticated: " + e.Reason
}

// RemoteError is a non-success HTTP response from an external API. Status and
// body are surfaced verbatim to the user.
type RemoteError struct {
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote error: status %d: %s", e.Status, e.Body)
}

// DecodeError wraps a malformed classification payload. Callers degrade to
// default decisions instead of failing the batch.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "failed to decode response: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
