package api

import "errors"

// ErrInvalidToken marks an explicit invalid/expired-token response from the
// server, as opposed to a transport failure. Callers use it to decide whether
// a stored credential should be purged.
var ErrInvalidToken = errors.New("token is invalid or expired")

// AuthError wraps any failure of an authentication call. Message is safe to
// show to the user: the server-provided message when available, a generic
// fallback otherwise.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// FetchError wraps any failure of a list/page retrieval.
type FetchError struct {
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	return e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// MutationError wraps any failure of a write (like, comment, delete, profile
// update, post creation).
type MutationError struct {
	Message string
	Err     error
}

func (e *MutationError) Error() string {
	return e.Message
}

func (e *MutationError) Unwrap() error {
	return e.Err
}

func messageOr(msg string, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}
