package domain

import "errors"

// Sentinel errors for lending operations
var (
	// ErrSessionExpired indicates the stored credential was rejected by the server
	ErrSessionExpired = errors.New("session expired")

	// ErrForbidden indicates the account lacks permission for the action
	ErrForbidden = errors.New("permission denied")

	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrServerOffline indicates the lending server is unreachable
	ErrServerOffline = errors.New("server is unreachable")

	// ErrInvalidTransition indicates a loan is not in a state that allows the action
	ErrInvalidTransition = errors.New("loan state does not allow this action")

	// ErrInvalidCounters indicates a book's available count would fall outside
	// the 0..copies range
	ErrInvalidCounters = errors.New("available copies must be between zero and total copies")
)
