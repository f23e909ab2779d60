package api

import "libris/internal/domain"

// Kind classifies a pipeline failure
type Kind int

const (
	// KindTransport is a network-level failure: unreachable host, timeout,
	// cancelled context
	KindTransport Kind = iota

	// KindAuthExpired is a 401: the credential was rejected and the session
	// has been force-cleared
	KindAuthExpired

	// KindForbidden is a 403
	KindForbidden

	// KindNotFound is a 404
	KindNotFound

	// KindRejected is any other non-2xx; Message carries the server's own
	// wording verbatim when the body provides one
	KindRejected
)

// Error is a classified failure from the request pipeline. Callers never
// branch on status codes themselves; they match kinds or the domain
// sentinels via errors.Is.
type Error struct {
	Kind    Kind
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap maps the error onto the domain sentinels
func (e *Error) Unwrap() error {
	switch e.Kind {
	case KindAuthExpired:
		return domain.ErrSessionExpired
	case KindForbidden:
		return domain.ErrForbidden
	case KindNotFound:
		return domain.ErrNotFound
	case KindTransport:
		return domain.ErrServerOffline
	default:
		return nil
	}
}
