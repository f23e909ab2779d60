package api

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"libris/internal/busy"
)

// Doer issues one HTTP request. The innermost Doer is the real transport;
// pipeline stages wrap it.
type Doer func(*http.Request) (*http.Response, error)

// Middleware decorates a Doer with one pipeline stage
type Middleware func(Doer) Doer

// Chain wraps base with the given stages, first stage outermost
func Chain(base Doer, stages ...Middleware) Doer {
	for i := len(stages) - 1; i >= 0; i-- {
		base = stages[i](base)
	}
	return base
}

// TokenSource provides the current bearer credential, "" when logged out
type TokenSource interface {
	Token() string
}

// Invalidator force-clears the session, reporting whether anything was
// cleared. Concurrent 401s must produce one logout, not several.
type Invalidator interface {
	Invalidate() bool
}

// Notifier receives user-facing error text
type Notifier interface {
	Error(text string)
}

// WithAuth attaches the current credential as a bearer header. Calls made
// while logged out go out unauthenticated.
func WithAuth(tokens TokenSource) Middleware {
	return func(next Doer) Doer {
		return func(req *http.Request) (*http.Response, error) {
			if tok := tokens.Token(); tok != "" {
				req.Header.Set("Authorization", "Bearer "+tok)
			}
			return next(req)
		}
	}
}

// WithBusy increments the in-flight counter before dispatch and settles it
// unconditionally, whatever the inner stages do
func WithBusy(counter *busy.Counter) Middleware {
	return func(next Doer) Doer {
		return func(req *http.Request) (*http.Response, error) {
			counter.Enter()
			defer counter.Settle()
			return next(req)
		}
	}
}

// WithTrace tags each request with a correlation id and logs its outcome
func WithTrace(logger *slog.Logger) Middleware {
	return func(next Doer) Doer {
		return func(req *http.Request) (*http.Response, error) {
			id := uuid.NewString()
			req.Header.Set("X-Request-Id", id)

			start := time.Now()
			resp, err := next(req)
			if err != nil {
				logger.Error("request failed",
					"id", id, "method", req.Method, "url", req.URL.String(), "error", err)
				return nil, err
			}
			logger.Debug("request",
				"id", id, "method", req.Method, "url", req.URL.String(),
				"status", resp.StatusCode, "elapsed", time.Since(start))
			return resp, nil
		}
	}
}

// errorBody is the optional structured error payload the server sends
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

const maxErrorBody = 64 << 10

// WithClassifier turns every failure into a classified *Error, pushes the
// user-facing notification, and on a rejected credential force-clears the
// session. Successful responses pass through untouched. Classification runs
// exactly once per call; there is no other place errors are translated.
func WithClassifier(notify Notifier, sessions Invalidator, logger *slog.Logger) Middleware {
	return func(next Doer) Doer {
		return func(req *http.Request) (*http.Response, error) {
			resp, err := next(req)
			if err != nil {
				notify.Error("Could not reach the server.")
				return nil, &Error{Kind: KindTransport, Message: "could not reach the server"}
			}
			if resp.StatusCode < 400 {
				return resp, nil
			}

			body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
			resp.Body.Close()

			switch resp.StatusCode {
			case http.StatusUnauthorized:
				// A 401 on a call that carried a credential means the session
				// expired; only the call that actually clears it toasts, so
				// concurrent expiries fold into one notification. A 401 on an
				// unauthenticated call (a failed login) is an ordinary
				// rejection and surfaces the server's own message.
				if req.Header.Get("Authorization") != "" {
					msg := "Session expired. Please sign in again."
					if sessions.Invalidate() {
						notify.Error(msg)
					}
					return nil, &Error{Kind: KindAuthExpired, Status: resp.StatusCode, Message: msg}
				}
				msg := serverMessage(body, resp.StatusCode)
				notify.Error(msg)
				logger.Warn("request rejected",
					"url", req.URL.String(), "status", resp.StatusCode, "message", msg)
				return nil, &Error{Kind: KindRejected, Status: resp.StatusCode, Message: msg}

			case http.StatusForbidden:
				msg := "You do not have permission for this action."
				notify.Error(msg)
				return nil, &Error{Kind: KindForbidden, Status: resp.StatusCode, Message: msg}

			case http.StatusNotFound:
				msg := "Resource not found."
				notify.Error(msg)
				return nil, &Error{Kind: KindNotFound, Status: resp.StatusCode, Message: msg}

			default:
				msg := serverMessage(body, resp.StatusCode)
				notify.Error(msg)
				logger.Warn("request rejected",
					"url", req.URL.String(), "status", resp.StatusCode, "message", msg)
				return nil, &Error{Kind: KindRejected, Status: resp.StatusCode, Message: msg}
			}
		}
	}
}

// serverMessage extracts a human-readable message from an error body,
// preferring the structured "error" field, then "message", then the status
// text. The server's wording is surfaced verbatim.
func serverMessage(body []byte, status int) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if eb.Error != "" {
			return eb.Error
		}
		if eb.Message != "" {
			return eb.Message
		}
	}
	return http.StatusText(status)
}
