package api

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libris/internal/busy"
	"libris/internal/domain"
	"libris/internal/logging"
)

type staticTokens string

func (s staticTokens) Token() string { return string(s) }

type fakeInvalidator struct {
	mu      sync.Mutex
	present bool
	cleared int
}

func (f *fakeInvalidator) Invalidate() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared++
	if !f.present {
		return false
	}
	f.present = false
	return true
}

type recordingNotifier struct {
	mu    sync.Mutex
	texts []string
}

func (r *recordingNotifier) Error(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts = append(r.texts, text)
}

func (r *recordingNotifier) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.texts...)
}

func respond(status int, body string) Doer {
	return func(*http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(strings.NewReader(body)),
		}, nil
	}
}

func newRequest(t *testing.T) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, "http://example.test/books", nil)
	require.NoError(t, err)
	return req
}

func TestChainOrder(t *testing.T) {
	var order []string
	stage := func(name string) Middleware {
		return func(next Doer) Doer {
			return func(req *http.Request) (*http.Response, error) {
				order = append(order, name)
				return next(req)
			}
		}
	}

	do := Chain(respond(http.StatusOK, ""), stage("outer"), stage("inner"))
	resp, err := do(newRequest(t))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestWithAuthAttachesBearer(t *testing.T) {
	var got string
	inner := func(req *http.Request) (*http.Response, error) {
		got = req.Header.Get("Authorization")
		return respond(http.StatusOK, "")(req)
	}

	do := Chain(inner, WithAuth(staticTokens("tok-1")))
	resp, err := do(newRequest(t))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "Bearer tok-1", got)
}

func TestWithAuthSkipsHeaderWhenLoggedOut(t *testing.T) {
	var has bool
	inner := func(req *http.Request) (*http.Response, error) {
		_, has = req.Header["Authorization"]
		return respond(http.StatusOK, "")(req)
	}

	do := Chain(inner, WithAuth(staticTokens("")))
	resp, err := do(newRequest(t))
	require.NoError(t, err)
	resp.Body.Close()
	assert.False(t, has)
}

func TestWithBusySettlesOnFailure(t *testing.T) {
	counter := &busy.Counter{}
	boom := func(*http.Request) (*http.Response, error) {
		assert.True(t, counter.Active())
		return nil, errors.New("connection refused")
	}

	do := Chain(boom, WithBusy(counter))
	_, err := do(newRequest(t))
	require.Error(t, err)
	assert.Equal(t, 0, counter.Count())
}

func TestClassifierTransport(t *testing.T) {
	notify := &recordingNotifier{}
	sessions := &fakeInvalidator{present: true}
	boom := func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	}

	do := Chain(boom, WithClassifier(notify, sessions, logging.Null()))
	_, err := do(newRequest(t))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrServerOffline)
	assert.Equal(t, []string{"Could not reach the server."}, notify.all())

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindTransport, apiErr.Kind)
}

func TestClassifierStatusCodes(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		authed   bool
		body     string
		kind     Kind
		sentinel error
		message  string
	}{
		{
			name:     "unauthorized with credential",
			status:   http.StatusUnauthorized,
			authed:   true,
			kind:     KindAuthExpired,
			sentinel: domain.ErrSessionExpired,
			message:  "Session expired. Please sign in again.",
		},
		{
			name:    "unauthorized without credential",
			status:  http.StatusUnauthorized,
			body:    `{"error":"Invalid credentials"}`,
			kind:    KindRejected,
			message: "Invalid credentials",
		},
		{
			name:     "forbidden",
			status:   http.StatusForbidden,
			kind:     KindForbidden,
			sentinel: domain.ErrForbidden,
			message:  "You do not have permission for this action.",
		},
		{
			name:     "not found",
			status:   http.StatusNotFound,
			kind:     KindNotFound,
			sentinel: domain.ErrNotFound,
			message:  "Resource not found.",
		},
		{
			name:    "conflict with error field",
			status:  http.StatusConflict,
			body:    `{"error":"No copies of this book are available"}`,
			kind:    KindRejected,
			message: "No copies of this book are available",
		},
		{
			name:    "server error with message field",
			status:  http.StatusInternalServerError,
			body:    `{"message":"database unavailable"}`,
			kind:    KindRejected,
			message: "database unavailable",
		},
		{
			name:    "bad request without body",
			status:  http.StatusBadRequest,
			kind:    KindRejected,
			message: "Bad Request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notify := &recordingNotifier{}
			sessions := &fakeInvalidator{present: true}

			req := newRequest(t)
			if tt.authed {
				req.Header.Set("Authorization", "Bearer tok-1")
			}
			do := Chain(respond(tt.status, tt.body), WithClassifier(notify, sessions, logging.Null()))
			_, err := do(req)
			require.Error(t, err)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.kind, apiErr.Kind)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Message)
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			}
			assert.Equal(t, []string{tt.message}, notify.all())
		})
	}
}

func TestClassifierSuccessPassesThrough(t *testing.T) {
	notify := &recordingNotifier{}
	do := Chain(respond(http.StatusOK, `{"ok":true}`), WithClassifier(notify, &fakeInvalidator{}, logging.Null()))

	resp, err := do(newRequest(t))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	assert.Equal(t, `{"ok":true}`, string(body))
	assert.Empty(t, notify.all())
}

func TestClassifierConcurrent401SingleLogout(t *testing.T) {
	notify := &recordingNotifier{}
	sessions := &fakeInvalidator{present: true}
	do := Chain(respond(http.StatusUnauthorized, ""), WithClassifier(notify, sessions, logging.Null()))

	const calls = 8
	var wg sync.WaitGroup
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := newRequest(t)
			req.Header.Set("Authorization", "Bearer tok-1")
			_, err := do(req)
			assert.ErrorIs(t, err, domain.ErrSessionExpired)
		}()
	}
	wg.Wait()

	// Every caller gets the classified error but only the call that actually
	// cleared the session notifies the user.
	assert.Equal(t, []string{"Session expired. Please sign in again."}, notify.all())
	assert.Equal(t, calls, sessions.cleared)
}

func TestClassifierRejectedLoginIsNotALogout(t *testing.T) {
	notify := &recordingNotifier{}
	sessions := &fakeInvalidator{}

	// Classifier wraps auth, so it sees the request exactly as dispatched:
	// no stored token means no Authorization header.
	do := Chain(respond(http.StatusUnauthorized, `{"error":"Invalid credentials"}`),
		WithClassifier(notify, sessions, logging.Null()),
		WithAuth(staticTokens("")))
	_, err := do(newRequest(t))

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSessionExpired)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindRejected, apiErr.Kind)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
	assert.Equal(t, []string{"Invalid credentials"}, notify.all())
}
