package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libris/internal/api"
	"libris/internal/busy"
	"libris/internal/domain"
	"libris/internal/logging"
	"libris/internal/session"
	"libris/internal/toast"
)

func newTestClient(t *testing.T, handler http.Handler) *api.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sessions, err := session.Open("", logging.Null())
	require.NoError(t, err)
	t.Cleanup(func() { sessions.Close() })
	sessions.SetAuthenticated("tok-1", &domain.User{ID: "admin", Role: domain.RoleAdmin})

	return api.New(srv.URL, srv.Client(), sessions, &busy.Counter{}, toast.NewQueue(), sessions, logging.Null())
}

func TestApproveRefusesNonRequested(t *testing.T) {
	var hits atomic.Int64
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	svc := NewLoanService(client, logging.Null())

	for _, status := range []domain.LoanStatus{domain.LoanActive, domain.LoanReturned, domain.LoanRejected} {
		_, err := svc.Approve(context.Background(), domain.Loan{ID: "l1", Status: status})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition, "status %s", status)
	}
	assert.Equal(t, int64(0), hits.Load(), "a doomed transition must never reach the server")
}

func TestRejectRefusesNonRequested(t *testing.T) {
	var hits atomic.Int64
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	svc := NewLoanService(client, logging.Null())

	_, err := svc.Reject(context.Background(), domain.Loan{ID: "l1", Status: domain.LoanActive}, "late")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, int64(0), hits.Load())
}

func TestReturnRefusesNonActive(t *testing.T) {
	var hits atomic.Int64
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	svc := NewLoanService(client, logging.Null())

	for _, status := range []domain.LoanStatus{domain.LoanRequested, domain.LoanReturned, domain.LoanRejected} {
		_, err := svc.Return(context.Background(), domain.Loan{ID: "l1", Status: status})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition, "status %s", status)
	}
	assert.Equal(t, int64(0), hits.Load())
}

func TestApproveHappyPath(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/loans/requests/l1/approve", r.URL.Path)
		io.WriteString(w, `{"_id":"l1","status":"active"}`)
	}))
	svc := NewLoanService(client, logging.Null())

	updated, err := svc.Approve(context.Background(), domain.Loan{ID: "l1", Status: domain.LoanRequested})
	require.NoError(t, err)
	assert.Equal(t, domain.LoanActive, updated.Status)
}

func TestRequestSurfacesServerRejection(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"error":"No copies of this book are available"}`)
	}))
	svc := NewLoanService(client, logging.Null())

	_, err := svc.Request(context.Background(), "b1")
	require.Error(t, err)
	assert.Equal(t, "No copies of this book are available", err.Error())
}

func TestRefreshAdmin(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/users":
			assert.Equal(t, "student", r.URL.Query().Get("role"))
			io.WriteString(w, `[
				{"id":"u1","name":"Ada","role":"student"},
				{"id":"u2","name":"Root","role":"admin"}
			]`)
		case "/books":
			io.WriteString(w, `{"items":[
				{"_id":"b1","title":"Dune","copies":3,"available":1},
				{"_id":"b2","title":"Solaris","copies":2,"available":0}
			],"total":2,"page":1,"pages":1}`)
		case "/loans/requests":
			io.WriteString(w, `[{"_id":"l1","status":"requested"}]`)
		case "/loans":
			io.WriteString(w, `[{"_id":"l1","status":"requested"},{"_id":"l2","status":"active"}]`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	svc := NewLoanService(client, logging.Null())

	snap, err := svc.RefreshAdmin(context.Background())
	require.NoError(t, err)

	// Only students, only books with free copies
	require.Len(t, snap.Students, 1)
	assert.Equal(t, "u1", snap.Students[0].ID)
	require.Len(t, snap.AvailableBooks, 1)
	assert.Equal(t, "b1", snap.AvailableBooks[0].ID)
	assert.Len(t, snap.Requests, 1)
	assert.Len(t, snap.Loans, 2)
}
