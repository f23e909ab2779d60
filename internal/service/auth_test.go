package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
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

func TestLoginStoresSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"token":"tok-9","user":{"id":"u1","name":"Ada","email":"ada@example.com","role":"admin"}}`)
	}))
	t.Cleanup(srv.Close)

	sessions, err := session.Open("", logging.Null())
	require.NoError(t, err)
	t.Cleanup(func() { sessions.Close() })

	client := api.New(srv.URL, srv.Client(), sessions, &busy.Counter{}, toast.NewQueue(), sessions, logging.Null())
	svc := NewAuthService(client, sessions, logging.Null())

	user, err := svc.Login(context.Background(), "ada@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)

	assert.True(t, sessions.IsAuthenticated())
	assert.Equal(t, "tok-9", sessions.Token())
	assert.Equal(t, domain.RoleAdmin, sessions.Role())
}

func TestLoginFailureLeavesSessionEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"Invalid credentials"}`)
	}))
	t.Cleanup(srv.Close)

	sessions, err := session.Open("", logging.Null())
	require.NoError(t, err)
	t.Cleanup(func() { sessions.Close() })

	client := api.New(srv.URL, srv.Client(), sessions, &busy.Counter{}, toast.NewQueue(), sessions, logging.Null())
	svc := NewAuthService(client, sessions, logging.Null())

	_, err = svc.Login(context.Background(), "ada@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())
	assert.False(t, sessions.IsAuthenticated())
}

func TestLogoutClears(t *testing.T) {
	sessions, err := session.Open("", logging.Null())
	require.NoError(t, err)
	t.Cleanup(func() { sessions.Close() })
	sessions.SetAuthenticated("tok-1", &domain.User{ID: "u1", Role: domain.RoleStudent})

	svc := NewAuthService(nil, sessions, logging.Null())
	svc.Logout()

	assert.False(t, sessions.IsAuthenticated())
	select {
	case <-sessions.LogoutSignals():
	default:
		t.Fatal("expected a logout signal")
	}
}
