package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"libris/internal/domain"
	"libris/internal/logging"
)

func testUser() *domain.User {
	return &domain.User{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: domain.RoleStudent}
}

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("", logging.Null())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSetAuthenticatedAndQueries(t *testing.T) {
	s := openMemory(t)
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
	assert.Nil(t, s.User())
	assert.Empty(t, s.Role())

	s.SetAuthenticated("tok-1", testUser())
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "tok-1", s.Token())
	assert.Equal(t, domain.RoleStudent, s.Role())
	require.NotNil(t, s.User())
	assert.Equal(t, "ada@example.com", s.User().Email)
}

func TestSetAuthenticatedPartialDegradesToClear(t *testing.T) {
	s := openMemory(t)
	s.SetAuthenticated("tok-1", testUser())

	// An empty token can never coexist with an identity
	s.SetAuthenticated("", testUser())
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())

	s.SetAuthenticated("tok-2", nil)
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
}

func TestRestoreRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir, logging.Null())
	require.NoError(t, err)
	s.SetAuthenticated("tok-1", testUser())
	require.NoError(t, s.Close())

	reopened, err := Open(dir, logging.Null())
	require.NoError(t, err)
	defer reopened.Close()

	assert.False(t, reopened.IsAuthenticated())
	reopened.Restore()
	assert.True(t, reopened.IsAuthenticated())
	assert.Equal(t, "tok-1", reopened.Token())
	require.NotNil(t, reopened.User())
	assert.Equal(t, "u1", reopened.User().ID)
}

func TestRestoreDiscardsMalformedState(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir, logging.Null())
	require.NoError(t, err)
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSession).Put(keyState, []byte("{not json"))
	})
	require.NoError(t, err)

	s.Restore()
	assert.False(t, s.IsAuthenticated())

	// The bad blob is replaced, so a second open restores cleanly
	var raw []byte
	s.db.View(func(tx *bolt.Tx) error {
		raw = tx.Bucket(bucketSession).Get(keyState)
		return nil
	})
	assert.JSONEq(t, `{"token":"","user":null}`, string(raw))
	s.Close()
}

func TestRestoreDiscardsPartialState(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir, logging.Null())
	require.NoError(t, err)
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSession).Put(keyState, []byte(`{"token":"tok-1","user":null}`))
	})
	require.NoError(t, err)

	s.Restore()
	assert.False(t, s.IsAuthenticated())
	s.Close()
}

func TestInvalidateOnlyOnce(t *testing.T) {
	s := openMemory(t)
	s.SetAuthenticated("tok-1", testUser())

	assert.True(t, s.Invalidate())
	assert.False(t, s.IsAuthenticated())

	// Later rejected calls find nothing to clear
	assert.False(t, s.Invalidate())
	assert.False(t, s.Invalidate())
}

func TestClearSignalsLogout(t *testing.T) {
	s := openMemory(t)
	s.SetAuthenticated("tok-1", testUser())

	s.Clear()
	select {
	case <-s.LogoutSignals():
	case <-time.After(time.Second):
		t.Fatal("expected a logout signal")
	}

	// Repeated clears collapse into the single buffered signal
	s.Clear()
	s.Clear()
	select {
	case <-s.LogoutSignals():
	case <-time.After(time.Second):
		t.Fatal("expected a pending logout signal")
	}
	select {
	case <-s.LogoutSignals():
		t.Fatal("signals should have collapsed")
	default:
	}
}
