// Package session owns the process-wide authentication state: the bearer
// token and the identity it belongs to. The pair is persisted as a single
// blob and always set or cleared together.
package session

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	bolt "go.etcd.io/bbolt"

	"libris/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	bucketSession = []byte("session")
	keyState      = []byte("state")
)

// State is the unit of persistence. Token and User are either both set or
// both empty; partial states are never stored.
type State struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Store holds the current session and mirrors every change to disk.
type Store struct {
	mu     sync.RWMutex
	state  State
	db     *bolt.DB
	logger *slog.Logger

	// Buffered so a forced logout never blocks the pipeline goroutine.
	logoutCh chan struct{}
}

// Open creates a store backed by a bolt file under dir. An empty dir gives
// a memory-only store, which is what tests use.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{logger: logger, logoutCh: make(chan struct{}, 1)}
	if dir == "" {
		return s, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "session.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open session db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSession)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s.db = db
	return s, nil
}

// Close releases the underlying database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Restore loads the persisted session, once, at process start. Missing or
// malformed data means "no session"; it is never surfaced as an error.
func (s *Store) Restore() {
	if s.db == nil {
		return
	}

	var raw []byte
	s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketSession).Get(keyState); v != nil {
			raw = make([]byte, len(v))
			copy(raw, v)
		}
		return nil
	})
	if raw == nil {
		return
	}

	var st State
	if err := json.Unmarshal(raw, &st); err != nil || st.Token == "" || st.User == nil {
		s.logger.Warn("discarding unreadable session state")
		s.mu.Lock()
		s.state = State{}
		s.mu.Unlock()
		s.persist()
		return
	}

	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	s.logger.Info("session restored", "user", st.User.Email, "role", st.User.Role)
}

// SetAuthenticated replaces the session wholesale and persists it. An empty
// token or nil user degrades to a full clear so token and identity can never
// diverge.
func (s *Store) SetAuthenticated(token string, user *domain.User) {
	if token == "" || user == nil {
		s.Clear()
		return
	}

	s.mu.Lock()
	s.state = State{Token: token, User: user}
	s.mu.Unlock()
	s.persist()
}

// Clear resets the session wholesale, persists the empty state, and signals
// the shell to navigate to the login view.
func (s *Store) Clear() {
	s.mu.Lock()
	s.state = State{}
	s.mu.Unlock()
	s.persist()
	s.notifyLogout()
}

// Invalidate clears the session only if one is present and reports whether
// it did. The pipeline uses this so that concurrent expired-credential
// failures fold into a single forced logout.
func (s *Store) Invalidate() bool {
	s.mu.Lock()
	if s.state.Token == "" && s.state.User == nil {
		s.mu.Unlock()
		return false
	}
	s.state = State{}
	s.mu.Unlock()

	s.persist()
	s.notifyLogout()
	return true
}

// Token returns the current bearer credential, or "" when logged out
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// User returns the current identity, or nil when logged out
func (s *Store) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.User
}

// IsAuthenticated reports whether both credential and identity are present
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token != "" && s.state.User != nil
}

// Role returns the current role, or "" when logged out
func (s *Store) Role() domain.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil {
		return ""
	}
	return s.state.User.Role
}

// LogoutSignals returns the channel the shell watches to route back to the
// login view after a clear
func (s *Store) LogoutSignals() <-chan struct{} {
	return s.logoutCh
}

func (s *Store) notifyLogout() {
	select {
	case s.logoutCh <- struct{}{}:
	default: // a signal is already pending
	}
}

// persist writes the full current state. Every mutation funnels through
// here; partial persistence is not possible.
func (s *Store) persist() {
	if s.db == nil {
		return
	}

	s.mu.RLock()
	data, err := json.Marshal(s.state)
	s.mu.RUnlock()
	if err != nil {
		s.logger.Error("failed to encode session state", "error", err)
		return
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSession).Put(keyState, data)
	})
	if err != nil {
		s.logger.Error("failed to persist session state", "error", err)
	}
}
