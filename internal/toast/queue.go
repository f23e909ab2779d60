// Package toast holds the queue of ephemeral user-facing notifications.
// Messages expire on their own deadline or can be dismissed explicitly;
// the UI tick loop drives expiry.
package toast

import (
	"sync"
	"time"
)

// Level classifies a message for display
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Display durations. Errors linger longer so they can actually be read.
const (
	DefaultDuration = 2800 * time.Millisecond
	ErrorDuration   = 4 * time.Second
)

// Message is one visible notification
type Message struct {
	ID    int
	Text  string
	Level Level

	deadline time.Time
}

// Queue holds notifications in insertion order. Safe for use from command
// goroutines pushing while the UI loop reads.
type Queue struct {
	mu   sync.Mutex
	next int
	msgs []Message
}

// NewQueue returns an empty queue. IDs start at 1 and are monotonic.
func NewQueue() *Queue {
	return &Queue{next: 1}
}

// Push appends a message with the default duration for its level and
// returns its id
func (q *Queue) Push(text string, level Level) int {
	d := DefaultDuration
	if level == LevelError {
		d = ErrorDuration
	}
	return q.PushFor(text, level, d)
}

// PushFor appends a message that expires after d
func (q *Queue) PushFor(text string, level Level, d time.Duration) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	id := q.next
	q.next++
	q.msgs = append(q.msgs, Message{
		ID:       id,
		Text:     text,
		Level:    level,
		deadline: time.Now().Add(d),
	})
	return id
}

// Success pushes a success-level message
func (q *Queue) Success(text string) { q.Push(text, LevelSuccess) }

// Info pushes an info-level message
func (q *Queue) Info(text string) { q.Push(text, LevelInfo) }

// Error pushes an error-level message
func (q *Queue) Error(text string) { q.Push(text, LevelError) }

// Dismiss removes the message with the given id. Dismissing an id that is
// already gone is a no-op, so a manual close racing the expiry timer is safe.
func (q *Queue) Dismiss(id int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, m := range q.msgs {
		if m.ID == id {
			q.msgs = append(q.msgs[:i], q.msgs[i+1:]...)
			return
		}
	}
}

// Expire drops every message whose deadline has passed and reports whether
// anything changed
func (q *Queue) Expire(now time.Time) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.msgs[:0]
	for _, m := range q.msgs {
		if m.deadline.After(now) {
			kept = append(kept, m)
		}
	}
	changed := len(kept) != len(q.msgs)
	q.msgs = kept
	return changed
}

// Visible returns the live messages in insertion order
func (q *Queue) Visible() []Message {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Message, len(q.msgs))
	copy(out, q.msgs)
	return out
}
