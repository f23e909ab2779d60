package toast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueOrderAndIDs(t *testing.T) {
	q := NewQueue()

	first := q.Push("one", LevelInfo)
	second := q.Push("two", LevelSuccess)
	third := q.Push("three", LevelError)

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
	assert.Equal(t, 3, third)

	visible := q.Visible()
	require.Len(t, visible, 3)
	assert.Equal(t, "one", visible[0].Text)
	assert.Equal(t, "three", visible[2].Text)
}

func TestQueueDismissIdempotent(t *testing.T) {
	q := NewQueue()
	id := q.Push("hello", LevelInfo)
	q.Push("world", LevelInfo)

	q.Dismiss(id)
	assert.Len(t, q.Visible(), 1)

	// a second dismiss of the same id is a no-op
	q.Dismiss(id)
	assert.Len(t, q.Visible(), 1)
	assert.Equal(t, "world", q.Visible()[0].Text)
}

func TestQueueExpire(t *testing.T) {
	q := NewQueue()
	q.Push("short", LevelInfo)
	q.Push("long", LevelError)

	// Between the default and error durations only the info toast is gone
	now := time.Now().Add(DefaultDuration + 100*time.Millisecond)
	changed := q.Expire(now)
	assert.True(t, changed)

	visible := q.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "long", visible[0].Text)

	// Nothing left to expire yet
	assert.False(t, q.Expire(now))

	assert.True(t, q.Expire(now.Add(ErrorDuration)))
	assert.Empty(t, q.Visible())
}

func TestQueueLevelHelpers(t *testing.T) {
	q := NewQueue()
	q.Success("ok")
	q.Info("fyi")
	q.Error("bad")

	visible := q.Visible()
	require.Len(t, visible, 3)
	assert.Equal(t, LevelSuccess, visible[0].Level)
	assert.Equal(t, LevelInfo, visible[1].Level)
	assert.Equal(t, LevelError, visible[2].Level)
}
