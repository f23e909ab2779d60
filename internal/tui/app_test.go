package tui

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libris/internal/api"
	"libris/internal/domain"
	"libris/internal/guard"
	"libris/internal/toast"
)

func errShell() *Model {
	return &Model{toasts: toast.NewQueue()}
}

func TestHandleErrClassifiedFailureStaysQuiet(t *testing.T) {
	m := errShell()
	m.books.loading = true

	classified := &api.Error{
		Kind:    api.KindRejected,
		Status:  http.StatusConflict,
		Message: "No copies of this book are available",
	}
	_, cmd := m.handleErr(ErrMsg{Err: classified, Notice: "Could not load books"})

	// The pipeline already toasted the server message; a second toast here
	// would duplicate it.
	assert.Nil(t, cmd)
	assert.False(t, m.books.loading)
	assert.Empty(t, m.toasts.Visible())
}

func TestHandleErrUnclassifiedFailureShowsNotice(t *testing.T) {
	m := errShell()

	_, _ = m.handleErr(ErrMsg{
		Err:    errors.New("failed to parse response: unexpected EOF"),
		Notice: "Could not load accounts",
	})

	visible := m.toasts.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "Could not load accounts.", visible[0].Text)
	assert.Equal(t, toast.LevelError, visible[0].Level)
}

func TestHandleErrUnclassifiedFailureWithoutNotice(t *testing.T) {
	m := errShell()

	_, _ = m.handleErr(ErrMsg{Err: errors.New("context deadline exceeded")})

	visible := m.toasts.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "Context deadline exceeded.", visible[0].Text)
}

func TestHandleErrStaleTransitionRefreshes(t *testing.T) {
	m := errShell()
	m.route = guard.RouteAdminLoans

	_, cmd := m.handleErr(ErrMsg{Err: domain.ErrInvalidTransition})

	require.NotNil(t, cmd)
	visible := m.toasts.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "That loan has already moved on. Refreshing.", visible[0].Text)
}
