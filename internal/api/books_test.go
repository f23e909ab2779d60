package api

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libris/internal/domain"
)

func TestBookAdminEndpoints(t *testing.T) {
	var gotMethod, gotPath, gotBody string
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		io.WriteString(w, `{"_id":"b1","title":"Dune","author":"Herbert","copies":3,"available":3}`)
	}))
	h.signIn()

	book, err := h.client.CreateBook(context.Background(), BookInput{Title: "Dune", Author: "Herbert", Copies: 3, Available: 3})
	require.NoError(t, err)
	assert.Equal(t, "POST", gotMethod)
	assert.Equal(t, "/books", gotPath)
	assert.JSONEq(t, `{"title":"Dune","author":"Herbert","copies":3,"available":3}`, gotBody)
	assert.Equal(t, "b1", book.ID)
	assert.True(t, book.CountersValid())

	_, err = h.client.UpdateBook(context.Background(), "b1", BookInput{Title: "Dune", Author: "Frank Herbert", Copies: 5, Available: 2})
	require.NoError(t, err)
	assert.Equal(t, "PUT", gotMethod)
	assert.Equal(t, "/books/b1", gotPath)
	assert.JSONEq(t, `{"title":"Dune","author":"Frank Herbert","copies":5,"available":2}`, gotBody)

	require.NoError(t, h.client.DeleteBook(context.Background(), "b1"))
	assert.Equal(t, "DELETE", gotMethod)
	assert.Equal(t, "/books/b1", gotPath)
}

func TestUserAdminEndpoints(t *testing.T) {
	var gotMethod, gotPath, gotBody string
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		io.WriteString(w, `{"id":"u2","name":"Ada","email":"ada@example.com","role":"admin"}`)
	}))
	h.signIn()

	user, err := h.client.CreateUser(context.Background(), UserInput{
		Name: "Ada", Email: "ada@example.com", Password: "secret", Role: domain.RoleStudent,
	})
	require.NoError(t, err)
	assert.Equal(t, "POST /users", gotMethod+" "+gotPath)
	assert.JSONEq(t, `{"name":"Ada","email":"ada@example.com","password":"secret","role":"student"}`, gotBody)
	assert.Equal(t, "u2", user.ID)

	// Partial update omits untouched fields entirely
	_, err = h.client.UpdateUser(context.Background(), "u2", UserInput{Name: "Ada L."})
	require.NoError(t, err)
	assert.Equal(t, "PUT /users/u2", gotMethod+" "+gotPath)
	assert.JSONEq(t, `{"name":"Ada L."}`, gotBody)

	updated, err := h.client.UpdateUserRole(context.Background(), "u2", domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "PATCH /users/u2/role", gotMethod+" "+gotPath)
	assert.JSONEq(t, `{"role":"admin"}`, gotBody)
	assert.Equal(t, domain.RoleAdmin, updated.Role)

	require.NoError(t, h.client.DeleteUser(context.Background(), "u2"))
	assert.Equal(t, "DELETE /users/u2", gotMethod+" "+gotPath)
}
