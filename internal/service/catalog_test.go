package service

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libris/internal/api"
	"libris/internal/domain"
	"libris/internal/logging"
)

func sampleBooks() []domain.Book {
	return []domain.Book{
		{ID: "b1", Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin"},
		{ID: "b2", Title: "Dune", Author: "Frank Herbert"},
		{ID: "b3", Title: "Dune Messiah", Author: "Frank Herbert"},
		{ID: "b4", Title: "Solaris", Author: "Stanisław Lem"},
	}
}

func TestFilterEmptyQueryReturnsAll(t *testing.T) {
	svc := NewCatalogService(nil, logging.Null())

	books := sampleBooks()
	assert.Equal(t, books, svc.Filter(books, ""))
	assert.Equal(t, books, svc.Filter(books, "   "))
}

func TestFilterMatchesTitleAndAuthor(t *testing.T) {
	svc := NewCatalogService(nil, logging.Null())
	books := sampleBooks()

	byTitle := svc.Filter(books, "dune")
	require.Len(t, byTitle, 2)
	assert.Equal(t, "Dune", byTitle[0].Title, "exact title ranks first")

	byAuthor := svc.Filter(books, "herbert")
	require.Len(t, byAuthor, 2)

	assert.Empty(t, svc.Filter(books, "tolkien"))
}

func TestFilterFoldsCaseAndAccents(t *testing.T) {
	svc := NewCatalogService(nil, logging.Null())
	books := sampleBooks()

	folded := svc.Filter(books, "stanislaw")
	require.Len(t, folded, 1)
	assert.Equal(t, "Solaris", folded[0].Title)
}

func TestListDefaultsPageSize(t *testing.T) {
	var gotLimit string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		io.WriteString(w, `{"items":[],"total":0,"page":1,"pages":1}`)
	}))
	svc := NewCatalogService(client, logging.Null())

	_, err := svc.List(context.Background(), "", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, "12", gotLimit)
}

func TestCatalogWriteRefusesBadCounters(t *testing.T) {
	var hits int
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	svc := NewCatalogService(client, logging.Null())

	in := api.BookInput{Title: "Dune", Author: "Herbert", Copies: 2, Available: 5}
	_, err := svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidCounters)

	_, err = svc.Update(context.Background(), "b1", in)
	assert.ErrorIs(t, err, domain.ErrInvalidCounters)

	assert.Equal(t, 0, hits, "an invalid write must never reach the server")
}

func TestCatalogWriteRoundTrip(t *testing.T) {
	var gotMethod, gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		io.WriteString(w, `{"_id":"b9","title":"Dune","author":"Herbert","copies":3,"available":3}`)
	}))
	svc := NewCatalogService(client, logging.Null())

	book, err := svc.Create(context.Background(), api.BookInput{Title: "Dune", Author: "Herbert", Copies: 3, Available: 3})
	require.NoError(t, err)
	assert.Equal(t, "POST /books", gotMethod+" "+gotPath)
	assert.Equal(t, "b9", book.ID)

	_, err = svc.Update(context.Background(), "b9", api.BookInput{Title: "Dune", Author: "Herbert", Copies: 3, Available: 1})
	require.NoError(t, err)
	assert.Equal(t, "PUT /books/b9", gotMethod+" "+gotPath)

	require.NoError(t, svc.Delete(context.Background(), "b9"))
	assert.Equal(t, "DELETE /books/b9", gotMethod+" "+gotPath)
}

func TestAvailableDropsExhaustedBooks(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"items":[
			{"_id":"b1","title":"Dune","copies":3,"available":2},
			{"_id":"b2","title":"Solaris","copies":1,"available":0}
		],"total":2,"page":1,"pages":1}`)
	}))
	svc := NewCatalogService(client, logging.Null())

	books, err := svc.Available(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "b1", books[0].ID)
}
