package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"libris/internal/domain"
)

// BookQuery narrows a catalog listing
type BookQuery struct {
	Q     string
	Page  int
	Limit int
}

// ListBooks returns one page of the catalog
func (c *Client) ListBooks(ctx context.Context, q BookQuery) (domain.Page[domain.Book], error) {
	query := url.Values{}
	if q.Q != "" {
		query.Set("q", q.Q)
	}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}

	var page domain.Page[domain.Book]
	if err := c.get(ctx, "/books", query, &page); err != nil {
		return domain.Page[domain.Book]{}, err
	}
	return page, nil
}

// BookInput is the writable subset of a book record
type BookInput struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	Year      int    `json:"year,omitempty"`
	ISBN      string `json:"isbn,omitempty"`
	Copies    int    `json:"copies"`
	Available int    `json:"available"`
}

// CreateBook adds a catalog entry (librarian only)
func (c *Client) CreateBook(ctx context.Context, in BookInput) (*domain.Book, error) {
	var book domain.Book
	if err := c.send(ctx, http.MethodPost, "/books", in, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// UpdateBook replaces a catalog entry's writable fields (librarian only)
func (c *Client) UpdateBook(ctx context.Context, id string, in BookInput) (*domain.Book, error) {
	var book domain.Book
	if err := c.send(ctx, http.MethodPut, "/books/"+id, in, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// DeleteBook removes a catalog entry (librarian only)
func (c *Client) DeleteBook(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, "/books/"+id, nil, nil)
}
