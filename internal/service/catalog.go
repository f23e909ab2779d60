package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"libris/internal/api"
	"libris/internal/domain"
)

const (
	defaultPageSize = 12

	// availableBooksLimit caps the "fetch everything available" listing used
	// by the issuance picker and dashboards
	availableBooksLimit = 500
)

// CatalogService handles catalog listing and local narrowing of a loaded page
type CatalogService struct {
	api    *api.Client
	logger *slog.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(client *api.Client, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{api: client, logger: logger}
}

// List returns one server page of the catalog
func (s *CatalogService) List(ctx context.Context, q string, page, limit int) (domain.Page[domain.Book], error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	return s.api.ListBooks(ctx, api.BookQuery{Q: q, Page: page, Limit: limit})
}

// Available returns every book with at least one free copy
func (s *CatalogService) Available(ctx context.Context) ([]domain.Book, error) {
	page, err := s.api.ListBooks(ctx, api.BookQuery{Page: 1, Limit: availableBooksLimit})
	if err != nil {
		return nil, err
	}

	var out []domain.Book
	for _, b := range page.Items {
		if b.Available > 0 {
			out = append(out, b)
		}
	}
	return out, nil
}

// Create adds a catalog entry after checking the availability invariant
func (s *CatalogService) Create(ctx context.Context, in api.BookInput) (*domain.Book, error) {
	if !(domain.Book{Copies: in.Copies, Available: in.Available}).CountersValid() {
		return nil, domain.ErrInvalidCounters
	}
	book, err := s.api.CreateBook(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logger.Info("book created", "book", book.ID, "title", book.Title)
	return book, nil
}

// Update replaces a catalog entry's writable fields
func (s *CatalogService) Update(ctx context.Context, id string, in api.BookInput) (*domain.Book, error) {
	if !(domain.Book{Copies: in.Copies, Available: in.Available}).CountersValid() {
		return nil, domain.ErrInvalidCounters
	}
	return s.api.UpdateBook(ctx, id, in)
}

// Delete removes a catalog entry
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteBook(ctx, id); err != nil {
		return err
	}
	s.logger.Info("book deleted", "book", id)
	return nil
}

// Filter narrows an already-loaded book list by query, best match first.
// Matches against title and author, case-folded and accent-normalized.
func (s *CatalogService) Filter(books []domain.Book, query string) []domain.Book {
	query = strings.TrimSpace(query)
	if query == "" {
		return books
	}

	keys := make([]string, len(books))
	for i, b := range books {
		keys[i] = b.Title + " " + b.Author
	}

	ranks := fuzzy.RankFindNormalizedFold(query, keys)
	sort.Sort(ranks)

	out := make([]domain.Book, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, books[r.OriginalIndex])
	}
	return out
}
