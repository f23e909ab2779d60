package api

import (
	"context"
	"net/http"

	"libris/internal/domain"
)

// ListLoans returns every loan (librarian only)
func (c *Client) ListLoans(ctx context.Context) ([]domain.Loan, error) {
	var loans []domain.Loan
	if err := c.get(ctx, "/loans", nil, &loans); err != nil {
		return nil, err
	}
	return loans, nil
}

// ListMyLoans returns the current borrower's loans
func (c *Client) ListMyLoans(ctx context.Context) ([]domain.Loan, error) {
	var loans []domain.Loan
	if err := c.get(ctx, "/loans/mine", nil, &loans); err != nil {
		return nil, err
	}
	return loans, nil
}

// ListLoanRequests returns pending requests (librarian only)
func (c *Client) ListLoanRequests(ctx context.Context) ([]domain.Loan, error) {
	var loans []domain.Loan
	if err := c.get(ctx, "/loans/requests", nil, &loans); err != nil {
		return nil, err
	}
	return loans, nil
}

// RequestLoan creates a loan in requested on behalf of the current borrower.
// The server decides availability; its rejection message comes back verbatim.
func (c *Client) RequestLoan(ctx context.Context, bookID string) (*domain.Loan, error) {
	body := struct {
		BookID string `json:"bookId"`
	}{BookID: bookID}

	var loan domain.Loan
	if err := c.send(ctx, http.MethodPost, "/loans/requests", body, &loan); err != nil {
		return nil, err
	}
	return &loan, nil
}

// ApproveRequest transitions a request to active (librarian only)
func (c *Client) ApproveRequest(ctx context.Context, id string) (*domain.Loan, error) {
	var loan domain.Loan
	if err := c.send(ctx, http.MethodPost, "/loans/requests/"+id+"/approve", nil, &loan); err != nil {
		return nil, err
	}
	return &loan, nil
}

// RejectRequest transitions a request to rejected. The reason is free text
// kept for audit; it is sent only when non-empty and never validated here.
func (c *Client) RejectRequest(ctx context.Context, id, reason string) (*domain.Loan, error) {
	body := struct {
		Reason string `json:"reason,omitempty"`
	}{Reason: reason}

	var loan domain.Loan
	if err := c.send(ctx, http.MethodPost, "/loans/requests/"+id+"/reject", body, &loan); err != nil {
		return nil, err
	}
	return &loan, nil
}

// CreateLoan issues a book directly, skipping requested (librarian only)
func (c *Client) CreateLoan(ctx context.Context, userID, bookID string) (*domain.Loan, error) {
	body := struct {
		UserID string `json:"userId"`
		BookID string `json:"bookId"`
	}{UserID: userID, BookID: bookID}

	var loan domain.Loan
	if err := c.send(ctx, http.MethodPost, "/loans", body, &loan); err != nil {
		return nil, err
	}
	return &loan, nil
}

// ReturnLoan transitions an active loan to returned
func (c *Client) ReturnLoan(ctx context.Context, id string) (*domain.Loan, error) {
	var loan domain.Loan
	if err := c.send(ctx, http.MethodPost, "/loans/"+id+"/return", nil, &loan); err != nil {
		return nil, err
	}
	return &loan, nil
}
