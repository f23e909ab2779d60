package service

import (
	"context"
	"fmt"
	"log/slog"

	"libris/internal/api"
	"libris/internal/domain"
)

// AdminSnapshot is the librarian workspace: everything the admin loans view
// shows, fetched together so the view never mixes stale and fresh rows.
type AdminSnapshot struct {
	Students       []domain.User
	AvailableBooks []domain.Book
	Requests       []domain.Loan
	Loans          []domain.Loan
}

// LoanService orchestrates the lending lifecycle on the client side. It
// re-checks loan status before every transition call so stale UI state (a
// double-click on "return", a request approved in another session) never
// turns into a doomed server call, and after every successful mutation the
// caller re-fetches its views instead of hand-patching collections.
type LoanService struct {
	api    *api.Client
	logger *slog.Logger
}

// NewLoanService creates a new LoanService
func NewLoanService(client *api.Client, logger *slog.Logger) *LoanService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoanService{api: client, logger: logger}
}

// My returns the current borrower's loans
func (s *LoanService) My(ctx context.Context) ([]domain.Loan, error) {
	return s.api.ListMyLoans(ctx)
}

// Request asks for a book on behalf of the current borrower. Availability is
// the server's call: a sold-out book comes back as a rejection whose message
// is surfaced verbatim, and no local counter is touched.
func (s *LoanService) Request(ctx context.Context, bookID string) (*domain.Loan, error) {
	loan, err := s.api.RequestLoan(ctx, bookID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("loan requested", "loan", loan.ID, "book", bookID)
	return loan, nil
}

// Approve transitions a pending request to active (librarian only)
func (s *LoanService) Approve(ctx context.Context, loan domain.Loan) (*domain.Loan, error) {
	if loan.Status != domain.LoanRequested {
		return nil, fmt.Errorf("approve %s loan %s: %w", loan.Status, loan.ID, domain.ErrInvalidTransition)
	}

	updated, err := s.api.ApproveRequest(ctx, loan.ID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("request approved", "loan", loan.ID)
	return updated, nil
}

// Reject transitions a pending request to rejected, with an optional
// free-text reason kept for audit
func (s *LoanService) Reject(ctx context.Context, loan domain.Loan, reason string) (*domain.Loan, error) {
	if loan.Status != domain.LoanRequested {
		return nil, fmt.Errorf("reject %s loan %s: %w", loan.Status, loan.ID, domain.ErrInvalidTransition)
	}

	updated, err := s.api.RejectRequest(ctx, loan.ID, reason)
	if err != nil {
		return nil, err
	}
	s.logger.Info("request rejected", "loan", loan.ID)
	return updated, nil
}

// CreateDirect issues a book to a borrower immediately, skipping requested.
// Same availability precondition as Request; the server decides.
func (s *LoanService) CreateDirect(ctx context.Context, userID, bookID string) (*domain.Loan, error) {
	loan, err := s.api.CreateLoan(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("loan issued directly", "loan", loan.ID, "user", userID, "book", bookID)
	return loan, nil
}

// Return transitions an active loan to returned. Anything not exactly
// active is refused locally before a call is made.
func (s *LoanService) Return(ctx context.Context, loan domain.Loan) (*domain.Loan, error) {
	if loan.Status != domain.LoanActive {
		return nil, fmt.Errorf("return %s loan %s: %w", loan.Status, loan.ID, domain.ErrInvalidTransition)
	}

	updated, err := s.api.ReturnLoan(ctx, loan.ID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("loan returned", "loan", loan.ID)
	return updated, nil
}

// RefreshAdmin re-fetches the full librarian workspace from the server.
// Called after every mutating operation; a failed mutation skips it so the
// view keeps showing the last server truth.
func (s *LoanService) RefreshAdmin(ctx context.Context) (*AdminSnapshot, error) {
	users, err := s.api.ListUsers(ctx, domain.RoleStudent)
	if err != nil {
		return nil, err
	}
	students := users[:0:0]
	for _, u := range users {
		if u.Role == domain.RoleStudent {
			students = append(students, u)
		}
	}

	page, err := s.api.ListBooks(ctx, api.BookQuery{Page: 1, Limit: availableBooksLimit})
	if err != nil {
		return nil, err
	}
	var available []domain.Book
	for _, b := range page.Items {
		if b.Available > 0 {
			available = append(available, b)
		}
	}

	requests, err := s.api.ListLoanRequests(ctx)
	if err != nil {
		return nil, err
	}

	loans, err := s.api.ListLoans(ctx)
	if err != nil {
		return nil, err
	}

	return &AdminSnapshot{
		Students:       students,
		AvailableBooks: available,
		Requests:       requests,
		Loans:          loans,
	}, nil
}
