package tui

import (
	"libris/internal/domain"
	"libris/internal/service"
)

// Message types for the TUI

// ErrMsg represents a failed async operation. Notice is the caller's own
// contextual text, shown only when the request pipeline did not already
// toast a classified failure.
type ErrMsg struct {
	Err    error
	Notice string
}

// TickMsg drives the spinner and toast expiry
type TickMsg struct{}

// SessionClearedMsg signals that the session store was cleared (logout or
// forced by a rejected credential); the shell routes to login
type SessionClearedMsg struct{}

// LoggedInMsg signals a successful login
type LoggedInMsg struct {
	User *domain.User
}

// BooksPageMsg carries one server page of the catalog. Gen guards against
// a stale page landing after the user has already moved on.
type BooksPageMsg struct {
	Page domain.Page[domain.Book]
	Gen  int
}

// AdminBooksMsg carries one catalog page for the management screen
type AdminBooksMsg struct {
	Page domain.Page[domain.Book]
}

// BookSavedMsg signals a catalog entry create or update
type BookSavedMsg struct {
	Book    *domain.Book
	Created bool
}

// BookDeletedMsg signals a catalog entry removal
type BookDeletedMsg struct{}

// LoanRequestedMsg signals a borrower's request was accepted
type LoanRequestedMsg struct {
	Loan  *domain.Loan
	Title string
}

// MyLoansMsg carries the current borrower's loans
type MyLoansMsg struct {
	Loans []domain.Loan
}

// AdminSnapshotMsg carries a fresh librarian workspace
type AdminSnapshotMsg struct {
	Snap *service.AdminSnapshot
}

// RequestApprovedMsg signals requested -> active
type RequestApprovedMsg struct {
	Loan *domain.Loan
}

// RequestRejectedMsg signals requested -> rejected
type RequestRejectedMsg struct {
	Loan *domain.Loan
}

// LoanCreatedMsg signals a direct issuance
type LoanCreatedMsg struct {
	Loan *domain.Loan
}

// LoanReturnedMsg signals active -> returned
type LoanReturnedMsg struct {
	Loan *domain.Loan
}

// UsersLoadedMsg carries the account listing
type UsersLoadedMsg struct {
	Users []domain.User
}

// UserSavedMsg signals an account create or update
type UserSavedMsg struct {
	User    *domain.User
	Created bool
}

// UserDeletedMsg signals an account removal
type UserDeletedMsg struct {
	ID string
}

// CatalogCountMsg carries the catalog size for the dashboards
type CatalogCountMsg struct {
	Total int
}
