package domain

// LoanStatus is one stage of the lending lifecycle:
//
//	requested --approve--> active --return--> returned
//	requested --reject-->  rejected
//
// Direct issuance by a librarian creates a loan already in active.
// returned and rejected are terminal.
type LoanStatus string

const (
	LoanRequested LoanStatus = "requested"
	LoanActive    LoanStatus = "active"
	LoanReturned  LoanStatus = "returned"
	LoanRejected  LoanStatus = "rejected"
)

// Terminal reports whether no further transition is permitted
func (s LoanStatus) Terminal() bool {
	return s == LoanReturned || s == LoanRejected
}

// CanTransition reports whether s -> to is a legal lifecycle edge
func (s LoanStatus) CanTransition(to LoanStatus) bool {
	switch s {
	case LoanRequested:
		return to == LoanActive || to == LoanRejected
	case LoanActive:
		return to == LoanReturned
	default:
		return false
	}
}

// BookRef is the book summary embedded in a loan
type BookRef struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
}

// UserRef is the borrower summary embedded in a loan
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Loan records one book borrowed (or requested) by one user. Loans are never
// deleted, only transitioned.
type Loan struct {
	ID             string     `json:"_id"`
	User           *UserRef   `json:"user,omitempty"`
	Book           *BookRef   `json:"book,omitempty"`
	Status         LoanStatus `json:"status"`
	StartDate      string     `json:"startDate,omitempty"`
	DueDate        string     `json:"dueDate,omitempty"`
	ReturnDate     string     `json:"returnDate,omitempty"`
	DecidedBy      string     `json:"decidedBy,omitempty"`
	DecidedAt      string     `json:"decidedAt,omitempty"`
	DecisionReason string     `json:"decisionReason,omitempty"`
}

// BookTitle returns the embedded book title or a placeholder
func (l Loan) BookTitle() string {
	if l.Book != nil && l.Book.Title != "" {
		return l.Book.Title
	}
	return "(untitled)"
}

// BorrowerName returns the embedded borrower name or a placeholder
func (l Loan) BorrowerName() string {
	if l.User != nil && l.User.Name != "" {
		return l.User.Name
	}
	return "(unknown)"
}
