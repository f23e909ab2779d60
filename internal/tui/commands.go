package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"libris/internal/api"
	"libris/internal/domain"
	"libris/internal/service"
	"libris/internal/session"
)

// Command factories for async operations. Every network call runs as a
// tea.Cmd and resumes the single-threaded Update loop with a typed message.

const (
	callTimeout = 30 * time.Second
	tickEvery   = 100 * time.Millisecond
)

// TickCmd returns a command that sends a tick after the frame delay
func TickCmd() tea.Cmd {
	return tea.Tick(tickEvery, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// WatchLogoutCmd blocks on the session store's logout signal and resumes
// the loop when the session is cleared. Re-armed after each receipt.
func WatchLogoutCmd(sess *session.Store) tea.Cmd {
	return func() tea.Msg {
		<-sess.LogoutSignals()
		return SessionClearedMsg{}
	}
}

// LoginCmd attempts a login
func LoginCmd(svc *service.AuthService, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		user, err := svc.Login(ctx, email, password)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return LoggedInMsg{User: user}
	}
}

// LoadBooksCmd loads one catalog page
func LoadBooksCmd(svc *service.CatalogService, q string, page, limit, gen int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		result, err := svc.List(ctx, q, page, limit)
		if err != nil {
			return ErrMsg{Err: err, Notice: "Could not load books"}
		}
		return BooksPageMsg{Page: result, Gen: gen}
	}
}

// CountBooksCmd fetches the catalog size for a dashboard panel
func CountBooksCmd(svc *service.CatalogService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		result, err := svc.List(ctx, "", 1, 1)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return CatalogCountMsg{Total: result.Total}
	}
}

// LoadAdminBooksCmd fetches one catalog page for the management screen
func LoadAdminBooksCmd(svc *service.CatalogService, page int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		result, err := svc.List(ctx, "", page, 0)
		if err != nil {
			return ErrMsg{Err: err, Notice: "Could not load books"}
		}
		return AdminBooksMsg{Page: result}
	}
}

// CreateBookCmd adds a catalog entry
func CreateBookCmd(svc *service.CatalogService, in api.BookInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		book, err := svc.Create(ctx, in)
		if err != nil {
			return ErrMsg{Err: err, Notice: "Could not add the book"}
		}
		return BookSavedMsg{Book: book, Created: true}
	}
}

// UpdateBookCmd replaces a catalog entry's writable fields
func UpdateBookCmd(svc *service.CatalogService, id string, in api.BookInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		book, err := svc.Update(ctx, id, in)
		if err != nil {
			return ErrMsg{Err: err, Notice: "Could not save the book"}
		}
		return BookSavedMsg{Book: book}
	}
}

// DeleteBookCmd removes a catalog entry
func DeleteBookCmd(svc *service.CatalogService, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		if err := svc.Delete(ctx, id); err != nil {
			return ErrMsg{Err: err, Notice: "Could not delete the book"}
		}
		return BookDeletedMsg{}
	}
}

// RequestLoanCmd asks for a book on behalf of the current borrower
func RequestLoanCmd(svc *service.LoanService, book domain.Book) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		loan, err := svc.Request(ctx, book.ID)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return LoanRequestedMsg{Loan: loan, Title: book.Title}
	}
}

// LoadMyLoansCmd loads the current borrower's loans
func LoadMyLoansCmd(svc *service.LoanService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		loans, err := svc.My(ctx)
		if err != nil {
			return ErrMsg{Err: err, Notice: "Could not load your loans"}
		}
		return MyLoansMsg{Loans: loans}
	}
}

// RefreshAdminCmd re-fetches the librarian workspace from the server
func RefreshAdminCmd(svc *service.LoanService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		snap, err := svc.RefreshAdmin(ctx)
		if err != nil {
			return ErrMsg{Err: err, Notice: "Could not load loan data"}
		}
		return AdminSnapshotMsg{Snap: snap}
	}
}

// ApproveRequestCmd transitions a pending request to active
func ApproveRequestCmd(svc *service.LoanService, loan domain.Loan) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		updated, err := svc.Approve(ctx, loan)
		if err != nil {
			return ErrMsg{Err: err, Notice: "Could not approve the request"}
		}
		return RequestApprovedMsg{Loan: updated}
	}
}

// RejectRequestCmd transitions a pending request to rejected
func RejectRequestCmd(svc *service.LoanService, loan domain.Loan, reason string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		updated, err := svc.Reject(ctx, loan, reason)
		if err != nil {
			return ErrMsg{Err: err, Notice: "Could not reject the request"}
		}
		return RequestRejectedMsg{Loan: updated}
	}
}

// CreateLoanCmd issues a book directly to a borrower
func CreateLoanCmd(svc *service.LoanService, userID, bookID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		loan, err := svc.CreateDirect(ctx, userID, bookID)
		if err != nil {
			return ErrMsg{Err: err, Notice: "Could not create the loan"}
		}
		return LoanCreatedMsg{Loan: loan}
	}
}

// ReturnLoanCmd transitions an active loan to returned
func ReturnLoanCmd(svc *service.LoanService, loan domain.Loan) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		updated, err := svc.Return(ctx, loan)
		if err != nil {
			return ErrMsg{Err: err, Notice: "Could not return the loan"}
		}
		return LoanReturnedMsg{Loan: updated}
	}
}

// LoadUsersCmd loads the account listing
func LoadUsersCmd(svc *service.AccountService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		users, err := svc.List(ctx, "")
		if err != nil {
			return ErrMsg{Err: err, Notice: "Could not load accounts"}
		}
		return UsersLoadedMsg{Users: users}
	}
}

// CreateUserCmd adds an account
func CreateUserCmd(svc *service.AccountService, name, email, password string, role domain.Role) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		user, err := svc.Create(ctx, accountInput(name, email, password, role))
		if err != nil {
			return ErrMsg{Err: err, Notice: "Could not create the account"}
		}
		return UserSavedMsg{User: user, Created: true}
	}
}

// ToggleRoleCmd flips an account between student and admin
func ToggleRoleCmd(svc *service.AccountService, user domain.User) tea.Cmd {
	next := domain.RoleStudent
	if user.Role == domain.RoleStudent {
		next = domain.RoleAdmin
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		updated, err := svc.SetRole(ctx, user.ID, next)
		if err != nil {
			return ErrMsg{Err: err, Notice: "Could not change the role"}
		}
		return UserSavedMsg{User: updated}
	}
}

// UpdateUserCmd changes an account's name, email, or password. Blank fields
// are omitted from the request and stay as they were.
func UpdateUserCmd(svc *service.AccountService, id string, in api.UserInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		user, err := svc.Update(ctx, id, in)
		if err != nil {
			return ErrMsg{Err: err, Notice: "Could not update the account"}
		}
		return UserSavedMsg{User: user}
	}
}

func accountInput(name, email, password string, role domain.Role) api.UserInput {
	return api.UserInput{Name: name, Email: email, Password: password, Role: role}
}

// DeleteUserCmd removes an account
func DeleteUserCmd(svc *service.AccountService, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		if err := svc.Delete(ctx, id); err != nil {
			return ErrMsg{Err: err, Notice: "Could not delete the account"}
		}
		return UserDeletedMsg{ID: id}
	}
}
