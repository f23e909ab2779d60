package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"libris/internal/domain"
	"libris/internal/tui/styles"
)

// myLoansView is the borrower's loan history
type myLoansView struct {
	loans   []domain.Loan
	loading bool
}

func (v *myLoansView) loadCmd(m *Model) tea.Cmd {
	v.loading = true
	return LoadMyLoansCmd(m.loans)
}

func (v *myLoansView) apply(msg MyLoansMsg) {
	v.loading = false
	v.loans = msg.Loans
}

func (v *myLoansView) handleKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	if key(msg, m.keys.Refresh) {
		return v.loadCmd(m)
	}
	return nil
}

func (v *myLoansView) view() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("My loans"))
	b.WriteString("\n")

	if v.loading && len(v.loans) == 0 {
		b.WriteString(styles.DimStyle.Render("  loading…"))
		return b.String()
	}
	if len(v.loans) == 0 {
		b.WriteString(styles.DimStyle.Render("  no loans yet"))
		return b.String()
	}

	for _, loan := range v.loans {
		returned := "—"
		if loan.ReturnDate != "" {
			returned = shortDate(loan.ReturnDate)
		}
		b.WriteString(fmt.Sprintf("  %-40.40s  %-16.16s  %-10s  %s\n",
			loan.BookTitle(), shortDate(loan.StartDate), statusBadge(loan.Status), returned))
	}
	return strings.TrimRight(b.String(), "\n")
}

// statusBadge renders a loan status in its level color
func statusBadge(s domain.LoanStatus) string {
	switch s {
	case domain.LoanActive:
		return styles.BadgeActive.Render(string(s))
	case domain.LoanRequested:
		return styles.BadgeRequested.Render(string(s))
	case domain.LoanRejected:
		return styles.BadgeRejected.Render(string(s))
	default:
		return styles.BadgeReturned.Render(string(s))
	}
}

// shortDate trims an ISO timestamp down to its date part
func shortDate(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	if ts == "" {
		return "—"
	}
	return ts
}
