package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"libris/internal/domain"
	"libris/internal/tui/styles"
)

// dashboardView is the landing screen after login. Students see their own
// lending summary, librarians the state of the whole library. Each panel is
// fed by its own fetch, so one slow call never blanks the rest.
type dashboardView struct {
	total     int // catalog size
	haveTotal bool

	myLoans   []domain.Loan
	haveLoans bool

	requests  int
	active    int
	accounts  int
	haveAdmin bool
}

// loadCmd kicks off all panel fetches at once
func (v *dashboardView) loadCmd(m *Model) tea.Cmd {
	if m.session.Role() == domain.RoleAdmin {
		return tea.Batch(
			CountBooksCmd(m.catalog),
			RefreshAdminCmd(m.loans),
			LoadUsersCmd(m.accounts),
		)
	}
	return tea.Batch(
		CountBooksCmd(m.catalog),
		LoadMyLoansCmd(m.loans),
	)
}

func (v *dashboardView) applyCount(msg CatalogCountMsg) {
	v.total = msg.Total
	v.haveTotal = true
}

func (v *dashboardView) applyMyLoans(msg MyLoansMsg) {
	v.myLoans = msg.Loans
	v.haveLoans = true
}

func (v *dashboardView) applySnapshot(msg AdminSnapshotMsg) {
	v.requests = len(msg.Snap.Requests)
	v.active = 0
	for _, l := range msg.Snap.Loans {
		if l.Status == domain.LoanActive {
			v.active++
		}
	}
	v.haveAdmin = true
}

func (v *dashboardView) applyUsers(msg UsersLoadedMsg) {
	v.accounts = len(msg.Users)
}

func (v *dashboardView) handleKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	if key(msg, m.keys.Refresh) {
		return v.loadCmd(m)
	}
	return nil
}

func (v *dashboardView) view(m *Model) string {
	user := m.session.User()
	var b strings.Builder
	if user != nil {
		b.WriteString(styles.TitleStyle.Render("Welcome, " + user.Name))
	} else {
		b.WriteString(styles.TitleStyle.Render("Welcome"))
	}
	b.WriteString("\n\n")

	if m.session.Role() == domain.RoleAdmin {
		b.WriteString(panel("Books", v.metric(v.total, v.haveTotal)))
		b.WriteString("\n")
		b.WriteString(panel("Pending requests", v.metric(v.requests, v.haveAdmin)))
		b.WriteString("\n")
		b.WriteString(panel("Active loans", v.metric(v.active, v.haveAdmin)))
		b.WriteString("\n")
		b.WriteString(panel("Accounts", v.metric(v.accounts, v.haveAdmin)))
		b.WriteString("\n\n")
		b.WriteString(styles.DimStyle.Render("  1 catalog · 2 loans · 3 users · 4 books · p profile"))
		return b.String()
	}

	active, requested := 0, 0
	for _, l := range v.myLoans {
		switch l.Status {
		case domain.LoanActive:
			active++
		case domain.LoanRequested:
			requested++
		}
	}

	b.WriteString(panel("Books in the catalog", v.metric(v.total, v.haveTotal)))
	b.WriteString("\n")
	b.WriteString(panel("Borrowed now", v.metric(active, v.haveLoans)))
	b.WriteString("\n")
	b.WriteString(panel("Awaiting approval", v.metric(requested, v.haveLoans)))
	b.WriteString("\n\n")
	b.WriteString(styles.DimStyle.Render("  1 catalog · 2 my loans · p profile"))
	return b.String()
}

func (v *dashboardView) metric(n int, ready bool) string {
	if !ready {
		return "…"
	}
	return fmt.Sprintf("%d", n)
}

func panel(label, value string) string {
	return styles.PanelStyle.Render(styles.PanelTitleStyle.Render(label) + "  " + styles.TitleStyle.Render(value))
}
