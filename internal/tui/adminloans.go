package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"libris/internal/domain"
	"libris/internal/tui/components"
	"libris/internal/tui/styles"
)

// adminLoansMode selects the sub-state of the librarian workspace
type adminLoansMode int

const (
	adminBrowse adminLoansMode = iota
	adminReject                // typing a rejection reason
	adminIssue                 // picking student and book for a direct loan
)

const pickerHeight = 8

// adminLoansView is the librarian workspace: pending requests on top, the
// full loan ledger below, plus the direct-issuance flow. All rows come from
// one snapshot so a mutation is always followed by a full refresh.
type adminLoansView struct {
	snap    *AdminData
	mode    adminLoansMode
	pane    int // 0 = requests, 1 = loans
	reqCur  int
	loanCur int
	loading bool

	reason textinput.Model
	target domain.Loan // request the reason applies to

	students  components.Picker
	books     components.Picker
	issuePane int // 0 = students, 1 = books
	issueQ    textinput.Model
}

// AdminData aliases the service snapshot so the view layer does not reach
// into the service package at every call site.
type AdminData struct {
	Students       []domain.User
	AvailableBooks []domain.Book
	Requests       []domain.Loan
	Loans          []domain.Loan
}

func newAdminLoansView() adminLoansView {
	reason := textinput.New()
	reason.Placeholder = "reason (optional)"
	reason.CharLimit = 200

	issueQ := textinput.New()
	issueQ.Placeholder = "filter"
	issueQ.CharLimit = 80

	return adminLoansView{
		reason:   reason,
		issueQ:   issueQ,
		students: components.NewPicker("Student"),
		books:    components.NewPicker("Book"),
	}
}

func (v *adminLoansView) loadCmd(m *Model) tea.Cmd {
	v.loading = true
	return RefreshAdminCmd(m.loans)
}

func (v *adminLoansView) apply(msg AdminSnapshotMsg) {
	v.loading = false
	v.snap = &AdminData{
		Students:       msg.Snap.Students,
		AvailableBooks: msg.Snap.AvailableBooks,
		Requests:       msg.Snap.Requests,
		Loans:          msg.Snap.Loans,
	}
	if v.reqCur >= len(v.snap.Requests) {
		v.reqCur = len(v.snap.Requests) - 1
	}
	if v.reqCur < 0 {
		v.reqCur = 0
	}
	if v.loanCur >= len(v.snap.Loans) {
		v.loanCur = len(v.snap.Loans) - 1
	}
	if v.loanCur < 0 {
		v.loanCur = 0
	}

	students := make([]components.PickerItem, len(v.snap.Students))
	for i, u := range v.snap.Students {
		students[i] = components.PickerItem{ID: u.ID, Label: fmt.Sprintf("%s <%s>", u.Name, u.Email)}
	}
	v.students.SetItems(students)

	books := make([]components.PickerItem, len(v.snap.AvailableBooks))
	for i, b := range v.snap.AvailableBooks {
		books[i] = components.PickerItem{ID: b.ID, Label: fmt.Sprintf("%s (%d left)", b.Title, b.Available)}
	}
	v.books.SetItems(books)
}

func (v *adminLoansView) selectedRequest() (domain.Loan, bool) {
	if v.snap == nil || v.reqCur < 0 || v.reqCur >= len(v.snap.Requests) {
		return domain.Loan{}, false
	}
	return v.snap.Requests[v.reqCur], true
}

func (v *adminLoansView) selectedLoan() (domain.Loan, bool) {
	if v.snap == nil || v.loanCur < 0 || v.loanCur >= len(v.snap.Loans) {
		return domain.Loan{}, false
	}
	return v.snap.Loans[v.loanCur], true
}

func (v *adminLoansView) handleKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch v.mode {
	case adminReject:
		return v.handleRejectKey(m, msg)
	case adminIssue:
		return v.handleIssueKey(m, msg)
	}
	return v.handleBrowseKey(m, msg)
}

func (v *adminLoansView) handleBrowseKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch {
	case key(msg, m.keys.Refresh):
		return v.loadCmd(m)

	case key(msg, m.keys.Tab):
		v.pane = 1 - v.pane

	case key(msg, m.keys.Up):
		if v.pane == 0 && v.reqCur > 0 {
			v.reqCur--
		}
		if v.pane == 1 && v.loanCur > 0 {
			v.loanCur--
		}

	case key(msg, m.keys.Down):
		if v.snap == nil {
			return nil
		}
		if v.pane == 0 && v.reqCur < len(v.snap.Requests)-1 {
			v.reqCur++
		}
		if v.pane == 1 && v.loanCur < len(v.snap.Loans)-1 {
			v.loanCur++
		}

	case key(msg, m.keys.Approve):
		req, ok := v.selectedRequest()
		if !ok || v.pane != 0 {
			return nil
		}
		return ApproveRequestCmd(m.loans, req)

	case key(msg, m.keys.Reject):
		req, ok := v.selectedRequest()
		if !ok || v.pane != 0 {
			return nil
		}
		v.mode = adminReject
		v.target = req
		v.reason.SetValue("")
		return v.reason.Focus()

	case key(msg, m.keys.Return):
		loan, ok := v.selectedLoan()
		if !ok || v.pane != 1 {
			return nil
		}
		// Only an active loan can be returned
		if loan.Status != domain.LoanActive {
			m.toasts.Info("Only active loans can be returned.")
			return nil
		}
		return ReturnLoanCmd(m.loans, loan)

	case key(msg, m.keys.New):
		if v.snap == nil {
			return nil
		}
		v.mode = adminIssue
		v.issuePane = 0
		v.students.Focus(true)
		v.books.Focus(false)
		v.students.SetQuery("")
		v.books.SetQuery("")
		v.issueQ.SetValue("")
		return v.issueQ.Focus()
	}
	return nil
}

func (v *adminLoansView) handleRejectKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		v.mode = adminBrowse
		v.reason.Blur()
		return RejectRequestCmd(m.loans, v.target, strings.TrimSpace(v.reason.Value()))
	case "esc":
		v.mode = adminBrowse
		v.reason.Blur()
		return nil
	}
	var cmd tea.Cmd
	v.reason, cmd = v.reason.Update(msg)
	return cmd
}

func (v *adminLoansView) handleIssueKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	active := &v.students
	if v.issuePane == 1 {
		active = &v.books
	}

	switch msg.String() {
	case "esc":
		v.mode = adminBrowse
		v.issueQ.Blur()
		return nil

	case "tab":
		v.issuePane = 1 - v.issuePane
		v.students.Focus(v.issuePane == 0)
		v.books.Focus(v.issuePane == 1)
		v.issueQ.SetValue(activeQuery(v))
		return nil

	case "up":
		active.Move(-1)
		return nil

	case "down":
		active.Move(1)
		return nil

	case "enter":
		if v.issuePane == 0 {
			if _, ok := v.students.Selected(); !ok {
				return nil
			}
			v.issuePane = 1
			v.students.Focus(false)
			v.books.Focus(true)
			v.issueQ.SetValue(v.books.Query())
			return nil
		}
		student, okU := v.students.Selected()
		book, okB := v.books.Selected()
		if !okU || !okB {
			return nil
		}
		v.mode = adminBrowse
		v.issueQ.Blur()
		return CreateLoanCmd(m.loans, student.ID, book.ID)
	}

	var cmd tea.Cmd
	v.issueQ, cmd = v.issueQ.Update(msg)
	active.SetQuery(v.issueQ.Value())
	return cmd
}

func activeQuery(v *adminLoansView) string {
	if v.issuePane == 0 {
		return v.students.Query()
	}
	return v.books.Query()
}

func (v *adminLoansView) view(m *Model) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Loans"))
	b.WriteString("\n")

	if v.loading && v.snap == nil {
		b.WriteString(styles.DimStyle.Render("  loading…"))
		return b.String()
	}
	if v.snap == nil {
		b.WriteString(styles.DimStyle.Render("  no data"))
		return b.String()
	}

	switch v.mode {
	case adminReject:
		b.WriteString(fmt.Sprintf("\n  Reject request for %s by %s\n", v.target.BookTitle(), v.target.BorrowerName()))
		b.WriteString("  " + v.reason.View() + "\n")
		b.WriteString(styles.DimStyle.Render("  enter to reject · esc to cancel"))
		return b.String()

	case adminIssue:
		b.WriteString("\n" + styles.SubtitleStyle.Render("  Issue a book directly") + "\n")
		b.WriteString("  " + v.issueQ.View() + "\n\n")
		b.WriteString(indent(v.students.View(pickerHeight)) + "\n\n")
		b.WriteString(indent(v.books.View(pickerHeight)) + "\n")
		b.WriteString(styles.DimStyle.Render("  tab switch pane · enter confirm · esc cancel"))
		return b.String()
	}

	// Pending requests
	reqTitle := "Requests"
	if v.pane == 0 {
		reqTitle = "▸ Requests"
	}
	b.WriteString("\n" + styles.PanelTitleStyle.Render(reqTitle) + styles.DimStyle.Render(fmt.Sprintf("  (%d)", len(v.snap.Requests))) + "\n")
	if len(v.snap.Requests) == 0 {
		b.WriteString(styles.DimStyle.Render("  none pending") + "\n")
	}
	for i, req := range v.snap.Requests {
		line := fmt.Sprintf("%-32.32s  %-24.24s  %s", req.BookTitle(), req.BorrowerName(), shortDate(req.StartDate))
		if i == v.reqCur && v.pane == 0 {
			line = styles.HighlightStyle.Render(line)
		} else {
			line = "  " + line
		}
		b.WriteString("  " + line + "\n")
	}

	// Full ledger
	loanTitle := "All loans"
	if v.pane == 1 {
		loanTitle = "▸ All loans"
	}
	b.WriteString("\n" + styles.PanelTitleStyle.Render(loanTitle) + styles.DimStyle.Render(fmt.Sprintf("  (%d)", len(v.snap.Loans))) + "\n")
	if len(v.snap.Loans) == 0 {
		b.WriteString(styles.DimStyle.Render("  no loans") + "\n")
	}
	for i, loan := range v.snap.Loans {
		line := fmt.Sprintf("%-32.32s  %-24.24s  %s", loan.BookTitle(), loan.BorrowerName(), statusBadge(loan.Status))
		if i == v.loanCur && v.pane == 1 {
			line = styles.HighlightStyle.Render(fmt.Sprintf("%-32.32s  %-24.24s", loan.BookTitle(), loan.BorrowerName())) + "  " + statusBadge(loan.Status)
		} else {
			line = "  " + line
		}
		b.WriteString("  " + line + "\n")
	}

	b.WriteString("\n" + styles.DimStyle.Render("  a approve · x reject · d return · n issue · tab pane · R refresh"))
	return b.String()
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = "  " + lines[i]
	}
	return strings.Join(lines, "\n")
}
