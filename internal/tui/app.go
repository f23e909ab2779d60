package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	bkey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"libris/internal/api"
	"libris/internal/busy"
	"libris/internal/config"
	"libris/internal/domain"
	"libris/internal/guard"
	"libris/internal/service"
	"libris/internal/session"
	"libris/internal/toast"
	"libris/internal/tui/styles"
)

// routeRoles lists which roles may enter each route. The login view is not
// listed; it is always reachable.
var routeRoles = map[guard.Route][]domain.Role{
	guard.RouteCatalog:     {domain.RoleStudent, domain.RoleAdmin},
	guard.RouteStudentHome: {domain.RoleStudent},
	guard.RouteMyLoans:     {domain.RoleStudent},
	guard.RouteProfile:     {domain.RoleStudent, domain.RoleAdmin},
	guard.RouteAdminHome:   {domain.RoleAdmin},
	guard.RouteAdminLoans:  {domain.RoleAdmin},
	guard.RouteAdminUsers:  {domain.RoleAdmin},
	guard.RouteAdminBooks:  {domain.RoleAdmin},
}

// Model is the application shell. It owns routing, the toast stack, and the
// busy indicator; each view handles its own keys and renders its own body.
type Model struct {
	cfg  *config.Config
	keys KeyMap

	session *session.Store
	toasts  *toast.Queue
	busy    *busy.Counter

	auth     *service.AuthService
	catalog  *service.CatalogService
	loans    *service.LoanService
	accounts *service.AccountService

	route    guard.Route
	returnTo guard.Route

	width  int
	height int
	spin   spinner.Model

	login      loginView
	books      catalogView
	myLoans    myLoansView
	adminLoans adminLoansView
	adminBooks adminBooksView
	users      usersView
	dashboard  dashboardView
	profile    profileView
}

// Deps bundles everything the shell needs
type Deps struct {
	Config   *config.Config
	Session  *session.Store
	Toasts   *toast.Queue
	Busy     *busy.Counter
	Auth     *service.AuthService
	Catalog  *service.CatalogService
	Loans    *service.LoanService
	Accounts *service.AccountService
}

// NewModel builds the shell. The starting route follows the restored
// session: a valid one lands on the role's home, otherwise login.
func NewModel(d Deps) *Model {
	m := &Model{
		cfg:      d.Config,
		keys:     DefaultKeyMap(),
		session:  d.Session,
		toasts:   d.Toasts,
		busy:     d.Busy,
		auth:     d.Auth,
		catalog:  d.Catalog,
		loans:    d.Loans,
		accounts: d.Accounts,

		route:      guard.RouteLogin,
		login:      newLoginView(),
		books:      newCatalogView(),
		adminLoans: newAdminLoansView(),
		adminBooks: newAdminBooksView(),
		users:      newUsersView(),
	}
	m.spin = spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(styles.AccentStyle))
	if m.session.IsAuthenticated() {
		m.route = guard.Home(m.session.Role())
	}
	return m
}

// key reports whether the pressed key matches the binding
func key(msg tea.KeyMsg, b bkey.Binding) bool {
	return bkey.Matches(msg, b)
}

// Init starts the tick loop, the logout watcher, and the first view load
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{TickCmd(), m.spin.Tick, WatchLogoutCmd(m.session)}
	if cmd := m.enterCmd(m.route); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// navigate runs the guard for target and switches to it, or to wherever the
// guard redirects. It returns the new view's load command.
func (m *Model) navigate(target guard.Route) tea.Cmd {
	if target == guard.RouteLogin {
		m.route = guard.RouteLogin
		m.login.reset()
		return nil
	}

	decision := guard.Check(m.session, target, routeRoles[target]...)
	if !decision.Allowed {
		if decision.Reason != "" {
			m.toasts.Info(capitalize(decision.Reason) + ".")
		}
		if decision.Redirect == guard.RouteLogin {
			m.returnTo = decision.ReturnTo
			m.route = guard.RouteLogin
			m.login.reset()
			return nil
		}
		target = decision.Redirect
	}

	m.route = target
	return m.enterCmd(target)
}

// enterCmd returns the initial load for a route
func (m *Model) enterCmd(route guard.Route) tea.Cmd {
	switch route {
	case guard.RouteCatalog:
		return m.books.loadCmd(m)
	case guard.RouteMyLoans:
		return m.myLoans.loadCmd(m)
	case guard.RouteAdminLoans:
		return m.adminLoans.loadCmd(m)
	case guard.RouteAdminBooks:
		return m.adminBooks.loadCmd(m)
	case guard.RouteAdminUsers:
		return m.users.loadCmd(m)
	case guard.RouteStudentHome, guard.RouteAdminHome:
		return m.dashboard.loadCmd(m)
	}
	return nil
}

// Update is the single place application state changes
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		m.toasts.Expire(time.Now())
		return m, TickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case SessionClearedMsg:
		// Forced or voluntary logout; either way the shell shows login and
		// keeps watching for the next clear.
		m.returnTo = ""
		m.route = guard.RouteLogin
		m.login.reset()
		return m, WatchLogoutCmd(m.session)

	case LoggedInMsg:
		m.login.busy = false
		// Librarians land on their dashboard, borrowers straight in the
		// catalog; an intended route captured by the guard wins over both.
		target := guard.RouteCatalog
		if msg.User.Role == domain.RoleAdmin {
			target = guard.RouteAdminHome
		}
		if m.returnTo != "" {
			if d := guard.Check(m.session, m.returnTo, routeRoles[m.returnTo]...); d.Allowed {
				target = m.returnTo
			}
			m.returnTo = ""
		}
		m.toasts.Success("Welcome back, " + msg.User.Name + ".")
		return m, m.navigate(target)

	case ErrMsg:
		return m.handleErr(msg)

	case BooksPageMsg:
		m.books.apply(m, msg)
		return m, nil

	case AdminBooksMsg:
		m.adminBooks.apply(msg)
		return m, nil

	case BookSavedMsg:
		if msg.Created {
			m.toasts.Success(fmt.Sprintf("Added %q to the catalog.", msg.Book.Title))
		} else {
			m.toasts.Success(fmt.Sprintf("Saved %q.", msg.Book.Title))
		}
		return m, m.adminBooks.loadCmd(m)

	case BookDeletedMsg:
		m.toasts.Success("Book removed from the catalog.")
		return m, m.adminBooks.loadCmd(m)

	case CatalogCountMsg:
		m.dashboard.applyCount(msg)
		return m, nil

	case LoanRequestedMsg:
		m.toasts.Success(fmt.Sprintf("Requested %q.", msg.Title))
		return m, m.books.loadCmd(m)

	case MyLoansMsg:
		m.myLoans.apply(msg)
		m.dashboard.applyMyLoans(msg)
		return m, nil

	case AdminSnapshotMsg:
		m.adminLoans.apply(msg)
		m.dashboard.applySnapshot(msg)
		return m, nil

	case RequestApprovedMsg:
		m.toasts.Success(fmt.Sprintf("Approved %q for %s.", msg.Loan.BookTitle(), msg.Loan.BorrowerName()))
		return m, RefreshAdminCmd(m.loans)

	case RequestRejectedMsg:
		m.toasts.Success(fmt.Sprintf("Rejected the request for %q.", msg.Loan.BookTitle()))
		return m, RefreshAdminCmd(m.loans)

	case LoanCreatedMsg:
		m.toasts.Success(fmt.Sprintf("Issued %q to %s.", msg.Loan.BookTitle(), msg.Loan.BorrowerName()))
		return m, RefreshAdminCmd(m.loans)

	case LoanReturnedMsg:
		m.toasts.Success(fmt.Sprintf("Returned %q.", msg.Loan.BookTitle()))
		return m, RefreshAdminCmd(m.loans)

	case UsersLoadedMsg:
		m.users.apply(msg)
		m.dashboard.applyUsers(msg)
		return m, nil

	case UserSavedMsg:
		if msg.Created {
			m.toasts.Success(fmt.Sprintf("Created account %s.", msg.User.Email))
		} else {
			m.toasts.Success(fmt.Sprintf("Saved %s (%s).", msg.User.Name, msg.User.Role))
		}
		return m, LoadUsersCmd(m.accounts)

	case UserDeletedMsg:
		m.toasts.Success("Account deleted.")
		return m, LoadUsersCmd(m.accounts)
	}

	return m, nil
}

// handleErr settles view state after a failed command. The pipeline has
// already pushed the user-facing toast for anything it classified; failures
// that never went through it (local refusals, unreadable responses) get the
// caller's notice here so no failure stays silent.
func (m *Model) handleErr(msg ErrMsg) (tea.Model, tea.Cmd) {
	m.login.busy = false
	m.books.loading = false
	m.myLoans.loading = false
	m.adminLoans.loading = false
	m.adminBooks.loading = false
	m.users.loading = false

	if errors.Is(msg.Err, domain.ErrInvalidTransition) {
		m.toasts.Error("That loan has already moved on. Refreshing.")
		if m.route == guard.RouteAdminLoans {
			return m, RefreshAdminCmd(m.loans)
		}
		return m, nil
	}
	if errors.Is(msg.Err, domain.ErrInvalidCounters) {
		m.toasts.Error("Available must be between zero and copies.")
		return m, nil
	}

	var apiErr *api.Error
	if !errors.As(msg.Err, &apiErr) {
		if msg.Notice != "" {
			m.toasts.Error(msg.Notice + ".")
		} else {
			m.toasts.Error(capitalize(msg.Err.Error()) + ".")
		}
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Ctrl+C always quits; plain q only outside text input
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.route == guard.RouteLogin {
		if key(msg, m.keys.Quit) && msg.String() == "q" && m.login.email.Value() == "" && m.login.password.Value() == "" {
			return m, tea.Quit
		}
		return m, m.login.handleKey(m, msg)
	}

	if !m.typing() {
		switch {
		case key(msg, m.keys.Quit):
			return m, tea.Quit

		case key(msg, m.keys.GoHome):
			return m, m.navigate(guard.Home(m.session.Role()))

		case key(msg, m.keys.GoCatalog):
			return m, m.navigate(guard.RouteCatalog)

		case key(msg, m.keys.GoLoans):
			if m.session.Role() == domain.RoleAdmin {
				return m, m.navigate(guard.RouteAdminLoans)
			}
			return m, m.navigate(guard.RouteMyLoans)

		case key(msg, m.keys.GoUsers):
			return m, m.navigate(guard.RouteAdminUsers)

		case key(msg, m.keys.GoBooks):
			return m, m.navigate(guard.RouteAdminBooks)

		case key(msg, m.keys.GoProfile):
			return m, m.navigate(guard.RouteProfile)
		}
	}

	switch m.route {
	case guard.RouteCatalog:
		return m, m.books.handleKey(m, msg)
	case guard.RouteMyLoans:
		return m, m.myLoans.handleKey(m, msg)
	case guard.RouteAdminLoans:
		return m, m.adminLoans.handleKey(m, msg)
	case guard.RouteAdminBooks:
		return m, m.adminBooks.handleKey(m, msg)
	case guard.RouteAdminUsers:
		return m, m.users.handleKey(m, msg)
	case guard.RouteStudentHome, guard.RouteAdminHome:
		return m, m.dashboard.handleKey(m, msg)
	case guard.RouteProfile:
		return m, m.profile.handleKey(m, msg)
	}
	return m, nil
}

// typing reports whether the focused view is capturing text, which
// suppresses the global navigation keys
func (m *Model) typing() bool {
	switch m.route {
	case guard.RouteCatalog:
		return m.books.filterOn
	case guard.RouteAdminLoans:
		return m.adminLoans.mode != adminBrowse
	case guard.RouteAdminBooks:
		return m.adminBooks.mode == adminBooksEdit
	case guard.RouteAdminUsers:
		return m.users.mode == usersCreate
	}
	return false
}

// View renders the tab bar, the active view, the toast stack, and the
// status line
func (m *Model) View() string {
	var sections []string

	if m.route != guard.RouteLogin {
		sections = append(sections, m.tabBar())
	}

	var body string
	switch m.route {
	case guard.RouteLogin:
		body = m.login.view()
	case guard.RouteCatalog:
		body = m.books.view(m)
	case guard.RouteMyLoans:
		body = m.myLoans.view()
	case guard.RouteAdminLoans:
		body = m.adminLoans.view(m)
	case guard.RouteAdminBooks:
		body = m.adminBooks.view(m)
	case guard.RouteAdminUsers:
		body = m.users.view(m)
	case guard.RouteStudentHome, guard.RouteAdminHome:
		body = m.dashboard.view(m)
	case guard.RouteProfile:
		body = m.profile.view(m)
	}
	sections = append(sections, body)

	if toasts := m.toastStack(); toasts != "" {
		sections = append(sections, toasts)
	}
	sections = append(sections, m.statusBar())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// tab is one tab bar entry
type tab struct {
	label string
	route guard.Route
}

func (m *Model) tabs() []tab {
	if m.session.Role() == domain.RoleAdmin {
		return []tab{
			{"Home", guard.RouteAdminHome},
			{"Catalog", guard.RouteCatalog},
			{"Loans", guard.RouteAdminLoans},
			{"Users", guard.RouteAdminUsers},
			{"Books", guard.RouteAdminBooks},
			{"Profile", guard.RouteProfile},
		}
	}
	return []tab{
		{"Home", guard.RouteStudentHome},
		{"Catalog", guard.RouteCatalog},
		{"My loans", guard.RouteMyLoans},
		{"Profile", guard.RouteProfile},
	}
}

func (m *Model) tabBar() string {
	var parts []string
	for _, t := range m.tabs() {
		if t.route == m.route {
			parts = append(parts, styles.TabActive.Render(t.label))
		} else {
			parts = append(parts, styles.TabInactive.Render(t.label))
		}
	}
	return strings.Join(parts, " ") + "\n"
}

func (m *Model) toastStack() string {
	visible := m.toasts.Visible()
	if len(visible) == 0 {
		return ""
	}

	var parts []string
	for _, t := range visible {
		switch t.Level {
		case toast.LevelError:
			parts = append(parts, styles.ToastError.Render(t.Text))
		case toast.LevelSuccess:
			parts = append(parts, styles.ToastSuccess.Render(t.Text))
		default:
			parts = append(parts, styles.ToastInfo.Render(t.Text))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) statusBar() string {
	left := string(m.route)
	if m.busy.Active() {
		left = m.spin.View() + " " + left
	}
	if user := m.session.User(); user != nil {
		return styles.DimStyle.Render(fmt.Sprintf(" %s · %s (%s)", left, user.Email, user.Role))
	}
	return styles.DimStyle.Render(" " + left)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
