package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"libris/internal/api"
	"libris/internal/domain"
	"libris/internal/tui/styles"
)

type usersMode int

const (
	usersBrowse usersMode = iota
	usersCreate
	usersConfirmDelete
)

// usersView is the account administration screen
type usersView struct {
	users   []domain.User
	cursor  int
	mode    usersMode
	loading bool

	// create/edit form; editID empty means a new account
	fields  []textinput.Model // name, email, password
	focus   int
	asAdmin bool
	editID  string

	target domain.User // delete confirmation target
}

func newUsersView() usersView {
	name := textinput.New()
	name.Placeholder = "name"
	name.CharLimit = 120

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 120

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 120
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return usersView{fields: []textinput.Model{name, email, password}}
}

func (v *usersView) loadCmd(m *Model) tea.Cmd {
	v.loading = true
	return LoadUsersCmd(m.accounts)
}

func (v *usersView) apply(msg UsersLoadedMsg) {
	v.loading = false
	v.users = msg.Users
	if v.cursor >= len(v.users) {
		v.cursor = len(v.users) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

func (v *usersView) selected() (domain.User, bool) {
	if v.cursor < 0 || v.cursor >= len(v.users) {
		return domain.User{}, false
	}
	return v.users[v.cursor], true
}

func (v *usersView) startCreate() tea.Cmd {
	v.mode = usersCreate
	v.asAdmin = false
	v.editID = ""
	for i := range v.fields {
		v.fields[i].SetValue("")
		v.fields[i].Blur()
	}
	v.focus = 0
	return v.fields[0].Focus()
}

func (v *usersView) startEdit(user domain.User) tea.Cmd {
	v.mode = usersCreate
	v.editID = user.ID
	v.fields[0].SetValue(user.Name)
	v.fields[1].SetValue(user.Email)
	v.fields[2].SetValue("") // blank keeps the current password
	for i := range v.fields {
		v.fields[i].Blur()
	}
	v.focus = 0
	return v.fields[0].Focus()
}

func (v *usersView) handleKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch v.mode {
	case usersCreate:
		return v.handleCreateKey(m, msg)
	case usersConfirmDelete:
		return v.handleConfirmKey(m, msg)
	}
	return v.handleBrowseKey(m, msg)
}

func (v *usersView) handleBrowseKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch {
	case key(msg, m.keys.Refresh):
		return v.loadCmd(m)

	case key(msg, m.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}

	case key(msg, m.keys.Down):
		if v.cursor < len(v.users)-1 {
			v.cursor++
		}

	case key(msg, m.keys.New):
		return v.startCreate()

	case key(msg, m.keys.Edit):
		user, ok := v.selected()
		if !ok {
			return nil
		}
		return v.startEdit(user)

	case key(msg, m.keys.Role):
		user, ok := v.selected()
		if !ok {
			return nil
		}
		if m.session.User() != nil && m.session.User().ID == user.ID {
			m.toasts.Info("You cannot change your own role.")
			return nil
		}
		return ToggleRoleCmd(m.accounts, user)

	case key(msg, m.keys.Delete):
		user, ok := v.selected()
		if !ok {
			return nil
		}
		if m.session.User() != nil && m.session.User().ID == user.ID {
			m.toasts.Info("You cannot delete your own account.")
			return nil
		}
		v.mode = usersConfirmDelete
		v.target = user
	}
	return nil
}

func (v *usersView) handleConfirmKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "enter":
		v.mode = usersBrowse
		return DeleteUserCmd(m.accounts, v.target.ID)
	case "n", "esc":
		v.mode = usersBrowse
	}
	return nil
}

func (v *usersView) handleCreateKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		v.mode = usersBrowse
		return nil

	case "tab", "down":
		return v.setFocus((v.focus + 1) % len(v.fields))

	case "shift+tab", "up":
		return v.setFocus((v.focus + len(v.fields) - 1) % len(v.fields))

	case "ctrl+t":
		if v.editID == "" {
			v.asAdmin = !v.asAdmin
		}
		return nil

	case "enter":
		if v.focus < len(v.fields)-1 {
			return v.setFocus(v.focus + 1)
		}
		name := strings.TrimSpace(v.fields[0].Value())
		email := strings.TrimSpace(v.fields[1].Value())
		password := v.fields[2].Value()

		if v.editID != "" {
			if name == "" || email == "" {
				m.toasts.Info("Name and email are required.")
				return nil
			}
			v.mode = usersBrowse
			return UpdateUserCmd(m.accounts, v.editID, api.UserInput{
				Name: name, Email: email, Password: password,
			})
		}

		if name == "" || email == "" || password == "" {
			m.toasts.Info("All fields are required.")
			return nil
		}
		role := domain.RoleStudent
		if v.asAdmin {
			role = domain.RoleAdmin
		}
		v.mode = usersBrowse
		return CreateUserCmd(m.accounts, name, email, password, role)
	}

	var cmd tea.Cmd
	v.fields[v.focus], cmd = v.fields[v.focus].Update(msg)
	return cmd
}

func (v *usersView) setFocus(i int) tea.Cmd {
	v.fields[v.focus].Blur()
	v.focus = i
	return v.fields[i].Focus()
}

func (v *usersView) view(m *Model) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Accounts"))
	b.WriteString(styles.DimStyle.Render(fmt.Sprintf("  %d", len(v.users))))
	b.WriteString("\n")

	switch v.mode {
	case usersCreate:
		if v.editID != "" {
			b.WriteString("\n" + styles.SubtitleStyle.Render("  Edit account") + "\n")
			for _, f := range v.fields {
				b.WriteString("  " + f.View() + "\n")
			}
			b.WriteString(styles.DimStyle.Render("  enter save · blank password keeps the current one · esc cancel"))
			return b.String()
		}

		role := "student"
		if v.asAdmin {
			role = "admin"
		}
		b.WriteString("\n" + styles.SubtitleStyle.Render("  New account") + "\n")
		for _, f := range v.fields {
			b.WriteString("  " + f.View() + "\n")
		}
		b.WriteString(fmt.Sprintf("  role: %s\n", styles.AccentStyle.Render(role)))
		b.WriteString(styles.DimStyle.Render("  enter save · ctrl+t role · esc cancel"))
		return b.String()

	case usersConfirmDelete:
		b.WriteString(fmt.Sprintf("\n  Delete %s <%s>?\n", v.target.Name, v.target.Email))
		b.WriteString(styles.DimStyle.Render("  y confirm · n cancel"))
		return b.String()
	}

	if v.loading && len(v.users) == 0 {
		b.WriteString(styles.DimStyle.Render("  loading…"))
		return b.String()
	}
	if len(v.users) == 0 {
		b.WriteString(styles.DimStyle.Render("  no accounts"))
		return b.String()
	}

	for i, user := range v.users {
		role := styles.DimStyle.Render(string(user.Role))
		if user.Role == domain.RoleAdmin {
			role = styles.AccentStyle.Render(string(user.Role))
		}
		line := fmt.Sprintf("%-28.28s  %-32.32s  %s", user.Name, user.Email, role)
		if i == v.cursor {
			line = styles.HighlightStyle.Render(fmt.Sprintf("%-28.28s  %-32.32s", user.Name, user.Email)) + "  " + role
		}
		b.WriteString("  " + line + "\n")
	}

	b.WriteString("\n" + styles.DimStyle.Render("  n new · e edit · t toggle role · D delete · R refresh"))
	return b.String()
}
