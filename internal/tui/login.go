package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"libris/internal/tui/styles"
)

// loginView is the email/password form
type loginView struct {
	email    textinput.Model
	password textinput.Model
	focus    int // 0 = email, 1 = password
	busy     bool
}

func newLoginView() loginView {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 120
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 120
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return loginView{email: email, password: password}
}

func (v *loginView) reset() {
	v.password.SetValue("")
	v.busy = false
	v.setFocus(0)
}

func (v *loginView) setFocus(i int) {
	v.focus = i
	if i == 0 {
		v.email.Focus()
		v.password.Blur()
	} else {
		v.email.Blur()
		v.password.Focus()
	}
}

// handleKey processes a key press; it returns the login command once both
// fields are filled and enter is hit
func (v *loginView) handleKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		v.setFocus(1 - v.focus)
		return nil

	case "enter":
		if v.focus == 0 {
			v.setFocus(1)
			return nil
		}
		email := strings.TrimSpace(v.email.Value())
		password := v.password.Value()
		if email == "" || password == "" {
			m.toasts.Info("Enter your email and password.")
			return nil
		}
		if v.busy {
			return nil
		}
		v.busy = true
		return LoginCmd(m.auth, email, password)
	}

	var cmd tea.Cmd
	if v.focus == 0 {
		v.email, cmd = v.email.Update(msg)
	} else {
		v.password, cmd = v.password.Update(msg)
	}
	return cmd
}

func (v *loginView) view() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Sign in"))
	b.WriteString("\n\n")
	b.WriteString("  " + v.email.View() + "\n")
	b.WriteString("  " + v.password.View() + "\n\n")
	if v.busy {
		b.WriteString(styles.DimStyle.Render("  signing in…"))
	} else {
		b.WriteString(styles.DimStyle.Render("  enter to submit"))
	}
	return b.String()
}
