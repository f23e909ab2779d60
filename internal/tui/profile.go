package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"libris/internal/tui/styles"
)

// profileView shows the signed-in identity and hosts the logout action
type profileView struct{}

func (v *profileView) handleKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	if key(msg, m.keys.Logout) {
		m.auth.Logout()
		return nil
	}
	return nil
}

func (v *profileView) view(m *Model) string {
	user := m.session.User()
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Profile"))
	b.WriteString("\n\n")

	if user == nil {
		b.WriteString(styles.DimStyle.Render("  not signed in"))
		return b.String()
	}

	b.WriteString("  " + styles.SubtitleStyle.Render("name") + "   " + user.Name + "\n")
	b.WriteString("  " + styles.SubtitleStyle.Render("email") + "  " + user.Email + "\n")
	b.WriteString("  " + styles.SubtitleStyle.Render("role") + "   " + styles.AccentStyle.Render(string(user.Role)) + "\n")
	if user.CreatedAt != "" {
		b.WriteString("  " + styles.SubtitleStyle.Render("since") + "  " + shortDate(user.CreatedAt) + "\n")
	}

	b.WriteString("\n" + styles.DimStyle.Render("  L sign out"))
	return b.String()
}
