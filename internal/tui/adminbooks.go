package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"libris/internal/api"
	"libris/internal/domain"
	"libris/internal/tui/styles"
)

type adminBooksMode int

const (
	adminBooksBrowse adminBooksMode = iota
	adminBooksEdit
	adminBooksConfirmDelete
)

// adminBooksView is the catalog management screen for librarians
type adminBooksView struct {
	books   []domain.Book
	cursor  int
	page    int
	pages   int
	total   int
	mode    adminBooksMode
	loading bool

	// create/edit form; editID empty means a new book
	fields []textinput.Model // title, author, year, isbn, copies, available
	focus  int
	editID string

	target domain.Book // delete confirmation target
}

func newAdminBooksView() adminBooksView {
	mk := func(placeholder string, limit int) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = limit
		return in
	}
	return adminBooksView{
		page:  1,
		pages: 1,
		fields: []textinput.Model{
			mk("title", 200),
			mk("author", 120),
			mk("year", 4),
			mk("isbn", 20),
			mk("copies", 4),
			mk("available", 4),
		},
	}
}

func (v *adminBooksView) loadCmd(m *Model) tea.Cmd {
	v.loading = true
	return LoadAdminBooksCmd(m.catalog, v.page)
}

func (v *adminBooksView) apply(msg AdminBooksMsg) {
	v.loading = false
	v.books = msg.Page.Items
	v.total = msg.Page.Total
	v.pages = msg.Page.Pages
	if v.pages < 1 {
		v.pages = 1
	}
	if v.cursor >= len(v.books) {
		v.cursor = len(v.books) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

func (v *adminBooksView) selected() (domain.Book, bool) {
	if v.cursor < 0 || v.cursor >= len(v.books) {
		return domain.Book{}, false
	}
	return v.books[v.cursor], true
}

func (v *adminBooksView) startCreate() tea.Cmd {
	v.mode = adminBooksEdit
	v.editID = ""
	for i := range v.fields {
		v.fields[i].SetValue("")
		v.fields[i].Blur()
	}
	v.focus = 0
	return v.fields[0].Focus()
}

func (v *adminBooksView) startEdit(book domain.Book) tea.Cmd {
	v.mode = adminBooksEdit
	v.editID = book.ID
	v.fields[0].SetValue(book.Title)
	v.fields[1].SetValue(book.Author)
	if book.Year > 0 {
		v.fields[2].SetValue(strconv.Itoa(book.Year))
	} else {
		v.fields[2].SetValue("")
	}
	v.fields[3].SetValue(book.ISBN)
	v.fields[4].SetValue(strconv.Itoa(book.Copies))
	v.fields[5].SetValue(strconv.Itoa(book.Available))
	for i := range v.fields {
		v.fields[i].Blur()
	}
	v.focus = 0
	return v.fields[0].Focus()
}

func (v *adminBooksView) handleKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch v.mode {
	case adminBooksEdit:
		return v.handleEditKey(m, msg)
	case adminBooksConfirmDelete:
		return v.handleConfirmKey(m, msg)
	}
	return v.handleBrowseKey(m, msg)
}

func (v *adminBooksView) handleBrowseKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch {
	case key(msg, m.keys.Refresh):
		return v.loadCmd(m)

	case key(msg, m.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}

	case key(msg, m.keys.Down):
		if v.cursor < len(v.books)-1 {
			v.cursor++
		}

	case key(msg, m.keys.PrevPage):
		if v.page > 1 {
			v.page--
			return v.loadCmd(m)
		}

	case key(msg, m.keys.NextPage):
		if v.page < v.pages {
			v.page++
			return v.loadCmd(m)
		}

	case key(msg, m.keys.New):
		return v.startCreate()

	case key(msg, m.keys.Edit):
		book, ok := v.selected()
		if !ok {
			return nil
		}
		return v.startEdit(book)

	case key(msg, m.keys.Delete):
		book, ok := v.selected()
		if !ok {
			return nil
		}
		v.mode = adminBooksConfirmDelete
		v.target = book
	}
	return nil
}

func (v *adminBooksView) handleConfirmKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "enter":
		v.mode = adminBooksBrowse
		return DeleteBookCmd(m.catalog, v.target.ID)
	case "n", "esc":
		v.mode = adminBooksBrowse
	}
	return nil
}

func (v *adminBooksView) handleEditKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		v.mode = adminBooksBrowse
		return nil

	case "tab", "down":
		return v.setFocus((v.focus + 1) % len(v.fields))

	case "shift+tab", "up":
		return v.setFocus((v.focus + len(v.fields) - 1) % len(v.fields))

	case "enter":
		if v.focus < len(v.fields)-1 {
			return v.setFocus(v.focus + 1)
		}
		in, ok := v.input(m)
		if !ok {
			return nil
		}
		v.mode = adminBooksBrowse
		if v.editID != "" {
			return UpdateBookCmd(m.catalog, v.editID, in)
		}
		return CreateBookCmd(m.catalog, in)
	}

	var cmd tea.Cmd
	v.fields[v.focus], cmd = v.fields[v.focus].Update(msg)
	return cmd
}

// input assembles the form into a request body, toasting on bad values.
// A blank available field follows copies so new stock starts fully on
// the shelf.
func (v *adminBooksView) input(m *Model) (api.BookInput, bool) {
	title := strings.TrimSpace(v.fields[0].Value())
	author := strings.TrimSpace(v.fields[1].Value())
	if title == "" || author == "" {
		m.toasts.Info("Title and author are required.")
		return api.BookInput{}, false
	}

	year, ok := v.number(m, v.fields[2].Value(), "Year", 0)
	if !ok {
		return api.BookInput{}, false
	}
	copies, ok := v.number(m, v.fields[4].Value(), "Copies", 1)
	if !ok {
		return api.BookInput{}, false
	}
	available, ok := v.number(m, v.fields[5].Value(), "Available", copies)
	if !ok {
		return api.BookInput{}, false
	}
	if !(domain.Book{Copies: copies, Available: available}).CountersValid() {
		m.toasts.Info("Available must be between zero and copies.")
		return api.BookInput{}, false
	}

	return api.BookInput{
		Title:     title,
		Author:    author,
		Year:      year,
		ISBN:      strings.TrimSpace(v.fields[3].Value()),
		Copies:    copies,
		Available: available,
	}, true
}

func (v *adminBooksView) number(m *Model, raw, label string, fallback int) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		m.toasts.Info(label + " must be a non-negative number.")
		return 0, false
	}
	return n, true
}

func (v *adminBooksView) setFocus(i int) tea.Cmd {
	v.fields[v.focus].Blur()
	v.focus = i
	return v.fields[i].Focus()
}

func (v *adminBooksView) view(m *Model) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Manage catalog"))
	b.WriteString(styles.DimStyle.Render(fmt.Sprintf("  %d books", v.total)))
	b.WriteString("\n")

	switch v.mode {
	case adminBooksEdit:
		heading := "  New book"
		if v.editID != "" {
			heading = "  Edit book"
		}
		b.WriteString("\n" + styles.SubtitleStyle.Render(heading) + "\n")
		for _, f := range v.fields {
			b.WriteString("  " + f.View() + "\n")
		}
		b.WriteString(styles.DimStyle.Render("  enter save · tab next field · esc cancel"))
		return b.String()

	case adminBooksConfirmDelete:
		b.WriteString(fmt.Sprintf("\n  Delete %q by %s?\n", v.target.Title, v.target.Author))
		b.WriteString(styles.DimStyle.Render("  y confirm · n cancel"))
		return b.String()
	}

	if v.loading && len(v.books) == 0 {
		b.WriteString(styles.DimStyle.Render("  loading…"))
		return b.String()
	}
	if len(v.books) == 0 {
		b.WriteString(styles.DimStyle.Render("  no books"))
		return b.String()
	}

	for i, book := range v.books {
		stock := fmt.Sprintf("%d/%d", book.Available, book.Copies)
		line := fmt.Sprintf("%-36.36s  %-24.24s  %s", book.Title, book.Author, styles.DimStyle.Render(stock))
		if i == v.cursor {
			line = styles.HighlightStyle.Render(fmt.Sprintf("%-36.36s  %-24.24s", book.Title, book.Author)) + "  " + stock
		}
		b.WriteString("  " + line + "\n")
	}

	b.WriteString(styles.DimStyle.Render(fmt.Sprintf("\n  page %d/%d", v.page, v.pages)))
	b.WriteString("\n" + styles.DimStyle.Render("  n new · e edit · D delete · h/l page · R refresh"))
	return b.String()
}
