package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"libris/internal/domain"
	"libris/internal/tui/styles"
)

// catalogView is the public book listing with server pagination, an
// optional local filter, and the borrower's request action
type catalogView struct {
	books    []domain.Book
	shown    []domain.Book
	cursor   int
	page     int
	pages    int
	total    int
	gen      int // load generation; stale pages are dropped
	loading  bool
	search   textinput.Model
	filterOn bool
}

func newCatalogView() catalogView {
	search := textinput.New()
	search.Placeholder = "title or author"
	search.CharLimit = 120
	return catalogView{page: 1, pages: 1, search: search}
}

// loadCmd fetches the current page
func (v *catalogView) loadCmd(m *Model) tea.Cmd {
	v.loading = true
	v.gen++
	return LoadBooksCmd(m.catalog, strings.TrimSpace(v.search.Value()), v.page, m.cfg.UI.PageSize, v.gen)
}

// apply installs a freshly loaded page, ignoring stale generations
func (v *catalogView) apply(m *Model, msg BooksPageMsg) {
	if msg.Gen != v.gen {
		return
	}
	v.loading = false
	v.books = msg.Page.Items
	v.total = msg.Page.Total
	v.pages = msg.Page.Pages
	if v.pages < 1 {
		v.pages = 1
	}
	v.refilter(m)
}

func (v *catalogView) refilter(m *Model) {
	v.shown = m.catalog.Filter(v.books, v.search.Value())
	if v.cursor >= len(v.shown) {
		v.cursor = len(v.shown) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

func (v *catalogView) selected() (domain.Book, bool) {
	if v.cursor < 0 || v.cursor >= len(v.shown) {
		return domain.Book{}, false
	}
	return v.shown[v.cursor], true
}

func (v *catalogView) handleKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	if v.filterOn {
		switch {
		case key(msg, m.keys.Enter):
			v.filterOn = false
			v.search.Blur()
			// Re-query the server with the search term
			v.page = 1
			return v.loadCmd(m)
		case key(msg, m.keys.Escape):
			v.filterOn = false
			v.search.Blur()
			v.search.SetValue("")
			v.page = 1
			return v.loadCmd(m)
		default:
			var cmd tea.Cmd
			v.search, cmd = v.search.Update(msg)
			v.refilter(m)
			return cmd
		}
	}

	switch {
	case key(msg, m.keys.Filter):
		v.filterOn = true
		return v.search.Focus()

	case key(msg, m.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}

	case key(msg, m.keys.Down):
		if v.cursor < len(v.shown)-1 {
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

	case key(msg, m.keys.Refresh):
		return v.loadCmd(m)

	case key(msg, m.keys.Request):
		// Requesting is a borrower action; the server rechecks regardless
		if m.session.Role() != domain.RoleStudent {
			return nil
		}
		book, ok := v.selected()
		if !ok {
			return nil
		}
		return RequestLoanCmd(m.loans, book)
	}
	return nil
}

func (v *catalogView) view(m *Model) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Catalog"))
	b.WriteString(styles.DimStyle.Render(fmt.Sprintf("  %d books · page %d/%d", v.total, v.page, v.pages)))
	b.WriteString("\n")

	if v.filterOn || v.search.Value() != "" {
		b.WriteString("  / " + v.search.View() + "\n")
	}

	if v.loading && len(v.shown) == 0 {
		b.WriteString(styles.DimStyle.Render("  loading…"))
		return b.String()
	}
	if len(v.shown) == 0 {
		b.WriteString(styles.DimStyle.Render("  no books"))
		return b.String()
	}

	for i, book := range v.shown {
		avail := fmt.Sprintf("%d/%d", book.Available, book.Copies)
		availStyled := styles.SuccessStyle.Render(avail)
		if book.Available == 0 {
			availStyled = styles.ErrorStyle.Render(avail)
		}

		line := fmt.Sprintf("%-40.40s  %-24.24s  %s", book.Title, book.Author, availStyled)
		if i == v.cursor {
			line = styles.HighlightStyle.Render(fmt.Sprintf("%-40.40s  %-24.24s", book.Title, book.Author)) + "  " + availStyled
		}
		b.WriteString("  " + line + "\n")
	}

	if m.session.Role() == domain.RoleStudent {
		b.WriteString("\n" + styles.DimStyle.Render("  r request · / search · ←/→ page"))
	} else {
		b.WriteString("\n" + styles.DimStyle.Render("  / search · ←/→ page"))
	}
	return b.String()
}
