package components

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"libris/internal/tui/styles"
)

// PickerItem is one selectable row
type PickerItem struct {
	ID    string
	Label string
}

// pickerSource implements fuzzy.Source over lowercase labels
type pickerSource struct {
	labels []string
}

func (s pickerSource) String(i int) string { return s.labels[i] }
func (s pickerSource) Len() int            { return len(s.labels) }

// Picker is a filterable single-select list. Typing narrows it with ranked
// fuzzy matching; an empty query shows everything in original order.
type Picker struct {
	Title string

	items    []PickerItem
	source   pickerSource
	filtered []int
	query    string
	cursor   int
	focused  bool
}

// NewPicker creates an empty picker
func NewPicker(title string) Picker {
	return Picker{Title: title}
}

// SetItems replaces the rows and resets filter and cursor
func (p *Picker) SetItems(items []PickerItem) {
	p.items = items
	labels := make([]string, len(items))
	for i, it := range items {
		labels[i] = strings.ToLower(it.Label)
	}
	p.source = pickerSource{labels: labels}
	p.SetQuery("")
}

// SetQuery re-filters the rows
func (p *Picker) SetQuery(q string) {
	p.query = q
	p.cursor = 0

	q = strings.TrimSpace(strings.ToLower(q))
	if q == "" {
		p.filtered = make([]int, len(p.items))
		for i := range p.items {
			p.filtered[i] = i
		}
		return
	}

	matches := fuzzy.FindFrom(q, p.source)
	p.filtered = make([]int, len(matches))
	for i, m := range matches {
		p.filtered[i] = m.Index
	}
}

// Query returns the current filter text
func (p *Picker) Query() string { return p.query }

// Move shifts the cursor, clamped to the filtered rows
func (p *Picker) Move(delta int) {
	p.cursor += delta
	if p.cursor < 0 {
		p.cursor = 0
	}
	if max := len(p.filtered) - 1; p.cursor > max {
		p.cursor = max
	}
}

// Selected returns the row under the cursor
func (p *Picker) Selected() (PickerItem, bool) {
	if p.cursor < 0 || p.cursor >= len(p.filtered) {
		return PickerItem{}, false
	}
	return p.items[p.filtered[p.cursor]], true
}

// Focus marks the picker as the active pane
func (p *Picker) Focus(on bool) { p.focused = on }

// Focused reports whether the picker is active
func (p *Picker) Focused() bool { return p.focused }

// View renders up to height rows around the cursor
func (p *Picker) View(height int) string {
	var b strings.Builder

	title := p.Title
	if p.query != "" {
		title = fmt.Sprintf("%s  /%s", p.Title, p.query)
	}
	if p.focused {
		b.WriteString(styles.PanelTitleStyle.Render(title))
	} else {
		b.WriteString(styles.DimStyle.Render(title))
	}
	b.WriteString("\n")

	if len(p.filtered) == 0 {
		b.WriteString(styles.DimStyle.Render("  (none)"))
		return b.String()
	}

	start := 0
	if p.cursor >= height {
		start = p.cursor - height + 1
	}
	end := start + height
	if end > len(p.filtered) {
		end = len(p.filtered)
	}

	for i := start; i < end; i++ {
		item := p.items[p.filtered[i]]
		line := "  " + item.Label
		if i == p.cursor && p.focused {
			line = styles.HighlightStyle.Render(item.Label)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
