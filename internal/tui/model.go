// Package tui is a terminal viewer for the registered tables. It drives the
// same table engine as the web pages: one table.Table per open table, with
// every key mapped to one engine callback.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/JonMunkholm/talentdesk/internal/core"
	"github.com/JonMunkholm/talentdesk/internal/table"
)

// maxColWidth caps a rendered column.
const maxColWidth = 24

type screen int

const (
	screenMenu screen = iota
	screenLoading
	screenTable
)

// Model is the bubbletea model for the viewer.
type Model struct {
	screen     screen
	menu       *Menu
	menuCursor int

	title     string
	tbl       *table.Table
	colCursor int
	rowCursor int
	searching bool
	input     string

	width  int
	height int
	status string
	err    error
}

// New starts the viewer on a table menu.
func New(menu *Menu) Model {
	return Model{screen: screenMenu, menu: menu}
}

// NewWithTable starts the viewer on an already built table, with no menu to
// return to.
func NewWithTable(title string, tbl *table.Table) Model {
	return Model{screen: screenTable, title: title, tbl: tbl}
}

// Init satisfies tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and key presses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case LoadedMsg:
		m.screen = screenTable
		m.title = msg.Title
		m.tbl = msg.Table
		m.colCursor, m.rowCursor = 0, 0
		m.searching, m.input = false, ""
		m.err = nil
		m.status = ""

	case ErrMsg:
		m.err = msg.Err
		if m.screen == screenLoading {
			m.screen = screenMenu
		}

	case DoneMsg:
		m.status = string(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.screen {
		case screenMenu:
			return m.updateMenu(msg)
		case screenTable:
			return m.updateTable(msg)
		}
	}
	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.menu == nil {
		return m, nil
	}
	items := m.menu.Items

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.menuCursor > 0 {
			m.menuCursor--
		}
	case "down", "j":
		if m.menuCursor < len(items)-1 {
			m.menuCursor++
		}
	case "esc", "backspace":
		if m.menu.Parent != nil {
			m.menu = m.menu.Parent
			m.menuCursor = 0
		}
	case "enter":
		if m.menuCursor >= len(items) {
			return m, nil
		}
		item := items[m.menuCursor]
		switch {
		case item.Submenu != nil:
			m.menu = item.Submenu
			m.menuCursor = 0
		case item.Action != nil:
			m.screen = screenLoading
			m.err = nil
			return m, item.Action()
		}
	}
	return m, nil
}

func (m Model) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.updateSearch(msg), nil
	}

	m.err = nil
	cols := m.tbl.Columns().Specs()
	view := m.tbl.View()

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "b":
		if m.menu != nil {
			m.screen = screenMenu
			m.tbl = nil
			return m, nil
		}
	case "/":
		m.searching = true
		m.input = view.Query
	case "left", "h":
		if m.colCursor > 0 {
			m.colCursor--
		}
	case "right", "l":
		if m.colCursor < len(cols)-1 {
			m.colCursor++
		}
	case "up", "k":
		if m.rowCursor > 0 {
			m.rowCursor--
		}
	case "down", "j":
		if m.rowCursor < len(view.Rows)-1 {
			m.rowCursor++
		}
	case "s":
		if m.colCursor < len(cols) {
			col := cols[m.colCursor]
			if !col.Sortable() {
				m.status = col.Label + " is not sortable"
				break
			}
			m.tbl.ClickSort(col.ID)
		}
	case "n":
		m.tbl.SetPage(view.CurrentPage + 1)
		m.rowCursor = 0
	case "p":
		m.tbl.SetPage(view.CurrentPage - 1)
		m.rowCursor = 0
	case " ":
		if m.rowCursor < len(view.VisibleIDs) {
			m.tbl.ToggleRow(view.VisibleIDs[m.rowCursor])
		}
	case "a":
		m.tbl.ToggleSelectAllVisible()
	case "x":
		m.tbl.ClearSelection()
	case "c":
		m.tbl.ClearAllFilters()
		m.rowCursor = 0
	}

	m.clampRow()
	return m, nil
}

// updateSearch edits the pending query. Enter applies it and esc drops it.
func (m Model) updateSearch(msg tea.KeyMsg) Model {
	switch msg.Type {
	case tea.KeyEnter:
		m.tbl.SetQuery(m.input)
		m.searching = false
		m.rowCursor = 0
	case tea.KeyEsc:
		m.searching = false
		m.input = ""
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	m.clampRow()
	return m
}

func (m *Model) clampRow() {
	n := len(m.tbl.View().Rows)
	if m.rowCursor >= n {
		m.rowCursor = n - 1
	}
	if m.rowCursor < 0 {
		m.rowCursor = 0
	}
}

// View renders the current screen.
func (m Model) View() string {
	var b strings.Builder

	switch m.screen {
	case screenMenu:
		m.viewMenu(&b)
	case screenLoading:
		b.WriteString(titleStyle.Render("Loading…") + "\n")
	case screenTable:
		m.viewTable(&b)
	}

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render("Error: "+core.FormatUserError(m.err)) + "\n")
	}
	return b.String()
}

func (m Model) viewMenu(b *strings.Builder) {
	if m.menu == nil {
		return
	}
	b.WriteString(titleStyle.Render(m.menu.Title) + "\n\n")
	for i, item := range m.menu.Items {
		line := "  " + item.Label
		if i == m.menuCursor {
			line = cursorStyle.Render("> " + item.Label)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("↑/↓ move · enter open · esc back · q quit") + "\n")
}

func (m Model) viewTable(b *strings.Builder) {
	view := m.tbl.View()
	cols := m.tbl.Columns().Specs()

	b.WriteString(titleStyle.Render(m.title) + "  " + statusStyle.Render(StatusLine(view)) + "\n")
	switch {
	case m.searching:
		b.WriteString("Search: " + m.input + "▏\n")
	case view.Query != "":
		b.WriteString(dimStyle.Render("Search: "+view.Query) + "\n")
	}
	b.WriteString("\n")

	widths := columnWidths(cols, view.Rows)

	// Header
	header := []string{selectMark(view)}
	for i, c := range cols {
		label := c.Label
		if ind := sortIndicator(view.Sort, c.ID); ind != "" {
			label += " " + ind
		}
		cell := pad(truncate(label, widths[i]), widths[i])
		if i == m.colCursor {
			cell = colCursorStyle.Render(cell)
		} else {
			cell = headerStyle.Render(cell)
		}
		header = append(header, cell)
	}
	b.WriteString(strings.Join(header, " ") + "\n")

	if len(view.Rows) == 0 {
		b.WriteString(dimStyle.Render("  No rows match.") + "\n")
	}
	for r, rec := range view.Rows {
		selected := m.tbl.State().Selection.IsSelected(view.VisibleIDs[r])
		mark := "[ ]"
		if selected {
			mark = "[x]"
		}

		cells := []string{mark}
		for i, c := range cols {
			cells = append(cells, pad(truncate(table.Stringify(c.Value(rec)), widths[i]), widths[i]))
		}
		line := strings.Join(cells, " ")
		switch {
		case r == m.rowCursor:
			line = cursorStyle.Render(line)
		case selected:
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	if m.status != "" {
		b.WriteString("\n" + statusStyle.Render(m.status) + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("/ search · ←/→ column · s sort · n/p page · space select · a all · x clear · c clear filters · q quit") + "\n")
}

// StatusLine summarizes the view: page, matching rows, selection and
// active filters.
func StatusLine(v table.View) string {
	parts := []string{
		fmt.Sprintf("Page %d/%d", v.CurrentPage, v.TotalPages),
		humanize.Comma(int64(v.TotalFilteredCount)) + " rows",
		humanize.Comma(int64(v.SelectedCount)) + " selected",
	}
	switch n := v.ActiveFilterCount; {
	case n == 1:
		parts = append(parts, "1 filter")
	case n > 1:
		parts = append(parts, fmt.Sprintf("%d filters", n))
	}
	return strings.Join(parts, " · ")
}

func selectMark(v table.View) string {
	switch {
	case v.AllVisibleSelected:
		return "[x]"
	case v.PartiallySelected:
		return "[-]"
	default:
		return "[ ]"
	}
}

func sortIndicator(s table.SortState, id string) string {
	if s.ColumnID != id {
		return ""
	}
	if s.Direction == table.Desc {
		return "▼"
	}
	return "▲"
}

// columnWidths sizes each column to its widest visible cell, capped at
// maxColWidth. Labels get two extra cells for the sort indicator.
func columnWidths(cols []table.ColumnSpec, rows []table.Record) []int {
	widths := make([]int, len(cols))
	for i, c := range cols {
		w := lipgloss.Width(c.Label) + 2
		for _, r := range rows {
			w = max(w, lipgloss.Width(table.Stringify(c.Value(r))))
		}
		widths[i] = min(w, maxColWidth)
	}
	return widths
}

func truncate(s string, w int) string {
	if lipgloss.Width(s) <= w {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > w {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

func pad(s string, w int) string {
	if gap := w - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
