package templates

import (
	"context"
	"io"
	"slices"
	"strconv"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"

	"github.com/JonMunkholm/talentdesk/internal/core"
	"github.com/JonMunkholm/talentdesk/internal/table"
)

// PageSizes are the page sizes offered by the pager.
var PageSizes = []int{10, 25, 50, 100}

// TablePage renders one session: search, column filters, the sortable
// header, selectable rows and the pager. Every control is a small form that
// posts an event back to the session URL.
func TablePage(v *core.SessionView) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		action := "/s/" + v.ID

		h.raw(`<div class="table-head"><h1>`)
		h.text(v.Table.Label)
		h.raw(`</h1><p class="muted">`)
		h.text(plural(v.View.TotalFilteredCount, "row", "rows"))
		if !v.LoadedAt.IsZero() {
			h.raw(` · loaded `)
			h.text(humanize.Time(v.LoadedAt))
		}
		h.raw(`</p></div>`)

		writeToolbar(h, v, action)
		writeFilters(h, v, action)
		writeGrid(h, v, action)
		writePager(h, v, action)
		return h.err
	})
	return Layout(v.Table.Label, body)
}

// eventForm opens a form that posts one event type.
func eventForm(h *htmlWriter, action string, ev core.EventType, class string) {
	h.raw(`<form method="post" action="`)
	h.text(action)
	h.raw(`" class="`)
	h.text(class)
	h.raw(`">`)
	h.hidden("type", string(ev))
}

func writeToolbar(h *htmlWriter, v *core.SessionView, action string) {
	h.raw(`<div class="toolbar">`)

	eventForm(h, action, core.EventSetQuery, "search")
	h.raw(`<input type="search" name="query" placeholder="Search" value="`)
	h.text(v.View.Query)
	h.raw(`"><button type="submit">Search</button></form>`)

	if n := v.View.ActiveFilterCount; n > 0 {
		eventForm(h, action, core.EventClearFilters, "inline")
		h.raw(`<span class="badge">`)
		h.text(FilterBadge(n))
		h.raw(`</span><button type="submit">Clear filters</button></form>`)
	}

	h.raw(`<span class="selection">`)
	h.text(count(v.View.SelectedCount) + " selected")
	h.raw(`</span>`)
	if v.View.SelectedCount > 0 {
		eventForm(h, action, core.EventClearSelection, "inline")
		h.raw(`<button type="submit">Clear selection</button></form>`)
		h.raw(`<a class="button" href="`)
		h.text(action)
		h.raw(`/export?scope=selected">Export selected</a>`)
	}
	h.raw(`<a class="button" href="`)
	h.text(action)
	h.raw(`/export?scope=filtered">Export all</a>`)

	eventForm(h, action, EventRefresh, "inline")
	h.raw(`<button type="submit">Refresh</button></form>`)
	h.raw(`</div>`)
}

// EventRefresh is the page-only action that reloads the session's records.
const EventRefresh core.EventType = "refresh"

// FilterBadge labels the active filter count.
func FilterBadge(n int) string {
	if n == 1 {
		return "1 filter"
	}
	return strconv.Itoa(n) + " filters"
}

func writeFilters(h *htmlWriter, v *core.SessionView, action string) {
	h.raw(`<details class="filters"`)
	if v.View.ActiveFilterCount > 0 {
		h.raw(` open`)
	}
	h.raw(`><summary>Filters</summary><div class="filter-grid">`)

	for _, col := range v.Columns {
		if !col.Filterable() {
			continue
		}
		current := v.View.Filters[col.ID]

		eventForm(h, action, core.EventSetFilter, "filter")
		h.hidden("column", col.ID)
		h.raw(`<label>`)
		h.text(col.Label)
		h.raw(`</label>`)

		switch col.Kind {
		case table.KindSelect:
			h.raw(`<select name="text"><option value="">Any</option>`)
			for _, opt := range col.Options {
				h.raw(`<option value="`)
				h.text(opt)
				h.raw(`"`)
				if opt == current.Text {
					h.raw(` selected`)
				}
				h.raw(`>`)
				h.text(opt)
				h.raw(`</option>`)
			}
			h.raw(`</select>`)

		case table.KindMultiSelect:
			for _, opt := range col.Options {
				h.raw(`<label class="check"><input type="checkbox" name="options" value="`)
				h.text(opt)
				h.raw(`"`)
				if slices.Contains(current.Options, opt) {
					h.raw(` checked`)
				}
				h.raw(`>`)
				h.text(opt)
				h.raw(`</label>`)
			}

		case table.KindRange:
			h.raw(`<input type="number" step="any" name="min" placeholder="Min" value="`)
			h.text(bound(current.Min))
			h.raw(`"><input type="number" step="any" name="max" placeholder="Max" value="`)
			h.text(bound(current.Max))
			h.raw(`">`)

		default:
			h.raw(`<input type="text" name="text" value="`)
			h.text(current.Text)
			h.raw(`">`)
		}

		h.raw(`<button type="submit">Apply</button></form>`)
		if !current.IsEmpty() {
			eventForm(h, action, core.EventClearFilter, "inline")
			h.hidden("column", col.ID)
			h.raw(`<button type="submit" title="Clear">×</button></form>`)
		}
	}
	h.raw(`</div></details>`)
}

func bound(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

// SortIndicator returns the arrow shown next to a column header.
func SortIndicator(s table.SortState, columnID string) string {
	if s.ColumnID != columnID {
		return ""
	}
	if s.Direction == table.Desc {
		return "▼"
	}
	return "▲"
}

// SelectAllState is the tri-state of the header checkbox: "checked",
// "mixed" or "unchecked".
func SelectAllState(view table.View) string {
	switch {
	case view.AllVisibleSelected:
		return "checked"
	case view.PartiallySelected:
		return "mixed"
	default:
		return "unchecked"
	}
}

func checkGlyph(state string) string {
	switch state {
	case "checked":
		return "☑"
	case "mixed":
		return "▣"
	default:
		return "☐"
	}
}

func writeGrid(h *htmlWriter, v *core.SessionView, action string) {
	h.raw(`<table class="grid"><thead><tr><th class="select">`)

	state := SelectAllState(v.View)
	eventForm(h, action, core.EventToggleAll, "inline")
	h.raw(`<button type="submit" role="checkbox" aria-label="Select all visible" aria-checked="`)
	switch state {
	case "checked":
		h.raw("true")
	case "mixed":
		h.raw("mixed")
	default:
		h.raw("false")
	}
	h.raw(`">`)
	h.text(checkGlyph(state))
	h.raw(`</button></form></th>`)

	for _, col := range v.Columns {
		h.raw(`<th>`)
		if col.Sortable() {
			eventForm(h, action, core.EventSort, "inline")
			h.hidden("column", col.ID)
			h.raw(`<button type="submit" class="sort">`)
			h.text(col.Label)
			if ind := SortIndicator(v.View.Sort, col.ID); ind != "" {
				h.raw(` <span class="indicator">`)
				h.text(ind)
				h.raw(`</span>`)
			}
			h.raw(`</button></form>`)
		} else {
			h.text(col.Label)
		}
		h.raw(`</th>`)
	}
	h.raw(`</tr></thead><tbody>`)

	if len(v.View.Rows) == 0 {
		h.rawf(`<tr><td colspan="%d" class="empty">No rows match.</td></tr>`, len(v.Columns)+1)
	}
	for i, r := range v.View.Rows {
		id := v.View.VisibleIDs[i]
		selected := v.IsSelected(id)

		h.raw(`<tr`)
		if selected {
			h.raw(` class="selected"`)
		}
		h.raw(`><td class="select">`)
		eventForm(h, action, core.EventToggleRow, "inline")
		h.hidden("row_id", id)
		h.raw(`<button type="submit" role="checkbox" aria-checked="`)
		h.raw(strconv.FormatBool(selected))
		h.raw(`">`)
		if selected {
			h.text(checkGlyph("checked"))
		} else {
			h.text(checkGlyph("unchecked"))
		}
		h.raw(`</button></form></td>`)

		for _, col := range v.Columns {
			h.raw(`<td>`)
			h.text(table.Stringify(col.Value(r)))
			h.raw(`</td>`)
		}
		h.raw(`</tr>`)
	}
	h.raw(`</tbody></table>`)
}

func writePager(h *htmlWriter, v *core.SessionView, action string) {
	page, total := v.View.CurrentPage, v.View.TotalPages
	h.raw(`<nav class="pager">`)

	if page > 1 {
		eventForm(h, action, core.EventSetPage, "inline")
		h.hidden("page", itoa(page-1))
		h.raw(`<button type="submit">‹ Prev</button></form>`)
	}
	h.raw(`<span>Page `)
	h.text(count(page))
	h.raw(` of `)
	h.text(count(total))
	h.raw(`</span>`)
	if page < total {
		eventForm(h, action, core.EventSetPage, "inline")
		h.hidden("page", itoa(page+1))
		h.raw(`<button type="submit">Next ›</button></form>`)
	}

	eventForm(h, action, core.EventSetPageSize, "inline")
	h.raw(`<select name="page_size">`)
	for _, n := range PageSizes {
		h.rawf(`<option value="%d"`, n)
		if n == v.View.PageSize {
			h.raw(` selected`)
		}
		h.rawf(`>%d per page</option>`, n)
	}
	h.raw(`</select><button type="submit">Set</button></form>`)
	h.raw(`</nav>`)
}
